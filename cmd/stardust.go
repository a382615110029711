package cmd

import (
	"context"
	"fmt"

	"github.com/openclaw/qianne/internal/api"
	"github.com/openclaw/qianne/internal/cli"

	"github.com/spf13/cobra"
)

var flagOrbit string

var stardustCmd = &cobra.Command{
	Use:   "stardust",
	Short: "Experimental: categories as planets, transactions as stardust",
	Args:  cobra.NoArgs,
	RunE:  runStardust,
}

func init() {
	stardustCmd.Flags().StringVar(&flagOrbit, "orbit", "", "List the transactions of one category")
	rootCmd.AddCommand(stardustCmd)
}

func runStardust(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(ctx context.Context, a *app) error {
		if err := a.dash.FetchStardust(ctx); err != nil {
			return err
		}
		data := a.dash.Snapshot().Stardust
		if data == nil || len(data.Planets()) == 0 {
			printHeader("消费星辰")
			fmt.Println("  没有可显示的分类。")
			return nil
		}

		if flagOrbit != "" {
			orbit := data.Orbit(flagOrbit)
			printHeader(fmt.Sprintf("%s 的星尘 (%d 笔)", flagOrbit, len(orbit)))
			if len(orbit) == 0 {
				fmt.Println("  这个分类没有交易。")
				return nil
			}
			fmt.Print(cli.RenderTable(orbitTable(orbit)))
			return nil
		}

		printHeader("消费星辰 (实验)")
		fmt.Print(cli.RenderTable(planetTable(*data)))
		fmt.Println(cli.MutedStyle().Render("  使用 --orbit <分类> 查看该分类的交易"))
		return nil
	})
}

func planetTable(data api.StardustData) cli.Table {
	planets := data.Planets()
	rows := make([][]string, len(planets))
	for i, p := range planets {
		rows[i] = []string{
			p.Name,
			cli.FormatCurrency(p.Value),
			cli.FormatCount(int64(len(data.Orbit(p.Category)))),
			cli.FormatNumber(p.SymbolSize, 0),
		}
	}
	return cli.Table{Headers: []string{"行星", "总额", "星尘", "大小"}, Rows: rows}
}

func orbitTable(orbit []api.StardustNode) cli.Table {
	rows := make([][]string, len(orbit))
	for i, n := range orbit {
		rows[i] = []string{n.Name, cli.FormatCurrency(n.Value)}
	}
	return cli.Table{Headers: []string{"交易", "金额"}, Rows: rows}
}
