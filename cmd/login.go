package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/openclaw/qianne/internal/cli"
	"github.com/openclaw/qianne/internal/router"
	"github.com/openclaw/qianne/internal/session"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	flagUsername      string
	flagPasswordStdin bool
	flagToken         string
	flagTicket        string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token",
	Long: "Sign in with a username and password (prompted when not given),\n" +
		"an existing access token, or a one-time login ticket.",
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVarP(&flagUsername, "username", "u", "", "Username")
	loginCmd.Flags().BoolVar(&flagPasswordStdin, "password-stdin", false, "Read the password from stdin")
	loginCmd.Flags().StringVar(&flagToken, "token", "", "Use an existing access token")
	loginCmd.Flags().StringVar(&flagTicket, "ticket", "", "Redeem a one-time login ticket")
	loginCmd.MarkFlagsMutuallyExclusive("token", "ticket", "username")
	loginCmd.MarkFlagsMutuallyExclusive("token", "ticket", "password-stdin")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	switch {
	case flagToken != "":
		err = a.auth.CommitToken(ctx, strings.TrimSpace(flagToken))
	case flagTicket != "":
		_, err = a.auth.LoginWithTicket(ctx, strings.TrimSpace(flagTicket))
	default:
		var username, password string
		username, password, err = credentials(cmd.InOrStdin())
		if err != nil {
			return err
		}
		_, err = a.auth.Login(ctx, username, password)
	}
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	// CommitToken logs out again when the profile fetch fails.
	u := a.auth.User()
	if u == nil || !a.auth.IsAuthenticated() {
		return errors.New("login failed: could not load the user profile")
	}
	fmt.Printf("\n  Logged in as %s\n\n", cli.AmountStyle().Render(u.DisplayName()))
	return nil
}

// credentials resolves the username and password from flags, stdin, or an
// interactive form.
func credentials(stdin io.Reader) (string, string, error) {
	username := strings.TrimSpace(flagUsername)
	var password string

	if flagPasswordStdin {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", "", fmt.Errorf("reading password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	if username != "" && password != "" {
		return username, password, nil
	}

	if stdinIsPiped() {
		return "", "", errors.New("no terminal for the login prompt; use -u and --password-stdin")
	}

	var fields []huh.Field
	if username == "" {
		fields = append(fields, huh.NewInput().Title("用户名").Value(&username).Validate(notBlank("用户名")))
	}
	if password == "" {
		fields = append(fields, huh.NewInput().Title("密码").EchoMode(huh.EchoModePassword).Value(&password).Validate(notBlank("密码")))
	}
	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", "", errors.New("login canceled")
		}
		return "", "", err
	}
	return strings.TrimSpace(username), password, nil
}

func notBlank(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(name + "不能为空")
		}
		return nil
	}
}

func runLogout(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.auth.IsAuthenticated() {
		fmt.Println("\n  Not logged in.")
		return nil
	}
	a.auth.Logout(ctx)
	fmt.Println("\n  Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(ctx context.Context, a *app) error {
		a.auth.FetchUser(ctx)
		u := a.auth.User()
		if u == nil {
			return errors.New(`Session expired. Run "qianne login".`)
		}

		pairs := [][2]string{
			{"用户名", u.Username},
			{"显示名", u.DisplayName()},
		}
		if u.Email != "" {
			pairs = append(pairs, [2]string{"邮箱", u.Email})
		}
		if u.CreatedAt != "" {
			pairs = append(pairs, [2]string{"注册于", cli.FormatDate(u.CreatedAt)})
		}
		pairs = append(pairs, [2]string{"服务器", a.client.BaseURL()})

		if claims, err := a.session.Claims(); err == nil && !claims.ExpiresAt.IsZero() {
			pairs = append(pairs, [2]string{"令牌到期", tokenExpiry(claims, time.Now())})
		} else if err != nil {
			a.log.Debug().Err(err).Msg("token is not a readable JWT")
		}

		fmt.Println()
		fmt.Println(cli.RenderTitle(router.AppName + "  当前用户"))
		fmt.Println()
		fmt.Print(cli.RenderKeyValues(pairs))
		fmt.Println()
		return nil
	})
}

// tokenExpiry renders the expiry time with the time left, or "(expired)".
func tokenExpiry(c session.Claims, now time.Time) string {
	exp := c.ExpiresAt.Local().Format("2006-01-02 15:04")
	if c.Expired(now) {
		return exp + " (expired)"
	}
	left := int64(c.ExpiresAt.Sub(now).Seconds())
	return exp + " (" + cli.FormatDuration(left) + " left)"
}

// stdinIsPiped reports whether stdin is not a terminal.
func stdinIsPiped() bool {
	fi, err := os.Stdin.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice == 0
}
