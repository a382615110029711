package main

import "github.com/openclaw/qianne/cmd"

func main() {
	cmd.Execute()
}
