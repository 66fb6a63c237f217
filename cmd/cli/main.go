package main

import (
	"fmt"
	"os"

	"github.com/crucial707/job-board/cmd/cli/auth"
	_ "github.com/crucial707/job-board/cmd/cli/posts"
	"github.com/crucial707/job-board/cmd/cli/root"
)

func main() {
	auth.InitAuth(root.GetRoot())

	if err := root.GetRoot().Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
