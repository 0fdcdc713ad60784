package main

import (
	"fmt"
	"os"

	"gridjump/internal/cli"
)

// Version устанавливается при сборке
var Version = "dev"

func main() {
	if err := cli.NewRootCommand(Version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
