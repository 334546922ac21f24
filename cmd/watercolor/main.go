package main

import (
	"fmt"
	"os"

	"github.com/teranos/watercolor/cmd/watercolor/commands"
	"github.com/teranos/watercolor/logger"
)

func main() {
	defer logger.Cleanup()
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
