package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/termime/cmd/mimecat"
	"github.com/arthur-debert/termime/pkg/style"
)

func main() {
	rootCmd := mimecat.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		theme := style.Default(style.NewRenderer(os.Stderr))
		fmt.Fprintln(os.Stderr, theme.Render("Error", fmt.Sprintf("mimecat: %v", err)))
		os.Exit(1)
	}
}
