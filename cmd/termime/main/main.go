package main

import (
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/arthur-debert/termime/cmd/termime"
	"github.com/arthur-debert/termime/pkg/style"
)

func main() {
	rootCmd := termime.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// A child that exited non-zero already reported its own failure
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			if code := exitErr.ExitCode(); code > 0 {
				os.Exit(code)
			}
			os.Exit(1)
		}

		theme := style.Default(style.NewRenderer(os.Stderr))
		fmt.Fprintln(os.Stderr, theme.Render("Error", fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
