package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/termime/cmd/mimecat"
	"github.com/arthur-debert/termime/cmd/termime"
	"github.com/arthur-debert/termime/internal/version"
)

func main() {
	dir := "."
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	for _, root := range []struct {
		name string
		gen  func() error
	}{
		{"termime", func() error {
			return doc.GenManTree(termime.NewRootCmd(), header("TERMIME", "termime"), dir)
		}},
		{"mimecat", func() error {
			return doc.GenManTree(mimecat.NewRootCmd(), header("MIMECAT", "mimecat"), dir)
		}},
	} {
		if err := root.gen(); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating %s man pages: %v\n", root.name, err)
			os.Exit(1)
		}
	}
}

func header(title, program string) *doc.GenManHeader {
	return &doc.GenManHeader{
		Title:   title,
		Section: "1",
		Source:  program + " " + version.Version,
		Manual:  "termime manual",
	}
}
