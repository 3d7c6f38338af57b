package version

import "fmt"

// Build information set by ldflags
var (
	Version = "dev"     // Set by goreleaser: -X github.com/arthur-debert/termime/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/arthur-debert/termime/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/arthur-debert/termime/internal/version.Date={{.Date}}
)

// String formats the build information for "version" output
func String(program string) string {
	return fmt.Sprintf("%s version %s\n  commit: %s\n  built:  %s\n", program, Version, Commit, Date)
}
