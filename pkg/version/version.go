package version

import "fmt"

// Injected at build time via -ldflags "-X photoshare/pkg/version.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info represents version information for a binary
type Info struct {
	Component string `json:"component,omitempty"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
}

// GetInfo returns version information for the named component.
func GetInfo(component string) Info {
	return Info{
		Component: component,
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
	}
}

// String renders the one-line banner printed by `photoshare version` and the gateway at startup.
func (i Info) String() string {
	name := i.Component
	if name == "" {
		name = "photoshare"
	}
	return fmt.Sprintf("%s %s (commit %s, built %s)", name, i.Version, shortCommit(i.GitCommit), i.BuildDate)
}

// GetShortCommit returns the short git commit hash (first 7 characters)
func GetShortCommit() string {
	return shortCommit(GitCommit)
}

func shortCommit(c string) string {
	if len(c) >= 7 {
		return c[:7]
	}
	return c
}
