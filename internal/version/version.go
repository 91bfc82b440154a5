// Package version carries the build metadata stamped in by the linker:
//
//	go build -ldflags "-X github.com/smazurov/audiohal/internal/version.Version=v1.2.0 \
//	    -X github.com/smazurov/audiohal/internal/version.GitCommit=$(git rev-parse HEAD)"
package version

import (
	"runtime"
	"strings"
)

const devVersion = "dev"

// Linker-stamped values.
var (
	Version   = devVersion
	GitCommit = "unknown"
	BuildDate = "unknown"
	BuildID   = "unknown"
)

// Info is a snapshot of the build metadata plus the toolchain it was built with.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	BuildID   string `json:"build_id"`
	GoVersion string `json:"go_version"`
	Compiler  string `json:"compiler"`
	Platform  string `json:"platform"`
}

// Get returns the current build's Info.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		BuildID:   BuildID,
		GoVersion: runtime.Version(),
		Compiler:  runtime.Compiler,
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String renders the line printed by `audiohal --version`, e.g.
// "v1.2.0 (3f2a9c1, 2026-05-01) linux/arm64".
func (i Info) String() string {
	var b strings.Builder
	b.WriteString(i.Version)
	if commit := ShortCommit(i.GitCommit); commit != "" {
		b.WriteString(" (" + commit)
		if i.BuildDate != "" && i.BuildDate != "unknown" {
			b.WriteString(", " + i.BuildDate)
		}
		b.WriteString(")")
	}
	b.WriteString(" " + i.Platform)
	return b.String()
}

// IsDev reports whether v is an unreleased build. Dev builds always see
// the latest release as an upgrade.
func IsDev(v string) bool {
	return v == "" || v == devVersion || strings.HasSuffix(v, "-dirty")
}

// ShortCommit trims a hash to 7 characters and drops placeholders.
func ShortCommit(commit string) string {
	if commit == "" || commit == "unknown" {
		return ""
	}
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
