// Package version reports which ccmodifier build is running.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const unknown = "unknown"

// Release builds pin these with
// -ldflags "-X ccmodifier/internal/version.Version=0.3.1 -X ccmodifier/internal/version.Commit=..."
// Commit and BuildDate otherwise come from the VCS stamp of the go tool.
var (
	Version   = "0.3.0"
	Commit    = unknown
	BuildDate = unknown

	// Modified is set when the working tree had uncommitted changes at build time.
	Modified bool
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		applyBuildInfo(info)
	}
}

// applyBuildInfo copies vcs.* settings into the unset variables.
func applyBuildInfo(info *debug.BuildInfo) {
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == unknown {
				Commit = s.Value
			}
		case "vcs.time":
			if BuildDate == unknown {
				BuildDate = s.Value
			}
		case "vcs.modified":
			Modified = s.Value == "true"
		}
	}
}

// Info is the --version string: "0.3.0", or "0.3.0 (1a2b3c4)" once a full
// commit hash is known.
func Info() string {
	if Commit == unknown || len(Commit) <= 7 {
		return Version
	}
	rev := Commit[:7]
	if Modified {
		rev += "-dirty"
	}
	return Version + " (" + rev + ")"
}

// Full is printed by the version subcommand.
func Full() string {
	commit := Commit
	if Modified {
		commit += " (modified)"
	}
	return fmt.Sprintf("ccmodifier version %s\nCommit: %s\nBuilt: %s\nGo: %s",
		Version, commit, BuildDate, runtime.Version())
}
