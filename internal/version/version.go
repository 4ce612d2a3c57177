// Package version reports the build the taskgraph binary came from.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via -ldflags "-X ...". When unset, the values are taken
// from the VCS stamp the Go toolchain embeds in the binary.
var (
	Commit    = ""
	BuildTime = ""
)

// String returns the version line shown by --version.
func String() string {
	commit, built := Commit, BuildTime
	if commit == "" || built == "" {
		vcsCommit, vcsTime, modified := vcsStamp()
		if commit == "" {
			commit = vcsCommit
			if modified && commit != "" {
				commit += "+dirty"
			}
		}
		if built == "" {
			built = vcsTime
		}
	}
	return format(commit, built)
}

func format(commit, built string) string {
	if commit == "" {
		commit = "unknown"
	}
	if built == "" {
		built = "unknown"
	}
	return fmt.Sprintf("taskgraph dev (commit: %s, built: %s)", short(commit), built)
}

func vcsStamp() (revision, timestamp string, modified bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", "", false
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.time":
			timestamp = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	return revision, timestamp, modified
}

// short trims a full commit hash to seven characters, keeping any suffix.
func short(commit string) string {
	const n = 7
	hash, suffix := commit, ""
	if i := len(commit) - len("+dirty"); i > 0 && commit[i:] == "+dirty" {
		hash, suffix = commit[:i], "+dirty"
	}
	if len(hash) > n {
		hash = hash[:n]
	}
	return hash + suffix
}
