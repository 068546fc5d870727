// Package version reports build metadata for the binary.
package version

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

// Set with -ldflags "-X .../internal/version.Version=..." at build time.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

var (
	once sync.Once

	git            = runGit
	readBuildInfo  = debug.ReadBuildInfo
	gitTimeout     = 2 * time.Second
	shortCommitLen = 12
)

func resolve() {
	once.Do(func() {
		info, _ := readBuildInfo()
		if Version == "" {
			Version = moduleVersion(info)
		}
		if Commit == "" {
			Commit = vcsSetting(info, "vcs.revision")
		}
		if Date == "" {
			Date = vcsSetting(info, "vcs.time")
		}

		if Version == "" {
			Version = gitOr("dev", "describe", "--tags", "--abbrev=0")
			Version = strings.TrimPrefix(Version, "v")
		}
		if Commit == "" {
			Commit = gitOr("unknown", "rev-parse", "--short", "HEAD")
		}
		if len(Commit) > shortCommitLen {
			Commit = Commit[:shortCommitLen]
		}
		if Date == "" {
			Date = time.Now().Format(time.DateOnly)
		} else if t, err := time.Parse(time.RFC3339, Date); err == nil {
			Date = t.UTC().Format(time.DateOnly)
		}
	})
}

func moduleVersion(info *debug.BuildInfo) string {
	if info == nil || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return ""
	}
	return strings.TrimPrefix(info.Main.Version, "v")
}

func vcsSetting(info *debug.BuildInfo, key string) string {
	if info == nil {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

func gitOr(fallback string, args ...string) string {
	out, err := git(args...)
	if err != nil || out == "" {
		return fallback
	}
	return out
}

func runGit(args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), gitTimeout)
	defer cancel()

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.String()), nil
}

// Reset forgets resolved values so the next call resolves them again.
func Reset() {
	Version, Commit, Date = "", "", ""
	once = sync.Once{}
}

// GetVersion returns the version, e.g. "1.2.0" or "dev".
func GetVersion() string {
	resolve()
	return Version
}

// GetCommit returns the commit the binary was built from.
func GetCommit() string {
	resolve()
	return Commit
}

// GetDate returns the build date.
func GetDate() string {
	resolve()
	return Date
}

// Info returns a one-line description of the build.
func Info() string {
	resolve()
	return fmt.Sprintf("revenue-dashboard-tui %s (commit: %s, built: %s, %s/%s)",
		Version, Commit, Date, runtime.GOOS, runtime.GOARCH)
}
