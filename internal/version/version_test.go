package version

import (
	"errors"
	"runtime/debug"
	"strings"
	"testing"
)

func stub(t *testing.T, info *debug.BuildInfo, gitOut map[string]string) {
	t.Helper()
	origGit, origInfo := git, readBuildInfo
	t.Cleanup(func() {
		git, readBuildInfo = origGit, origInfo
		Reset()
	})

	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, info != nil }
	git = func(args ...string) (string, error) {
		out, ok := gitOut[args[0]]
		if !ok {
			return "", errors.New("git unavailable")
		}
		return out, nil
	}
	Reset()
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		info       *debug.BuildInfo
		git        map[string]string
		wantVer    string
		wantCommit string
		wantDate   string
	}{
		{
			name: "BuildInfo",
			info: &debug.BuildInfo{
				Main: debug.Module{Version: "v1.4.0"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "0123456789abcdef0123"},
					{Key: "vcs.time", Value: "2024-03-05T10:00:00Z"},
				},
			},
			wantVer:    "1.4.0",
			wantCommit: "0123456789ab",
			wantDate:   "2024-03-05",
		},
		{
			name:       "DevelFallsBackToGit",
			info:       &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			git:        map[string]string{"describe": "v0.9.1", "rev-parse": "abc1234"},
			wantVer:    "0.9.1",
			wantCommit: "abc1234",
		},
		{
			name:       "NothingAvailable",
			wantVer:    "dev",
			wantCommit: "unknown",
		},
		{
			name:       "EmptyTag",
			git:        map[string]string{"describe": "", "rev-parse": "abc1234"},
			wantVer:    "dev",
			wantCommit: "abc1234",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub(t, tt.info, tt.git)

			if got := GetVersion(); got != tt.wantVer {
				t.Errorf("GetVersion() = %v, want %v", got, tt.wantVer)
			}
			if got := GetCommit(); got != tt.wantCommit {
				t.Errorf("GetCommit() = %v, want %v", got, tt.wantCommit)
			}
			if tt.wantDate != "" && GetDate() != tt.wantDate {
				t.Errorf("GetDate() = %v, want %v", GetDate(), tt.wantDate)
			}
			if GetDate() == "" {
				t.Error("GetDate() returned empty string")
			}
			if info := Info(); !strings.HasPrefix(info, "revenue-dashboard-tui "+tt.wantVer+" ") {
				t.Errorf("Info() = %q, want version %s", info, tt.wantVer)
			}
		})
	}
}

func TestLdflagsWin(t *testing.T) {
	stub(t, &debug.BuildInfo{Main: debug.Module{Version: "v1.0.0"}}, nil)
	Version, Commit, Date = "9.9.9", "abc123", "2026-01-01"

	if got := GetVersion(); got != "9.9.9" {
		t.Errorf("GetVersion() = %v, want 9.9.9", got)
	}
	if got := GetCommit(); got != "abc123" {
		t.Errorf("GetCommit() = %v, want abc123", got)
	}
	if got := GetDate(); got != "2026-01-01" {
		t.Errorf("GetDate() = %v, want 2026-01-01", got)
	}
}
