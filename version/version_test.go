package version

import (
	"strings"
	"testing"
)

func restore() func() {
	v, c, b := Version, GitCommit, BuildTime
	return func() { Version, GitCommit, BuildTime = v, c, b }
}

func TestGet_Dev(t *testing.T) {
	defer restore()()
	Version, GitCommit, BuildTime = "dev", "", ""

	info := Get()
	if info.Version != "dev" || info.IsRelease {
		t.Errorf("unexpected info: %+v", info)
	}
}

func TestGet_Stamped(t *testing.T) {
	defer restore()()
	Version, GitCommit, BuildTime = "1.4.0", "abc1234def", "2026-01-15T10:30:00Z"

	info := Get()
	if !info.IsRelease {
		t.Error("1.4.0 should be a release")
	}
	if info.GitCommit != "abc1234" {
		t.Errorf("commit should be shortened, got %q", info.GitCommit)
	}
	if info.BuildTime != "2026-01-15T10:30:00Z" {
		t.Errorf("unexpected build time %q", info.BuildTime)
	}
}

func TestGet_DirtyIsNotRelease(t *testing.T) {
	defer restore()()
	Version = "1.4.0-dirty"
	if Get().IsRelease {
		t.Error("dirty build should not be a release")
	}
}

func TestShort(t *testing.T) {
	defer restore()()
	Version, GitCommit = "2.0.0", "feedbee"
	if s := Short(); !strings.HasPrefix(s, "2.0.0-feedbee") {
		t.Errorf("unexpected short version %q", s)
	}
}
