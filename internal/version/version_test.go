package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withBuild swaps the build variables for one test.
func withBuild(t *testing.T, version, commit, date string) {
	t.Helper()
	oldVersion, oldCommit, oldDate := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = version, commit, date
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = oldVersion, oldCommit, oldDate
	})
}

func TestReleaseNameFor(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{"0.1.0", "Obsidian"},
		{"0.1.7", "Obsidian"},
		{"0.2.0-rc.1", "Basalt"},
		{"0.2.0+12.abc1234", "Basalt"},
		{"1.0.3", "Onyx"},
		{"0.9.0", ""},
		{"not-a-version", ""},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			assert.Equal(t, tt.want, ReleaseNameFor(tt.version))
		})
	}
}

func TestGetInfo(t *testing.T) {
	withBuild(t, "0.1.2", "abcdef1234567", "2026-01-02")

	info, err := GetInfo()
	require.NoError(t, err)
	assert.Equal(t, "0.1.2", info.Version)
	assert.Equal(t, "Obsidian", info.ReleaseName)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
	require.NotNil(t, info.SemVer)
	assert.Equal(t, uint64(2), info.SemVer.Patch())
}

func TestGetInfo_InvalidVersion(t *testing.T) {
	withBuild(t, "banana", "unknown", "unknown")

	_, err := GetInfo()
	assert.Error(t, err)
	assert.Equal(t, "Onyx vbanana (invalid version)", GetFormattedVersion())
	assert.Equal(t, "banana", GetBaseVersion())
}

func TestGetFormattedVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		commit  string
		date    string
		want    string
	}{
		{"development build", "0.1.0", "unknown", "unknown", "Onyx v0.1.0 'Obsidian'"},
		{"release build", "0.2.1", "abcdef1234567", "2026-03-04", "Onyx v0.2.1 'Basalt', commit abcdef1, built 2026-03-04"},
		{"unnamed line", "0.9.0", "abc", "unknown", "Onyx v0.9.0, commit abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withBuild(t, tt.version, tt.commit, tt.date)
			assert.Equal(t, tt.want, GetFormattedVersion())
		})
	}
}

func TestGetDetailedVersion(t *testing.T) {
	withBuild(t, "0.1.0+42.abc1234", "abc1234", "2026-01-02")

	out := GetDetailedVersion()
	assert.True(t, strings.HasPrefix(out, "Onyx v0.1.0+42.abc1234\n"))
	assert.Contains(t, out, "Release: Obsidian")
	assert.Contains(t, out, "Build Metadata: 42.abc1234")
	assert.Contains(t, out, "Go Version: go")
	assert.Equal(t, "0.1.0", GetBaseVersion())
}

func TestBuildFlags(t *testing.T) {
	withBuild(t, "0.2.0-beta.1", "unknown", "2026-01-02")
	assert.True(t, IsPrerelease())
	assert.True(t, IsDevelopment())

	withBuild(t, "0.2.0", "abc", "2026-01-02")
	assert.False(t, IsPrerelease())
	assert.False(t, IsDevelopment())
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		v1, v2 string
		want   int
	}{
		{"0.1.0", "0.2.0", -1},
		{"1.0.0", "1.0.0", 0},
		{"1.0.1", "1.0.0", 1},
		{"1.0.0-rc.1", "1.0.0", -1},
	}
	for _, tt := range tests {
		got, err := CompareVersions(tt.v1, tt.v2)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s vs %s", tt.v1, tt.v2)
	}

	_, err := CompareVersions("x", "1.0.0")
	assert.Error(t, err)
	_, err = CompareVersions("1.0.0", "y")
	assert.Error(t, err)
}
