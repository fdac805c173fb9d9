// Package version reports the Onyx build version. Version, GitCommit and BuildDate are
// injected with -ldflags at build time.
package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Build information that can be set at compile time via -ldflags
var (
	// Version is the semantic version of the application
	Version = "0.1.0"

	// GitCommit is the git commit hash when the binary was built
	GitCommit = "unknown"

	// BuildDate is the date when the binary was built
	BuildDate = "unknown"
)

// releaseNames maps minor release lines to their names.
var releaseNames = map[string]string{
	"0.1.0": "Obsidian",
	"0.2.0": "Basalt",
	"0.3.0": "Jet",
	"1.0.0": "Onyx",
}

// Info represents comprehensive version information
type Info struct {
	Version     string          `json:"version"`
	ReleaseName string          `json:"releaseName,omitempty"`
	GitCommit   string          `json:"gitCommit"`
	BuildDate   string          `json:"buildDate"`
	GoVersion   string          `json:"goVersion"`
	Platform    string          `json:"platform"`
	SemVer      *semver.Version `json:"-"`
}

// GetVersion returns the current version string
func GetVersion() string {
	return Version
}

// ReleaseNameFor returns the name of the release line a version belongs to.
// Patch, prerelease and build-metadata variants share their major.minor name.
func ReleaseNameFor(version string) string {
	if name, ok := releaseNames[version]; ok {
		return name
	}
	sv, err := semver.NewVersion(version)
	if err != nil {
		return ""
	}
	return releaseNames[fmt.Sprintf("%d.%d.0", sv.Major(), sv.Minor())]
}

// GetBaseVersion returns major.minor.patch without prerelease or build metadata.
func GetBaseVersion() string {
	sv, err := semver.NewVersion(Version)
	if err != nil {
		return Version
	}
	return fmt.Sprintf("%d.%d.%d", sv.Major(), sv.Minor(), sv.Patch())
}

// GetInfo returns comprehensive version information
func GetInfo() (*Info, error) {
	sv, err := semver.NewVersion(Version)
	if err != nil {
		return nil, fmt.Errorf("invalid semantic version '%s': %w", Version, err)
	}

	return &Info{
		Version:     Version,
		ReleaseName: ReleaseNameFor(Version),
		GitCommit:   GitCommit,
		BuildDate:   BuildDate,
		GoVersion:   runtime.Version(),
		Platform:    fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		SemVer:      sv,
	}, nil
}

// GetFormattedVersion returns the one-line version banner.
func GetFormattedVersion() string {
	info, err := GetInfo()
	if err != nil {
		return fmt.Sprintf("Onyx v%s (invalid version)", Version)
	}

	head := fmt.Sprintf("Onyx v%s", info.Version)
	if info.ReleaseName != "" {
		head = fmt.Sprintf("%s '%s'", head, info.ReleaseName)
	}
	parts := []string{head}

	if info.GitCommit != "unknown" && info.GitCommit != "" {
		shortCommit := info.GitCommit
		if len(shortCommit) > 7 {
			shortCommit = shortCommit[:7]
		}
		parts = append(parts, fmt.Sprintf("commit %s", shortCommit))
	}

	if info.BuildDate != "unknown" && info.BuildDate != "" {
		parts = append(parts, fmt.Sprintf("built %s", info.BuildDate))
	}

	return strings.Join(parts, ", ")
}

// GetDetailedVersion returns detailed version information for bug reports.
func GetDetailedVersion() string {
	info, err := GetInfo()
	if err != nil {
		return fmt.Sprintf("Onyx v%s (error: %v)", Version, err)
	}

	lines := []string{fmt.Sprintf("Onyx v%s", info.Version)}
	if info.ReleaseName != "" {
		lines = append(lines, fmt.Sprintf("Release: %s", info.ReleaseName))
	}
	lines = append(lines,
		fmt.Sprintf("Git Commit: %s", info.GitCommit),
		fmt.Sprintf("Build Date: %s", info.BuildDate),
	)
	if meta := info.SemVer.Metadata(); meta != "" {
		lines = append(lines, fmt.Sprintf("Build Metadata: %s", meta))
	}
	lines = append(lines,
		fmt.Sprintf("Go Version: %s", info.GoVersion),
		fmt.Sprintf("Platform: %s", info.Platform),
	)

	return strings.Join(lines, "\n")
}

// IsPrerelease returns true if the current version is a prerelease
func IsPrerelease() bool {
	sv, err := semver.NewVersion(Version)
	if err != nil {
		return false
	}
	return sv.Prerelease() != ""
}

// IsDevelopment returns true if this appears to be a development build
func IsDevelopment() bool {
	return GitCommit == "unknown" || BuildDate == "unknown"
}

// CompareVersions compares two version strings and returns:
// -1 if v1 < v2, 0 if v1 == v2, 1 if v1 > v2
func CompareVersions(v1, v2 string) (int, error) {
	sv1, err := semver.NewVersion(v1)
	if err != nil {
		return 0, fmt.Errorf("invalid version v1 '%s': %w", v1, err)
	}

	sv2, err := semver.NewVersion(v2)
	if err != nil {
		return 0, fmt.Errorf("invalid version v2 '%s': %w", v2, err)
	}

	return sv1.Compare(sv2), nil
}
