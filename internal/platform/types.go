// Package platform detects the host OS, CPU architecture and Linux
// distribution, and maps them onto the names the JDK catalog uses.
//
// Detection uses gopsutil for distribution details and falls back to plain
// OS/arch information when that fails. The result is also exposed to the
// Lua configuration as a read-only global table named "platform".
package platform

import "context"

// Linux distribution families.
const (
	FamilyDebian  = "debian"
	FamilyRHEL    = "rhel"
	FamilyFedora  = "fedora"
	FamilySUSE    = "suse"
	FamilyArch    = "arch"
	FamilyAlpine  = "alpine"
	FamilyGentoo  = "gentoo"
	FamilyUnknown = "unknown"
)

// Info describes the host.
type Info struct {
	OS       string // GOOS, e.g. "linux", "darwin", "windows"
	Arch     string // normalized GOARCH, e.g. "amd64", "arm64", "386"
	ArchRaw  string // GOARCH as reported by the runtime
	Platform string // distro ID (Linux only), e.g. "ubuntu"
	Family   string // distro family (Linux only), e.g. "debian"
	Version  string // distro version (Linux only), e.g. "22.04"
}

// Distro contains Linux distribution information.
type Distro struct {
	ID      string
	Family  string
	Version string
}

// GetDistro returns nil on non-Linux hosts or when distro detection failed.
func (i *Info) GetDistro() *Distro {
	if i.OS != "linux" || i.Platform == "" {
		return nil
	}
	return &Distro{
		ID:      i.Platform,
		Family:  i.Family,
		Version: i.Version,
	}
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// IsWindows returns true if the platform is Windows.
func (i *Info) IsWindows() bool {
	return i.OS == "windows"
}

// IsMusl reports whether the host is a musl-based Linux, which needs the
// catalog's alpine-linux builds instead of the glibc ones.
func (i *Info) IsMusl() bool {
	return i.OS == "linux" && i.Family == FamilyAlpine
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}

// StaticDetector returns a fixed Info. Useful for tests and for overriding
// detection from the command line.
type StaticDetector struct {
	Info *Info
}

// Detect returns a copy of the configured Info.
func (d StaticDetector) Detect(ctx context.Context) (*Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info := *d.Info
	return &info, nil
}
