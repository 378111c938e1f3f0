package platform

import (
	"fmt"
	"strings"
)

var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian,
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
	"gentoo":   FamilyGentoo,
}

// catalogOS maps GOOS to catalog operating system names.
var catalogOS = map[string]string{
	"linux":   "linux",
	"darwin":  "mac",
	"windows": "windows",
	"solaris": "solaris",
	"aix":     "aix",
}

// catalogArch maps normalized GOARCH to catalog architecture names.
var catalogArch = map[string]string{
	"amd64":   "x64",
	"386":     "x32",
	"arm64":   "aarch64",
	"arm":     "arm",
	"ppc64":   "ppc64",
	"ppc64le": "ppc64le",
	"s390x":   "s390x",
	"riscv64": "riscv64",
}

// normalizeArch folds uname-style names into GOARCH names.
func normalizeArch(arch string) (string, error) {
	switch a := strings.ToLower(strings.TrimSpace(arch)); a {
	case "amd64", "x86_64", "x64":
		return "amd64", nil
	case "arm64", "aarch64":
		return "arm64", nil
	case "386", "i386", "i686", "x86", "x32":
		return "386", nil
	case "arm", "armv7", "armv7l":
		return "arm", nil
	case "ppc64", "ppc64le", "s390x", "riscv64":
		return a, nil
	default:
		return "", fmt.Errorf("unsupported architecture: %s", arch)
	}
}

func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

func mapFamily(family string) string {
	if canonical, ok := familyMap[normalizePlatform(family)]; ok {
		return canonical
	}
	return FamilyUnknown
}

// CatalogOS returns the catalog name for the host operating system.
func (i *Info) CatalogOS() (string, error) {
	if i.IsMusl() {
		return "alpine-linux", nil
	}
	name, ok := catalogOS[i.OS]
	if !ok {
		return "", fmt.Errorf("no JDK builds for operating system %q", i.OS)
	}
	return name, nil
}

// CatalogArch returns the catalog name for the host architecture.
func (i *Info) CatalogArch() (string, error) {
	name, ok := catalogArch[i.Arch]
	if !ok {
		return "", fmt.Errorf("no JDK builds for architecture %q", i.Arch)
	}
	return name, nil
}
