// Package catalog resolves JDK build queries against the Adoptium API.
//
// A Query names one build (feature version, release type, OS, architecture,
// image type, JVM implementation, heap size and vendor). Resolve turns it
// into the redirecting binary URL that the download worker fetches; the
// Client answers metadata questions such as which feature versions exist.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DefaultBaseURL is the public Adoptium API.
const DefaultBaseURL = "https://api.adoptium.net"

// Query defaults.
const (
	DefaultReleaseType = "ga"
	DefaultImageType   = "jdk"
	DefaultJVMImpl     = "hotspot"
	DefaultHeapSize    = "normal"
	DefaultVendor      = "eclipse"
)

// ErrInvalidQuery is wrapped by every query validation error.
var ErrInvalidQuery = errors.New("invalid catalog query")

var (
	validReleaseTypes = set("ga", "ea")
	validImageTypes   = set("jdk", "jre", "testimage", "debugimage", "staticlibs", "sources", "sbom")
	validJVMImpls     = set("hotspot", "openj9")
	validHeapSizes    = set("normal", "large")
	validVendors      = set("eclipse", "adoptium", "openjdk", "alibaba", "ibm")
	validOS           = set("linux", "windows", "mac", "solaris", "aix", "alpine-linux")
	validArchs        = set("x64", "x32", "ppc64", "ppc64le", "s390x", "aarch64", "arm", "sparcv9", "riscv64")
)

func set(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

// Query selects one JDK build.
type Query struct {
	FeatureVersion int
	ReleaseType    string
	ImageType      string
	JVMImpl        string
	HeapSize       string
	Vendor         string
	OS             string
	Arch           string
}

// WithDefaults returns q with empty fields set to their defaults. OS and
// Arch have no default; fill them from platform detection.
func (q Query) WithDefaults() Query {
	if q.ReleaseType == "" {
		q.ReleaseType = DefaultReleaseType
	}
	if q.ImageType == "" {
		q.ImageType = DefaultImageType
	}
	if q.JVMImpl == "" {
		q.JVMImpl = DefaultJVMImpl
	}
	if q.HeapSize == "" {
		q.HeapSize = DefaultHeapSize
	}
	if q.Vendor == "" {
		q.Vendor = DefaultVendor
	}
	return q
}

// Validate checks every field against the values the catalog accepts.
func (q Query) Validate() error {
	if q.FeatureVersion < 8 {
		return fmt.Errorf("%w: feature version %d (must be 8 or later)", ErrInvalidQuery, q.FeatureVersion)
	}

	fields := []struct {
		name  string
		value string
		valid map[string]bool
	}{
		{"release type", q.ReleaseType, validReleaseTypes},
		{"image type", q.ImageType, validImageTypes},
		{"jvm implementation", q.JVMImpl, validJVMImpls},
		{"heap size", q.HeapSize, validHeapSizes},
		{"vendor", q.Vendor, validVendors},
		{"os", q.OS, validOS},
		{"architecture", q.Arch, validArchs},
	}
	for _, f := range fields {
		if !f.valid[f.value] {
			return fmt.Errorf("%w: %s %q (valid: %s)", ErrInvalidQuery, f.name, f.value, keys(f.valid))
		}
	}
	return nil
}

// String renders q the way the CLI prints it.
func (q Query) String() string {
	return fmt.Sprintf("%s %d (%s, %s/%s, %s, %s heap, %s)",
		q.ImageType, q.FeatureVersion, q.ReleaseType, q.OS, q.Arch, q.JVMImpl, q.HeapSize, q.Vendor)
}

func keys(m map[string]bool) string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}

// Asset is a resolved download location.
type Asset struct {
	Query Query
	URL   string
}

// Release describes one published build.
type Release struct {
	Name        string // e.g. "jdk-21.0.5+11"
	Vendor      string
	Version     string // OpenJDK version string, e.g. "21.0.5+11-LTS"
	PackageName string // archive file name
	Link        string // direct archive URL
	Size        int64
	Checksum    string
	OS          string
	Arch        string
	ImageType   string
	JVMImpl     string
	HeapSize    string
}

// AvailableReleases lists the feature versions the catalog publishes.
type AvailableReleases struct {
	Releases          []int `json:"available_releases"`
	LTSReleases       []int `json:"available_lts_releases"`
	MostRecentLTS     int   `json:"most_recent_lts"`
	MostRecentFeature int   `json:"most_recent_feature_release"`
}
