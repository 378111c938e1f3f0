package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ZebulonRouseFrantzich/jvman/internal/catalog"
)

// queryFlags selects a catalog build. Unset fields fall back to the config
// and then to platform detection.
type queryFlags struct {
	releaseType string
	imageType   string
	jvmImpl     string
	heapSize    string
	vendor      string
	os          string
	arch        string
}

func (f *queryFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.releaseType, "release-type", "", "ga or ea")
	fs.StringVar(&f.imageType, "image", "", "image type (jdk, jre, ...)")
	fs.StringVar(&f.jvmImpl, "jvm", "", "JVM implementation (hotspot, openj9)")
	fs.StringVar(&f.heapSize, "heap", "", "heap size (normal, large)")
	fs.StringVar(&f.vendor, "vendor", "", "build vendor")
	fs.StringVar(&f.os, "os", "", "catalog OS name (default: detected)")
	fs.StringVar(&f.arch, "arch", "", "catalog architecture name (default: detected)")
}

// query builds a catalog query. args holds at most one feature version.
func (f *queryFlags) query(args []string) (catalog.Query, error) {
	q := catalog.Query{
		ReleaseType: f.releaseType,
		ImageType:   f.imageType,
		JVMImpl:     f.jvmImpl,
		HeapSize:    f.heapSize,
		Vendor:      f.vendor,
		OS:          f.os,
		Arch:        f.arch,
	}
	if len(args) > 0 {
		v, err := parseFeatureVersion(args[0])
		if err != nil {
			return q, err
		}
		q.FeatureVersion = v
	}
	return q, nil
}

// parseFeatureVersion accepts "21", "jdk21" and "jdk-21".
func parseFeatureVersion(s string) (int, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(s), "jdk"), "-")
	v, err := strconv.Atoi(trimmed)
	if err != nil || v < 8 {
		return 0, fmt.Errorf("invalid feature version %q (expected a number such as 21)", s)
	}
	return v, nil
}
