package catalog

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ZebulonRouseFrantzich/jvman/internal/platform"
)

// ForPlatform fills empty OS and Arch fields from info.
func ForPlatform(q Query, info *platform.Info) (Query, error) {
	if info == nil {
		return q, fmt.Errorf("platform info is required")
	}
	if q.OS == "" {
		name, err := info.CatalogOS()
		if err != nil {
			return q, err
		}
		q.OS = name
	}
	if q.Arch == "" {
		name, err := info.CatalogArch()
		if err != nil {
			return q, err
		}
		q.Arch = name
	}
	return q, nil
}

// Resolve builds the binary URL for q against DefaultBaseURL.
func Resolve(q Query) (*Asset, error) {
	return resolve(DefaultBaseURL, q)
}

// resolve builds the latest-binary redirect URL:
// {base}/v3/binary/latest/{feature}/{release}/{os}/{arch}/{image}/{jvm}/{heap}/{vendor}
func resolve(baseURL string, q Query) (*Asset, error) {
	q = q.WithDefaults()
	if err := q.Validate(); err != nil {
		return nil, err
	}

	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	segments := []string{
		"v3", "binary", "latest",
		strconv.Itoa(q.FeatureVersion),
		q.ReleaseType,
		q.OS,
		q.Arch,
		q.ImageType,
		q.JVMImpl,
		q.HeapSize,
		q.Vendor,
	}

	return &Asset{
		Query: q,
		URL:   base.JoinPath(segments...).String(),
	}, nil
}
