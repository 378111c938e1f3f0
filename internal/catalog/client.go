package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ZebulonRouseFrantzich/jvman/internal/logging"
)

const (
	// DefaultTimeout bounds a single metadata request.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRetries is the number of extra attempts for metadata calls.
	DefaultMaxRetries = 3
)

// Client queries catalog metadata. Archive downloads do not go through it.
type Client struct {
	baseURL    string
	http       *http.Client
	userAgent  string
	maxRetries uint64
	log        logging.Logger
	newBackoff func() backoff.BackOff
}

// ClientOptions configures a Client. Zero values select defaults.
type ClientOptions struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
	MaxRetries int
	Logger     logging.Logger
}

// NewClient creates a metadata client.
func NewClient(opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "jvman/1.0"
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	} else if opts.MaxRetries == 0 {
		opts.MaxRetries = DefaultMaxRetries
	}

	return &Client{
		baseURL:    opts.BaseURL,
		http:       opts.HTTPClient,
		userAgent:  opts.UserAgent,
		maxRetries: uint64(opts.MaxRetries),
		log:        logging.OrNop(opts.Logger),
		newBackoff: defaultBackoff,
	}
}

func defaultBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = time.Minute
	return b
}

// Resolve builds the binary URL for q against the client's base URL.
func (c *Client) Resolve(q Query) (*Asset, error) {
	return resolve(c.baseURL, q)
}

// AvailableReleases lists the published feature versions.
func (c *Client) AvailableReleases(ctx context.Context) (*AvailableReleases, error) {
	var out AvailableReleases
	if err := c.getJSON(ctx, "/v3/info/available_releases", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// assetResponse mirrors the fields of /v3/assets/latest we use.
type assetResponse struct {
	ReleaseName string `json:"release_name"`
	Vendor      string `json:"vendor"`
	Binary      struct {
		Architecture string `json:"architecture"`
		OS           string `json:"os"`
		ImageType    string `json:"image_type"`
		JVMImpl      string `json:"jvm_impl"`
		HeapSize     string `json:"heap_size"`
		Package      struct {
			Name     string `json:"name"`
			Link     string `json:"link"`
			Size     int64  `json:"size"`
			Checksum string `json:"checksum"`
		} `json:"package"`
	} `json:"binary"`
	Version struct {
		OpenJDKVersion string `json:"openjdk_version"`
	} `json:"version"`
}

// Latest lists the newest builds matching q. Unlike Resolve it returns the
// direct archive links and sizes.
func (c *Client) Latest(ctx context.Context, q Query) ([]Release, error) {
	q = q.WithDefaults()
	if err := q.Validate(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("os", q.OS)
	params.Set("architecture", q.Arch)
	params.Set("image_type", q.ImageType)
	params.Set("vendor", q.Vendor)

	path := "/v3/assets/latest/" + strconv.Itoa(q.FeatureVersion) + "/" + q.JVMImpl

	var raw []assetResponse
	if err := c.getJSON(ctx, path, params, &raw); err != nil {
		return nil, err
	}

	releases := make([]Release, 0, len(raw))
	for _, a := range raw {
		if a.Binary.HeapSize != "" && a.Binary.HeapSize != q.HeapSize {
			continue
		}
		releases = append(releases, Release{
			Name:        a.ReleaseName,
			Vendor:      a.Vendor,
			Version:     a.Version.OpenJDKVersion,
			PackageName: a.Binary.Package.Name,
			Link:        a.Binary.Package.Link,
			Size:        a.Binary.Package.Size,
			Checksum:    a.Binary.Package.Checksum,
			OS:          a.Binary.OS,
			Arch:        a.Binary.Architecture,
			ImageType:   a.Binary.ImageType,
			JVMImpl:     a.Binary.JVMImpl,
			HeapSize:    a.Binary.HeapSize,
		})
	}
	return releases, nil
}

// statusError is returned for non-200 responses.
type statusError struct {
	code int
	url  string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("catalog request %s: unexpected status code: %d", e.url, e.code)
}

// getJSON fetches path and decodes the body into out. Network errors and 5xx
// responses are retried; anything else fails immediately.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	u = u.JoinPath(path)
	if params != nil {
		u.RawQuery = params.Encode()
	}
	target := u.String()

	attempt := 0
	operation := func() error {
		attempt++
		err := c.getOnce(ctx, target, out)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		if se, ok := err.(*statusError); ok && se.code < 500 {
			return backoff.Permanent(err)
		}
		c.log.Debug("catalog request failed", "url", target, "attempt", attempt, "error", err)
		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackoff(), c.maxRetries), ctx)
	return backoff.Retry(operation, b)
}

func (c *Client) getOnce(ctx context.Context, target string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &statusError{code: resp.StatusCode, url: target}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(fmt.Errorf("decode %s: %w", target, err))
	}
	return nil
}
