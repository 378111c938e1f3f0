// Package install orchestrates downloading and extracting JDK archives into
// the jvman install directory and keeps a registry of what was installed.
package install

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/jvman/internal/catalog"
	"github.com/ZebulonRouseFrantzich/jvman/internal/config"
	"github.com/ZebulonRouseFrantzich/jvman/internal/download"
	"github.com/ZebulonRouseFrantzich/jvman/internal/events"
	"github.com/ZebulonRouseFrantzich/jvman/internal/extract"
	"github.com/ZebulonRouseFrantzich/jvman/internal/logging"
	"github.com/ZebulonRouseFrantzich/jvman/internal/platform"
)

var (
	// ErrNotInstalled is returned for names missing from the registry.
	ErrNotInstalled = errors.New("not installed")
	// ErrNoDefault is returned by Default when no JDK is selected.
	ErrNoDefault = errors.New("no default JDK selected")
)

// Options configures a Manager.
type Options struct {
	// Config is required.
	Config *config.Config
	// Bus receives worker events. Nil discards them.
	Bus events.Publisher
	// Logger receives progress and diagnostics. Nil means no logging.
	Logger logging.Logger
	// Clock stamps registry records. Nil means RealClock.
	Clock Clock
	// HTTPClient is used for archive downloads. Nil means download.DefaultClient().
	HTTPClient *http.Client
	// Catalog answers release queries. Nil builds one from Config.
	Catalog *catalog.Client
	// Platform fills OS and architecture in release queries. Nil means
	// platform.NewDetector().
	Platform platform.Detector
	// Extractors picks archive backends. Nil means extract.NewDetector().
	Extractors *extract.Detector
}

// Manager runs download and extraction workers on behalf of the CLI.
type Manager struct {
	cfg        *config.Config
	bus        events.Publisher
	log        logging.Logger
	clock      Clock
	httpClient *http.Client
	catalog    *catalog.Client
	platform   platform.Detector
	extractors *extract.Detector
}

type discard struct{}

func (discard) Publish(events.Event) {}

// NewManager creates a manager.
func NewManager(opts Options) (*Manager, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		cfg:        opts.Config,
		bus:        opts.Bus,
		log:        logging.OrNop(opts.Logger),
		clock:      opts.Clock,
		httpClient: opts.HTTPClient,
		catalog:    opts.Catalog,
		platform:   opts.Platform,
		extractors: opts.Extractors,
	}
	if m.bus == nil {
		m.bus = discard{}
	}
	if m.clock == nil {
		m.clock = RealClock{}
	}
	if m.catalog == nil {
		m.catalog = catalog.NewClient(catalog.ClientOptions{
			BaseURL:   opts.Config.Catalog.BaseURL,
			UserAgent: opts.Config.UserAgent,
			Logger:    m.log,
		})
	}
	if m.platform == nil {
		m.platform = platform.NewDetector()
	}
	if m.extractors == nil {
		m.extractors = extract.NewDetector()
	}
	return m, nil
}

// InstallDir returns the configured install directory.
func (m *Manager) InstallDir() string {
	return m.cfg.InstallDir
}

// Download fetches url into dir, or the configured download directory when
// dir is empty. Canceling ctx stops the worker.
func (m *Manager) Download(ctx context.Context, url, dir string) (download.State, error) {
	if dir == "" {
		dir = m.cfg.DownloadDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return download.State{}, fmt.Errorf("create download dir: %w", err)
	}

	opts := m.cfg.DownloadOptions()
	opts.Client = m.httpClient
	opts.Logger = m.log
	w := download.NewWorker(m.bus, opts)

	if err := runUntilDone(ctx, func() error { return w.Start(ctx, url, dir) }, w.Stop, w.Wait); err != nil {
		return download.State{}, err
	}

	st := w.State()
	return st, st.Err
}

// Extract unpacks archive into dest. Canceling ctx stops the worker.
func (m *Manager) Extract(ctx context.Context, archive, dest string) (extract.State, error) {
	w := extract.NewWorker(m.bus, extract.Options{
		Detector: m.extractors,
		Logger:   m.log,
	})

	if err := runUntilDone(ctx, func() error { return w.Start(ctx, archive, dest) }, w.Stop, w.Wait); err != nil {
		return extract.State{}, err
	}

	st := w.State()
	return st, st.Err
}

// runUntilDone starts a worker and blocks until its run returns, calling
// stop if ctx ends first.
func runUntilDone(ctx context.Context, start func() error, stop func(), wait func()) error {
	if err := start(); err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			stop()
		case <-done:
		}
	}()

	wait()
	close(done)
	return nil
}

// Install downloads url and extracts it into the install directory while
// holding the install lock, then records it in the registry.
func (m *Manager) Install(ctx context.Context, url string) (*Record, error) {
	return m.install(ctx, url, "")
}

// InstallRelease resolves q through the catalog and installs the result.
// Empty query fields come from the config, then from platform detection; a
// zero feature version selects the most recent LTS.
func (m *Manager) InstallRelease(ctx context.Context, q catalog.Query) (*Record, error) {
	asset, err := m.ResolveRelease(ctx, q)
	if err != nil {
		return nil, err
	}
	m.log.Info("resolved release", "query", asset.Query.String(), "url", asset.URL)
	return m.install(ctx, asset.URL, asset.Query.String())
}

// ResolveRelease completes q and builds its download URL.
func (m *Manager) ResolveRelease(ctx context.Context, q catalog.Query) (*catalog.Asset, error) {
	q, err := m.completeRelease(ctx, q)
	if err != nil {
		return nil, err
	}
	return m.catalog.Resolve(q)
}

// Latest completes q like ResolveRelease and lists the matching builds.
func (m *Manager) Latest(ctx context.Context, q catalog.Query) ([]catalog.Release, error) {
	q, err := m.completeRelease(ctx, q)
	if err != nil {
		return nil, err
	}
	return m.catalog.Latest(ctx, q)
}

// AvailableReleases lists the feature versions the catalog publishes.
func (m *Manager) AvailableReleases(ctx context.Context) (*catalog.AvailableReleases, error) {
	return m.catalog.AvailableReleases(ctx)
}

func (m *Manager) completeRelease(ctx context.Context, q catalog.Query) (catalog.Query, error) {
	q = m.completeQuery(q)

	if q.FeatureVersion == 0 {
		avail, err := m.catalog.AvailableReleases(ctx)
		if err != nil {
			return q, fmt.Errorf("look up latest LTS: %w", err)
		}
		q.FeatureVersion = avail.MostRecentLTS
	}

	if q.OS == "" || q.Arch == "" {
		info, err := m.platform.Detect(ctx)
		if err != nil {
			return q, err
		}
		return catalog.ForPlatform(q, info)
	}
	return q, nil
}

// completeQuery fills empty fields from the configured catalog defaults.
func (m *Manager) completeQuery(q catalog.Query) catalog.Query {
	d := m.cfg.Catalog.Query()
	if q.FeatureVersion == 0 {
		q.FeatureVersion = d.FeatureVersion
	}
	if q.ReleaseType == "" {
		q.ReleaseType = d.ReleaseType
	}
	if q.ImageType == "" {
		q.ImageType = d.ImageType
	}
	if q.JVMImpl == "" {
		q.JVMImpl = d.JVMImpl
	}
	if q.HeapSize == "" {
		q.HeapSize = d.HeapSize
	}
	if q.Vendor == "" {
		q.Vendor = d.Vendor
	}
	return q
}

func (m *Manager) install(ctx context.Context, url, release string) (*Record, error) {
	lock, err := AcquireLock(m.cfg.InstallDir, m.clock)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			m.log.Warn("release install lock", "error", err)
		}
	}()

	dl, err := m.Download(ctx, url, "")
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}

	ex, err := m.Extract(ctx, dl.FinalPath, m.cfg.InstallDir)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", dl.FinalPath, err)
	}

	rec := Record{
		Name:        recordName(dl.Filename, ex.Merged),
		Release:     release,
		URL:         url,
		Archive:     dl.FinalPath,
		Entries:     ex.Merged,
		Size:        dl.BytesWritten,
		InstalledAt: m.clock.Now().UTC(),
	}

	reg := newRegistry(m.cfg.InstallDir)
	f, err := reg.load()
	if err != nil {
		return nil, err
	}
	f.Records = upsert(f.Records, rec)
	if f.Default == "" || f.find(f.Default) < 0 {
		f.Default = rec.Name
	}
	if err := reg.save(f); err != nil {
		return nil, err
	}

	m.log.Info("installed", "name", rec.Name, "path", rec.Path(m.cfg.InstallDir))
	return &rec, nil
}

// recordName prefers the single top-level directory of the archive and
// falls back to the archive name without its extensions.
func recordName(archiveName string, entries []string) string {
	if len(entries) == 1 {
		return entries[0]
	}
	name := filepath.Base(archiveName)
	for _, ext := range []string{".gz", ".bz2", ".xz", ".tar", ".zip", ".7z", ".tgz"} {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}

// Installed lists registry records sorted by name.
func (m *Manager) Installed() ([]Record, error) {
	f, err := newRegistry(m.cfg.InstallDir).load()
	if err != nil {
		return nil, err
	}
	return f.Records, nil
}

// Find returns the record called name.
func (m *Manager) Find(name string) (*Record, error) {
	f, err := newRegistry(m.cfg.InstallDir).load()
	if err != nil {
		return nil, err
	}
	idx := f.find(name)
	if idx < 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNotInstalled)
	}
	return &f.Records[idx], nil
}

// Default returns the record activated by default. It returns
// ErrNoDefault when nothing is selected.
func (m *Manager) Default() (*Record, error) {
	f, err := newRegistry(m.cfg.InstallDir).load()
	if err != nil {
		return nil, err
	}
	idx := f.find(f.Default)
	if f.Default == "" || idx < 0 {
		return nil, ErrNoDefault
	}
	return &f.Records[idx], nil
}

// SetDefault selects name as the default record.
func (m *Manager) SetDefault(name string) (*Record, error) {
	lock, err := AcquireLock(m.cfg.InstallDir, m.clock)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	reg := newRegistry(m.cfg.InstallDir)
	f, err := reg.load()
	if err != nil {
		return nil, err
	}
	idx := f.find(name)
	if idx < 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNotInstalled)
	}
	f.Default = name
	if err := reg.save(f); err != nil {
		return nil, err
	}
	return &f.Records[idx], nil
}

// Uninstall removes the entries recorded for name and drops its record.
func (m *Manager) Uninstall(name string) (*Record, error) {
	lock, err := AcquireLock(m.cfg.InstallDir, m.clock)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	reg := newRegistry(m.cfg.InstallDir)
	f, err := reg.load()
	if err != nil {
		return nil, err
	}

	idx := f.find(name)
	if idx < 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNotInstalled)
	}
	rec := f.Records[idx]

	for _, entry := range rec.Entries {
		if entry == "" || entry != filepath.Base(entry) || entry == "." || entry == ".." {
			return nil, fmt.Errorf("registry entry %q is not a top-level name", entry)
		}
		target := filepath.Join(m.cfg.InstallDir, entry)
		m.log.Debug("removing", "path", target)
		if err := os.RemoveAll(target); err != nil {
			return nil, fmt.Errorf("remove %s: %w", target, err)
		}
	}

	f.Records = append(f.Records[:idx], f.Records[idx+1:]...)
	if err := reg.save(f); err != nil {
		return nil, err
	}

	m.log.Info("uninstalled", "name", rec.Name)
	return &rec, nil
}
