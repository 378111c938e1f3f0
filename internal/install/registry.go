package install

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// RegistryFileName is the registry file inside the install directory.
const RegistryFileName = "installed.json"

// registryVersion is bumped when the file layout changes.
const registryVersion = 1

// Record describes one installed archive.
type Record struct {
	// Name identifies the install, normally the archive's top-level directory.
	Name string `json:"name"`
	// Release is the catalog query that produced the URL, if any.
	Release string `json:"release,omitempty"`
	URL     string `json:"url"`
	// Archive is where the downloaded archive was kept.
	Archive string `json:"archive"`
	// Entries are the top-level names merged into the install directory.
	Entries     []string  `json:"entries"`
	Size        int64     `json:"size"`
	InstalledAt time.Time `json:"installed_at"`
}

// Path returns the absolute location of the record's main entry.
func (r Record) Path(installDir string) string {
	if len(r.Entries) == 1 {
		return filepath.Join(installDir, r.Entries[0])
	}
	return installDir
}

// JavaHome returns the directory to use as JAVA_HOME. macOS bundles keep
// the JDK under Contents/Home.
func (r Record) JavaHome(installDir string) string {
	root := r.Path(installDir)
	bundle := filepath.Join(root, "Contents", "Home")
	if info, err := os.Stat(filepath.Join(bundle, "bin")); err == nil && info.IsDir() {
		return bundle
	}
	return root
}

type registryFile struct {
	Version int `json:"version"`
	// Default names the record activated by "jvman activate".
	Default string   `json:"default,omitempty"`
	Records []Record `json:"records"`
}

func (f *registryFile) find(name string) int {
	for i, r := range f.Records {
		if r.Name == name {
			return i
		}
	}
	return -1
}

// registry reads and writes installed.json. Callers hold the install lock.
type registry struct {
	path string
}

func newRegistry(installDir string) *registry {
	return &registry{path: filepath.Join(installDir, RegistryFileName)}
}

// load returns an empty registry when the file does not exist yet.
func (r *registry) load() (*registryFile, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &registryFile{Version: registryVersion}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}

	var f registryFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", r.path, err)
	}
	if f.Version > registryVersion {
		return nil, fmt.Errorf("registry %s has version %d, newer than supported %d", r.path, f.Version, registryVersion)
	}
	return &f, nil
}

// save writes f atomically via a temp file and rename.
func (r *registry) save(f *registryFile) error {
	f.Version = registryVersion
	sort.Slice(f.Records, func(i, j int) bool { return f.Records[i].Name < f.Records[j].Name })
	if f.Default != "" && f.find(f.Default) < 0 {
		f.Default = ""
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write registry: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace registry: %w", err)
	}
	return nil
}

// upsert replaces any record that shares a name or an entry with rec.
func upsert(records []Record, rec Record) []Record {
	owned := make(map[string]bool, len(rec.Entries))
	for _, e := range rec.Entries {
		owned[e] = true
	}

	out := records[:0]
	for _, existing := range records {
		if existing.Name == rec.Name || overlaps(existing.Entries, owned) {
			continue
		}
		out = append(out, existing)
	}
	return append(out, rec)
}

func overlaps(entries []string, owned map[string]bool) bool {
	for _, e := range entries {
		if owned[e] {
			return true
		}
	}
	return false
}
