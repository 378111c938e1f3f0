package extract

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ZebulonRouseFrantzich/jvman/internal/fault"
	"github.com/ZebulonRouseFrantzich/jvman/internal/logging"
)

func TestMergeStopsBetweenEntries(t *testing.T) {
	staging := t.TempDir()
	writeTree(t, staging, map[string]string{
		"a/file": "a",
		"b/file": "b",
		"c/file": "c",
	})
	dest := t.TempDir()

	calls := 0
	stop := func() bool {
		calls++
		return calls > 1
	}

	merged, err := merge(staging, dest, stop, logging.Nop())
	if !fault.Is(err, fault.Cancelled) {
		t.Fatalf("expected Cancelled, got %v", err)
	}
	if !reflect.DeepEqual(merged, []string{"a"}) {
		t.Errorf("merged = %v, want [a]", merged)
	}
	if _, err := os.Stat(filepath.Join(dest, "b")); !os.IsNotExist(err) {
		t.Errorf("b merged after stop: %v", err)
	}
}

func TestMergeReplacesFileWithDirectory(t *testing.T) {
	staging := t.TempDir()
	writeTree(t, staging, map[string]string{"conf/settings": "new"})
	dest := t.TempDir()
	writeTree(t, dest, map[string]string{"conf": "was a file"})

	if _, err := merge(staging, dest, func() bool { return false }, logging.Nop()); err != nil {
		t.Fatalf("merge: %v", err)
	}

	want := map[string]string{"conf/": "<dir>", "conf/settings": "new"}
	if got := listTree(t, dest); !reflect.DeepEqual(got, want) {
		t.Errorf("tree = %v, want %v", got, want)
	}
}

func TestCopyTree(t *testing.T) {
	src := filepath.Join(t.TempDir(), "jdk")
	writeTree(t, src, map[string]string{
		"bin/java":    "java",
		"lib/modules": "modules",
	})
	if err := os.Chmod(filepath.Join(src, "bin", "java"), 0755); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	if err := os.Symlink("modules", filepath.Join(src, "lib", "current")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	dst := filepath.Join(t.TempDir(), "copy")
	if err := copyTree(src, dst); err != nil {
		t.Fatalf("copyTree: %v", err)
	}

	info, err := os.Stat(filepath.Join(dst, "bin", "java"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0755 {
		t.Errorf("mode = %v, want 0755", info.Mode().Perm())
	}

	link, err := os.Readlink(filepath.Join(dst, "lib", "current"))
	if err != nil {
		t.Fatalf("readlink: %v", err)
	}
	if link != "modules" {
		t.Errorf("link = %q, want modules", link)
	}
}
