package drift

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// Detect checks the current environment against baseline.
func Detect(ctx context.Context, baseline Baseline) Report {
	r := Report{
		Baseline: baseline,
		JavaHome: os.Getenv("JAVA_HOME"),
		Active:   QueryActive(ctx),
	}
	r.DriftType = Classify(baseline, r.JavaHome, r.Active)
	return r
}

// Classify determines the drift type. First match wins:
//  1. NoDefault: jvman has no default JDK
//  2. NotActive: no java on PATH
//  3. ExternalOverride: java on PATH lives outside the install dir
//  4. OtherManaged: java on PATH is another jvman JDK
//  5. JavaHomeMismatch: $JAVA_HOME points elsewhere
//  6. VersionUnknown: the active java did not report a version
//  7. OK
func Classify(b Baseline, javaHome string, active *Java) DriftType {
	switch {
	case b.DefaultName == "":
		return DriftNoDefault
	case active == nil:
		return DriftNotActive
	case !isUnder(active.Path, b.InstallDir):
		return DriftExternalOverride
	case !isUnder(active.Path, b.DefaultHome):
		return DriftOtherManaged
	case !samePath(javaHome, b.DefaultHome):
		return DriftJavaHomeMismatch
	case active.Version == "unknown":
		return DriftVersionUnknown
	default:
		return DriftOK
	}
}

// resolve cleans path and follows symlinks where possible.
func resolve(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return filepath.Clean(path)
}

func isUnder(path, dir string) bool {
	if path == "" || dir == "" {
		return false
	}
	rel, err := filepath.Rel(resolve(dir), resolve(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return resolve(a) == resolve(b)
}
