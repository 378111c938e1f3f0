// Package drift compares the JDK jvman would activate with the one the
// current environment actually uses.
//
// Three sources are compared: the default JDK recorded by jvman, $JAVA_HOME
// and the first java binary on PATH.
package drift

// DriftType classifies the difference between the default JDK and the
// environment.
type DriftType int

const (
	DriftOK DriftType = iota
	DriftNoDefault
	DriftNotActive
	DriftExternalOverride
	DriftOtherManaged
	DriftJavaHomeMismatch
	DriftVersionUnknown
)

// String returns human-readable drift type name
func (d DriftType) String() string {
	switch d {
	case DriftOK:
		return "OK"
	case DriftNoDefault:
		return "NO_DEFAULT"
	case DriftNotActive:
		return "NOT_ACTIVE"
	case DriftExternalOverride:
		return "EXTERNAL_OVERRIDE"
	case DriftOtherManaged:
		return "OTHER_MANAGED"
	case DriftJavaHomeMismatch:
		return "JAVA_HOME_MISMATCH"
	case DriftVersionUnknown:
		return "VERSION_UNKNOWN"
	default:
		return "UNKNOWN"
	}
}

// Baseline is what jvman expects to be active.
type Baseline struct {
	InstallDir string
	// DefaultName and DefaultHome are empty when no default is selected.
	DefaultName string
	DefaultHome string
}

// Java is a java binary found on PATH.
type Java struct {
	Path    string // symlinks resolved
	Version string // "unknown" when detection failed
}

// Report is the outcome of a drift check.
type Report struct {
	DriftType DriftType
	Baseline  Baseline
	// JavaHome is the value of $JAVA_HOME.
	JavaHome string
	// Active is nil when no java is on PATH.
	Active *Java
}
