package drift

import (
	"fmt"
	"strings"
)

// FormatReport renders r for the terminal.
func FormatReport(r Report) string {
	var sb strings.Builder

	sb.WriteString("JDK status\n")
	sb.WriteString("━━━━━━━━━━\n\n")

	if r.Baseline.DefaultName != "" {
		fmt.Fprintf(&sb, "  Default:    %s (%s)\n", r.Baseline.DefaultName, r.Baseline.DefaultHome)
	} else {
		sb.WriteString("  Default:    none\n")
	}
	if r.JavaHome != "" {
		fmt.Fprintf(&sb, "  JAVA_HOME:  %s\n", r.JavaHome)
	} else {
		sb.WriteString("  JAVA_HOME:  not set\n")
	}
	if r.Active != nil {
		fmt.Fprintf(&sb, "  java:       %s (%s)\n", r.Active.Path, r.Active.Version)
	} else {
		sb.WriteString("  java:       not found on PATH\n")
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "%s %s\n", symbol(r.DriftType), describe(r))
	if hint := remedy(r.DriftType); hint != "" {
		fmt.Fprintf(&sb, "  %s\n", hint)
	}
	return sb.String()
}

func symbol(d DriftType) string {
	if d == DriftOK {
		return "✓"
	}
	return "✗"
}

func describe(r Report) string {
	switch r.DriftType {
	case DriftOK:
		return "The default JDK is active"
	case DriftNoDefault:
		return "No default JDK selected"
	case DriftNotActive:
		return "The default JDK is not on PATH"
	case DriftExternalOverride:
		return "java on PATH is not managed by jvman"
	case DriftOtherManaged:
		return "java on PATH is a different jvman JDK"
	case DriftJavaHomeMismatch:
		return "JAVA_HOME does not point at the default JDK"
	case DriftVersionUnknown:
		return "The active java did not report a version"
	default:
		return r.DriftType.String()
	}
}

func remedy(d DriftType) string {
	switch d {
	case DriftNoDefault:
		return "Run 'jvman install' or 'jvman use <name>'"
	case DriftNotActive, DriftExternalOverride, DriftOtherManaged, DriftJavaHomeMismatch:
		return "Run 'eval \"$(jvman activate)\"' or 'jvman setup-shell'"
	default:
		return ""
	}
}
