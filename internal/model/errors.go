package model

import "fmt"

// UnsupportedError reports a (format, version, profile, value) combination the
// standard does not permit. Writers raise it before emitting any output.
type UnsupportedError struct {
	Format  Format
	Version Version
	Profile Profile
	Detail  string
}

func (e *UnsupportedError) Error() string {
	if e.Format == FormatUnknown && e.Version == VersionUnknown {
		return "unsupported: " + e.Detail
	}
	return fmt.Sprintf("unsupported combination %s %s/%s: %s", e.Format, e.Version, e.Profile, e.Detail)
}

// NewUnsupportedError creates an UnsupportedError without combination context
func NewUnsupportedError(detail string) *UnsupportedError {
	return &UnsupportedError{Detail: detail}
}

// NewUnsupportedCombination creates an UnsupportedError for a rejected
// (format, version, profile) triple.
func NewUnsupportedCombination(f Format, v Version, p Profile, detail string) *UnsupportedError {
	return &UnsupportedError{Format: f, Version: v, Profile: p, Detail: detail}
}

// ParseError reports malformed or schema-incompatible input, naming the
// offending element path.
type ParseError struct {
	Path    string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error at %s: %s (%v)", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error at %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NewParseError creates a new parse error
func NewParseError(path, message string, cause error) *ParseError {
	return &ParseError{Path: path, Message: message, Cause: cause}
}

// FormatDetectionError reports a root element or namespace matching no known
// dialect. It is always surfaced, never silently defaulted.
type FormatDetectionError struct {
	Root      string
	Namespace string
}

func (e *FormatDetectionError) Error() string {
	if e.Namespace != "" {
		return fmt.Sprintf("unrecognized document format: root element %q in namespace %q", e.Root, e.Namespace)
	}
	return fmt.Sprintf("unrecognized document format: root element %q", e.Root)
}

// NewFormatDetectionError creates a new format detection error
func NewFormatDetectionError(root, namespace string) *FormatDetectionError {
	return &FormatDetectionError{Root: root, Namespace: namespace}
}

// ReconciliationWarning is advisory: a stated total and the value recomputed
// from detail disagree by more than the tolerance. Load still succeeds; the
// warnings ride on the returned invoice.
type ReconciliationWarning struct {
	Field    string
	Stated   string
	Computed string
}

func (w ReconciliationWarning) String() string {
	return fmt.Sprintf("%s: stated %s, computed %s", w.Field, w.Stated, w.Computed)
}
