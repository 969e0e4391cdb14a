package layout

// Verify checks a persisted identifier and major version against the
// runtime layout. Minor versions only add backward-compatible data and are
// not checked here; see NewerMinor.
func Verify[K, V any](l Layout[K, V], identifier int64, major int) error {
	if identifier != l.Identifier() {
		return &FormatMismatchError{Field: "identifier", Expected: l.Identifier(), Actual: identifier}
	}
	if major != l.MajorVersion() {
		return &FormatMismatchError{Field: "major version", Expected: int64(l.MajorVersion()), Actual: int64(major)}
	}
	return nil
}

// NewerMinor reports whether minor was written by a newer format revision
// than the runtime layout knows.
func NewerMinor[K, V any](l Layout[K, V], minor int) bool {
	return minor > l.MinorVersion()
}
