package storage

import "fmt"

// CorruptionError reports a persisted file that exists but cannot be parsed.
// Callers must surface it rather than treat the store as empty, so a damaged
// file is never silently overwritten with fresh state.
type CorruptionError struct {
	Path string
	Err  error
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("corrupted data file %s: %v", e.Path, e.Err)
}

func (e *CorruptionError) Unwrap() error {
	return e.Err
}
