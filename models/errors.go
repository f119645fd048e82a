package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStorageFull is returned when the underlying store rejects a write
// because its capacity is exhausted. Records written before the failing one
// remain valid; the failed write must be retried or abandoned by the caller.
var ErrStorageFull = errors.New("storage capacity exceeded")

// ImportError reports a structurally invalid import document. Nothing is
// persisted when an import fails: either the whole document is accepted or
// none of it.
type ImportError struct {
	Reasons []string
}

func (e *ImportError) Error() string {
	if len(e.Reasons) == 1 {
		return "invalid quiz import: " + e.Reasons[0]
	}
	return fmt.Sprintf("invalid quiz import (%d problems): %s",
		len(e.Reasons), strings.Join(e.Reasons, "; "))
}
