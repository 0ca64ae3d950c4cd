package mgcconfig

import (
	"fmt"

	"github.com/mgcints/mgcints/pkg/mgcerr"
)

// Warnings implements the warning channel: each distinct format string
// fires at most cfg.MaxPerFormat times per run, unless Strict is set, in
// which case every warning is raised as a RuntimeError instead.
type Warnings struct {
	cfg    WarningConfig
	counts map[string]int
}

// NewWarnings creates a warning tracker bound to cfg.
func NewWarnings(cfg WarningConfig) *Warnings {
	return &Warnings{cfg: cfg, counts: make(map[string]int)}
}

// Warn records one occurrence of format. In strict mode it always
// returns a RuntimeError. Otherwise it returns (message, true, nil) the
// first cfg.MaxPerFormat times a given format string is warned about,
// and (_, false, nil) — meaning "suppressed, nothing to print" — once
// that budget is exhausted.
func (w *Warnings) Warn(format string, args ...interface{}) (message string, emit bool, err error) {
	message = fmt.Sprintf(format, args...)
	if w.cfg.Strict {
		return message, false, mgcerr.Runtime("%s", message)
	}
	w.counts[format]++
	if w.counts[format] > w.cfg.MaxPerFormat {
		return message, false, nil
	}
	return message, true, nil
}
