package predicates

import (
	"strings"
	"time"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/filesystem"
	"github.com/arthur-debert/tidyup/pkg/logging"
	"github.com/arthur-debert/tidyup/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Evaluator answers predicates about paths on one filesystem
type Evaluator struct {
	fs         afero.Fs
	sniff      bool
	sourceURLs func(path string) []string
	logger     zerolog.Logger
}

// Option configures an Evaluator
type Option func(*Evaluator)

// WithSniffing enables or disables magic-byte content detection when the
// extension table has no answer
func WithSniffing(enabled bool) Option {
	return func(e *Evaluator) { e.sniff = enabled }
}

// WithSourceURLReader replaces the provenance metadata reader
func WithSourceURLReader(fn func(path string) []string) Option {
	return func(e *Evaluator) { e.sourceURLs = fn }
}

// NewEvaluator creates an evaluator. Sniffing is on by default.
func NewEvaluator(fsys afero.Fs, opts ...Option) *Evaluator {
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	e := &Evaluator{
		fs:         fsys,
		sniff:      true,
		sourceURLs: filesystem.SourceURLs,
		logger:     logging.GetLogger("predicates"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IsOlderThan reports whether reference - ts >= d
func IsOlderThan(ts time.Time, d time.Duration, reference time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return reference.Sub(ts) >= d
}

// AgeSince re-reads the path and returns how long ago the selected timestamp
// was, relative to now. A vanished path is a NOT_FOUND error.
func (e *Evaluator) AgeSince(rec types.PathRecord, field types.TimeField, now time.Time) (time.Duration, error) {
	fresh, err := filesystem.Record(e.fs, rec.Path)
	if err != nil {
		return 0, err
	}
	ts := fresh.Time(field)
	if ts.IsZero() {
		return 0, errors.Newf(errors.ErrInvalidInput, "no %s timestamp for %s", field, rec.Path)
	}
	return now.Sub(ts), nil
}

// OlderThan reports whether the selected timestamp is at least d before now.
// Any error evaluates to false.
func (e *Evaluator) OlderThan(rec types.PathRecord, field types.TimeField, d time.Duration, now time.Time) bool {
	age, err := e.AgeSince(rec, field, now)
	if err != nil {
		e.logger.Debug().Err(err).Str("path", rec.Path).Msg("Age predicate skipped")
		return false
	}
	return age >= d
}

// SourceURLs returns the recorded download provenance of the path
func (e *Evaluator) SourceURLs(rec types.PathRecord) []string {
	if e.sourceURLs == nil {
		return nil
	}
	return e.sourceURLs(rec.Path)
}

// DownloadedFrom reports whether any provenance URL contains one of the
// needles, case-insensitively
func (e *Evaluator) DownloadedFrom(rec types.PathRecord, needles ...string) bool {
	for _, url := range e.SourceURLs(rec) {
		lower := strings.ToLower(url)
		for _, needle := range needles {
			if needle != "" && strings.Contains(lower, strings.ToLower(needle)) {
				return true
			}
		}
	}
	return false
}

// IsEmptyDir reports whether the path is currently an empty directory
func (e *Evaluator) IsEmptyDir(rec types.PathRecord) bool {
	return filesystem.IsEmptyDir(e.fs, rec.Path)
}

// LargerThan reports whether the record's size exceeds n bytes
func LargerThan(rec types.PathRecord, n int64) bool {
	return !rec.IsDir() && rec.Size > n
}

// SmallerThan reports whether the record's size is below n bytes
func SmallerThan(rec types.PathRecord, n int64) bool {
	return !rec.IsDir() && rec.Size < n
}
