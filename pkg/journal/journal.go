// Package journal is the append-only record of every mutation tidyup
// performs. Each action writes an intent record, synced to disk, before the
// filesystem is touched and an outcome record afterwards. After a crash the
// journal holds at most one intent without an outcome.
package journal

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/arthur-debert/tidyup/pkg/errors"
	"github.com/arthur-debert/tidyup/pkg/types"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Phase marks a record as written before or after a mutation
type Phase string

const (
	PhaseIntent  Phase = "intent"
	PhaseOutcome Phase = "outcome"
)

// Record is one line of the journal
type Record struct {
	ID    string `json:"id"`
	RunID string `json:"run_id,omitempty"`
	Phase Phase  `json:"phase"`
	types.ActionLogEntry
}

// Writer is what the executor needs from a journal
type Writer interface {
	// Begin records the intent to perform entry and returns its ID
	Begin(entry types.ActionLogEntry) (string, error)
	// Commit records the outcome of the action started with id
	Commit(id string, entry types.ActionLogEntry) error
}

// File is a journal backed by a JSON-lines file
type File struct {
	mu    sync.Mutex
	path  string
	runID string
	f     afero.File
	w     *bufio.Writer
}

// Open opens (creating if needed) the journal at path for appending
func Open(fsys afero.Fs, path string) (*File, error) {
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.FromFS(err, errors.ErrJournal, filepath.Dir(path))
	}
	f, err := fsys.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.FromFS(err, errors.ErrJournal, path)
	}
	return &File{
		path:  path,
		runID: uuid.NewString(),
		f:     f,
		w:     bufio.NewWriter(f),
	}, nil
}

// Path returns the journal location
func (j *File) Path() string {
	return j.path
}

// RunID identifies the records written through this handle
func (j *File) RunID() string {
	return j.runID
}

func (j *File) Begin(entry types.ActionLogEntry) (string, error) {
	id := uuid.NewString()
	if err := j.append(Record{ID: id, RunID: j.runID, Phase: PhaseIntent, ActionLogEntry: entry}, true); err != nil {
		return "", err
	}
	return id, nil
}

func (j *File) Commit(id string, entry types.ActionLogEntry) error {
	return j.append(Record{ID: id, RunID: j.runID, Phase: PhaseOutcome, ActionLogEntry: entry}, false)
}

func (j *File) append(rec Record, sync bool) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.f == nil {
		return errors.New(errors.ErrJournal, "journal is closed")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, errors.ErrJournal, "encode journal record")
	}
	data = append(data, '\n')
	if _, err := j.w.Write(data); err != nil {
		return errors.Wrapf(err, errors.ErrJournal, "write %s", j.path)
	}
	if err := j.w.Flush(); err != nil {
		return errors.Wrapf(err, errors.ErrJournal, "flush %s", j.path)
	}
	if sync {
		if err := j.f.Sync(); err != nil {
			return errors.Wrapf(err, errors.ErrJournal, "sync %s", j.path)
		}
	}
	return nil
}

// Close flushes and closes the journal file
func (j *File) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.f == nil {
		return nil
	}
	flushErr := j.w.Flush()
	syncErr := j.f.Sync()
	closeErr := j.f.Close()
	j.f = nil
	for _, err := range []error{flushErr, syncErr, closeErr} {
		if err != nil {
			return errors.Wrapf(err, errors.ErrJournal, "close %s", j.path)
		}
	}
	return nil
}

// Memory keeps records in memory for inspection after a run
type Memory struct {
	mu      sync.Mutex
	Records []Record
}

func (m *Memory) Begin(entry types.ActionLogEntry) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.NewString()
	m.Records = append(m.Records, Record{ID: id, Phase: PhaseIntent, ActionLogEntry: entry})
	return id, nil
}

func (m *Memory) Commit(id string, entry types.ActionLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records = append(m.Records, Record{ID: id, Phase: PhaseOutcome, ActionLogEntry: entry})
	return nil
}

// Discard drops every record
type Discard struct{}

func (Discard) Begin(types.ActionLogEntry) (string, error) { return "", nil }
func (Discard) Commit(string, types.ActionLogEntry) error  { return nil }

// Read returns every record in the journal at path. A missing journal is
// empty. Malformed lines, such as a line torn by a crash, are skipped.
func Read(fsys afero.Fs, path string) ([]Record, error) {
	f, err := fsys.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.FromFS(err, errors.ErrJournal, path)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return records, errors.Wrapf(err, errors.ErrJournal, "read %s", path)
	}
	return records, nil
}

// Outcomes returns the outcome records, oldest first, keeping at most the
// last n (all when n <= 0).
func Outcomes(records []Record, n int) []Record {
	var out []Record
	for _, r := range records {
		if r.Phase == PhaseOutcome {
			out = append(out, r)
		}
	}
	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

// Pending returns intents that never received an outcome
func Pending(records []Record) []Record {
	done := make(map[string]bool)
	for _, r := range records {
		if r.Phase == PhaseOutcome {
			done[r.ID] = true
		}
	}
	var out []Record
	for _, r := range records {
		if r.Phase == PhaseIntent && !done[r.ID] {
			out = append(out, r)
		}
	}
	return out
}

// Since returns records whose entry time is at or after t
func Since(records []Record, t time.Time) []Record {
	var out []Record
	for _, r := range records {
		if !r.Time.Before(t) {
			out = append(out, r)
		}
	}
	return out
}
