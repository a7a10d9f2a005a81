package crash

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Sink receives a finished report text.
type Sink interface {
	Deliver(report string) error
}

// ReportSink is implemented by sinks that want the fault and the section
// breakdown, not just the text. Handler prefers it over Deliver.
type ReportSink interface {
	DeliverReport(f *Fault, r *Report) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(report string) error

func (fn SinkFunc) Deliver(report string) error { return fn(report) }

// ConsoleSink appends the report to a writer.
type ConsoleSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

func (s *ConsoleSink) Deliver(report string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, report)
	return err
}

var fileSeq atomic.Uint64

// FileSink writes every report to its own file in Dir:
// crash-<unix-nanos>-<seq>.txt.
type FileSink struct {
	Dir string
	Now func() time.Time // nil: time.Now

	mu   sync.Mutex
	last string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir}
}

func (s *FileSink) Deliver(report string) error {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("crash dir: %w", err)
	}
	name := fmt.Sprintf("crash-%d-%d.txt", now().UnixNano(), fileSeq.Add(1))
	dst := filepath.Join(s.Dir, name)

	f, err := os.CreateTemp(s.Dir, "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := io.WriteString(f, report); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// Атомарная замена
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	s.mu.Lock()
	s.last = dst
	s.mu.Unlock()
	return nil
}

// LastPath returns the file written by the latest successful Deliver.
func (s *FileSink) LastPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// ArchiveFile is the archive name inside the crash directory.
const ArchiveFile = "crashes.mp"

// Current schema version - increment when Record format changes
const archiveSchemaVersion uint16 = 1

// Record is one archived report.
type Record struct {
	Schema  uint16
	Time    time.Time
	Stage   string
	Context string
	Message string
	Text    string
}

// ArchiveSink appends msgpack records to <Dir>/crashes.mp.
// Thread-safe for concurrent access.
type ArchiveSink struct {
	mu  sync.Mutex
	Dir string
}

func NewArchiveSink(dir string) *ArchiveSink {
	return &ArchiveSink{Dir: dir}
}

func (s *ArchiveSink) Deliver(report string) error {
	return s.append(&Record{Schema: archiveSchemaVersion, Time: time.Now(), Text: report})
}

func (s *ArchiveSink) DeliverReport(f *Fault, r *Report) error {
	rec := &Record{Schema: archiveSchemaVersion, Time: time.Now()}
	if f != nil {
		rec.Time = f.Time
		rec.Stage = string(f.Stage)
		rec.Context = f.Context
		rec.Message = fmt.Sprint(f.Value)
	}
	if r != nil {
		rec.Text = r.Text
	}
	return s.append(rec)
}

func (s *ArchiveSink) append(rec *Record) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("crash dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(s.Dir, ArchiveFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	return msgpack.NewEncoder(f).Encode(rec)
}

// ReadArchive decodes every record from <dir>/crashes.mp in append order.
// A missing archive is not an error.
func ReadArchive(dir string) ([]Record, error) {
	f, err := os.Open(filepath.Join(dir, ArchiveFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var out []Record
	dec := msgpack.NewDecoder(f)
	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, fmt.Errorf("record %d: %w", len(out)+1, err)
		}
		if rec.Schema != archiveSchemaVersion {
			return out, fmt.Errorf("record %d: unsupported schema %d", len(out)+1, rec.Schema)
		}
		out = append(out, rec)
	}
}
