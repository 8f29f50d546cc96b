// ABOUTME: JSONL mood history persistence with append-only writes
// ABOUTME: Reads line-by-line with bufio.Scanner; snapshot payloads use the easyjson codec

package session

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mailru/easyjson"

	"github.com/mauromedda/pi-mood-go/internal/config"
	"github.com/mauromedda/pi-mood-go/internal/emotion"
)

// RecordType identifies the type of JSONL record.
type RecordType string

const (
	RecordSessionStart RecordType = "session_start"
	RecordSnapshot     RecordType = "snapshot"
	RecordSessionEnd   RecordType = "session_end"
)

// Record is the envelope for all JSONL entries.
type Record struct {
	Version int             `json:"v"`
	Type    RecordType      `json:"type"`
	TS      string          `json:"ts"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// SessionStartData holds session_start metadata.
type SessionStartData struct {
	ID      string `json:"id"`
	Catalog string `json:"catalog,omitempty"`
}

// HistoryPath returns the JSONL file for sessionID under dir.
func HistoryPath(dir, sessionID string) string {
	return filepath.Join(dir, sessionID+".jsonl")
}

// Writer appends records to a session JSONL file.
type Writer struct {
	w      io.Writer
	closer io.Closer
	now    func() time.Time
}

// NewWriter opens (or creates) the history file for sessionID under dir.
func NewWriter(dir, sessionID string) (*Writer, error) {
	if err := config.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("creating sessions dir: %w", err)
	}
	f, err := os.OpenFile(HistoryPath(dir, sessionID), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening session file: %w", err)
	}
	return &Writer{w: f, closer: f, now: time.Now}, nil
}

// NewStreamWriter writes records to w, e.g. stdout in stream-json mode.
func NewStreamWriter(w io.Writer) *Writer {
	return &Writer{w: w, now: time.Now}
}

// WriteRecord appends a record whose data is encoded with encoding/json.
func (w *Writer) WriteRecord(recType RecordType, data any) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling record data: %w", err)
	}
	return w.write(recType, dataBytes)
}

// WriteSnapshot appends a snapshot record.
func (w *Writer) WriteSnapshot(s emotion.Snapshot) error {
	dataBytes, err := easyjson.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	return w.write(RecordSnapshot, dataBytes)
}

func (w *Writer) write(recType RecordType, data []byte) error {
	rec := Record{
		Version: 1,
		Type:    recType,
		TS:      w.now().UTC().Format(time.RFC3339),
		Data:    data,
	}
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	line = append(line, '\n')
	if _, err := w.w.Write(line); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	return nil
}

// Close closes the underlying file, if any.
func (w *Writer) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

// ReadRecords reads all records from a history file. Malformed lines are skipped.
func ReadRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening history %s: %w", path, err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue // Skip malformed lines
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("scanning history %s: %w", path, err)
	}
	return records, nil
}

// ReadSnapshots returns the snapshot records of a history file, oldest first.
func ReadSnapshots(path string) ([]emotion.Snapshot, error) {
	records, err := ReadRecords(path)
	if err != nil {
		return nil, err
	}
	var out []emotion.Snapshot
	var errs []error
	for i, rec := range records {
		if rec.Type != RecordSnapshot {
			continue
		}
		var s emotion.Snapshot
		if err := easyjson.Unmarshal(rec.Data, &s); err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		out = append(out, s)
	}
	return out, errors.Join(errs...)
}
