package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry is one row in the run log: a single processing run and its counts.
type Entry struct {
	RunID     string
	Timestamp time.Time
	File      string
	Applied   int
	Rejected  int
	Malformed int
	Duration  time.Duration
}

// Header is the CSV header for the run log.
const Header = "run_id,timestamp,file,applied,rejected,malformed,duration_ms"

const (
	numFields    = 7
	colRunID     = 0
	colTimestamp = 1
	colFile      = 2
	colApplied   = 3
	colRejected  = 4
	colMalformed = 5
	colDuration  = 6
)

// NewEntry builds an Entry for a run that just finished.
func NewEntry(file string, applied, rejected, malformed int, duration time.Duration) Entry {
	return Entry{
		RunID:     uuid.NewString(),
		Timestamp: time.Now().UTC(),
		File:      file,
		Applied:   applied,
		Rejected:  rejected,
		Malformed: malformed,
		Duration:  duration,
	}
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colRunID] = e.RunID
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colFile] = e.File
	row[colApplied] = strconv.Itoa(e.Applied)
	row[colRejected] = strconv.Itoa(e.Rejected)
	row[colMalformed] = strconv.Itoa(e.Malformed)
	row[colDuration] = strconv.FormatInt(e.Duration.Milliseconds(), 10)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	applied, err := strconv.Atoi(record[colApplied])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing applied %q: %w", record[colApplied], err)
	}
	rejected, err := strconv.Atoi(record[colRejected])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing rejected %q: %w", record[colRejected], err)
	}
	malformed, err := strconv.Atoi(record[colMalformed])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing malformed %q: %w", record[colMalformed], err)
	}
	ms, err := strconv.ParseInt(record[colDuration], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing duration_ms %q: %w", record[colDuration], err)
	}

	return Entry{
		RunID:     record[colRunID],
		Timestamp: ts,
		File:      record[colFile],
		Applied:   applied,
		Rejected:  rejected,
		Malformed: malformed,
		Duration:  time.Duration(ms) * time.Millisecond,
	}, nil
}

// Append writes an entry to the run log at path, creating the file and
// header if needed.
func Append(path string, e Entry) error {
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	if err := cw.Write(MarshalEntry(e)); err != nil {
		return fmt.Errorf("writing entry: %w", err)
	}

	return cw.Error()
}

// Read returns all entries from the run log at path. A missing file yields
// no entries.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
