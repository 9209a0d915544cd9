// Package txlog implements the append-only transaction log that remembers
// which notes were already created on which remote destination.
//
// The file is line oriented and meant to be read by humans:
//
//	# created note at 2024-01-02 15:04:05
//	CREATE <destination hash> <note fingerprint>
//
// Lines starting with '#' and blank lines are ignored. The log assumes a
// single writer: two processes appending to the same file at once are not
// supported.
package txlog

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// OperationCreate is the only operation recorded today.
const OperationCreate = "CREATE"

const commentMarker = "#"

var header = []string{
	"# This file contains a log of the transactions done with the server.",
	"# This allows the client to remember which notes have already been uploaded.",
	"# You can delete this file if you want to upload the same notes to the same account again.",
	"",
}

// ErrLogCorruption indicates the log could not be read or contains a line
// that is neither a comment nor a valid entry. Continuing without the log
// would lose the duplicate-creation guarantee.
var ErrLogCorruption = errors.New("transaction log corrupted")

// Entry is one recorded transaction.
type Entry struct {
	Operation   string
	Destination string
	Fingerprint string
}

func (e Entry) String() string {
	return fmt.Sprintf("%s %s %s", e.Operation, e.Destination, e.Fingerprint)
}

// Log is an open transaction log.
type Log struct {
	path    string
	entries map[Entry]struct{}
	count   int
	mu      sync.Mutex

	// now is used for the comment preceding every entry.
	now func() time.Time
}

// Open loads the log at path, creating it with a descriptive header when
// it does not exist yet.
func Open(path string) (*Log, error) {
	l := &Log{
		path:    path,
		entries: make(map[Entry]struct{}),
		now:     time.Now,
	}

	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := l.create(); err != nil {
			return nil, err
		}
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLogCorruption, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		entry, ok, err := parseLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrLogCorruption, path, lineNumber, err)
		}
		if ok {
			l.entries[entry] = struct{}{}
			l.count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLogCorruption, err)
	}

	return l, nil
}

func parseLine(line string) (Entry, bool, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, commentMarker) {
		return Entry{}, false, nil
	}

	fields := strings.Fields(trimmed)
	if len(fields) != 3 {
		return Entry{}, false, fmt.Errorf("expected 3 fields, got %d", len(fields))
	}
	if fields[0] != OperationCreate {
		return Entry{}, false, fmt.Errorf("unknown operation %q", fields[0])
	}

	return Entry{Operation: fields[0], Destination: fields[1], Fingerprint: fields[2]}, true, nil
}

func (l *Log) create() error {
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create transaction log directory: %w", err)
		}
	}

	content := strings.Join(header, "\n") + "\n"
	if err := os.WriteFile(l.path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to create transaction log: %w", err)
	}
	return nil
}

// Path returns the file backing the log.
func (l *Log) Path() string {
	return l.path
}

// Len returns the number of entries, duplicates included.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Contains reports whether a CREATE was recorded for the pair.
func (l *Log) Contains(destination, fingerprint string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.entries[Entry{Operation: OperationCreate, Destination: destination, Fingerprint: fingerprint}]
	return ok
}

// Append durably records a CREATE for the pair. The entry is synced to disk
// before Append returns.
func (l *Log) Append(destination, fingerprint string) error {
	entry := Entry{Operation: OperationCreate, Destination: destination, Fingerprint: fingerprint}
	if strings.ContainsAny(destination+fingerprint, " \t\r\n") || destination == "" || fingerprint == "" {
		return fmt.Errorf("invalid transaction log entry %q", entry.String())
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open transaction log: %w", err)
	}

	record := fmt.Sprintf("%s created note at %s\n%s\n",
		commentMarker, l.now().Format("2006-01-02 15:04:05"), entry.String())
	if _, err := file.WriteString(record); err != nil {
		file.Close()
		return fmt.Errorf("failed to write transaction log: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("failed to sync transaction log: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close transaction log: %w", err)
	}

	l.entries[entry] = struct{}{}
	l.count++
	return nil
}
