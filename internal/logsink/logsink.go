// Package logsink provides the append-only inbound-line log required by the
// spec: every decoded line read from a client is appended to a single file
// as "[<timestamp>] <line>\n". Writes from concurrent connections are
// serialized through a mutex so a single log line is never interleaved with
// another, the same single-writer discipline the teacher's audit package
// uses for its hash-chained entries — minus the hash chain, which this spec
// has no use for.
package logsink

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Sink is an append-only log writer. Create one with Open; do not copy
// after first use.
type Sink struct {
	mu   sync.Mutex
	file *os.File
}

// Open opens (or creates) the log file at path for appending. Appends use
// os.O_APPEND so that every write is a single atomic syscall regardless of
// other writers to the same path.
func Open(path string) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logsink: open %q: %w", path, err)
	}
	return &Sink{file: f}, nil
}

// Append writes "[<timestamp>] <line>\n" to the log file. The caller's line
// should not itself contain a trailing newline. Append errors are the
// caller's to log and ignore — a LogError never propagates to the client
// path (spec §7).
func (s *Sink) Append(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := fmt.Sprintf("[%s] %s\n", time.Now().UTC().Format(time.RFC3339Nano), line)
	_, err := s.file.WriteString(record)
	return err
}

// Close closes the underlying file.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
