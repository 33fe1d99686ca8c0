package email

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const fileRecordEnd = "=== end of message ===\n\n"

// FileEmailSender appends every message to a local file (LOG_EMAILS). It is
// meant to sit next to the real sender in a CompositeEmailSender.
type FileEmailSender struct {
	path string
	mu   sync.Mutex
}

func NewFileEmailSender(path string) (*FileEmailSender, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("email log path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create email log directory: %w", err)
	}
	return &FileEmailSender{path: path}, nil
}

func (s *FileEmailSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	var record bytes.Buffer
	fmt.Fprintf(&record, "=== %s to=%s subject=%q\n", time.Now().UTC().Format(time.RFC3339), strings.Join(to, ","), subject)
	record.Write(rawMessage)
	if !bytes.HasSuffix(rawMessage, []byte("\n")) {
		record.WriteByte('\n')
	}
	record.WriteString(fileRecordEnd)

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open email log: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(record.Bytes()); err != nil {
		return fmt.Errorf("write email log: %w", err)
	}

	log.Debug().Strs("to", to).Str("path", s.path).Msg("email appended to log file")
	return nil
}
