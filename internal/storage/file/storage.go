package file

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/smartscholars/accounts/internal/model"
	"github.com/smartscholars/accounts/internal/storage"
)

// maxLineSize bounds a single account line. Longer lines are skipped on load
// and refused on save.
const maxLineSize = 1 << 20

// ErrLineTooLong is returned by SaveAll for a record that would not load back
var ErrLineTooLong = errors.New("account record exceeds line limit")

// Storage keeps accounts in a flat file, one JSON object per line.
// Every save rewrites the whole file through a temp file and rename.
type Storage struct {
	path   string
	logger *slog.Logger
}

// New creates a file-backed store at path. The file is created on first save.
func New(path string, logger *slog.Logger) *Storage {
	return &Storage{
		path:   path,
		logger: logger,
	}
}

// Ensure Storage implements the interface
var _ storage.RecordStore = (*Storage)(nil)

// Path returns the backing file path
func (s *Storage) Path() string {
	return s.path
}

func (s *Storage) LoadAll(ctx context.Context) ([]model.Account, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Account{}, nil
		}
		return nil, fmt.Errorf("%w: open accounts file: %w", model.ErrStorageUnavailable, err)
	}
	defer f.Close()

	accounts, err := s.decode(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%w: read accounts file: %w", model.ErrStorageUnavailable, err)
	}
	return accounts, nil
}

func (s *Storage) decode(ctx context.Context, r io.Reader) ([]model.Account, error) {
	accounts := []model.Account{}
	br := bufio.NewReader(r)

	for lineNo := 1; ; lineNo++ {
		raw, tooLong, err := readLine(br)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}

		if tooLong {
			s.skip(ctx, lineNo, "line too long")
		} else if account, ok := s.decodeLine(ctx, lineNo, raw); ok {
			accounts = append(accounts, account)
		}

		if err != nil {
			return accounts, nil
		}
	}
}

// decodeLine parses one account line. Blank lines, the legacy seed line and
// malformed records report ok=false.
func (s *Storage) decodeLine(ctx context.Context, lineNo int, raw []byte) (model.Account, bool) {
	line := bytes.TrimSpace(raw)
	if len(line) == 0 {
		return model.Account{}, false
	}
	// Older installs seeded the file with an empty JSON array
	if lineNo == 1 && bytes.Equal(line, []byte("[]")) {
		return model.Account{}, false
	}

	var rec record
	if err := json.Unmarshal(line, &rec); err != nil {
		s.skip(ctx, lineNo, "invalid json")
		return model.Account{}, false
	}

	account, err := rec.toAccount()
	if err != nil {
		s.skip(ctx, lineNo, err.Error())
		return model.Account{}, false
	}
	return account, true
}

// skip logs a rejected line by number only; the content may hold hashes or tokens
func (s *Storage) skip(ctx context.Context, lineNo int, reason string) {
	s.logger.WarnContext(ctx, "skipping malformed account line",
		slog.Int("line", lineNo),
		slog.String("reason", reason),
	)
}

// readLine returns the next line including its newline. A line over maxLineSize
// is drained from r and reported as tooLong with no content.
func readLine(r *bufio.Reader) (line []byte, tooLong bool, err error) {
	for {
		chunk, err := r.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(bytes.TrimRight(chunk, "\r\n")) > maxLineSize {
				tooLong, line = true, nil
			} else {
				line = append(line, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return line, tooLong, err
	}
}

func (s *Storage) SaveAll(ctx context.Context, accounts []model.Account) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, a := range accounts {
		before := buf.Len()
		if err := enc.Encode(recordFromAccount(a)); err != nil {
			return fmt.Errorf("encode account: %w", err)
		}
		// Encode appends a newline
		if buf.Len()-before-1 > maxLineSize {
			return fmt.Errorf("%w: %s", ErrLineTooLong, a.Identity)
		}
	}

	if err := s.writeAtomic(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: write accounts file: %w", model.ErrStorageUnavailable, err)
	}

	s.logger.DebugContext(ctx, "accounts saved", slog.Int("count", len(accounts)))
	return nil
}

func (s *Storage) writeAtomic(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}
