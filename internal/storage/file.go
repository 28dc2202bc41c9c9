package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/logger"
)

const sessionExt = ".yaml"

// FileStore writes every session to <dir>/<id>.yaml so checklists survive
// a restart. Reads are served from memory; all files are read once by
// OpenFileStore.
type FileStore struct {
	dir string
	mem *MemoryStore
	log *logger.Logger
}

// OpenFileStore creates dir if needed and loads the sessions in it. Files
// that do not decode are skipped with a warning.
func OpenFileStore(dir string, log *logger.Logger) (*FileStore, error) {
	if log == nil {
		log = logger.New(logger.LevelOff, nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating session dir: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading session dir: %w", err)
	}

	s := &FileStore{dir: dir, mem: NewMemoryStore(log), log: log}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != sessionExt {
			continue
		}
		sess, err := readSession(filepath.Join(dir, e.Name()))
		if err != nil {
			log.Warn("skipping session file %s: %v", e.Name(), err)
			continue
		}
		s.mem.put(sess)
	}
	log.Debug("loaded %d sessions from %s", len(s.mem.byID), dir)
	return s, nil
}

// Dir returns the directory the store writes to.
func (s *FileStore) Dir() string { return s.dir }

// Save writes the session file, then updates memory.
func (s *FileStore) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return errNoID
	}
	if err := s.write(session); err != nil {
		return err
	}
	return s.mem.Save(ctx, session)
}

// Load returns the session with the given ID.
func (s *FileStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	return s.mem.Load(ctx, id)
}

// Delete removes the session and its file.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := s.mem.Delete(ctx, id); err != nil {
		return err
	}
	if err := os.Remove(s.path(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session %s: %w", id, err)
	}
	return nil
}

// ListActive returns the active sessions, oldest first.
func (s *FileStore) ListActive(ctx context.Context) ([]*domain.Session, error) {
	return s.mem.ListActive(ctx)
}

// Prune deletes completed and abandoned sessions not touched for keep and
// returns how many went.
func (s *FileStore) Prune(ctx context.Context, keep time.Duration) (int, error) {
	n := 0
	for _, sess := range s.mem.finished(time.Now().Add(-keep)) {
		if err := s.Delete(ctx, sess.ID); err != nil {
			return n, err
		}
		n++
	}
	if n > 0 {
		s.log.Info("pruned %d finished sessions", n)
	}
	return n, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+sessionExt)
}

// write replaces the session file through a rename so a crash never leaves
// half a file behind.
func (s *FileStore) write(session *domain.Session) error {
	if strings.ContainsAny(session.ID, `/\`) {
		return fmt.Errorf("invalid session ID %q", session.ID)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(session); err != nil {
		return fmt.Errorf("encoding session %s: %w", session.ID, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding session %s: %w", session.ID, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".session-*")
	if err != nil {
		return fmt.Errorf("writing session %s: %w", session.ID, err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing session %s: %w", session.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing session %s: %w", session.ID, err)
	}
	if err := os.Rename(tmp.Name(), s.path(session.ID)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing session %s: %w", session.ID, err)
	}
	return nil
}

func readSession(path string) (*domain.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sess domain.Session
	if err := yaml.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	if sess.ID == "" {
		return nil, errNoID
	}
	if len(sess.StepStates) != len(sess.Steps) {
		return nil, fmt.Errorf("%d step states for %d steps", len(sess.StepStates), len(sess.Steps))
	}
	return &sess, nil
}
