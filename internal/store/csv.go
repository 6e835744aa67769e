package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/yungbote/maiopinion/internal/domain"
	"github.com/yungbote/maiopinion/internal/platform/logger"
)

// Header is the fixed column order of the patient file.
var Header = []string{
	"patient_id", "timestamp", "email", "condition", "diagnosis", "treatment",
	"follow_up_timeline", "follow_up_date", "email_sent", "created_at",
}

type CSVStore struct {
	path string
	log  *logger.Logger
	mu   sync.Mutex
}

func NewCSVStore(path string, log *logger.Logger) *CSVStore {
	if log == nil {
		log = logger.Nop()
	}
	return &CSVStore{path: path, log: log.With("store", "CSVStore", "path", path)}
}

func (s *CSVStore) Path() string { return s.path }

// Exists reports whether the backing file is present.
func (s *CSVStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

func (s *CSVStore) Append(_ context.Context, p domain.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureHeader(); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open patient db: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(toRecord(p)); err != nil {
		_ = f.Close()
		return fmt.Errorf("append patient: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("append patient: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("append patient: %w", err)
	}
	s.log.Debug("patient appended", "patient_id", p.ID)
	return nil
}

func (s *CSVStore) All(_ context.Context) ([]domain.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll()
}

func (s *CSVStore) Get(ctx context.Context, id string) (domain.Patient, error) {
	rows, err := s.All(ctx)
	if err != nil {
		return domain.Patient{}, err
	}
	for _, p := range rows {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Patient{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (s *CSVStore) MarkSent(_ context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readAll()
	if err != nil {
		return 0, err
	}
	changed := 0
	for i := range rows {
		if _, ok := want[rows[i].ID]; ok && !rows[i].Sent() {
			rows[i].EmailSent = domain.SentYes
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	if err := s.rewrite(rows); err != nil {
		return 0, err
	}
	return changed, nil
}

// Clear deletes the backing file.
func (s *CSVStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNoDatabase
		}
		return fmt.Errorf("clear patient db: %w", err)
	}
	return nil
}

// Export copies the backing file to dst.
func (s *CSVStore) Export(dst string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	src, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNoDatabase
		}
		return err
	}
	defer src.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func (s *CSVStore) Close() error { return nil }

func (s *CSVStore) ensureHeader() error {
	info, err := os.Stat(s.path)
	switch {
	case err == nil && info.Size() > 0:
		return nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("stat patient db: %w", err)
	}
	if err := s.rewrite(nil); err != nil {
		return err
	}
	s.log.Info("created patient database")
	return nil
}

// readAll returns no rows when the file is absent.
func (s *CSVStore) readAll() ([]domain.Patient, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open patient db: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read patient db: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	index := columnIndex(records[0])
	out := make([]domain.Patient, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) == 1 && rec[0] == "" {
			continue
		}
		out = append(out, fromRecord(rec, index))
	}
	return out, nil
}

// rewrite replaces the file through a temp file in the same directory.
func (s *CSVStore) rewrite(rows []domain.Patient) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create patient db dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp patient db: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	w := csv.NewWriter(tmp)
	_ = w.Write(Header)
	for _, p := range rows {
		_ = w.Write(toRecord(p))
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write patient db: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync patient db: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close patient db: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod patient db: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("replace patient db: %w", err)
	}
	return nil
}

func toRecord(p domain.Patient) []string {
	return []string{
		p.ID, p.Timestamp, p.Email, p.Condition, p.Diagnosis, p.Treatment,
		p.FollowUpTimeline, p.FollowUpDate, p.EmailSent, p.CreatedAt,
	}
}

func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}
	return idx
}

func fromRecord(rec []string, idx map[string]int) domain.Patient {
	get := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}
	return domain.Patient{
		ID:               get("patient_id"),
		Timestamp:        get("timestamp"),
		Email:            get("email"),
		Condition:        get("condition"),
		Diagnosis:        get("diagnosis"),
		Treatment:        get("treatment"),
		FollowUpTimeline: get("follow_up_timeline"),
		FollowUpDate:     get("follow_up_date"),
		EmailSent:        get("email_sent"),
		CreatedAt:        get("created_at"),
	}
}
