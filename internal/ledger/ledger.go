package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aurelian-labs/goldvest-backend/internal/models"
)

const artifactName = "investmentsData.json"

// Sentinel errors classifying storage failures. Callers distinguish them
// with errors.Is.
var (
	ErrRead  = errors.New("ledger read failed")
	ErrWrite = errors.New("ledger write failed")
)

// Store owns the durable ledger artifact: a single JSON file holding the
// ordered list of investment records, oldest first. The only mutation is
// Append; all appends funnel through one mutex so the read-modify-write
// cycle on the file can never interleave with another append.
type Store struct {
	mu   sync.Mutex
	path string
}

// Open prepares the ledger artifact under dataDir. A missing artifact is
// initialized to an empty list at startup, so a read failure later always
// means corruption rather than first-run.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &Store{path: filepath.Join(dataDir, artifactName)}

	_, err := os.Stat(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if werr := s.write(nil); werr != nil {
			return nil, werr
		}
		fmt.Printf("[LEDGER] Initialized empty ledger at %s\n", s.path)
	case err != nil:
		return nil, fmt.Errorf("stat ledger: %w", err)
	}
	return s, nil
}

// Path returns the location of the ledger artifact.
func (s *Store) Path() string {
	return s.path
}

// ReadAll deserializes the full ledger.
func (s *Store) ReadAll(ctx context.Context) ([]models.Investment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.read()
}

// Append adds one record to the end of the ledger and returns it once it
// is durably written. On failure the artifact keeps its previous content
// and the record is not visible to subsequent reads.
func (s *Store) Append(ctx context.Context, rec models.Investment) (models.Investment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	investments, err := s.read()
	if err != nil {
		return nil, err
	}
	investments = append(investments, rec)
	if err := s.write(investments); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Store) read() ([]models.Investment, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	var investments []models.Investment
	if err := json.Unmarshal(data, &investments); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	return investments, nil
}

// write replaces the artifact atomically: content goes to a temp file in
// the same directory and is renamed over the old artifact, so a crash
// mid-write leaves the previous ledger intact rather than a torn file.
func (s *Store) write(investments []models.Investment) error {
	if investments == nil {
		investments = []models.Investment{}
	}

	data, err := json.MarshalIndent(investments, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), artifactName+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}
