package sink

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vietddude/dispatcher/internal/core/domain"
)

// FileSink persists successful outcomes as a JSON array of records.
type FileSink struct {
	path string
	log  *slog.Logger
}

// NewFileSink creates a sink writing to the given path.
func NewFileSink(path string) *FileSink {
	return &FileSink{
		path: path,
		log:  slog.Default().With("component", "sink"),
	}
}

// Save filters success outcomes and writes their records to the file.
// The write goes through a temp file and a rename so a crash never leaves
// a half-written result file. Returns the number of records written.
func (s *FileSink) Save(outcomes []domain.Outcome) (int, error) {
	records := make([]domain.SuccessRecord, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Status == domain.StatusSuccess {
			records = append(records, o.Record())
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("failed to marshal results: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".results_*.json")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("failed to write results: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return 0, fmt.Errorf("failed to rename results file: %w", err)
	}

	s.log.Info("Results saved to file", "path", s.path, "records", len(records))
	return len(records), nil
}
