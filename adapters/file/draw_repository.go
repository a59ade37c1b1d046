package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"lottolab/domain/draw"
	apperrors "lottolab/internal/errors"
	"lottolab/ports"
)

// drawRepository implements ports.DrawRepository on a single JSON file.
// The whole history is rewritten on save; good enough for the few thousand
// records a weekly lottery accumulates.
type drawRepository struct {
	mu   sync.Mutex
	path string
}

// NewDrawRepository creates a file-backed draw repository. The file does not
// need to exist yet.
func NewDrawRepository(path string) ports.DrawRepository {
	return &drawRepository{path: path}
}

// ListDraws returns the stored history, ascending by draw_no.
func (r *drawRepository) ListDraws(ctx context.Context) (draw.History, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// LatestDrawNo returns the highest stored draw number, 0 when empty.
func (r *drawRepository) LatestDrawNo(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	history, err := r.load()
	if err != nil {
		return 0, err
	}
	return history.MaxDrawNo(), nil
}

// LatestDraw returns the record with the highest draw number.
func (r *drawRepository) LatestDraw(ctx context.Context) (draw.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	history, err := r.load()
	if err != nil {
		return draw.Record{}, err
	}
	if len(history) == 0 {
		return draw.Record{}, apperrors.NotFound("latest draw")
	}
	return history[len(history)-1], nil
}

// SaveDraws merges the records into the stored history, skipping draw
// numbers already present.
func (r *drawRepository) SaveDraws(ctx context.Context, records []draw.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	history, err := r.load()
	if err != nil {
		return 0, err
	}

	known := make(map[int]bool, len(history))
	for _, rec := range history {
		known[rec.DrawNo] = true
	}

	inserted := 0
	for _, rec := range records {
		if known[rec.DrawNo] {
			continue
		}
		history = append(history, rec)
		known[rec.DrawNo] = true
		inserted++
	}
	if inserted == 0 {
		return 0, nil
	}

	sort.Slice(history, func(i, j int) bool { return history[i].DrawNo < history[j].DrawNo })

	if err := r.write(history); err != nil {
		return 0, err
	}
	return inserted, nil
}

func (r *drawRepository) load() (draw.History, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read draw file")
	}
	if len(data) == 0 {
		return nil, nil
	}

	var history draw.History
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode draw file")
	}
	return history, nil
}

// write replaces the file atomically via a sibling temp file.
func (r *drawRepository) write(history draw.History) error {
	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return apperrors.Wrap(err, "failed to encode draw file")
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.Wrap(err, "failed to create draw file directory")
	}

	tmp, err := os.CreateTemp(dir, ".draws-*.json")
	if err != nil {
		return apperrors.Wrap(err, "failed to create temp draw file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperrors.Wrap(err, "failed to write temp draw file")
	}
	if err := tmp.Close(); err != nil {
		return apperrors.Wrap(err, "failed to close temp draw file")
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return apperrors.Wrap(err, "failed to replace draw file")
	}
	return nil
}
