package memory

import (
	"context"
	"log/slog"
	"maps"
	"sort"
	"sync"

	"github.com/w-h-a/semsearch/storer"
)

type memoryStorer struct {
	options storer.Options
	records map[string]storer.Record
	mtx     sync.RWMutex
}

func (s *memoryStorer) Upsert(ctx context.Context, records []storer.Record) (int, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	count := 0

	for _, rec := range records {
		if !storer.Valid(rec, s.options.VectorSize) {
			slog.WarnContext(ctx, "skipping record with missing or malformed vector", "id", rec.Id)
			continue
		}

		cpy := make([]float32, len(rec.Values))
		copy(cpy, rec.Values)

		meta := make(map[string]string, len(rec.Metadata))
		maps.Copy(meta, rec.Metadata)

		s.records[rec.Id] = storer.Record{
			Id:       rec.Id,
			Values:   cpy,
			Metadata: meta,
		}

		count++
	}

	return count, nil
}

func (s *memoryStorer) Query(ctx context.Context, vector []float32, topK int) ([]storer.Match, error) {
	if topK < 1 {
		return nil, nil
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	candidates := make([]storer.Match, 0, len(s.records))

	for _, rec := range s.records {
		score := storer.CosineSimilarity(vector, rec.Values)
		candidates = append(candidates, storer.Match{
			Id:       rec.Id,
			Score:    float32(score),
			Metadata: rec.Metadata,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	return candidates, nil
}

func (s *memoryStorer) Fetch(ctx context.Context, ids []string) (map[string]storer.Record, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	records := make(map[string]storer.Record, len(ids))

	for _, id := range ids {
		if rec, exists := s.records[id]; exists {
			records[id] = rec
		}
	}

	return records, nil
}

func NewStorer(opts ...storer.Option) storer.Storer {
	options := storer.NewOptions(opts...)

	return &memoryStorer{
		options: options,
		records: map[string]storer.Record{},
		mtx:     sync.RWMutex{},
	}
}
