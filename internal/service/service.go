package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/w-h-a/semsearch/embedder"
	"github.com/w-h-a/semsearch/generator"
	"github.com/w-h-a/semsearch/mapper"
	"github.com/w-h-a/semsearch/storer"
)

const DefaultTopK = 5

var (
	// ErrInvalidEmbedding means the caller supplied an embedding that is
	// missing or not exactly the index dimension.
	ErrInvalidEmbedding = errors.New("invalid embedding")
	// ErrNoGenerator means reply drafting was requested but no generator
	// is configured.
	ErrNoGenerator = errors.New("no generator configured")
)

type Service struct {
	embedder  embedder.Embedder
	storer    storer.Storer
	generator generator.Generator
	dimension int
}

func New(e embedder.Embedder, s storer.Storer, g generator.Generator, dimension int) *Service {
	if dimension <= 0 {
		dimension = 1536
	}
	return &Service{
		embedder:  e,
		storer:    s,
		generator: g,
		dimension: dimension,
	}
}

func (s *Service) Search(ctx context.Context, query string, topK int) ([]storer.Match, error) {
	if topK < 1 {
		topK = DefaultTopK
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches, err := s.storer.Query(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("query store: %w", err)
	}

	return matches, nil
}

func (s *Service) Upsert(ctx context.Context, records []storer.Record) (int, error) {
	return s.storer.Upsert(ctx, records)
}

// SaveReply persists a customer/AI reply pair with a caller-supplied embedding.
// A missing threadId is generated and a missing timestamp defaults to now.
func (s *Service) SaveReply(ctx context.Context, reply mapper.ReplyThread, embedding []float32) (string, error) {
	if len(embedding) != s.dimension {
		return "", fmt.Errorf("%w: got %d values, want %d", ErrInvalidEmbedding, len(embedding), s.dimension)
	}

	if len(strings.TrimSpace(reply.ThreadID)) == 0 {
		reply.ThreadID = uuid.New().String()
	}

	if len(reply.Timestamp) == 0 {
		reply.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	rec := storer.Record{
		Id:       reply.ThreadID,
		Values:   embedding,
		Metadata: reply.Metadata(),
	}

	if _, err := s.storer.Upsert(ctx, []storer.Record{rec}); err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "saved reply vector", "threadId", reply.ThreadID)

	return reply.ThreadID, nil
}

// UpdateReply merges a new aiReply into the stored metadata for threadID and
// re-upserts with the vector unchanged. The read and the write are not atomic;
// concurrent updates to the same id can race and lose one write.
func (s *Service) UpdateReply(ctx context.Context, threadID string, aiReply string) error {
	records, err := s.storer.Fetch(ctx, []string{threadID})
	if err != nil {
		return fmt.Errorf("fetch record: %w", err)
	}

	rec, exists := records[threadID]
	if !exists {
		return fmt.Errorf("%w: %s", storer.ErrNotFound, threadID)
	}

	if rec.Metadata == nil {
		rec.Metadata = map[string]string{}
	}
	rec.Metadata["aiReply"] = aiReply

	if _, err := s.storer.Upsert(ctx, []storer.Record{rec}); err != nil {
		return fmt.Errorf("re-upsert record: %w", err)
	}

	slog.InfoContext(ctx, "updated reply vector", "threadId", threadID)

	return nil
}

// DraftReply retrieves the most similar past replies and asks the generator
// to draft a new one grounded in them.
func (s *Service) DraftReply(ctx context.Context, customerMsg string, topK int) (string, []storer.Match, error) {
	if s.generator == nil {
		return "", nil, ErrNoGenerator
	}

	matches, err := s.Search(ctx, customerMsg, topK)
	if err != nil {
		return "", nil, err
	}

	draft, err := s.generator.Generate(ctx, buildDraftPrompt(customerMsg, matches))
	if err != nil {
		return "", nil, fmt.Errorf("generate draft: %w", err)
	}

	return draft, matches, nil
}
