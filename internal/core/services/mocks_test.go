package services

import (
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/erules-cli/internal/core/domain"
	"github.com/custodia-labs/erules-cli/internal/core/ports/driven"
)

// mockTopicStore implements driven.TopicStore with overridable behaviour.
type mockTopicStore struct {
	beginFn           func(ctx context.Context, model string, dimensions int) error
	saveBatchFn       func(ctx context.Context, topics []domain.Topic, vectors [][]float32) error
	getFn             func(ctx context.Context, reference string) (*domain.Topic, error)
	candidatesFn      func(ctx context.Context, filter driven.TopicFilter) ([]driven.Candidate, error)
	listTopicsFn      func(ctx context.Context, filter driven.TopicFilter) ([]domain.Topic, error)
	listReferencesFn  func(ctx context.Context, filter driven.TopicFilter) ([]string, error)
	categoriesFn      func(ctx context.Context) (map[string]int, error)
	modelIdentifierFn func(ctx context.Context) (string, int, error)
	statsFn           func(ctx context.Context) (*driven.StoreStats, error)
}

var _ driven.TopicStore = (*mockTopicStore)(nil)

func (m *mockTopicStore) Begin(ctx context.Context, model string, dimensions int) error {
	if m.beginFn != nil {
		return m.beginFn(ctx, model, dimensions)
	}
	return nil
}

func (m *mockTopicStore) SaveBatch(ctx context.Context, topics []domain.Topic, vectors [][]float32) error {
	if m.saveBatchFn != nil {
		return m.saveBatchFn(ctx, topics, vectors)
	}
	return nil
}

func (m *mockTopicStore) Get(ctx context.Context, reference string) (*domain.Topic, error) {
	if m.getFn != nil {
		return m.getFn(ctx, reference)
	}
	return nil, domain.ErrNotFound
}

func (m *mockTopicStore) Candidates(ctx context.Context, filter driven.TopicFilter) ([]driven.Candidate, error) {
	if m.candidatesFn != nil {
		return m.candidatesFn(ctx, filter)
	}
	return nil, nil
}

func (m *mockTopicStore) ListTopics(ctx context.Context, filter driven.TopicFilter) ([]domain.Topic, error) {
	if m.listTopicsFn != nil {
		return m.listTopicsFn(ctx, filter)
	}
	return nil, nil
}

func (m *mockTopicStore) ListReferences(ctx context.Context, filter driven.TopicFilter) ([]string, error) {
	if m.listReferencesFn != nil {
		return m.listReferencesFn(ctx, filter)
	}
	return nil, nil
}

func (m *mockTopicStore) Categories(ctx context.Context) (map[string]int, error) {
	if m.categoriesFn != nil {
		return m.categoriesFn(ctx)
	}
	return map[string]int{}, nil
}

func (m *mockTopicStore) ModelIdentifier(ctx context.Context) (string, int, error) {
	if m.modelIdentifierFn != nil {
		return m.modelIdentifierFn(ctx)
	}
	return "test-model", 4, nil
}

func (m *mockTopicStore) Stats(ctx context.Context) (*driven.StoreStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return &driven.StoreStats{Model: "test-model", Dimensions: 4, BuildID: "build-1", BuiltAt: time.Now()}, nil
}

func (m *mockTopicStore) Close() error { return nil }

// mockEmbedder implements driven.EmbeddingService with overridable
// behaviour. The default encoder returns a fixed unit vector.
type mockEmbedder struct {
	embedFn      func(ctx context.Context, text string) ([]float32, error)
	embedBatchFn func(ctx context.Context, texts []string) ([][]float32, error)
	pingFn       func(ctx context.Context) error
	model        string
	dimensions   int
}

var _ driven.EmbeddingService = (*mockEmbedder)(nil)

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return []float32{1, 0, 0, 0}, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if m.embedBatchFn != nil {
		return m.embedBatchFn(ctx, texts)
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, 0, 0, 0}
	}
	return vectors, nil
}

func (m *mockEmbedder) Dimensions() int {
	if m.dimensions != 0 {
		return m.dimensions
	}
	return 4
}

func (m *mockEmbedder) ModelName() string {
	if m.model != "" {
		return m.model
	}
	return "test-model"
}

func (m *mockEmbedder) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

func (m *mockEmbedder) Close() error { return nil }

// mockParser implements driven.CorpusParser.
type mockParser struct {
	parseFn func(ctx context.Context, path string) ([]domain.Topic, *domain.ParseSummary, error)
}

var _ driven.CorpusParser = (*mockParser)(nil)

func (m *mockParser) Parse(ctx context.Context, path string) ([]domain.Topic, *domain.ParseSummary, error) {
	if m.parseFn != nil {
		return m.parseFn(ctx, path)
	}
	return nil, nil, errors.New("parseFn not set")
}
