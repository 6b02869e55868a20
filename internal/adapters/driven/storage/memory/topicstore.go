// Package memory provides an in-memory topic store. It mirrors the
// sqlite store's semantics without persistence; useful for tests and
// throwaway builds.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/erules-cli/internal/core/domain"
	"github.com/custodia-labs/erules-cli/internal/core/ports/driven"
)

// TopicStore is a mutex-guarded in-memory topic store.
type TopicStore struct {
	mu      sync.RWMutex
	topics  map[string]domain.Topic
	vectors map[string][]float32

	model      string
	dimensions int
	buildID    string
	builtAt    time.Time
}

var _ driven.TopicStore = (*TopicStore)(nil)

// NewTopicStore creates an empty in-memory store.
func NewTopicStore() *TopicStore {
	return &TopicStore{
		topics:  make(map[string]domain.Topic),
		vectors: make(map[string][]float32),
	}
}

// Begin wipes the store and records the build identity.
func (s *TopicStore) Begin(ctx context.Context, model string, dimensions int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topics = make(map[string]domain.Topic)
	s.vectors = make(map[string][]float32)
	s.model = model
	s.dimensions = dimensions
	s.buildID = uuid.NewString()
	s.builtAt = time.Now().UTC()
	return nil
}

// SaveBatch stores topics with their vectors.
func (s *TopicStore) SaveBatch(ctx context.Context, topics []domain.Topic, vectors [][]float32) error {
	if len(topics) != len(vectors) {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range topics {
		s.topics[t.Reference] = t
		s.vectors[t.Reference] = vectors[i]
	}
	return nil
}

// Get retrieves a topic by exact reference.
func (s *TopicStore) Get(ctx context.Context, reference string) (*domain.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.topics[reference]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

// Candidates returns the filtered topics joined with their vectors.
func (s *TopicStore) Candidates(ctx context.Context, filter driven.TopicFilter) ([]driven.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var candidates []driven.Candidate
	for ref, t := range s.topics {
		if !matches(t, filter) {
			continue
		}
		candidates = append(candidates, driven.Candidate{Topic: t, Vector: s.vectors[ref]})
	}
	return candidates, nil
}

// ListTopics returns the filtered topics ordered by reference.
func (s *TopicStore) ListTopics(ctx context.Context, filter driven.TopicFilter) ([]domain.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var topics []domain.Topic
	for _, t := range s.topics {
		if matches(t, filter) {
			topics = append(topics, t)
		}
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].Reference < topics[j].Reference })
	return topics, nil
}

// ListReferences returns the filtered references, ascending.
func (s *TopicStore) ListReferences(ctx context.Context, filter driven.TopicFilter) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var refs []string
	for ref, t := range s.topics {
		if matches(t, filter) {
			refs = append(refs, ref)
		}
	}
	sort.Strings(refs)
	return refs, nil
}

// Categories returns per-category topic counts.
func (s *TopicStore) Categories(ctx context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	categories := make(map[string]int)
	for _, t := range s.topics {
		categories[t.Category()]++
	}
	return categories, nil
}

// ModelIdentifier returns the build's model identity.
func (s *TopicStore) ModelIdentifier(ctx context.Context) (string, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.model == "" {
		return "", 0, domain.ErrStoreEmpty
	}
	return s.model, s.dimensions, nil
}

// Stats returns the store statistics.
func (s *TopicStore) Stats(ctx context.Context) (*driven.StoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := &driven.StoreStats{
		Topics:     len(s.topics),
		Vectors:    len(s.vectors),
		ByKind:     make(map[domain.TopicKind]int),
		ByCategory: make(map[string]int),
		Model:      s.model,
		Dimensions: s.dimensions,
		BuildID:    s.buildID,
		BuiltAt:    s.builtAt,
	}
	for _, t := range s.topics {
		stats.ByKind[t.Kind]++
		stats.ByCategory[t.Category()]++
	}
	return stats, nil
}

// Close is a no-op.
func (s *TopicStore) Close() error { return nil }

func matches(t domain.Topic, filter driven.TopicFilter) bool {
	if filter.Category != "" && t.Category() != filter.Category {
		return false
	}
	if filter.Kind != "" && t.Kind != filter.Kind {
		return false
	}
	return true
}
