package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/erules-cli/internal/core/domain"
	"github.com/custodia-labs/erules-cli/internal/core/ports/driven"
	"github.com/custodia-labs/erules-cli/internal/core/ports/driving"
	"github.com/custodia-labs/erules-cli/internal/logger"
)

// IndexService builds the topic store from an eRules corpus: parse,
// batch-encode, persist. A build pass always starts from an empty store.
type IndexService struct {
	parser   driven.CorpusParser
	store    driven.TopicStore
	embedder driven.EmbeddingService

	batchSize     int
	maxInputChars int
}

var _ driving.IndexService = (*IndexService)(nil)

// NewIndexService creates an index service. batchSize and maxInputChars
// of zero fall back to the configured defaults.
func NewIndexService(parser driven.CorpusParser, store driven.TopicStore, embedder driven.EmbeddingService, batchSize, maxInputChars int) *IndexService {
	defaults := domain.DefaultSettings().Embedding
	if batchSize <= 0 {
		batchSize = defaults.BatchSize
	}
	if maxInputChars <= 0 {
		maxInputChars = defaults.MaxInputChars
	}
	return &IndexService{
		parser:        parser,
		store:         store,
		embedder:      embedder,
		batchSize:     batchSize,
		maxInputChars: maxInputChars,
	}
}

// Build parses the corpus and rebuilds the store from scratch.
func (s *IndexService) Build(ctx context.Context, corpusPath string) (*domain.BuildReport, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	start := time.Now()

	logger.Section("Parse")
	topics, summary, err := s.parser.Parse(ctx, corpusPath)
	if err != nil {
		return nil, fmt.Errorf("parsing corpus: %w", err)
	}
	logger.Info("parsed %d topics (%d discarded, %d duplicates, %d unreferenced)",
		summary.Topics, summary.Discarded, summary.Duplicates, summary.Unreferenced)

	// Fail before wiping the store if the encoder is down.
	if err := s.embedder.Ping(ctx); err != nil {
		return nil, fmt.Errorf("checking embedding service: %w", err)
	}

	logger.Section("Index")
	model := s.embedder.ModelName()
	dimensions := s.embedder.Dimensions()
	if err := s.store.Begin(ctx, model, dimensions); err != nil {
		return nil, fmt.Errorf("starting build pass: %w", err)
	}

	indexed := 0
	for offset := 0; offset < len(topics); offset += s.batchSize {
		end := offset + s.batchSize
		if end > len(topics) {
			end = len(topics)
		}
		batch := topics[offset:end]

		texts := make([]string, len(batch))
		for i, t := range batch {
			texts[i] = truncateText(t.EmbeddingText(), s.maxInputChars)
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("encoding batch at %d: %w", offset, err)
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("encoding batch at %d: got %d vectors for %d texts", offset, len(vectors), len(batch))
		}

		if err := s.store.SaveBatch(ctx, batch, vectors); err != nil {
			return nil, fmt.Errorf("saving batch at %d: %w", offset, err)
		}

		indexed += len(batch)
		logger.Debug("indexed %d/%d topics", indexed, len(topics))
	}

	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading store stats: %w", err)
	}

	return &domain.BuildReport{
		CorpusPath: corpusPath,
		Parse:      *summary,
		Indexed:    indexed,
		Model:      model,
		Dimensions: dimensions,
		BuildID:    stats.BuildID,
		Duration:   time.Since(start),
	}, nil
}

// truncateText bounds the text submitted per encode call. Rune-safe:
// cutting a UTF-8 sequence in half would feed the encoder garbage.
func truncateText(text string, maxChars int) string {
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}
