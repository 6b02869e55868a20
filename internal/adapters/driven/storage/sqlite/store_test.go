package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/erules-cli/internal/core/domain"
	"github.com/custodia-labs/erules-cli/internal/core/ports/driven"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "erules.db")
	store, err := New(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func seedTopics() ([]domain.Topic, [][]float32) {
	topics := []domain.Topic{
		{
			Reference:         "ORO.FTL.110",
			Title:             "Operator responsibilities",
			Content:           "The operator shall publish rosters.",
			Kind:              domain.KindIR,
			RegulatorySubject: "Part-ORO",
			Domain:            "Air operations",
			Metadata:          map[string]string{"erules_id": "1001"},
		},
		{
			Reference: "AMC1 ORO.FTL.110",
			Title:     "Scheduling",
			Content:   "Scheduling has an important impact on fatigue.",
			Kind:      domain.KindAMCToIR,
		},
		{
			Reference: "CS FTL.1.100",
			Title:     "Applicability",
			Kind:      domain.KindCS,
		},
	}
	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	return topics, vectors
}

func TestStoreRoundtrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	topics, vectors := seedTopics()

	require.NoError(t, store.Begin(ctx, "test-model", 3))
	require.NoError(t, store.SaveBatch(ctx, topics, vectors))

	got, err := store.Get(ctx, "ORO.FTL.110")
	require.NoError(t, err)
	assert.Equal(t, "Operator responsibilities", got.Title)
	assert.Equal(t, domain.KindIR, got.Kind)
	assert.Equal(t, "1001", got.Metadata["erules_id"])

	_, err = store.Get(ctx, "ORO.FTL.999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStoreEmptyBeforeFirstBuild(t *testing.T) {
	store, _ := newTestStore(t)

	_, _, err := store.ModelIdentifier(context.Background())

	assert.ErrorIs(t, err, domain.ErrStoreEmpty)
}

func TestStoreCandidatesRoundtripVectors(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	topics, vectors := seedTopics()

	require.NoError(t, store.Begin(ctx, "test-model", 3))
	require.NoError(t, store.SaveBatch(ctx, topics, vectors))

	candidates, err := store.Candidates(ctx, driven.TopicFilter{})
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	byRef := map[string][]float32{}
	for _, c := range candidates {
		byRef[c.Topic.Reference] = c.Vector
	}
	assert.Equal(t, []float32{1, 0, 0}, byRef["ORO.FTL.110"])
	assert.Equal(t, []float32{0, 1, 0}, byRef["AMC1 ORO.FTL.110"])
}

func TestStoreFilters(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	topics, vectors := seedTopics()

	require.NoError(t, store.Begin(ctx, "test-model", 3))
	require.NoError(t, store.SaveBatch(ctx, topics, vectors))

	ftl, err := store.ListTopics(ctx, driven.TopicFilter{Category: "ORO.FTL"})
	require.NoError(t, err)
	assert.Len(t, ftl, 2)

	amcs, err := store.ListTopics(ctx, driven.TopicFilter{Kind: domain.KindAMCToIR})
	require.NoError(t, err)
	require.Len(t, amcs, 1)
	assert.Equal(t, "AMC1 ORO.FTL.110", amcs[0].Reference)

	refs, err := store.ListReferences(ctx, driven.TopicFilter{Category: "ORO.FTL"})
	require.NoError(t, err)
	assert.Equal(t, []string{"AMC1 ORO.FTL.110", "ORO.FTL.110"}, refs)

	categories, err := store.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, categories["ORO.FTL"])
	assert.Equal(t, 1, categories["CS FTL"])
}

func TestStoreBeginWipesPreviousBuild(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	topics, vectors := seedTopics()

	require.NoError(t, store.Begin(ctx, "test-model", 3))
	require.NoError(t, store.SaveBatch(ctx, topics, vectors))

	firstStats, err := store.Stats(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Begin(ctx, "other-model", 4))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Topics)
	assert.Zero(t, stats.Vectors)
	assert.Equal(t, "other-model", stats.Model)
	assert.NotEqual(t, firstStats.BuildID, stats.BuildID)
}

func TestStoreSaveBatchMisalignedFails(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	topics, _ := seedTopics()

	require.NoError(t, store.Begin(ctx, "test-model", 3))
	err := store.SaveBatch(ctx, topics, [][]float32{{1, 0, 0}})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStoreStats(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	topics, vectors := seedTopics()

	require.NoError(t, store.Begin(ctx, "test-model", 3))
	require.NoError(t, store.SaveBatch(ctx, topics, vectors))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Topics)
	assert.Equal(t, 3, stats.Vectors)
	assert.Equal(t, 2, stats.ByKind[domain.KindIR]+stats.ByKind[domain.KindAMCToIR])
	assert.Equal(t, "test-model", stats.Model)
	assert.Equal(t, 3, stats.Dimensions)
	assert.NotEmpty(t, stats.BuildID)
	assert.False(t, stats.BuiltAt.IsZero())
	assert.Greater(t, stats.SizeBytes, int64(0))
}

func TestStoreSurvivesReopen(t *testing.T) {
	store, path := newTestStore(t)
	ctx := context.Background()
	topics, vectors := seedTopics()

	require.NoError(t, store.Begin(ctx, "test-model", 3))
	require.NoError(t, store.SaveBatch(ctx, topics, vectors))
	model, dims, err := store.ModelIdentifier(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	gotModel, gotDims, err := reopened.ModelIdentifier(ctx)
	require.NoError(t, err)
	assert.Equal(t, model, gotModel)
	assert.Equal(t, dims, gotDims)

	got, err := reopened.Get(ctx, "ORO.FTL.110")
	require.NoError(t, err)
	assert.Equal(t, "Operator responsibilities", got.Title)
}

func TestVectorBytesRoundtrip(t *testing.T) {
	vector := []float32{0.5, -1.25, 3.75, 0}

	assert.Equal(t, vector, bytesToFloat32Slice(float32SliceToBytes(vector)))
	assert.Empty(t, bytesToFloat32Slice(nil))
}
