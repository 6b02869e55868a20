// Package sqlite persists topics and embeddings in a local SQLite
// database. The store is the single durable artifact of a build pass:
// wiping the database and rebuilding is always safe.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/custodia-labs/erules-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/erules-cli/internal/core/domain"
	"github.com/custodia-labs/erules-cli/internal/core/ports/driven"
	"github.com/custodia-labs/erules-cli/internal/logger"
)

// Meta keys recorded per build pass.
const (
	metaModelName  = "model_name"
	metaDimensions = "dimensions"
	metaBuildID    = "build_id"
	metaBuiltAt    = "built_at"
)

// Store is a SQLite-backed topic store.
type Store struct {
	db   *sql.DB
	path string
}

var _ driven.TopicStore = (*Store)(nil)

// New opens (or creates) the store database at path and applies
// pending migrations. The parent directory is created as needed.
func New(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying %q: %w", pragma, err)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.checkConsistency(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// migrate applies the embedded migrations in lexical order. Every
// statement is idempotent, so re-running on an up-to-date database is
// a no-op.
func (s *Store) migrate() error {
	entries, err := migrations.Files.ReadDir(".")
	if err != nil {
		return fmt.Errorf("reading migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := migrations.Files.ReadFile(name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		logger.Debug("sqlite: applied migration %s", name)
	}
	return nil
}

// checkConsistency verifies that every stored vector was produced by
// the model recorded in the build metadata. A disagreement means the
// database was corrupted or tampered with; scores computed from it
// would be meaningless.
func (s *Store) checkConsistency() error {
	rows, err := s.db.Query("SELECT DISTINCT model_name FROM embeddings")
	if err != nil {
		return fmt.Errorf("reading vector models: %w", err)
	}
	defer rows.Close()

	var models []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return fmt.Errorf("scanning vector model: %w", err)
		}
		models = append(models, m)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(models) == 0 {
		return nil
	}
	if len(models) > 1 {
		return fmt.Errorf("store holds vectors from %d models: %w", len(models), domain.ErrModelMismatch)
	}

	recorded, err := s.meta(metaModelName)
	if err != nil {
		return err
	}
	if recorded != "" && recorded != models[0] {
		return fmt.Errorf("vectors from %q but metadata records %q: %w",
			models[0], recorded, domain.ErrModelMismatch)
	}
	return nil
}

// Begin wipes the store and records the identity of the coming build.
func (s *Store) Begin(ctx context.Context, model string, dimensions int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting build transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"embeddings", "topics", "store_meta"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	meta := map[string]string{
		metaModelName:  model,
		metaDimensions: strconv.Itoa(dimensions),
		metaBuildID:    uuid.NewString(),
		metaBuiltAt:    time.Now().UTC().Format(time.RFC3339),
	}
	for key, value := range meta {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO store_meta (key, value) VALUES (?, ?)", key, value); err != nil {
			return fmt.Errorf("recording %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing build start: %w", err)
	}
	logger.Info("sqlite: store cleared for build %s (model %s, %d dims)", meta[metaBuildID], model, dimensions)
	return nil
}

// SaveBatch persists topics with their vectors in one transaction.
func (s *Store) SaveBatch(ctx context.Context, topics []domain.Topic, vectors [][]float32) error {
	if len(topics) != len(vectors) {
		return fmt.Errorf("saving batch: %d topics but %d vectors: %w",
			len(topics), len(vectors), domain.ErrInvalidInput)
	}

	model, err := s.meta(metaModelName)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting batch transaction: %w", err)
	}
	defer tx.Rollback()

	topicStmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO topics
			(reference, title, content, kind, category, regulatory_subject,
			 domain, regulatory_source, applicability_date, entry_into_force,
			 metadata, content_handle)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing topic insert: %w", err)
	}
	defer topicStmt.Close()

	vectorStmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO embeddings (reference, vector, model_name)
		VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing vector insert: %w", err)
	}
	defer vectorStmt.Close()

	for i, t := range topics {
		metadata, err := marshalMetadata(t.Metadata)
		if err != nil {
			return fmt.Errorf("encoding metadata for %q: %w", t.Reference, err)
		}
		if _, err := topicStmt.ExecContext(ctx,
			t.Reference, t.Title, t.Content, string(t.Kind), t.Category(),
			t.RegulatorySubject, t.Domain, t.RegulatorySource,
			t.ApplicabilityDate, t.EntryIntoForce, metadata, t.ContentHandle); err != nil {
			return fmt.Errorf("saving topic %q: %w", t.Reference, err)
		}
		if _, err := vectorStmt.ExecContext(ctx,
			t.Reference, float32SliceToBytes(vectors[i]), model); err != nil {
			return fmt.Errorf("saving vector for %q: %w", t.Reference, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}

const topicColumns = `reference, title, content, kind, regulatory_subject,
	domain, regulatory_source, applicability_date, entry_into_force,
	metadata, content_handle`

// Get retrieves a topic by exact reference.
func (s *Store) Get(ctx context.Context, reference string) (*domain.Topic, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+topicColumns+" FROM topics WHERE reference = ?", reference)

	topic, err := scanTopic(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading topic: %w", err)
	}
	return topic, nil
}

// Candidates returns the filtered topics joined with their vectors.
func (s *Store) Candidates(ctx context.Context, filter driven.TopicFilter) ([]driven.Candidate, error) {
	where, args := filterClause(filter, "t.")
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.reference, t.title, t.content, t.kind, t.regulatory_subject,
		       t.domain, t.regulatory_source, t.applicability_date,
		       t.entry_into_force, t.metadata, t.content_handle, e.vector
		FROM topics t
		JOIN embeddings e ON e.reference = t.reference`+where, args...)
	if err != nil {
		return nil, fmt.Errorf("querying candidates: %w", err)
	}
	defer rows.Close()

	var candidates []driven.Candidate
	for rows.Next() {
		var t domain.Topic
		var kind, metadata string
		var blob []byte
		if err := rows.Scan(&t.Reference, &t.Title, &t.Content, &kind,
			&t.RegulatorySubject, &t.Domain, &t.RegulatorySource,
			&t.ApplicabilityDate, &t.EntryIntoForce, &metadata,
			&t.ContentHandle, &blob); err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}
		t.Kind = domain.TopicKind(kind)
		if t.Metadata, err = unmarshalMetadata(metadata); err != nil {
			return nil, fmt.Errorf("decoding metadata for %q: %w", t.Reference, err)
		}
		candidates = append(candidates, driven.Candidate{
			Topic:  t,
			Vector: bytesToFloat32Slice(blob),
		})
	}
	return candidates, rows.Err()
}

// ListTopics returns the filtered topics without vectors, by reference.
func (s *Store) ListTopics(ctx context.Context, filter driven.TopicFilter) ([]domain.Topic, error) {
	where, args := filterClause(filter, "")
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+topicColumns+" FROM topics"+where+" ORDER BY reference", args...)
	if err != nil {
		return nil, fmt.Errorf("querying topics: %w", err)
	}
	defer rows.Close()

	var topics []domain.Topic
	for rows.Next() {
		topic, err := scanTopic(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning topic: %w", err)
		}
		topics = append(topics, *topic)
	}
	return topics, rows.Err()
}

// ListReferences returns the filtered references, ascending.
func (s *Store) ListReferences(ctx context.Context, filter driven.TopicFilter) ([]string, error) {
	where, args := filterClause(filter, "")
	rows, err := s.db.QueryContext(ctx,
		"SELECT reference FROM topics"+where+" ORDER BY reference", args...)
	if err != nil {
		return nil, fmt.Errorf("querying references: %w", err)
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("scanning reference: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// Categories returns per-category topic counts.
func (s *Store) Categories(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT category, COUNT(*) FROM topics GROUP BY category")
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	categories := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories[category] = count
	}
	return categories, rows.Err()
}

// ModelIdentifier returns the model identity recorded at build time.
func (s *Store) ModelIdentifier(ctx context.Context) (string, int, error) {
	model, err := s.meta(metaModelName)
	if err != nil {
		return "", 0, err
	}
	if model == "" {
		return "", 0, domain.ErrStoreEmpty
	}
	dims, err := s.meta(metaDimensions)
	if err != nil {
		return "", 0, err
	}
	dimensions, err := strconv.Atoi(dims)
	if err != nil {
		return "", 0, fmt.Errorf("parsing stored dimensions %q: %w", dims, err)
	}
	return model, dimensions, nil
}

// Stats returns the store statistics.
func (s *Store) Stats(ctx context.Context) (*driven.StoreStats, error) {
	stats := &driven.StoreStats{
		ByKind:     make(map[domain.TopicKind]int),
		ByCategory: make(map[string]int),
	}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM topics").Scan(&stats.Topics); err != nil {
		return nil, fmt.Errorf("counting topics: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM embeddings").Scan(&stats.Vectors); err != nil {
		return nil, fmt.Errorf("counting vectors: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT kind, COUNT(*) FROM topics GROUP BY kind")
	if err != nil {
		return nil, fmt.Errorf("counting kinds: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("scanning kind count: %w", err)
		}
		stats.ByKind[domain.TopicKind(kind)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if stats.ByCategory, err = s.Categories(ctx); err != nil {
		return nil, err
	}

	if stats.Model, err = s.meta(metaModelName); err != nil {
		return nil, err
	}
	if dims, err := s.meta(metaDimensions); err == nil && dims != "" {
		stats.Dimensions, _ = strconv.Atoi(dims)
	}
	if stats.BuildID, err = s.meta(metaBuildID); err != nil {
		return nil, err
	}
	if builtAt, err := s.meta(metaBuiltAt); err == nil && builtAt != "" {
		if ts, err := time.Parse(time.RFC3339, builtAt); err == nil {
			stats.BuiltAt = ts
		}
	}

	if info, err := os.Stat(s.path); err == nil {
		stats.SizeBytes = info.Size()
	}
	return stats, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// meta reads one metadata value, empty when absent.
func (s *Store) meta(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM store_meta WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading meta %s: %w", key, err)
	}
	return value, nil
}

// scanner covers sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTopic(row scanner) (*domain.Topic, error) {
	var t domain.Topic
	var kind, metadata string
	if err := row.Scan(&t.Reference, &t.Title, &t.Content, &kind,
		&t.RegulatorySubject, &t.Domain, &t.RegulatorySource,
		&t.ApplicabilityDate, &t.EntryIntoForce, &metadata, &t.ContentHandle); err != nil {
		return nil, err
	}
	t.Kind = domain.TopicKind(kind)
	var err error
	if t.Metadata, err = unmarshalMetadata(metadata); err != nil {
		return nil, err
	}
	return &t, nil
}

// filterClause builds the WHERE clause for a topic filter. prefix
// qualifies column names in joined queries.
func filterClause(filter driven.TopicFilter, prefix string) (string, []any) {
	var conds []string
	var args []any
	if filter.Category != "" {
		conds = append(conds, prefix+"category = ?")
		args = append(args, filter.Category)
	}
	if filter.Kind != "" {
		conds = append(conds, prefix+"kind = ?")
		args = append(args, string(filter.Kind))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func marshalMetadata(metadata map[string]string) (string, error) {
	if len(metadata) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalMetadata(raw string) (map[string]string, error) {
	if raw == "" || raw == "{}" {
		return nil, nil
	}
	var metadata map[string]string
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}

// float32SliceToBytes encodes a vector as little-endian float32 bytes.
func float32SliceToBytes(vector []float32) []byte {
	buf := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// bytesToFloat32Slice decodes a little-endian float32 blob.
func bytesToFloat32Slice(buf []byte) []float32 {
	vector := make([]float32, len(buf)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vector
}
