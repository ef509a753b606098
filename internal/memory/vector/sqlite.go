package vector

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MohammedAswathM/Ontology-System-Aswath/internal/types"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SqliteVecStore persists records in a SQLite table. Embeddings are stored
// as little-endian float64 blobs and searched by brute force.
type SqliteVecStore struct {
	mu        sync.RWMutex
	db        *sql.DB
	dims      int
	tableName string
	closed    bool
}

// SqliteVecConfig holds configuration for SqliteVecStore.
type SqliteVecConfig struct {
	DBPath    string
	TableName string // default "entity_vectors"
	Dims      int
}

// NewSqliteVecStore opens (or creates) the database at cfg.DBPath.
func NewSqliteVecStore(cfg SqliteVecConfig) (*SqliteVecStore, error) {
	if cfg.DBPath == "" {
		return nil, types.NewError(ErrCodeInvalidConfig, "database path cannot be empty")
	}
	if cfg.Dims <= 0 {
		return nil, types.NewError(ErrCodeInvalidConfig, fmt.Sprintf("dimensions must be positive, got %d", cfg.Dims))
	}
	if cfg.TableName == "" {
		cfg.TableName = "entity_vectors"
	}
	if !tableNamePattern.MatchString(cfg.TableName) {
		return nil, types.NewError(ErrCodeInvalidConfig, fmt.Sprintf("invalid table name %q", cfg.TableName))
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", cfg.DBPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, types.WrapError(ErrCodeVectorStoreFailed, "failed to open database", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, types.WrapError(ErrCodeVectorStoreUnavailable, "failed to ping database", err)
	}

	s := &SqliteVecStore{db: db, dims: cfg.Dims, tableName: cfg.TableName}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, types.WrapError(ErrCodeVectorStoreFailed, "failed to initialize schema", err)
	}
	return s, nil
}

func (s *SqliteVecStore) initSchema() error {
	_, err := s.db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			embedding BLOB NOT NULL,
			metadata TEXT,
			updated_at TIMESTAMP NOT NULL
		)`, s.tableName))
	return err
}

func (s *SqliteVecStore) Store(ctx context.Context, record VectorRecord) error {
	if err := checkRecord(record, s.dims); err != nil {
		return err
	}
	meta, err := encodeMetadata(record.Metadata)
	if err != nil {
		return err
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed()
	}

	_, err = s.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, content, embedding, metadata, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			embedding = excluded.embedding,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at`, s.tableName),
		record.ID, record.Content, serializeEmbedding(record.Embedding), meta, record.UpdatedAt)
	if err != nil {
		return types.WrapError(ErrCodeVectorStoreFailed, "failed to upsert record", err)
	}
	return nil
}

func (s *SqliteVecStore) Search(ctx context.Context, query VectorQuery) ([]VectorResult, error) {
	if err := checkQuery(query, s.dims); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed()
	}

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT id, content, embedding, metadata, updated_at FROM %s", s.tableName))
	if err != nil {
		return nil, types.WrapError(ErrCodeVectorSearchFailed, "failed to query vectors", err)
	}
	defer rows.Close()

	var results []VectorResult
	for rows.Next() {
		record, err := s.scan(rows)
		if err != nil {
			return nil, err
		}
		if r, ok := score(query, record); ok {
			results = append(results, r)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, types.WrapError(ErrCodeVectorSearchFailed, "error iterating rows", err)
	}
	return rankResults(results, query.TopK), nil
}

func (s *SqliteVecStore) Get(ctx context.Context, id string) (*VectorRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed()
	}

	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT id, content, embedding, metadata, updated_at FROM %s WHERE id = ?", s.tableName), id)
	record, err := s.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.NewError(ErrCodeVectorNotFound, fmt.Sprintf("vector record not found: %s", id))
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *SqliteVecStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed()
	}

	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.tableName), id); err != nil {
		return types.WrapError(ErrCodeVectorStoreFailed, "failed to delete record", err)
	}
	return nil
}

func (s *SqliteVecStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, errClosed()
	}
	return s.count(ctx)
}

func (s *SqliteVecStore) Health(ctx context.Context) types.HealthStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return types.Unhealthy("sqlite vector store is closed")
	}
	if err := s.db.PingContext(ctx); err != nil {
		return types.Unhealthy(fmt.Sprintf("database ping failed: %v", err))
	}
	n, err := s.count(ctx)
	if err != nil {
		return types.Degraded(fmt.Sprintf("failed to count records: %v", err))
	}
	return types.Healthy(fmt.Sprintf("sqlite vector store operational with %d records (dims: %d)", n, s.dims))
}

func (s *SqliteVecStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *SqliteVecStore) count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.tableName)).Scan(&n)
	if err != nil {
		return 0, types.WrapError(ErrCodeVectorStoreFailed, "failed to count records", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SqliteVecStore) scan(row rowScanner) (VectorRecord, error) {
	var (
		record VectorRecord
		blob   []byte
		meta   sql.NullString
	)
	if err := row.Scan(&record.ID, &record.Content, &blob, &meta, &record.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return record, err
		}
		return record, types.WrapError(ErrCodeVectorSearchFailed, "failed to scan record", err)
	}

	embedding, err := deserializeEmbedding(blob, s.dims)
	if err != nil {
		return record, types.WrapError(ErrCodeVectorSearchFailed, "failed to decode embedding", err)
	}
	record.Embedding = embedding

	if meta.Valid && meta.String != "" {
		if err := json.Unmarshal([]byte(meta.String), &record.Metadata); err != nil {
			return record, types.WrapError(ErrCodeVectorSearchFailed, "failed to decode metadata", err)
		}
	}
	return record, nil
}

func encodeMetadata(metadata map[string]any) (sql.NullString, error) {
	if metadata == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return sql.NullString{}, types.WrapError(ErrCodeVectorStoreFailed, "failed to encode metadata", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func serializeEmbedding(embedding []float64) []byte {
	buf := make([]byte, len(embedding)*8)
	for i, v := range embedding {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

func deserializeEmbedding(buf []byte, dims int) ([]float64, error) {
	if len(buf) != dims*8 {
		return nil, fmt.Errorf("invalid embedding length: expected %d bytes, got %d", dims*8, len(buf))
	}
	out := make([]float64, dims)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return out, nil
}
