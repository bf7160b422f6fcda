// Package sqlite provides a DocumentIndex persisted in SQLite. Embeddings
// are stored as little-endian float32 blobs; similarity is computed
// in-process with brute-force cosine over one document's chunks, which is
// fine at single-document scale.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/docwizard/docwizard/internal/adapters/driven/index/sqlite/migrations"
	"github.com/docwizard/docwizard/internal/core/domain"
	"github.com/docwizard/docwizard/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.DocumentIndex = (*Index)(nil)

// DefaultK is the candidate count when the caller passes k <= 0.
const DefaultK = 5

// Index is a SQLite-backed per-document vector index.
type Index struct {
	db   *sql.DB
	path string
}

// NewIndex opens (or creates) the index database under dataDir.
// If dataDir is empty, defaults to ~/.docwizard/data/index.db.
func NewIndex(dataDir string) (*Index, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docwizard", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// WAL mode so searches do not block inserts.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	x := &Index{db: db, path: dbPath}

	if err := x.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return x, nil
}

// Close closes the database connection.
func (x *Index) Close() error {
	return x.db.Close()
}

// Path returns the database file path.
func (x *Index) Path() string {
	return x.path
}

// migrate runs all pending migrations.
func (x *Index) migrate(fsys embed.FS) error {
	_, err := x.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := x.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := x.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := x.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Insert stores the document and its chunks in one transaction. A failure
// at any point leaves the index without the document.
func (x *Index) Insert(ctx context.Context, doc domain.Document, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return fmt.Errorf("%w: no chunks to index", domain.ErrIndexCreation)
	}

	dims := len(chunks[0].Embedding)
	for i, chunk := range chunks {
		if chunk.DocumentID != doc.ID {
			return fmt.Errorf("%w: chunk %d belongs to document %s", domain.ErrIndexCreation, i, chunk.DocumentID)
		}
		if len(chunk.Embedding) != dims || dims == 0 {
			return fmt.Errorf("%w: chunk %d has %d dims, expected %d", domain.ErrIndexCreation, i, len(chunk.Embedding), dims)
		}
	}

	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var existing int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents WHERE id = ?", doc.ID).Scan(&existing); err != nil {
		return fmt.Errorf("checking document: %w", err)
	}
	if existing > 0 {
		return fmt.Errorf("%w: document %s already indexed", domain.ErrIndexCreation, doc.ID)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO documents (id, filename, chunk_count, created_at)
		VALUES (?, ?, ?, ?)
	`, doc.ID, doc.Filename, doc.ChunkCount, doc.CreatedAt.UTC()); err != nil {
		return fmt.Errorf("%w: saving document: %v", domain.ErrIndexCreation, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, content, position, embedding)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		blob := float32SliceToBytes(chunk.Embedding)
		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DocumentID,
			chunk.Content, chunk.Position, blob); err != nil {
			return fmt.Errorf("%w: saving chunk %s: %v", domain.ErrIndexCreation, chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Search returns the document's top-k chunks by cosine similarity.
func (x *Index) Search(ctx context.Context, documentID string, query []float32, k int) ([]domain.RetrievedChunk, error) {
	if k <= 0 {
		k = DefaultK
	}

	if _, err := x.documentRow(ctx, documentID); err != nil {
		return nil, err
	}

	rows, err := x.db.QueryContext(ctx, `
		SELECT content, position, embedding
		FROM chunks WHERE document_id = ?
		ORDER BY position
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var results []domain.RetrievedChunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var content string
		var position int
		var blob []byte
		if err := rows.Scan(&content, &position, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		results = append(results, domain.RetrievedChunk{
			Content:    content,
			Similarity: cosineSimilarity(query, bytesToFloat32Slice(blob)),
			Position:   position,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	// Descending score; equal scores keep ascending position order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Clear removes the document and its chunks. Idempotent.
func (x *Index) Clear(ctx context.Context, documentID string) (bool, error) {
	res, err := x.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", documentID)
	if err != nil {
		return false, fmt.Errorf("deleting document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking deletion: %w", err)
	}
	return affected > 0, nil
}

// Stats returns the document's metadata.
func (x *Index) Stats(ctx context.Context, documentID string) (*domain.Document, error) {
	return x.documentRow(ctx, documentID)
}

// Sample returns up to n chunk texts in position order.
func (x *Index) Sample(ctx context.Context, documentID string, n int) ([]string, error) {
	if _, err := x.documentRow(ctx, documentID); err != nil {
		return nil, err
	}
	if n <= 0 {
		n = -1 // SQLite treats negative LIMIT as unbounded
	}

	rows, err := x.db.QueryContext(ctx, `
		SELECT content FROM chunks
		WHERE document_id = ?
		ORDER BY position
		LIMIT ?
	`, documentID, n)
	if err != nil {
		return nil, fmt.Errorf("querying chunk sample: %w", err)
	}
	defer rows.Close()

	var texts []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("scanning chunk sample: %w", err)
		}
		texts = append(texts, content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunk sample: %w", err)
	}
	return texts, nil
}

func (x *Index) documentRow(ctx context.Context, documentID string) (*domain.Document, error) {
	row := x.db.QueryRowContext(ctx, `
		SELECT id, filename, chunk_count, created_at
		FROM documents WHERE id = ?
	`, documentID)

	var doc domain.Document
	if err := row.Scan(&doc.ID, &doc.Filename, &doc.ChunkCount, &doc.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownDocument, documentID)
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return &doc, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// cosineSimilarity reports the cosine of the angle between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
