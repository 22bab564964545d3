package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/ghpipe/internal/core/domain"
)

// ListCollectionNames returns existing collections in name order.
func (s *Store) ListCollectionNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM collections ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("%w: list collections: %w", domain.ErrStore, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: scan collection: %w", domain.ErrStore, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list collections: %w", domain.ErrStore, err)
	}
	return names, nil
}

// Drop removes a collection and its documents.
func (s *Store) Drop(ctx context.Context, collection string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE collection = ?", collection); err != nil {
			return fmt.Errorf("%w: drop %s: %w", domain.ErrStore, collection, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", collection); err != nil {
			return fmt.Errorf("%w: drop %s: %w", domain.ErrStore, collection, err)
		}
		return nil
	})
}

// InsertMany appends docs to the collection, creating it when missing.
func (s *Store) InsertMany(ctx context.Context, collection string, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := ensureCollection(ctx, tx, collection); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, "INSERT INTO documents (collection, url, body) VALUES (?, ?, ?)")
		if err != nil {
			return fmt.Errorf("%w: prepare insert: %w", domain.ErrStore, err)
		}
		defer stmt.Close()

		for _, doc := range docs {
			if _, err := stmt.ExecContext(ctx, collection, nullableURL(doc), string(doc.Raw)); err != nil {
				return fmt.Errorf("%w: insert into %s: %w", domain.ErrStore, collection, err)
			}
		}
		return nil
	})
}

// Upsert sets every field of doc on the first document with the same url,
// inserting doc when none matches.
func (s *Store) Upsert(ctx context.Context, collection string, doc domain.Document) error {
	if !doc.HasKey() {
		return domain.ErrMissingKey
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := ensureCollection(ctx, tx, collection); err != nil {
			return err
		}

		var (
			id   int64
			body string
		)
		row := tx.QueryRowContext(ctx,
			"SELECT id, body FROM documents WHERE collection = ? AND url = ? ORDER BY id LIMIT 1",
			collection, doc.URL)
		err := row.Scan(&id, &body)
		if errors.Is(err, sql.ErrNoRows) {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO documents (collection, url, body) VALUES (?, ?, ?)",
				collection, doc.URL, string(doc.Raw))
			if err != nil {
				return fmt.Errorf("%w: insert %s: %w", domain.ErrStore, doc.URL, err)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: find %s: %w", domain.ErrStore, doc.URL, err)
		}

		existing, err := domain.NewDocument([]byte(body))
		if err != nil {
			return fmt.Errorf("%w: decode stored %s: %w", domain.ErrStore, doc.URL, err)
		}
		merged, err := existing.Merge(doc)
		if err != nil {
			return fmt.Errorf("%w: merge %s: %w", domain.ErrStore, doc.URL, err)
		}
		_, err = tx.ExecContext(ctx,
			"UPDATE documents SET body = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
			string(merged.Raw), id)
		if err != nil {
			return fmt.Errorf("%w: update %s: %w", domain.ErrStore, doc.URL, err)
		}
		return nil
	})
}

// Find returns the documents of a collection in insertion order.
func (s *Store) Find(ctx context.Context, collection string) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT body FROM documents WHERE collection = ? ORDER BY id", collection)
	if err != nil {
		return nil, fmt.Errorf("%w: find in %s: %w", domain.ErrStore, collection, err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("%w: scan document: %w", domain.ErrStore, err)
		}
		doc, err := domain.NewDocument([]byte(body))
		if err != nil {
			return nil, fmt.Errorf("%w: decode document: %w", domain.ErrStore, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: find in %s: %w", domain.ErrStore, collection, err)
	}
	return docs, nil
}

func ensureCollection(ctx context.Context, tx *sql.Tx, collection string) error {
	if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO collections (name) VALUES (?)", collection); err != nil {
		return fmt.Errorf("%w: create collection %s: %w", domain.ErrStore, collection, err)
	}
	return nil
}

func nullableURL(doc domain.Document) sql.NullString {
	return sql.NullString{String: doc.URL, Valid: doc.HasKey()}
}
