// Package sqlite implements a local single-file backend. The schema mirrors
// the document layout: one row per installment record, tags in a side table.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"financas/internal/core"

	_ "modernc.org/sqlite"
)

const (
	dateLayout = "2006-01-02"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// InsertGroup writes the whole installment group inside one SQL transaction
// so the all-installments-or-none invariant holds.
func (r *Repository) InsertGroup(ctx context.Context, records []core.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	const insertRecord = `
		INSERT INTO transactions
			(date, description, category, amount_cents, type, payment_method,
			 installment_index, installment_count, group_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	const insertTag = `
		INSERT OR IGNORE INTO transaction_tags (transaction_id, name) VALUES (?, ?)`

	for _, t := range records {
		res, err := tx.ExecContext(ctx, insertRecord,
			t.Date.Format(dateLayout),
			t.Description,
			t.Category,
			t.Amount.Cents,
			string(t.Type),
			t.PaymentMethod,
			t.InstallmentIndex,
			t.InstallmentCount,
			t.GroupID,
			t.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("insert transaction %d/%d: %w", t.InstallmentIndex, t.InstallmentCount, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("transaction row id: %w", err)
		}
		for _, tag := range t.Tags {
			if _, err := tx.ExecContext(ctx, insertTag, id, tag); err != nil {
				return fmt.Errorf("insert transaction tag %q: %w", tag, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction group: %w", err)
	}

	slog.InfoContext(ctx, "Transaction group saved to SQLite",
		"group_id", records[0].GroupID,
		"count", len(records))
	return nil
}

func (r *Repository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	tagsByID, err := r.loadTags(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, description, category, amount_cents, type,
		       payment_method, installment_index, installment_count,
		       group_id, created_at
		FROM transactions`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			id                 int64
			dateStr, createdAt string
			t                  core.Transaction
			typ                string
		)
		if err := rows.Scan(&id, &dateStr, &t.Description, &t.Category,
			&t.Amount.Cents, &typ, &t.PaymentMethod, &t.InstallmentIndex,
			&t.InstallmentCount, &t.GroupID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = core.TransactionType(typ).Coerced()
		if t.Date, err = time.ParseInLocation(dateLayout, dateStr, time.UTC); err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", dateStr, err)
		}
		if t.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		t.Tags = tagsByID[id]
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (r *Repository) loadTags(ctx context.Context) (map[int64][]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT transaction_id, name FROM transaction_tags`)
	if err != nil {
		return nil, fmt.Errorf("query transaction tags: %w", err)
	}
	defer rows.Close()

	tags := make(map[int64][]string)
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan transaction tag: %w", err)
		}
		tags[id] = append(tags[id], name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction tags: %w", err)
	}
	return tags, nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]string, error) {
	return r.listNames(ctx, `SELECT name FROM categories ORDER BY name`)
}

func (r *Repository) ListTags(ctx context.Context) ([]string, error) {
	return r.listNames(ctx, `SELECT name FROM tags ORDER BY name`)
}

func (r *Repository) listNames(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate names: %w", err)
	}
	return names, nil
}

func (r *Repository) AddCategory(ctx context.Context, name string) error {
	if _, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO categories (name) VALUES (?)`, name); err != nil {
		return fmt.Errorf("insert category %q: %w", name, err)
	}
	return nil
}

func (r *Repository) AddTag(ctx context.Context, name string) error {
	if _, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO tags (name) VALUES (?)`, name); err != nil {
		return fmt.Errorf("insert tag %q: %w", name, err)
	}
	return nil
}
