// pkg/register/postgres.go

package register

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bwmarrin/snowflake"
	_ "github.com/lib/pq" // Import the PostgreSQL driver
)

const schema = `CREATE TABLE IF NOT EXISTS issued_invoices (
	id            BIGINT PRIMARY KEY,
	file_name     TEXT NOT NULL,
	customer_name TEXT NOT NULL,
	item_count    INTEGER NOT NULL,
	grand_total   NUMERIC(18, 2) NOT NULL,
	size_bytes    INTEGER NOT NULL,
	archive_url   TEXT NOT NULL DEFAULT '',
	issued_at     TIMESTAMPTZ NOT NULL
)`

// PostgresRegister stores issued documents in Postgres.
type PostgresRegister struct {
	db *sql.DB
}

// OpenPostgres connects to dsn and makes sure the table exists.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresRegister, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open register database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect register database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create register table: %w", err)
	}
	return NewPostgresRegister(db), nil
}

// NewPostgresRegister wraps an open database.
func NewPostgresRegister(db *sql.DB) *PostgresRegister {
	return &PostgresRegister{db: db}
}

func (p *PostgresRegister) Record(ctx context.Context, doc Issued) error {
	const query = `INSERT INTO issued_invoices
	(id, file_name, customer_name, item_count, grand_total, size_bytes, archive_url, issued_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := p.db.ExecContext(ctx, query,
		doc.ID.Int64(), doc.FileName, doc.CustomerName, doc.ItemCount,
		doc.GrandTotal, doc.SizeBytes, doc.ArchiveURL, doc.IssuedAt,
	)
	return err
}

func (p *PostgresRegister) Recent(ctx context.Context, limit int) ([]Issued, error) {
	const query = `SELECT id, file_name, customer_name, item_count, grand_total, size_bytes, archive_url, issued_at
	FROM issued_invoices ORDER BY issued_at DESC LIMIT $1`

	if limit <= 0 {
		limit = 50
	}
	rows, err := p.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]Issued, 0)
	for rows.Next() {
		var (
			doc Issued
			id  int64
		)
		if err := rows.Scan(&id, &doc.FileName, &doc.CustomerName, &doc.ItemCount,
			&doc.GrandTotal, &doc.SizeBytes, &doc.ArchiveURL, &doc.IssuedAt); err != nil {
			return nil, err
		}
		doc.ID = snowflake.ID(id)
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Close releases the database.
func (p *PostgresRegister) Close() error {
	return p.db.Close()
}

var _ Register = (*PostgresRegister)(nil)
