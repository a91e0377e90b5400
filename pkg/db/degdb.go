package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yumyai/knowdegs/pkg/model"
)

// Defining possible error
var ErrSessionNotFound = errors.New("report session does not exist")

// SessionStore persists uploaded tables so the report and export pages
// can address them by session id. The table itself stays read-only:
// every row is written once at upload time.
type SessionStore struct {
	degSQL *sql.DB
}

func NewSessionStore(db *sql.DB) (*SessionStore, error) {
	store := &SessionStore{degSQL: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SessionStore) ensureSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS report_sessions (
		session_id TEXT PRIMARY KEY,
		filename   TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS deg_rows (
		session_id  TEXT NOT NULL,
		row_ord     INTEGER NOT NULL,
		gene_symbol TEXT NOT NULL,
		log2_fc     REAL NOT NULL,
		padj        REAL NOT NULL,
		is_hub      TEXT NOT NULL,
		regulation  TEXT NOT NULL,
		PRIMARY KEY (session_id, row_ord)
	);
	`
	if _, err := s.degSQL.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create session schema: %w", err)
	}
	return nil
}

// SaveTable stores an augmented table under a fresh session id and
// returns the id.
func (s *SessionStore) SaveTable(ctx context.Context, table *model.DEGTable) (string, error) {
	sessionID := uuid.New().String()

	tx, err := s.degSQL.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to start transaction: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO report_sessions (session_id, filename) VALUES (?, ?)`,
		sessionID, table.Filename)
	if err != nil {
		tx.Rollback()
		return "", fmt.Errorf("failed to insert session: %w", err)
	}

	for ord, row := range table.Rows {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO deg_rows (session_id, row_ord, gene_symbol, log2_fc, padj, is_hub, regulation)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			sessionID, ord, row.GeneSymbol, row.Log2FC, row.Padj, row.IsHub, row.Regulation)
		if err != nil {
			tx.Rollback()
			return "", fmt.Errorf("failed to insert row %d: %w", ord, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit session: %w", err)
	}

	return sessionID, nil
}

// LoadTable reads the augmented table back in original row order.
func (s *SessionStore) LoadTable(ctx context.Context, sessionID string) (*model.DEGTable, error) {
	var filename string
	err := s.degSQL.QueryRowContext(ctx,
		`SELECT filename FROM report_sessions WHERE session_id = ?`,
		sessionID).Scan(&filename)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	rows, err := s.degSQL.QueryContext(ctx,
		`SELECT gene_symbol, log2_fc, padj, is_hub, regulation
		 FROM deg_rows WHERE session_id = ? ORDER BY row_ord`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	defer rows.Close()

	table := &model.DEGTable{Filename: filename}
	for rows.Next() {
		var row model.DEGRow
		if err := rows.Scan(&row.GeneSymbol, &row.Log2FC, &row.Padj, &row.IsHub, &row.Regulation); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		table.Rows = append(table.Rows, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	return table, nil
}
