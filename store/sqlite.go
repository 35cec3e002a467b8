package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/twfolio"
	"github.com/etnz/twfolio/date"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `CREATE TABLE IF NOT EXISTS transactions (
	seq      INTEGER PRIMARY KEY AUTOINCREMENT,
	date     TEXT NOT NULL,
	code     TEXT NOT NULL,
	name     TEXT NOT NULL DEFAULT '',
	side     TEXT NOT NULL,
	quantity TEXT NOT NULL,
	price    TEXT NOT NULL,
	fee      TEXT NOT NULL,
	tax      TEXT NOT NULL
)`

// SQLite is a ledger stored in a SQLite database. Rows are ordered by their
// insertion sequence.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens, and creates if needed, the ledger database at path.
// Paths starting with "file:" are used as is.
func OpenSQLite(path string) (*SQLite, error) {
	if !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		path += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}
	// a single writer keeps the sequence order equal to the append order
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create ledger schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error { return s.db.Close() }

// List returns every transaction in insertion order.
func (s *SQLite) List(ctx context.Context) ([]twfolio.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date, code, name, side, quantity, price, fee, tax FROM transactions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []twfolio.Transaction
	for rows.Next() {
		var on, code, name, side, quantity, price, fee, tax string
		if err := rows.Scan(&on, &code, &name, &side, &quantity, &price, &fee, &tax); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		tx, err := scanTransaction(on, code, name, side, quantity, price, fee, tax)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", len(txs), err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func scanTransaction(on, code, name, side, quantity, price, fee, tax string) (twfolio.Transaction, error) {
	d, err := date.Parse(on)
	if err != nil {
		return twfolio.Transaction{}, err
	}
	sd, err := twfolio.ParseSide(side)
	if err != nil {
		return twfolio.Transaction{}, err
	}
	var amounts [4]decimal.Decimal
	for i, s := range []string{quantity, price, fee, tax} {
		if amounts[i], err = decimal.NewFromString(s); err != nil {
			return twfolio.Transaction{}, fmt.Errorf("invalid amount %q: %w", s, err)
		}
	}
	return twfolio.Transaction{
		Date:     d,
		Code:     code,
		Name:     name,
		Side:     sd,
		Quantity: twfolio.Q(amounts[0]),
		Price:    twfolio.TWD(amounts[1]),
		Fee:      twfolio.TWD(amounts[2]),
		Tax:      twfolio.TWD(amounts[3]),
	}, nil
}

// Append inserts tx after every existing transaction.
func (s *SQLite) Append(ctx context.Context, tx twfolio.Transaction) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (date, code, name, side, quantity, price, fee, tax) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.Date.String(), tx.Code, tx.Name, tx.Side.String(), tx.Quantity.String(),
		tx.Price.Decimal().String(), tx.Fee.Decimal().String(), tx.Tax.Decimal().String())
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// Delete removes the index-th transaction in insertion order.
func (s *SQLite) Delete(ctx context.Context, index int) error {
	if index < 0 {
		return fmt.Errorf("%w: %d", twfolio.ErrIndexOutOfRange, index)
	}
	t, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer t.Rollback()

	var seq int64
	err = t.QueryRowContext(ctx, `SELECT seq FROM transactions ORDER BY seq LIMIT 1 OFFSET ?`, index).Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %d", twfolio.ErrIndexOutOfRange, index)
	}
	if err != nil {
		return fmt.Errorf("failed to find transaction %d: %w", index, err)
	}
	if _, err := t.ExecContext(ctx, `DELETE FROM transactions WHERE seq = ?`, seq); err != nil {
		return fmt.Errorf("failed to delete transaction %d: %w", index, err)
	}
	return t.Commit()
}
