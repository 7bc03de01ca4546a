package repo

import (
	"context"
	"database/sql"
	"errors"

	"motorline/internal/domain"
)

type Repo struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("not found")

// InsertTrade persists a priced valuation and returns its row id.
func (r Repo) InsertTrade(ctx context.Context, t domain.Trade) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `INSERT INTO trades(year,mileage,value,created_at) VALUES (?,?,?,?)`,
		t.Year, t.Mileage, t.Value, t.CreatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetTrade fetches one trade by id.
func (r Repo) GetTrade(ctx context.Context, id int64) (domain.Trade, error) {
	var t domain.Trade
	err := r.DB.QueryRowContext(ctx, `SELECT id,year,mileage,value,created_at FROM trades WHERE id=?`, id).
		Scan(&t.ID, &t.Year, &t.Mileage, &t.Value, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return t, ErrNotFound
	}
	return t, err
}

// ListTrades returns the most recent trades, newest first.
func (r Repo) ListTrades(ctx context.Context, limit int) ([]domain.Trade, error) {
	if limit <= 0 {
		limit = 25
	}
	rows, err := r.DB.QueryContext(ctx, `SELECT id,year,mileage,value,created_at FROM trades ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Trade
	for rows.Next() {
		var t domain.Trade
		if err := rows.Scan(&t.ID, &t.Year, &t.Mileage, &t.Value, &t.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

// InsertTransaction appends a ledger entry. Insertion order is preserved by
// the seq autoincrement column.
func (r Repo) InsertTransaction(ctx context.Context, t domain.Transaction) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO transactions(id,amount,card_last4,status,ts) VALUES (?,?,?,?,?)`,
		t.ID, t.Amount, t.CardLast4, t.Status, t.Timestamp)
	return err
}

// ListTransactions returns ledger entries in insertion order. A positive
// limit keeps only the most recent entries; 0 returns all of them.
func (r Repo) ListTransactions(ctx context.Context, limit int) ([]domain.Transaction, error) {
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = r.DB.QueryContext(ctx,
			`SELECT id,amount,card_last4,status,ts FROM (SELECT * FROM transactions ORDER BY seq DESC LIMIT ?) ORDER BY seq ASC`, limit)
	} else {
		rows, err = r.DB.QueryContext(ctx, `SELECT id,amount,card_last4,status,ts FROM transactions ORDER BY seq ASC`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.Amount, &t.CardLast4, &t.Status, &t.Timestamp); err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}
