package txstore

import (
	"context"
	"errors"
	"github.com/jackc/pgx/v5"
	"github.com/txsociety/klever-sdk/pkg/core"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
	StatusExpired   Status = "expired"
)

// SubmittedTransaction is one broadcast the SDK is tracking to finality.
type SubmittedTransaction struct {
	Hash          string
	Sender        string
	Nonce         uint64
	ContractTypes []int32
	Status        Status
	BlockNonce    *uint64
	ResultCode    *string
	Notified      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Record registers a freshly broadcast transaction. Re-recording the same
// hash is a no-op, broadcasts are retried against the same wire bytes.
func (s *Store) Record(ctx context.Context, hash string, tx *core.Transaction) error {
	contractTypes := make([]int32, len(tx.RawData.Contracts))
	for i, c := range tx.RawData.Contracts {
		contractTypes[i] = int32(c.Type)
	}
	_, err := s.postgres.Exec(ctx, `
		INSERT INTO sdk.submitted_transactions (hash, sender, nonce, contract_types)
		VALUES ($1, $2, $3, $4) ON CONFLICT (hash) DO NOTHING`,
		hash, tx.RawData.Sender, tx.RawData.Nonce, contractTypes)
	return err
}

func (s *Store) Get(ctx context.Context, hash string) (SubmittedTransaction, error) {
	var tx SubmittedTransaction
	err := s.postgres.QueryRow(ctx, `
		SELECT hash, sender, nonce, contract_types, status, block_nonce, result_code, notified, created_at, updated_at
		FROM sdk.submitted_transactions WHERE hash = $1`, hash).
		Scan(&tx.Hash, &tx.Sender, &tx.Nonce, &tx.ContractTypes, &tx.Status, &tx.BlockNonce,
			&tx.ResultCode, &tx.Notified, &tx.CreatedAt, &tx.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return SubmittedTransaction{}, core.ErrNotFound
	}
	if err != nil {
		return SubmittedTransaction{}, err
	}
	return tx, nil
}

// ListPending returns transactions still awaiting a terminal state, oldest
// first.
func (s *Store) ListPending(ctx context.Context, limit int64) ([]SubmittedTransaction, error) {
	rows, err := s.postgres.Query(ctx, `
		SELECT hash, sender, nonce, contract_types, status, block_nonce, result_code, notified, created_at, updated_at
		FROM sdk.submitted_transactions WHERE status = $1 ORDER BY created_at LIMIT $2`,
		StatusPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// MarkStatus moves a transaction to a terminal state and queues it for
// notification.
func (s *Store) MarkStatus(ctx context.Context, hash string, status Status, blockNonce *uint64, resultCode *string) error {
	_, err := s.postgres.Exec(ctx, `
		UPDATE sdk.submitted_transactions
		SET status = $2, block_nonce = $3, result_code = $4, notified = false, updated_at = now()
		WHERE hash = $1`,
		hash, status, blockNonce, resultCode)
	return err
}

// ListUnnotified returns terminal transactions whose webhook has not been
// acknowledged yet.
func (s *Store) ListUnnotified(ctx context.Context, limit int64) ([]SubmittedTransaction, error) {
	rows, err := s.postgres.Query(ctx, `
		SELECT hash, sender, nonce, contract_types, status, block_nonce, result_code, notified, created_at, updated_at
		FROM sdk.submitted_transactions
		WHERE NOT notified AND status != $1 ORDER BY updated_at LIMIT $2`,
		StatusPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (s *Store) MarkNotified(ctx context.Context, hash string) error {
	_, err := s.postgres.Exec(ctx, `
		UPDATE sdk.submitted_transactions SET notified = true, updated_at = now() WHERE hash = $1`, hash)
	return err
}

func scanTransactions(rows pgx.Rows) ([]SubmittedTransaction, error) {
	var txs []SubmittedTransaction
	for rows.Next() {
		var tx SubmittedTransaction
		err := rows.Scan(&tx.Hash, &tx.Sender, &tx.Nonce, &tx.ContractTypes, &tx.Status, &tx.BlockNonce,
			&tx.ResultCode, &tx.Notified, &tx.CreatedAt, &tx.UpdatedAt)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return txs, nil
}
