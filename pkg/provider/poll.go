package provider

import (
	"context"
	"errors"
	"github.com/txsociety/klever-sdk/pkg/core"
	"time"
)

type ProgressStatus string

const (
	ProgressPending    ProgressStatus = "pending"
	ProgressConfirming ProgressStatus = "confirming"
	ProgressTimeout    ProgressStatus = "timeout"
)

// ProgressEvent is emitted once per polling tick that does not terminate the
// wait. Tx carries the latest snapshot when the ledger has one.
type ProgressEvent struct {
	Status        ProgressStatus
	Attempt       int
	Confirmations uint64
	Tx            *core.TransactionInfo
}

// WaitForTransaction polls for hash until it is final, the attempt ceiling is
// reached, or ctx ends. A nil, nil result means the transaction was not final
// within the window (including the case where the requested confirmation
// count was still building when the ceiling hit). A failed transaction is
// returned as-is, failure is terminal. Any other error aborts the wait.
func (p *Provider) WaitForTransaction(ctx context.Context, hash string, confirmations int, onProgress func(ProgressEvent)) (*core.TransactionInfo, error) {
	emit := func(ev ProgressEvent) {
		if onProgress != nil {
			onProgress(ev)
		}
	}
	for attempt := 0; attempt < p.pollAttempts; attempt++ {
		tx, err := p.GetTransaction(ctx, hash, SkipCache())
		switch {
		case err != nil && errors.Is(err, core.ErrNotFound):
			emit(ProgressEvent{Status: ProgressPending, Attempt: attempt})
		case err != nil:
			return nil, err
		case tx.Status == core.TransactionPending:
			emit(ProgressEvent{Status: ProgressPending, Attempt: attempt, Tx: tx})
		case tx.Status == core.TransactionFailed:
			return tx, nil
		default:
			if confirmations <= 1 {
				return tx, nil
			}
			height, err := p.GetBlockNumber(ctx)
			if err != nil {
				return nil, err
			}
			var current uint64
			if height >= tx.BlockNum {
				current = height - tx.BlockNum + 1
			}
			if current >= uint64(confirmations) {
				return tx, nil
			}
			emit(ProgressEvent{Status: ProgressConfirming, Attempt: attempt, Confirmations: current, Tx: tx})
		}
		if attempt == p.pollAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.pollInterval):
		}
	}
	emit(ProgressEvent{Status: ProgressTimeout, Attempt: p.pollAttempts})
	return nil, nil
}
