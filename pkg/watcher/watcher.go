package watcher

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"github.com/txsociety/klever-sdk/pkg/core"
	"github.com/txsociety/klever-sdk/pkg/provider"
	"github.com/txsociety/klever-sdk/pkg/txstore"
	"github.com/txsociety/klever-sdk/pkg/webhook"
	"log/slog"
	"sync"
	"time"
)

const (
	trackBatchSize  = 50
	notifyBatchSize = 10
)

// Watcher drives every recorded broadcast to a terminal state and notifies a
// webhook endpoint once it gets there.
type Watcher struct {
	ledger      ledger
	storage     storage
	sender      sender
	interval    time.Duration
	expireAfter time.Duration
}

func New(ledger ledger, storage storage, sender sender, interval, expireAfter time.Duration) *Watcher {
	return &Watcher{
		ledger:      ledger,
		storage:     storage,
		sender:      sender,
		interval:    interval,
		expireAfter: expireAfter,
	}
}

func (w *Watcher) Run(ctx context.Context, wg *sync.WaitGroup) {
	go w.runTracker(ctx, wg)
	if w.sender != nil {
		go w.runNotifier(ctx, wg)
	}
}

func (w *Watcher) runTracker(ctx context.Context, wg *sync.WaitGroup) {
	slog.Info("transaction tracker started")
	wg.Add(1)
	defer wg.Done()
	for {
		select {
		case <-ctx.Done():
			slog.Info("transaction tracker stopped")
			return
		case <-time.After(w.interval):
			if err := w.trackPending(ctx); err != nil {
				slog.Error("tracking pending transactions", "error", err.Error())
			}
		}
	}
}

func (w *Watcher) trackPending(ctx context.Context) error {
	pending, err := w.storage.ListPending(ctx, trackBatchSize)
	if err != nil {
		return err
	}
	for _, tx := range pending {
		info, err := w.ledger.GetTransaction(ctx, tx.Hash, provider.SkipCache())
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				if time.Since(tx.CreatedAt) > w.expireAfter {
					if err := w.storage.MarkStatus(ctx, tx.Hash, txstore.StatusExpired, nil, nil); err != nil {
						return err
					}
					slog.Warn("transaction expired", "hash", tx.Hash)
				}
				continue
			}
			slog.Error("fetch tracked transaction", "hash", tx.Hash, "error", err.Error())
			continue
		}
		switch info.Status {
		case core.TransactionSuccess:
			block := info.BlockNum
			if err := w.storage.MarkStatus(ctx, tx.Hash, txstore.StatusConfirmed, &block, &info.ResultCode); err != nil {
				return err
			}
		case core.TransactionFailed:
			block := info.BlockNum
			if err := w.storage.MarkStatus(ctx, tx.Hash, txstore.StatusFailed, &block, &info.ResultCode); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Watcher) runNotifier(ctx context.Context, wg *sync.WaitGroup) {
	slog.Info("notifier started")
	wg.Add(1)
	defer wg.Done()
	for {
		select {
		case <-ctx.Done():
			slog.Info("notifier stopped")
			return
		case <-time.After(w.interval):
			if err := w.notify(ctx); err != nil {
				slog.Error("notify failed", "error", err.Error())
			}
		}
	}
}

func (w *Watcher) notify(ctx context.Context) error {
	unnotified, err := w.storage.ListUnnotified(ctx, notifyBatchSize)
	if err != nil {
		return err
	}
	for _, tx := range unnotified {
		notification := webhook.Notification{
			ID:        uuid.New(),
			TxHash:    tx.Hash,
			Sender:    tx.Sender,
			Status:    string(tx.Status),
			Timestamp: tx.UpdatedAt.Unix(),
		}
		if tx.BlockNonce != nil {
			notification.BlockNonce = *tx.BlockNonce
		}
		if tx.ResultCode != nil {
			notification.ResultCode = *tx.ResultCode
		}
		if err := w.sender.Send(ctx, notification); err != nil {
			return err
		}
		if err := w.storage.MarkNotified(ctx, tx.Hash); err != nil {
			return err
		}
	}
	return nil
}
