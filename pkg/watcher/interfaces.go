package watcher

import (
	"context"
	"github.com/txsociety/klever-sdk/pkg/core"
	"github.com/txsociety/klever-sdk/pkg/provider"
	"github.com/txsociety/klever-sdk/pkg/txstore"
	"github.com/txsociety/klever-sdk/pkg/webhook"
)

type ledger interface {
	GetTransaction(ctx context.Context, hash string, opts ...provider.AccountOption) (*core.TransactionInfo, error)
}

type storage interface {
	ListPending(ctx context.Context, limit int64) ([]txstore.SubmittedTransaction, error)
	MarkStatus(ctx context.Context, hash string, status txstore.Status, blockNonce *uint64, resultCode *string) error
	ListUnnotified(ctx context.Context, limit int64) ([]txstore.SubmittedTransaction, error)
	MarkNotified(ctx context.Context, hash string) error
}

type sender interface {
	Send(ctx context.Context, notification webhook.Notification) error
}
