package events

import (
	"context"
	"encoding/json"
	"github.com/gorilla/websocket"
	"github.com/txsociety/klever-sdk/pkg/core"
	"github.com/txsociety/klever-sdk/pkg/network"
	"log/slog"
	"time"
)

const (
	TopicBlocks       = "blocks"
	TopicTransactions = "transactions"
)

const maxReconnectWait = 30 * time.Second

// BlockEvent is emitted for every block the network mines.
type BlockEvent struct {
	Nonce     uint64 `json:"nonce"`
	Hash      string `json:"hash"`
	TxCount   int    `json:"txCount"`
	Timestamp int64  `json:"timestamp"`
}

// TxEvent is emitted for every transaction included in a block.
type TxEvent struct {
	Hash   string `json:"hash"`
	Sender string `json:"sender"`
	Status string `json:"status"`
}

type subscribeFrame struct {
	Subscribe []string `json:"subscribe"`
}

type eventFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Subscription delivers typed ledger events on per-topic channels. Both
// channels close once the subscription ends.
type Subscription struct {
	blocks chan BlockEvent
	txs    chan TxEvent
	cancel context.CancelFunc
	done   chan struct{}
}

// Subscribe dials the network's websocket endpoint and starts delivering the
// requested topics. The connection is re-established with growing backoff
// until ctx ends or Close is called.
func Subscribe(ctx context.Context, net *network.Record, topics ...string) (*Subscription, error) {
	if net == nil || len(net.Endpoints.WS) == 0 {
		return nil, core.NewValidationError("network", "no websocket endpoint")
	}
	if len(topics) == 0 {
		topics = []string{TopicBlocks, TopicTransactions}
	}
	ctx, cancel := context.WithCancel(ctx)
	conn, err := dial(ctx, net.Endpoints.WS, topics)
	if err != nil {
		cancel()
		return nil, core.NewNetworkError(net.Endpoints.WS, "subscribe", err)
	}
	s := &Subscription{
		blocks: make(chan BlockEvent, 32),
		txs:    make(chan TxEvent, 32),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.run(ctx, conn, net.Endpoints.WS, topics)
	return s, nil
}

func (s *Subscription) Blocks() <-chan BlockEvent {
	return s.blocks
}

func (s *Subscription) Txs() <-chan TxEvent {
	return s.txs
}

// Close stops delivery and waits for the reader to finish.
func (s *Subscription) Close() {
	s.cancel()
	<-s.done
}

func dial(ctx context.Context, url string, topics []string) (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	if err := conn.WriteJSON(subscribeFrame{Subscribe: topics}); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

func (s *Subscription) run(ctx context.Context, conn *websocket.Conn, url string, topics []string) {
	defer close(s.done)
	defer close(s.blocks)
	defer close(s.txs)
	for {
		s.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return
		}
		var err error
		conn, err = s.reconnect(ctx, url, topics)
		if err != nil {
			return
		}
	}
}

func (s *Subscription) reconnect(ctx context.Context, url string, topics []string) (*websocket.Conn, error) {
	wait := time.Second
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		conn, err := dial(ctx, url, topics)
		if err == nil {
			return conn, nil
		}
		slog.Warn("event subscription reconnect failed", "endpoint", url, "error", err.Error())
		wait *= 2
		if wait > maxReconnectWait {
			wait = maxReconnectWait
		}
	}
}

// consume reads frames until the connection breaks. Closing the connection
// from Close/ctx unblocks the read.
func (s *Subscription) consume(ctx context.Context, conn *websocket.Conn) {
	closer := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-closer:
		}
	}()
	defer close(closer)
	for {
		var frame eventFrame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}
		switch frame.Type {
		case "block":
			var ev BlockEvent
			if err := json.Unmarshal(frame.Data, &ev); err != nil {
				continue
			}
			select {
			case s.blocks <- ev:
			case <-ctx.Done():
				return
			}
		case "transaction":
			var ev TxEvent
			if err := json.Unmarshal(frame.Data, &ev); err != nil {
				continue
			}
			select {
			case s.txs <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}
