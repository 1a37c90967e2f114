package events

import (
	"context"
	"encoding/json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"github.com/txsociety/klever-sdk/pkg/network"
	"go.uber.org/goleak"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var upgrader = websocket.Upgrader{}

// eventServer upgrades, records the subscribe frame, pushes the given frames
// and then holds the connection open until the client goes away.
func eventServer(t *testing.T, frames []string, gotTopics chan<- []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var sub subscribeFrame
		if err := conn.ReadJSON(&sub); err != nil {
			return
		}
		if gotTopics != nil {
			gotTopics <- sub.Subscribe
		}
		for _, frame := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func wsRecord(srv *httptest.Server) *network.Record {
	return &network.Record{
		Name:      "test",
		ChainID:   10001,
		Endpoints: network.Endpoints{WS: "ws" + strings.TrimPrefix(srv.URL, "http")},
	}
}

func TestSubscribeDeliversTypedEvents(t *testing.T) {
	topics := make(chan []string, 1)
	srv := eventServer(t, []string{
		`{"type":"block","data":{"nonce":4200,"hash":"bb22","txCount":3,"timestamp":1700000000}}`,
		`{"type":"transaction","data":{"hash":"aa11","sender":"klv1sender","status":"success"}}`,
		`{"type":"unknown","data":{}}`,
	}, topics)
	defer srv.Close()

	sub, err := Subscribe(context.Background(), wsRecord(srv), TopicBlocks, TopicTransactions)
	require.NoError(t, err)
	defer sub.Close()

	require.Equal(t, []string{TopicBlocks, TopicTransactions}, <-topics)

	select {
	case block := <-sub.Blocks():
		require.Equal(t, uint64(4200), block.Nonce)
		require.Equal(t, "bb22", block.Hash)
	case <-time.After(2 * time.Second):
		t.Fatal("no block event")
	}
	select {
	case tx := <-sub.Txs():
		require.Equal(t, "aa11", tx.Hash)
		require.Equal(t, "success", tx.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("no transaction event")
	}
}

func TestSubscribeDefaultsToAllTopics(t *testing.T) {
	topics := make(chan []string, 1)
	srv := eventServer(t, nil, topics)
	defer srv.Close()

	sub, err := Subscribe(context.Background(), wsRecord(srv))
	require.NoError(t, err)
	defer sub.Close()

	require.ElementsMatch(t, []string{TopicBlocks, TopicTransactions}, <-topics)
}

func TestSubscribeRequiresWSEndpoint(t *testing.T) {
	_, err := Subscribe(context.Background(), &network.Record{Name: "no-ws"})
	require.Error(t, err)

	_, err = Subscribe(context.Background(), nil)
	require.Error(t, err)
}

func TestCloseShutsChannels(t *testing.T) {
	srv := eventServer(t, nil, nil)
	defer srv.Close()

	sub, err := Subscribe(context.Background(), wsRecord(srv), TopicBlocks)
	require.NoError(t, err)
	sub.Close()

	_, open := <-sub.Blocks()
	require.False(t, open)
	_, open = <-sub.Txs()
	require.False(t, open)
}

func TestMalformedFramesAreSkipped(t *testing.T) {
	srv := eventServer(t, []string{
		`{"type":"block","data":"not-an-object"}`,
		`{"type":"block","data":{"nonce":7}}`,
	}, nil)
	defer srv.Close()

	sub, err := Subscribe(context.Background(), wsRecord(srv), TopicBlocks)
	require.NoError(t, err)
	defer sub.Close()

	select {
	case block := <-sub.Blocks():
		require.Equal(t, uint64(7), block.Nonce)
	case <-time.After(2 * time.Second):
		t.Fatal("no block event")
	}
}

func TestEventFrameDecoding(t *testing.T) {
	var frame eventFrame
	require.NoError(t, json.Unmarshal([]byte(`{"type":"block","data":{"nonce":1}}`), &frame))
	require.Equal(t, "block", frame.Type)
}
