package webhook

import (
	"context"
	"encoding/json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewClientValidatesURL(t *testing.T) {
	_, err := NewClient("not a url")
	require.Error(t, err)

	_, err = NewClient("https://consumer.example.org/hook")
	require.NoError(t, err)
}

func TestSendDeliversNotification(t *testing.T) {
	var received Notification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Contains(t, r.Header.Get("Content-Type"), "application/json")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	notification := Notification{
		ID:         uuid.New(),
		TxHash:     "aa11",
		Sender:     "klv1sender",
		Status:     "confirmed",
		BlockNonce: 4200,
		ResultCode: "Ok",
		Timestamp:  1700000000,
	}
	require.NoError(t, client.Send(context.Background(), notification))
	require.Equal(t, notification, received)
}

func TestSendRetriesUntilAccepted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, client.Send(ctx, Notification{ID: uuid.New()}))
	require.Equal(t, int32(2), calls.Load())
}

func TestSendStopsWhenContextEnds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err = client.Send(ctx, Notification{ID: uuid.New()})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
