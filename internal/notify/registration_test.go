package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackmyprogress/internal/session"
)

func TestNew_EmptyBaseIsNop(t *testing.T) {
	n := New("", time.Second)
	assert.IsType(t, session.NopNotifier{}, n)
	assert.NoError(t, n.NotifyRegistration(context.Background(), "a@x.com", "A"))
}

func TestClient_NotifyRegistration(t *testing.T) {
	var got RegistrationRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/send-registration", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := New(srv.URL+"/", time.Second)
	require.NoError(t, n.NotifyRegistration(context.Background(), "alice@x.com", "Alice"))
	assert.Equal(t, RegistrationRequest{Email: "alice@x.com", Name: "Alice"}, got)
}

func TestClient_NotifyRegistration_Failures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := New(srv.URL, time.Second).NotifyRegistration(context.Background(), "a@x.com", "A")
	assert.ErrorContains(t, err, "500")

	srv.Close()
	err = New(srv.URL, time.Second).NotifyRegistration(context.Background(), "a@x.com", "A")
	assert.Error(t, err)
}

func TestClient_RespectsContext(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := New(srv.URL, time.Minute).NotifyRegistration(ctx, "a@x.com", "A")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
