package whatsapp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refh96/catalogo-rancho-sub000/pkg/httpclient"
)

func newTestSender(t *testing.T, gatewayURL string) *Sender {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := httpclient.New(httpclient.DefaultConfig())
	cb := httpclient.NewCircuitBreakerClient(client, httpclient.DefaultCircuitBreakerConfig("whatsapp-test"), logger)
	return New(cb, gatewayURL, logger)
}

func TestSender_Send_Success(t *testing.T) {
	var got sendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := newTestSender(t, server.URL)

	err := sender.Send(context.Background(), "*Nuevo pedido*", "+56912345678")
	require.NoError(t, err)
	assert.Equal(t, "+56912345678", got.To)
	assert.Equal(t, "*Nuevo pedido*", got.Body)
}

func TestSender_Send_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	sender := newTestSender(t, server.URL)

	err := sender.Send(context.Background(), "mensaje", "+56912345678")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestSender_Name(t *testing.T) {
	sender := newTestSender(t, "http://localhost:0")
	assert.Equal(t, "whatsapp", sender.Name())
}
