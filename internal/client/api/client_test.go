package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amyzhang-commits/spanish-cards/internal/common"
	"github.com/amyzhang-commits/spanish-cards/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, 5*time.Second), srv
}

func TestPush(t *testing.T) {
	var got uploadRequest
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/cards", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(uploadResponse{Success: true, Uploaded: len(got.Cards), Timestamp: 9000})
	})
	defer srv.Close()

	cards := []*models.Card{
		{ID: "c1", Type: models.CardTypeVerbConjugation, Data: []byte(`{"verb":"hablar"}`)},
		{ID: "c2", Type: models.CardTypeSentence, Data: []byte(`{"spanish_sentence":"hola"}`)},
	}
	uploaded, err := c.Push(context.Background(), "dev-a", cards)
	require.NoError(t, err)

	assert.Equal(t, 2, uploaded)
	assert.Equal(t, "dev-a", got.DeviceID)
	require.Len(t, got.Cards, 2)
	assert.Equal(t, "c1", got.Cards[0].ID)
}

func TestPush_EmptyBatchSendsArray(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.JSONEq(t, `[]`, string(raw["cards"]))

		json.NewEncoder(w).Encode(uploadResponse{Success: true})
	})
	defer srv.Close()

	_, err := c.Push(context.Background(), "dev-a", nil)
	require.NoError(t, err)
}

func TestPull(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cards/dev-a", r.URL.Path)
		assert.Equal(t, "1500", r.URL.Query().Get("since"))

		json.NewEncoder(w).Encode(downloadResponse{
			Success: true,
			Cards: []*models.Card{
				{ID: "c1", DeviceID: "dev-b", Type: models.CardTypeVerbConjugation, Data: []byte(`{}`), UpdatedAt: 1600},
			},
			Count: 1,
		})
	})
	defer srv.Close()

	cards, err := c.Pull(context.Background(), "dev-a", 1500)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "c1", cards[0].ID)
	assert.Equal(t, int64(1600), cards[0].UpdatedAt)
}

func TestPull_ZeroCursorOmitsSince(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("since"))
		json.NewEncoder(w).Encode(downloadResponse{Success: true, Cards: []*models.Card{}})
	})
	defer srv.Close()

	cards, err := c.Pull(context.Background(), "dev-a", 0)
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestStats(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stats", r.URL.Path)
		json.NewEncoder(w).Encode(statsResponse{TotalCards: 42, TotalDevices: 3})
	})
	defer srv.Close()

	stats, err := c.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), stats.TotalCards)
	assert.Equal(t, int64(3), stats.TotalDevices)
}

func TestHealth(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
	})
	defer srv.Close()

	assert.NoError(t, c.Health(context.Background()))
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"bad request is validation", http.StatusBadRequest, `{"error":"invalid request"}`, common.ErrValidation},
		{"server error is unavailable", http.StatusInternalServerError, `{"error":"boom"}`, common.ErrServerUnavailable},
		{"non-json error body", http.StatusBadGateway, `upstream down`, common.ErrServerUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			defer srv.Close()

			err := c.Health(context.Background())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUnreachableServer(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {})
	srv.Close() // connection refused from here on

	err := c.Health(context.Background())
	assert.ErrorIs(t, err, common.ErrServerUnavailable)
}
