package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amyzhang-commits/spanish-cards/internal/common"
	"github.com/amyzhang-commits/spanish-cards/internal/logging"
	"github.com/amyzhang-commits/spanish-cards/internal/models"
	"github.com/amyzhang-commits/spanish-cards/internal/server/cards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	pushFn  func(ctx context.Context, deviceID string, batch []*models.Card) (int, error)
	pullFn  func(ctx context.Context, deviceID string, since int64) ([]*models.Card, error)
	statsFn func(ctx context.Context) (*cards.Stats, error)
}

func (f *fakeService) Push(ctx context.Context, deviceID string, batch []*models.Card) (int, error) {
	return f.pushFn(ctx, deviceID, batch)
}

func (f *fakeService) Pull(ctx context.Context, deviceID string, since int64) ([]*models.Card, error) {
	return f.pullFn(ctx, deviceID, since)
}

func (f *fakeService) Stats(ctx context.Context) (*cards.Stats, error) {
	return f.statsFn(ctx)
}

func newTestServer(t *testing.T, svc *fakeService) *httptest.Server {
	t.Helper()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	s := NewServer(":0", logger, svc)
	s.now = func() time.Time { return time.UnixMilli(123456) }
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, &fakeService{})

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body healthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, int64(123456), body.Timestamp)
}

func TestUpload_OK(t *testing.T) {
	var gotDevice string
	var gotBatch []*models.Card

	ts := newTestServer(t, &fakeService{
		pushFn: func(_ context.Context, deviceID string, batch []*models.Card) (int, error) {
			gotDevice = deviceID
			gotBatch = batch
			return len(batch), nil
		},
	})

	payload := `{"device_id":"dev-a","cards":[{"id":"c1","card_type":"sentence","data":{"spanish_sentence":"hola"}}]}`
	resp, err := http.Post(ts.URL+"/api/cards", "application/json", bytes.NewBufferString(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body uploadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, 1, body.Uploaded)
	assert.Equal(t, "dev-a", gotDevice)
	require.Len(t, gotBatch, 1)
	assert.Equal(t, "c1", gotBatch[0].ID)
}

func TestUpload_MalformedRequests(t *testing.T) {
	ts := newTestServer(t, &fakeService{
		pushFn: func(_ context.Context, _ string, _ []*models.Card) (int, error) {
			t.Fatal("service must not be called for malformed requests")
			return 0, nil
		},
	})

	tests := []struct {
		name string
		body string
	}{
		{"missing device_id", `{"cards":[]}`},
		{"missing cards", `{"device_id":"dev-a"}`},
		{"cards not an array", `{"device_id":"dev-a","cards":{"id":"c1"}}`},
		{"not json", `hello`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/cards", "application/json", bytes.NewBufferString(tc.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestUpload_ValidationErrorFromService(t *testing.T) {
	ts := newTestServer(t, &fakeService{
		pushFn: func(_ context.Context, _ string, _ []*models.Card) (int, error) {
			return 0, fmt.Errorf("%w: card id required", common.ErrValidation)
		},
	})

	resp, err := http.Post(ts.URL+"/api/cards", "application/json",
		bytes.NewBufferString(`{"device_id":"dev-a","cards":[{"card_type":"sentence"}]}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpload_StorageError(t *testing.T) {
	ts := newTestServer(t, &fakeService{
		pushFn: func(_ context.Context, _ string, _ []*models.Card) (int, error) {
			return 0, errors.New("db down")
		},
	})

	resp, err := http.Post(ts.URL+"/api/cards", "application/json",
		bytes.NewBufferString(`{"device_id":"dev-a","cards":[]}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestDownload_PassesDeviceAndSince(t *testing.T) {
	ts := newTestServer(t, &fakeService{
		pullFn: func(_ context.Context, deviceID string, since int64) ([]*models.Card, error) {
			assert.Equal(t, "dev-a", deviceID)
			assert.Equal(t, int64(1500), since)
			return []*models.Card{
				{ID: "c1", DeviceID: "dev-b", Type: models.CardTypeSentence, Data: []byte(`{}`), UpdatedAt: 1600},
			}, nil
		},
	})

	resp, err := http.Get(ts.URL + "/api/cards/dev-a?since=1500")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body downloadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Cards, 1)
	assert.Equal(t, "dev-b", body.Cards[0].DeviceID)
}

func TestDownload_DefaultSinceZeroAndEmptyResult(t *testing.T) {
	ts := newTestServer(t, &fakeService{
		pullFn: func(_ context.Context, _ string, since int64) ([]*models.Card, error) {
			assert.Equal(t, int64(0), since)
			return nil, nil
		},
	})

	resp, err := http.Get(ts.URL + "/api/cards/dev-a")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body downloadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, 0, body.Count)
	assert.NotNil(t, body.Cards, "cards must encode as [] not null")
}

func TestDownload_BadSince(t *testing.T) {
	ts := newTestServer(t, &fakeService{})

	resp, err := http.Get(ts.URL + "/api/cards/dev-a?since=notanumber")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStats(t *testing.T) {
	ts := newTestServer(t, &fakeService{
		statsFn: func(_ context.Context) (*cards.Stats, error) {
			return &cards.Stats{TotalCards: 10, TotalDevices: 2}, nil
		},
	})

	resp, err := http.Get(ts.URL + "/api/stats")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body statsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(10), body.TotalCards)
	assert.Equal(t, int64(2), body.TotalDevices)
}
