package usage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{ Store }

func (failingStore) Count(context.Context, Key) (int, error) {
	return 0, errors.New("store unavailable")
}

func getStatus(h *Handler, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/usage", nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.Status(rec, req)
	return rec
}

func TestHandler_StatusFreshClient(t *testing.T) {
	svc, _, _ := newTestService(t, 3, "2024-01-01T10:00:00Z")
	rec := getStatus(NewHandler(svc, false), "9.9.9.9:1000")
	require.Equal(t, http.StatusOK, rec.Code)

	var body StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, Status{Used: 0, Remaining: 3, Limit: 3, CanUse: true}, body.Usage)
	assert.Nil(t, body.Upgrade)
	assert.Contains(t, rec.Body.String(), `"upgrade":null`)
}

func TestHandler_StatusExhaustedIncludesOffer(t *testing.T) {
	svc, _, _ := newTestService(t, 3, "2024-01-01T10:00:00Z")
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := svc.Increment(ctx, "9.9.9.9")
		require.NoError(t, err)
	}

	rec := getStatus(NewHandler(svc, false), "9.9.9.9:1000")
	require.Equal(t, http.StatusOK, rec.Code)

	var body StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Usage.CanUse)
	require.NotNil(t, body.Upgrade)
	assert.Equal(t, "Upgrade to unlimited usage", body.Upgrade.Message)
}

func TestHandler_StatusStoreError(t *testing.T) {
	svc := NewService(failingStore{}, 3)
	rec := getStatus(NewHandler(svc, false), "9.9.9.9:1000")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to get usage status","message":"Usage information is temporarily unavailable. Please try again."}`, rec.Body.String())
}
