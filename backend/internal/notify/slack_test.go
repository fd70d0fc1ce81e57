package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlackNotifier_PostsWebhook(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	err := NewSlackNotifier(srv.URL).NotifyMatch(context.Background(), sampleEvent())
	require.NoError(t, err)

	assert.Equal(t, "Foundira", body["username"])
	assert.Contains(t, body["text"], "High confidence match")
	assert.Contains(t, body["text"], `85% match for "Blue Backpack"`)
}

func TestSlackNotifier_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	err := NewSlackNotifier(srv.URL).NotifyMatch(context.Background(), sampleEvent())
	assert.ErrorContains(t, err, "slack webhook")
}
