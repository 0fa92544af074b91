package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteStoreFetchPrompts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/prompts", r.URL.Path)
		assert.Equal(t, "*", r.URL.Query().Get("select"))
		assert.Equal(t, "created_at.desc", r.URL.Query().Get("order"))
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 7, "title": "Newest", "description": "d", "category": "Writing",
			 "tags": ["a", "b"], "prompt": "Hello <input>name</input>",
			 "created_at": "2024-03-02T10:00:00.123456+00:00"},
			{"id": "c0ffee", "title": "Older", "description": null, "category": "Business",
			 "tags": null, "prompt": "Plain", "created_at": "2024-03-01T10:00:00+00:00"}
		]`))
	}))
	defer server.Close()

	store := NewRemoteStore(server.URL+"/", "anon", "prompts")
	prompts, err := store.FetchPrompts(context.Background())
	require.NoError(t, err)
	require.Len(t, prompts, 2)

	assert.Equal(t, "7", prompts[0].ID)
	assert.Equal(t, "Newest", prompts[0].Name)
	assert.Equal(t, []string{"a", "b"}, prompts[0].Tags)
	assert.Equal(t, "Hello <input>name</input>", prompts[0].Body)
	assert.True(t, prompts[0].CreatedAt.Equal(time.Date(2024, 3, 2, 10, 0, 0, 123456000, time.UTC)))

	assert.Equal(t, "c0ffee", prompts[1].ID)
	assert.Empty(t, prompts[1].Summary)
	assert.Nil(t, prompts[1].Tags)
}

func TestRemoteStoreErrors(t *testing.T) {
	testCases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"Invalid API key"}`, "status 401"},
		{"not found", http.StatusNotFound, `{"message":"relation does not exist"}`, "relation does not exist"},
		{"bad json", http.StatusOK, `{"not": "an array"}`, "failed to decode response"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			_, err := NewRemoteStore(server.URL, "", "prompts").FetchPrompts(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestRemoteStoreOmitsAuthWithoutKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("apikey"))
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	prompts, err := NewRemoteStore(server.URL, "", "prompts").
		WithHTTPClient(server.Client()).
		FetchPrompts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, prompts)
	assert.NotNil(t, prompts)
}

func TestRemoteStoreCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRemoteStore(server.URL, "", "prompts").FetchPrompts(ctx)
	require.Error(t, err)
}

func TestFlexibleIDRejectsObjects(t *testing.T) {
	var id flexibleID
	assert.Error(t, id.UnmarshalJSON([]byte(`{"x":1}`)))
	require.NoError(t, id.UnmarshalJSON([]byte(`null`)))
	assert.Equal(t, flexibleID(""), id)
}
