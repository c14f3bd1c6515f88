package sdk

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientDecodesJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/profiles/p1", r.URL.Path)
		w.Write([]byte(`{"id":"p1","name":"dev","port":5520}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/")
	var p Profile
	require.NoError(t, c.get("/profiles/p1", &p))
	assert.Equal(t, "dev", p.Name)
	assert.Equal(t, 5520, p.Port)
}

func TestClientSurfacesErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "port 5520 already in use", http.StatusConflict)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).post("/profiles/p1/start", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port 5520 already in use")
}

func TestClientAcceptsNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	assert.NoError(t, NewClient(srv.URL).delete("/profiles/p1"))
}

func TestGetWebSocketURL(t *testing.T) {
	ws, err := NewClient("http://localhost:8420").GetWebSocketURL("/ws/profiles/p1/console")
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:8420/ws/profiles/p1/console", ws)

	wss, err := NewClient("https://example.com").GetWebSocketURL("/ws/profiles/p1/console")
	require.NoError(t, err)
	assert.Equal(t, "wss://example.com/ws/profiles/p1/console", wss)
}
