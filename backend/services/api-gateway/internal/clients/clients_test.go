package clients

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseClientDo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		w.Header().Set("X-Echo", string(body))
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`ok`))
	}))
	defer srv.Close()

	c := NewBaseClient(srv.URL+"/", NewDefaultHTTPClient(time.Second))
	reply, err := c.Do(context.Background(), http.MethodPost, "api/auth/login", []byte(`{"a":1}`), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, reply.Status)
	assert.Equal(t, `{"a":1}`, reply.Header.Get("X-Echo"))
	assert.Equal(t, "ok", string(reply.Body))
}

func TestStreamURL(t *testing.T) {
	assert.Equal(t, "ws://consumption:8080/api/admin/alerts/stream",
		NewConsumptionClient("http://consumption:8080/", nil).StreamURL())
	assert.Equal(t, "wss://water.example.org/api/admin/alerts/stream",
		NewConsumptionClient("https://water.example.org", nil).StreamURL())
}
