package clients

import (
	"context"
	"net/http"
	"strings"
)

// ConsumptionClient proxies consumption-service endpoints.
type ConsumptionClient struct {
	base *BaseClient
}

// NewConsumptionClient returns client.
func NewConsumptionClient(baseURL string, httpClient HTTPDoer) *ConsumptionClient {
	return &ConsumptionClient{base: NewBaseClient(baseURL, httpClient)}
}

// Forward replays a request under /api/readings or /api/admin upstream.
// pathAndQuery is passed through unchanged.
func (c *ConsumptionClient) Forward(ctx context.Context, method, pathAndQuery string, body []byte, authorization string) (*Reply, error) {
	headers := http.Header{}
	if authorization != "" {
		headers.Set("Authorization", authorization)
	}
	return c.base.Do(ctx, method, pathAndQuery, body, headers)
}

// StreamURL returns the WebSocket address of the admin alert feed.
func (c *ConsumptionClient) StreamURL() string {
	base := c.base.BaseURL()
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/api/admin/alerts/stream"
}
