package clients

import (
	"context"
	"net/http"
	"strconv"
)

// AuthClient proxies auth-service endpoints.
type AuthClient struct {
	base *BaseClient
}

// NewAuthClient returns client.
func NewAuthClient(baseURL string, httpClient HTTPDoer) *AuthClient {
	return &AuthClient{base: NewBaseClient(baseURL, httpClient)}
}

// Register forwards a sign-up payload.
func (c *AuthClient) Register(ctx context.Context, body []byte) (*Reply, error) {
	return c.base.Do(ctx, http.MethodPost, "/api/auth/register", body, nil)
}

// Login forwards login payload.
func (c *AuthClient) Login(ctx context.Context, body []byte) (*Reply, error) {
	return c.base.Do(ctx, http.MethodPost, "/api/auth/login", body, nil)
}

// Profile reads (GET) or updates (PUT) the profile of userID on behalf of
// the bearer of authorization.
func (c *AuthClient) Profile(ctx context.Context, method string, userID int64, body []byte, authorization string) (*Reply, error) {
	path := "/api/users/profile/" + strconv.FormatInt(userID, 10)
	return c.base.Do(ctx, method, path, body, http.Header{"Authorization": {authorization}})
}
