package assets

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"
)

const (
	pathLogin  = "apilogin"
	pathLogout = "logout"
)

// Login authenticates with the stored credentials and replaces the session
// token. New calls it once; call it again to recover from an expired token.
// A failed Login leaves the client unauthenticated.
func (c *Client) Login(ctx context.Context) error {
	token, err := c.login(ctx)
	if err != nil {
		c.setToken("")
		return err
	}
	c.setToken(token)
	c.log.InfoObj("assets login succeeded", "assets_session", map[string]any{
		"base_url": c.baseURL,
		"username": c.creds.Username,
	})
	return nil
}

func (c *Client) login(ctx context.Context) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(map[string]string{
			"username": c.creds.Username,
			"password": c.creds.Password,
		}).
		Post(pathLogin)
	if err != nil {
		return "", &TransportError{Op: "login", Err: err}
	}

	token, err := parseLogin(resp.Body())
	if err != nil {
		// A failed status without a login payload is a transport failure, not a
		// malformed answer.
		if !resp.IsSuccess() && IsProtocolError(err) {
			return "", &TransportError{Op: "login", StatusCode: resp.StatusCode(), Body: readBodySnippet(resp.Body())}
		}
		c.log.WarnObj("assets login rejected", "assets_session", map[string]any{
			"base_url": c.baseURL,
			"username": c.creds.Username,
			"error":    err.Error(),
		})
		return "", err
	}
	return token, nil
}

// parseLogin validates a login body in order: JSON, then shape, then verdict.
func parseLogin(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", &ProtocolError{Op: "login", Reason: "did not receive JSON response", Body: readBodySnippet(body)}
	}

	res := gjson.ParseBytes(body)
	success := res.Get("loginSuccess")
	if !success.Exists() {
		return "", &ProtocolError{Op: "login", Reason: "unknown response shape", Body: readBodySnippet(body)}
	}
	if !success.Bool() {
		return "", &AuthenticationError{Reason: res.Get("loginFaultMessage").String()}
	}

	token := res.Get("authToken").String()
	if token == "" {
		return "", &ProtocolError{Op: "login", Reason: "login succeeded without authToken"}
	}
	return token, nil
}

type logoutResponse struct {
	LogoutSuccess bool `json:"logoutSuccess"`
}

// Logout ends the session on the server and always clears the local token,
// whatever the server answers. It reports the server's logoutSuccess value.
// Calls still in flight on this Client when Logout runs are undefined.
func (c *Client) Logout(ctx context.Context) (bool, error) {
	if !c.Authenticated() {
		return false, fmt.Errorf("logout: %w", ErrNotAuthenticated)
	}
	defer c.setToken("")

	var out logoutResponse
	if err := c.post(ctx, "logout", pathLogout, nil, "", &out); err != nil {
		return false, err
	}
	c.log.InfoObj("assets logout", "assets_session", map[string]any{
		"base_url":       c.baseURL,
		"logout_success": out.LogoutSuccess,
	})
	return out.LogoutSuccess, nil
}
