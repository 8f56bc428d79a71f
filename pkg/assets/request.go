package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
)

// fileField is the multipart part name the service reads uploads from.
const fileField = "Filedata"

// call issues one authenticated POST and returns the raw body of a 2xx response.
// filename, when set, is attached as a multipart file part.
func (c *Client) call(ctx context.Context, op, path string, p params, filename string) ([]byte, error) {
	token := c.Token()
	if token == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}

	req := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Accept", "application/json")
	if len(p) > 0 {
		req.SetQueryParams(p)
	}
	if filename != "" {
		if _, err := os.Stat(filename); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		req.SetFile(fileField, filename)
	}

	resp, err := req.Post(path)
	return c.handle(op, path, resp, err)
}

// post runs call and decodes the JSON body into out.
func (c *Client) post(ctx context.Context, op, path string, p params, filename string, out any) error {
	body, err := c.call(ctx, op, path, p, filename)
	if err != nil {
		return err
	}
	return decodeJSON(op, body, out)
}

func (c *Client) handle(op, path string, resp *resty.Response, err error) ([]byte, error) {
	if err != nil {
		c.log.WarnObj("assets request failed", "assets_request", map[string]any{
			"op":    op,
			"path":  path,
			"error": err.Error(),
		})
		return nil, &TransportError{Op: op, Err: err}
	}

	if !resp.IsSuccess() {
		return nil, &TransportError{
			Op:         op,
			StatusCode: resp.StatusCode(),
			Body:       readBodySnippet(resp.Body()),
		}
	}
	return resp.Body(), nil
}

func decodeJSON(op string, body []byte, out any) error {
	if !json.Valid(body) {
		return &ProtocolError{Op: op, Reason: "did not receive JSON response", Body: readBodySnippet(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &ProtocolError{Op: op, Reason: "unknown response shape: " + err.Error(), Body: readBodySnippet(body)}
	}
	return nil
}

// logResponse is the transport's response hook. Only the URL path is logged;
// the query string of apilogin carries the password.
func (c *Client) logResponse(resp *resty.Response) {
	fields := map[string]any{
		"status":     resp.StatusCode(),
		"elapsed_ms": resp.Time().Milliseconds(),
	}
	if req := resp.Request; req != nil {
		fields["method"] = req.Method
		if req.RawRequest != nil && req.RawRequest.URL != nil {
			fields["path"] = req.RawRequest.URL.Path
		}
	}
	c.log.DebugObj("assets request completed", "assets_request", fields)
}
