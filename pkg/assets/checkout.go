package assets

import (
	"context"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	pathCheckout     = "checkout/"
	pathUndoCheckout = "undocheckout/"
)

// Checkout locks an asset for exclusive editing by the logged-in user.
func (c *Client) Checkout(ctx context.Context, assetID string) (*CheckoutResult, error) {
	if strings.TrimSpace(assetID) == "" {
		return nil, missing("checkout", "assetId")
	}

	var out CheckoutResult
	if err := c.post(ctx, "checkout", pathCheckout+url.PathEscape(assetID), nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UndoCheckout releases the lock on an asset. It reports true when the server
// answers with a JSON object that carries no errorcode.
func (c *Client) UndoCheckout(ctx context.Context, assetID string) (bool, error) {
	if strings.TrimSpace(assetID) == "" {
		return false, missing("undocheckout", "assetId")
	}

	body, err := c.call(ctx, "undocheckout", pathUndoCheckout+url.PathEscape(assetID), nil, "")
	if err != nil {
		return false, err
	}
	return undoCheckoutSucceeded(body), nil
}

func undoCheckoutSucceeded(body []byte) bool {
	if !gjson.ValidBytes(body) {
		return false
	}
	res := gjson.ParseBytes(body)
	return res.IsObject() && !res.Get("errorcode").Exists()
}
