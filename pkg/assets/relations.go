package assets

import (
	"context"
	"fmt"
	"strings"
)

const (
	pathCreateRelation = "createRelation"
	pathRemoveRelation = "removeRelation"
)

// CreateRelationRequest links two assets. For directional relation types
// Target1ID is the parent side.
type CreateRelationRequest struct {
	RelationType string
	Target1ID    string
	Target2ID    string
	// Metadata is stored on the relation itself.
	Metadata map[string]any
}

// CreateRelation creates a relation and returns the response body as decoded.
func (c *Client) CreateRelation(ctx context.Context, req CreateRelationRequest) (Result, error) {
	switch {
	case strings.TrimSpace(req.RelationType) == "":
		return nil, missing("createRelation", "relationType")
	case strings.TrimSpace(req.Target1ID) == "":
		return nil, missing("createRelation", "target1Id")
	case strings.TrimSpace(req.Target2ID) == "":
		return nil, missing("createRelation", "target2Id")
	}

	p := params{}
	p.str("relationType", req.RelationType)
	p.str("target1Id", req.Target1ID)
	p.str("target2Id", req.Target2ID)
	if err := p.metadata("metadata", req.Metadata); err != nil {
		return nil, fmt.Errorf("createRelation: %w", err)
	}

	body, err := c.call(ctx, "createRelation", pathCreateRelation, p, "")
	if err != nil {
		return nil, err
	}
	out := Result{}
	if len(body) == 0 {
		return out, nil
	}
	if err := decodeJSON("createRelation", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveRelation deletes relations by id. The id list is always sent, even
// when empty, matching what the service expects from this endpoint.
func (c *Client) RemoveRelation(ctx context.Context, relationIDs []string) (*ProcessResult, error) {
	p := params{}
	p.listAlways("relationIds", relationIDs)

	var out ProcessResult
	if err := c.post(ctx, "removeRelation", pathRemoveRelation, p, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
