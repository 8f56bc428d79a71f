package assets

import (
	"context"
	"fmt"
	"strings"
)

const (
	pathCreate     = "create"
	pathUpdate     = "update"
	pathUpdateBulk = "updatebulk"
	pathRemove     = "remove"
	pathMove       = "move"
)

// CreateRequest uploads a local file as a new asset.
type CreateRequest struct {
	// Filename is the local file sent as the asset's content.
	Filename string
	// FolderPath is the destination folder on the server.
	FolderPath       string
	Metadata         map[string]any
	MetadataToReturn []string
}

// Create uploads a file and returns the created asset.
func (c *Client) Create(ctx context.Context, req CreateRequest) (*Hit, error) {
	if strings.TrimSpace(req.Filename) == "" {
		return nil, missing("create", "filename")
	}

	p := params{}
	p.str("folderPath", req.FolderPath)
	if err := p.metadata("metadata", req.Metadata); err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	p.list("metadataToReturn", req.MetadataToReturn)

	var out Hit
	if err := c.post(ctx, "create", pathCreate, p, req.Filename, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRequest changes one asset's metadata, content, or both.
type UpdateRequest struct {
	ID string
	// Filename, when set, replaces the asset content. Leave empty for a
	// metadata-only update.
	Filename         string
	Metadata         map[string]any
	MetadataToReturn []string
}

// Update modifies a single asset and returns it.
func (c *Client) Update(ctx context.Context, req UpdateRequest) (*Hit, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, missing("update", "id")
	}

	p := params{}
	p.str("id", req.ID)
	if err := p.metadata("metadata", req.Metadata); err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}
	p.list("metadataToReturn", req.MetadataToReturn)

	var out Hit
	if err := c.post(ctx, "update", pathUpdate, p, strings.TrimSpace(req.Filename), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveRequest selects the assets or folder to delete. At least one of Query,
// IDs and FolderPath must be set.
type RemoveRequest struct {
	Query      string
	IDs        []string
	FolderPath string
	// Async queues the removal and returns a process id.
	Async bool
}

// Remove deletes assets. Without Async the result holds processed and error
// counts; with Async it holds a process id.
func (c *Client) Remove(ctx context.Context, req RemoveRequest) (*ProcessResult, error) {
	p := params{}
	p.str("q", req.Query)
	p.list("ids", req.IDs)
	p.str("folderPath", req.FolderPath)
	if len(p) == 0 {
		return nil, fmt.Errorf("remove: %w", ErrNoSelector)
	}
	p.boolean("async", req.Async)

	var out ProcessResult
	if err := c.post(ctx, "remove", pathRemove, p, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateBulkRequest applies Metadata to every asset matching Query.
type UpdateBulkRequest struct {
	Query    string
	Metadata map[string]any
	Async    bool
}

// UpdateBulk updates the metadata of all assets matching a query.
func (c *Client) UpdateBulk(ctx context.Context, req UpdateBulkRequest) (*ProcessResult, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("updatebulk: %w", ErrNoSelector)
	}

	p := params{}
	p.str("q", req.Query)
	if err := p.metadata("metadata", req.Metadata); err != nil {
		return nil, fmt.Errorf("updatebulk: %w", err)
	}
	p.boolean("async", req.Async)

	var out ProcessResult
	if err := c.post(ctx, "updatebulk", pathUpdateBulk, p, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MoveRequest renames (same parent) or moves Source to Target. The replace
// policies are forwarded as given; the server validates them.
type MoveRequest struct {
	Source              string
	Target              string
	FolderReplacePolicy string
	FileReplacePolicy   string
	FilterQuery         string
	FlattenFolders      bool
}

// Move renames or relocates a file or folder.
func (c *Client) Move(ctx context.Context, req MoveRequest) (*ProcessResult, error) {
	if strings.TrimSpace(req.Source) == "" {
		return nil, missing("move", "source")
	}
	if strings.TrimSpace(req.Target) == "" {
		return nil, missing("move", "target")
	}

	p := params{}
	p.str("source", req.Source)
	p.str("target", req.Target)
	p.str("folderReplacePolicy", req.FolderReplacePolicy)
	p.str("fileReplacePolicy", req.FileReplacePolicy)
	p.str("filterQuery", req.FilterQuery)
	p.boolean("flattenFolders", req.FlattenFolders)

	var out ProcessResult
	if err := c.post(ctx, "move", pathMove, p, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
