package assets

import "context"

const (
	pathSearch = "search"
	pathBrowse = "browse"

	DefaultSearchNum  = 50
	DefaultSearchSort = "assetCreated-desc"
	// DefaultMetadataToReturn asks the server for every metadata field.
	DefaultMetadataToReturn = "all"
)

// DefaultBrowseExtensions are the container types browse lists next to folders.
var DefaultBrowseExtensions = []string{".collection", ".dossier", ".task"}

// SearchRequest holds the search parameters. Zero values fall back to the
// documented defaults.
type SearchRequest struct {
	// Query is a Lucene query, e.g. "id:abc" or "gtin:1234567890123".
	Query string
	Start int
	// Num is the number of hits to return; nil means DefaultSearchNum. Zero is
	// valid and returns only facets.
	Num  *int
	Sort string
	// MetadataToReturn limits the metadata fields in hits; empty means all.
	MetadataToReturn    []string
	AppendRequestSecret bool
	// ReturnHighlightedText defaults to true when nil.
	ReturnHighlightedText *bool
	ReturnThumbnailHits   bool
}

func (r SearchRequest) params() params {
	p := params{}
	p["q"] = r.Query
	p.integer("start", r.Start)
	num := DefaultSearchNum
	if r.Num != nil {
		num = *r.Num
	}
	p.integer("num", num)
	p.strOr("sort", r.Sort, DefaultSearchSort)
	p.strOr("metadataToReturn", joinList(r.MetadataToReturn), DefaultMetadataToReturn)
	p.boolean("appendRequestSecret", r.AppendRequestSecret)
	p.boolOr("returnHighlightedText", r.ReturnHighlightedText, true)
	p.boolean("returnThumbnailHits", r.ReturnThumbnailHits)
	return p
}

// Search runs a query and returns the hits as decoded.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	var out SearchResult
	if err := c.post(ctx, "search", pathSearch, req.params(), "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BrowseRequest lists the folders and containers below Path.
type BrowseRequest struct {
	Path string
	// FromRoot opens the folder tree down to Path starting at this folder.
	FromRoot string
	// IncludeFolders and IncludeAsset default to true when nil.
	IncludeFolders *bool
	IncludeAsset   *bool
	// IncludeExtensions defaults to DefaultBrowseExtensions when empty.
	IncludeExtensions []string
}

func (r BrowseRequest) params() params {
	p := params{}
	p.strOr("path", r.Path, "/")
	p.str("fromRoot", r.FromRoot)
	p.boolOr("includeFolders", r.IncludeFolders, true)
	p.boolOr("includeAsset", r.IncludeAsset, true)
	exts := r.IncludeExtensions
	if len(exts) == 0 {
		exts = DefaultBrowseExtensions
	}
	p.list("includeExtensions", exts)
	return p
}

// Browse returns the folder and asset listing of a path.
func (c *Client) Browse(ctx context.Context, req BrowseRequest) ([]BrowseEntry, error) {
	var out []BrowseEntry
	if err := c.post(ctx, "browse", pathBrowse, req.params(), "", &out); err != nil {
		return nil, err
	}
	return out, nil
}
