package assets

import "fmt"

// Hit is a single asset as returned by search, create and update.
type Hit struct {
	ID              string         `json:"id"`
	Permissions     string         `json:"permissions,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	HighlightedText string         `json:"highlightedText,omitempty"`
	ThumbnailURL    string         `json:"thumbnailUrl,omitempty"`
	PreviewURL      string         `json:"previewUrl,omitempty"`
	OriginalURL     string         `json:"originalUrl,omitempty"`
	ThumbnailHits   []Hit          `json:"thumbnailHits,omitempty"`
	Relation        *RelationInfo  `json:"relation,omitempty"`
}

// MetadataString returns the metadata field key rendered as a string, or "".
func (h Hit) MetadataString(key string) string {
	v, ok := h.Metadata[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// AssetPath returns the assetPath metadata field.
func (h Hit) AssetPath() string { return h.MetadataString("assetPath") }

// RelationInfo is attached to hits returned by relation searches.
type RelationInfo struct {
	RelationID   string         `json:"relationId"`
	RelationType string         `json:"relationType"`
	Target1ID    string         `json:"target1Id,omitempty"`
	Target2ID    string         `json:"target2Id,omitempty"`
	Metadata     map[string]any `json:"relationMetadata,omitempty"`
}

// SearchResult is the decoded search response.
type SearchResult struct {
	FirstResult   int            `json:"firstResult"`
	MaxResultHits int            `json:"maxResultHits"`
	TotalHits     int            `json:"totalHits"`
	Hits          []Hit          `json:"hits"`
	Facets        map[string]any `json:"facets,omitempty"`
}

// BrowseEntry is one folder or asset in a browse listing.
type BrowseEntry struct {
	AssetPath   string `json:"assetPath"`
	Name        string `json:"name"`
	Directory   bool   `json:"directory"`
	Permissions string `json:"permissions,omitempty"`
	AssetType   string `json:"assetType,omitempty"`
	Extension   string `json:"extension,omitempty"`
}

// ProcessResult is returned by the batch operations. Synchronous calls fill
// the counters; asynchronous calls only return a ProcessID.
type ProcessResult struct {
	ProcessedCount int    `json:"processedCount"`
	ErrorCount     int    `json:"errorCount"`
	ProcessID      string `json:"processId,omitempty"`
}

// Async reports whether the server queued the work instead of running it.
func (r ProcessResult) Async() bool { return r.ProcessID != "" }

// CheckoutResult describes the lock placed by Checkout.
type CheckoutResult struct {
	CheckedOut         int64  `json:"checkedOut"`
	CheckedOutBy       string `json:"checkedOutBy"`
	CheckedOutOnClient string `json:"checkedOutOnClient,omitempty"`
}

// AuthKey is the shareable key returned by CreateAuthKey.
type AuthKey struct {
	Key string `json:"authKey"`
}

// Result is an undecoded JSON object, for endpoints without a fixed shape.
type Result map[string]any

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
