package domain

import "time"

// LocalFile is a candidate for upload found under a watched directory.
type LocalFile struct {
	WatchID string
	// Path is the absolute path on disk.
	Path string
	// RelPath is Path relative to the watch root, slash separated.
	RelPath string
	Size    int64
	ModTime time.Time
}

// Dir returns the slash separated sub-directory of RelPath, or "" at the root.
func (f LocalFile) Dir() string {
	for i := len(f.RelPath) - 1; i >= 0; i-- {
		if f.RelPath[i] == '/' {
			return f.RelPath[:i]
		}
	}
	return ""
}

// Upload actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

// UploadedAsset is what the uploader reports after sending a file.
type UploadedAsset struct {
	// Action is ActionCreated for a new asset or ActionUpdated for a new
	// version of one uploaded earlier.
	Action     string
	ID         string
	AssetPath  string
	Filename   string
	FolderPath string
	SourcePath string
	UploadedAt time.Time
}
