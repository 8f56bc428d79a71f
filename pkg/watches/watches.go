package watches

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Package watches loads the hot-folder definitions: which local directories
// are uploaded into which server folders.

// Watch maps a local directory onto a folder on the assets server.
type Watch struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	// Dir is the local directory scanned for new files.
	Dir string `json:"dir" yaml:"dir"`
	// FolderPath is the destination folder on the server.
	FolderPath string         `json:"folder_path" yaml:"folder_path"`
	Extensions []string       `json:"extensions" yaml:"extensions"`
	Metadata   map[string]any `json:"metadata" yaml:"metadata"`
	Recursive  bool           `json:"recursive" yaml:"recursive"`
	Enabled    *bool          `json:"enabled" yaml:"enabled"`
}

// IsEnabled reports whether the watch should be scanned. Watches are enabled
// unless explicitly switched off.
func (w Watch) IsEnabled() bool {
	return w.Enabled == nil || *w.Enabled
}

// Accepts reports whether a file name passes the extension filter. An empty
// filter accepts everything.
func (w Watch) Accepts(name string) bool {
	if len(w.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range w.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

type registryFile struct {
	Watches []Watch `json:"watches" yaml:"watches"`
}

// Registry is an immutable, validated set of watches.
type Registry struct {
	watches []Watch
	byID    map[string]Watch
}

// Load reads and validates a watches file (YAML or JSON by extension).
func Load(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("watches file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read watches file: %w", err)
	}

	file, err := decode(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return NewRegistry(file.Watches)
}

// NewRegistry validates and indexes ws.
func NewRegistry(ws []Watch) (*Registry, error) {
	if len(ws) == 0 {
		return nil, errors.New("watches file contains no watches entries")
	}

	reg := &Registry{
		watches: make([]Watch, 0, len(ws)),
		byID:    make(map[string]Watch, len(ws)),
	}
	for i, w := range ws {
		w = sanitize(w)
		if err := validate(w); err != nil {
			return nil, fmt.Errorf("watch[%d]: %w", i, err)
		}
		if _, exists := reg.byID[w.ID]; exists {
			return nil, fmt.Errorf("duplicate watch id %q", w.ID)
		}
		reg.watches = append(reg.watches, w)
		reg.byID[w.ID] = w
	}
	return reg, nil
}

// All returns every configured watch in file order.
func (r *Registry) All() []Watch {
	out := make([]Watch, len(r.watches))
	copy(out, r.watches)
	return out
}

// Enabled returns the watches that should be scanned.
func (r *Registry) Enabled() []Watch {
	var out []Watch
	for _, w := range r.watches {
		if w.IsEnabled() {
			out = append(out, w)
		}
	}
	return out
}

// ByID returns the watch with the given id.
func (r *Registry) ByID(id string) (Watch, bool) {
	w, ok := r.byID[strings.TrimSpace(id)]
	return w, ok
}

type unmarshalFn func([]byte, any) error

func decode(data []byte, ext string) (registryFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var lastErr error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var file registryFile
		if err := d.fn(data, &file); err != nil {
			lastErr = fmt.Errorf("decode %s watches: %w", d.name, err)
			continue
		}
		return file, nil
	}
	if lastErr != nil {
		return registryFile{}, lastErr
	}
	return registryFile{}, errors.New("watches file format not recognized (expected YAML or JSON)")
}

func sanitize(w Watch) Watch {
	w.ID = strings.TrimSpace(w.ID)
	w.Name = strings.TrimSpace(w.Name)
	w.Dir = strings.TrimSpace(w.Dir)
	w.FolderPath = cleanFolderPath(w.FolderPath)
	if w.Name == "" {
		w.Name = w.ID
	}

	exts := make([]string, 0, len(w.Extensions))
	for _, e := range w.Extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}
	w.Extensions = exts
	return w
}

// cleanFolderPath trims trailing slashes but keeps the server root "/".
func cleanFolderPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	if trimmed := strings.TrimRight(p, "/"); trimmed != "" {
		return trimmed
	}
	return "/"
}

func validate(w Watch) error {
	if w.ID == "" {
		return errors.New("id is required")
	}
	if w.Dir == "" {
		return fmt.Errorf("dir is required for watch %q", w.ID)
	}
	if w.FolderPath == "" {
		return fmt.Errorf("folder_path is required for watch %q", w.ID)
	}
	if !strings.HasPrefix(w.FolderPath, "/") {
		return fmt.Errorf("folder_path for watch %q must be absolute", w.ID)
	}
	return nil
}
