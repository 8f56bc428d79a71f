package watches

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadWatchesYAML(t *testing.T) {
	path := writeFile(t, "watches.yaml", `
watches:
  - id: photos
    name: Studio photos
    dir: /srv/incoming/photos
    folder_path: /Demo Zone/Photos/
    extensions: [JPG, ".png", " tif "]
    recursive: true
    metadata:
      copyright: ACME
  - id: docs
    dir: /srv/incoming/docs
    folder_path: /Demo Zone/Docs
    enabled: false
`)

	reg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := len(reg.All()); got != 2 {
		t.Fatalf("expected 2 watches, got %d", got)
	}

	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "photos" {
		t.Fatalf("unexpected enabled watches: %+v", enabled)
	}

	w, ok := reg.ByID("photos")
	if !ok {
		t.Fatalf("expected photos watch")
	}
	if w.FolderPath != "/Demo Zone/Photos" {
		t.Fatalf("expected trailing slash trimmed, got %q", w.FolderPath)
	}
	want := []string{".jpg", ".png", ".tif"}
	if len(w.Extensions) != len(want) {
		t.Fatalf("unexpected extensions %v", w.Extensions)
	}
	for i := range want {
		if w.Extensions[i] != want[i] {
			t.Fatalf("extension[%d] = %q, want %q", i, w.Extensions[i], want[i])
		}
	}
	if w.Metadata["copyright"] != "ACME" {
		t.Fatalf("unexpected metadata %v", w.Metadata)
	}

	docs, _ := reg.ByID("docs")
	if docs.Name != "docs" {
		t.Fatalf("expected name to default to id, got %q", docs.Name)
	}
}

func TestLoadWatchesJSON(t *testing.T) {
	path := writeFile(t, "watches.json", `{"watches":[{"id":"a","dir":"/in","folder_path":"/Out"}]}`)
	reg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(reg.Enabled()) != 1 {
		t.Fatalf("expected watch enabled by default")
	}
}

func TestLoadWatchesValidation(t *testing.T) {
	cases := map[string]string{
		"duplicate": "watches:\n  - {id: a, dir: /in, folder_path: /Out}\n  - {id: a, dir: /in2, folder_path: /Out2}\n",
		"no dir":    "watches:\n  - {id: a, folder_path: /Out}\n",
		"no folder": "watches:\n  - {id: a, dir: /in}\n",
		"relative":  "watches:\n  - {id: a, dir: /in, folder_path: Out}\n",
		"no id":     "watches:\n  - {dir: /in, folder_path: /Out}\n",
		"empty":     "watches: []\n",
		"not yaml":  "watches: [",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeFile(t, "watches.yaml", content)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestWatchAccepts(t *testing.T) {
	w := sanitize(Watch{Extensions: []string{"jpg"}})
	if !w.Accepts("IMG_001.JPG") {
		t.Fatalf("expected case-insensitive match")
	}
	if w.Accepts("notes.txt") {
		t.Fatalf("expected txt to be filtered out")
	}
	if !(Watch{}).Accepts("anything.bin") {
		t.Fatalf("expected empty filter to accept everything")
	}
}

func TestServerRootFolderPath(t *testing.T) {
	cases := map[string]string{
		"/":          "/",
		"//":         "/",
		" /Photos/ ": "/Photos",
		"/A/B//":     "/A/B",
	}
	for in, want := range cases {
		reg, err := NewRegistry([]Watch{{ID: "w", Dir: "/in", FolderPath: in}})
		if err != nil {
			t.Fatalf("NewRegistry(%q): %v", in, err)
		}
		if got := reg.All()[0].FolderPath; got != want {
			t.Fatalf("folder_path %q = %q, want %q", in, got, want)
		}
	}
}
