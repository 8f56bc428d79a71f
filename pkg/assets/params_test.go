package assets

import (
	"testing"
	"time"
)

func TestParamsOmitEmptyValues(t *testing.T) {
	p := params{}
	p.str("q", "  ")
	p.list("ids", []string{"", " "})
	p.millis("validUntil", time.Time{})
	p.flag("async", false)
	if err := p.metadata("metadata", map[string]any{}); err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if len(p) != 0 {
		t.Fatalf("expected no params, got %v", p)
	}
}

func TestParamsListEncoding(t *testing.T) {
	p := params{}
	p.list("ids", []string{"a", " b ", "", "c"})
	p.listAlways("containerIds", nil)
	if p["ids"] != "a,b,c" {
		t.Fatalf("ids = %q", p["ids"])
	}
	v, ok := p["containerIds"]
	if !ok || v != "" {
		t.Fatalf("containerIds should be present and empty, got %q (present=%v)", v, ok)
	}
}

func TestParamsDefaults(t *testing.T) {
	p := params{}
	p.strOr("sort", "", "assetCreated-desc")
	p.boolOr("returnHighlightedText", nil, true)
	p.boolOr("includeFolders", Bool(false), true)
	p.flag("flattenFolders", true)
	if p["sort"] != "assetCreated-desc" || p["returnHighlightedText"] != "true" {
		t.Fatalf("defaults not applied: %v", p)
	}
	if p["includeFolders"] != "false" || p["flattenFolders"] != "true" {
		t.Fatalf("explicit values not kept: %v", p)
	}
}

func TestParamsMetadataJSON(t *testing.T) {
	p := params{}
	if err := p.metadata("metadata", map[string]any{"gtin": 1234567890123, "tags": []string{"a", "b"}}); err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if p["metadata"] != `{"gtin":1234567890123,"tags":["a","b"]}` {
		t.Fatalf("metadata = %s", p["metadata"])
	}

	if err := p.metadata("bad", map[string]any{"ch": make(chan int)}); err == nil {
		t.Fatalf("expected encode error")
	}
}
