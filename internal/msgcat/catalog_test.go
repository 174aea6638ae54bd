package msgcat

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedDefaults(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.Get("result.black_win"); got != "先手の勝ち" {
		t.Fatalf("result.black_win = %q", got)
	}
	if got := c.Get("no.such.key"); got != "no.such.key" {
		t.Fatalf("missing key should echo itself, got %q", got)
	}
}

func TestRenderTemplate(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := c.Render("status.ply", map[string]any{"Ply": 12})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "12手目" {
		t.Fatalf("Render = %q", out)
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	override := "status:\n  thinking: \"considering...\"\n"
	if err := os.WriteFile(filepath.Join(dir, "en.yaml"), []byte(override), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.Get("status.thinking"); got != "considering..." {
		t.Fatalf("override not applied: %q", got)
	}
	// untouched keys keep their defaults
	if got := c.Get("status.check"); got != "王手！" {
		t.Fatalf("default lost: %q", got)
	}
}
