package qiconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/relaymesh/dynatype/internal/qitype"
)

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "types.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `
types:
  - name: app.Point
    signature: "(is)<Point,x,y>"
  - name: app.Tags
    signature: "[s]"
`)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Types) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(m.Types))
	}
	if m.Types[0].Name != "app.Point" {
		t.Errorf("name = %q, want app.Point", m.Types[0].Name)
	}
	if m.Types[1].Signature != "[s]" {
		t.Errorf("signature = %q, want [s]", m.Types[1].Signature)
	}
}

func TestManifestApplyRegistersEachEntry(t *testing.T) {
	path := writeManifest(t, `
types:
  - name: app.Point
    signature: "(is)<Point,x,y>"
`)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reg := qitype.NewRegistry()
	if err := m.Apply(reg); err != nil {
		t.Fatalf("apply: %v", err)
	}
	got, ok := reg.Get(qitype.NamedTypeInfo("app.Point"))
	if !ok {
		t.Fatal("expected app.Point to be registered")
	}
	if got.Kind() != qitype.Tuple {
		t.Errorf("kind = %v, want Tuple", got.Kind())
	}
}

func TestManifestApplyStopsAtFirstBadSignature(t *testing.T) {
	path := writeManifest(t, `
types:
  - name: app.Bad
    signature: "Q"
`)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reg := qitype.NewRegistry()
	if err := m.Apply(reg); err == nil {
		t.Fatal("expected an error for an unparseable signature")
	}
}

func TestLoadGatewayConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gateway.yaml")
	body := `
listen: "127.0.0.1:9559"
methods:
  - name: Echo
    params: "(s)"
    returns: "s"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing gateway config: %v", err)
	}
	cfg, err := LoadGatewayConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Listen != "127.0.0.1:9559" {
		t.Errorf("listen = %q, want 127.0.0.1:9559", cfg.Listen)
	}
	if len(cfg.Methods) != 1 || cfg.Methods[0].Name != "Echo" {
		t.Fatalf("unexpected methods: %+v", cfg.Methods)
	}
}
