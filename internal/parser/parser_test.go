package parser

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParse_BareArray(t *testing.T) {
	data := []byte(`[
		{"t": 0, "x": 0.5, "y": 0.3},
		{"t": 200, "x": 0.5, "y": 0.6, "vx": 0.0, "vy": 1.5}
	]`)
	rally, err := Parse(data, "cam.json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rally.Source != "cam.json" {
		t.Errorf("source: %q", rally.Source)
	}
	if len(rally.Hash) != 64 {
		t.Errorf("hash: want 64 hex chars, got %q", rally.Hash)
	}
	if len(rally.Samples) != 2 {
		t.Fatalf("samples: got %d, want 2", len(rally.Samples))
	}
	if rally.Samples[0].HasVelocity {
		t.Error("sample 0 should not carry velocity")
	}
	s := rally.Samples[1]
	if !s.HasVelocity || s.VY != 1.5 || s.TimestampMS != 200 {
		t.Errorf("sample 1: %+v", s)
	}
}

func TestParse_Envelope(t *testing.T) {
	data := []byte(`{"label": "training", "samples": [{"t": 0, "x": 0.1, "y": 0.2}]}`)
	rally, err := Parse(data, "session.json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rally.Label != "training" {
		t.Errorf("label: %q", rally.Label)
	}
	if len(rally.Samples) != 1 || rally.Samples[0].X != 0.1 {
		t.Errorf("samples: %+v", rally.Samples)
	}
}

func TestParse_HashStable(t *testing.T) {
	data := []byte(`[{"t": 0, "x": 0.5, "y": 0.3}]`)
	a, err := Parse(data, "a.json")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Parse(data, "b.json")
	if err != nil {
		t.Fatal(err)
	}
	if a.Hash != b.Hash {
		t.Errorf("same bytes, different hashes: %s vs %s", a.Hash, b.Hash)
	}

	c, err := Parse([]byte(`[{"t": 0, "x": 0.5, "y": 0.4}]`), "c.json")
	if err != nil {
		t.Fatal(err)
	}
	if a.Hash == c.Hash {
		t.Error("different bytes, same hash")
	}
}

func TestParse_Malformed(t *testing.T) {
	if _, err := Parse([]byte(`{"samples": "nope"}`), "bad.json"); err == nil {
		t.Error("want error for malformed envelope")
	}
	if _, err := Parse([]byte(`[{]`), "bad.json"); err == nil {
		t.Error("want error for malformed array")
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rally.json")
	if err := os.WriteFile(path, []byte(`[{"t": 0, "x": 0.5, "y": 0.3}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	rally, err := ParseFile(path)
	if err != nil {
		t.Fatalf("parse file: %v", err)
	}
	if rally.Source != "rally.json" {
		t.Errorf("source: %q", rally.Source)
	}
	if len(rally.Samples) != 1 {
		t.Errorf("samples: %d", len(rally.Samples))
	}

	if _, err := ParseFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("want error for missing file")
	}
}
