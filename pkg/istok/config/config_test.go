package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/istok/pkg/istok/tok"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadProfile(t *testing.T) {
	path := writeFile(t, "profile.yaml", `
convert_numbers: true
normalize: true
one_sent_per_line: true
kludgy_ordinals: 1
`)
	p, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	opts, err := p.Build()
	if err != nil {
		t.Fatal(err)
	}
	if !opts.ConvertNumbers || !opts.Normalize || !opts.OneSentPerLine {
		t.Errorf("options not mapped: %+v", opts)
	}
	if opts.HandleKludgyOrdinals != tok.KludgyModify {
		t.Errorf("unexpected kludgy mode: %v", opts.HandleKludgyOrdinals)
	}
	if !opts.ReplaceCompositeGlyphs {
		t.Error("composite glyph folding should default to on")
	}
}

func TestLoadProfileWithAbbrevFile(t *testing.T) {
	abbrevPath := writeFile(t, "abbrev.conf", `
[abbreviations]
prufa. = "prufuorð" hk
`)
	path := writeFile(t, "profile.yaml", "abbrev_file: "+abbrevPath+"\n")
	p, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	opts, err := p.Build()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Abbreviations == nil {
		t.Fatal("abbreviation dictionary not loaded")
	}
	if m := opts.Abbreviations.Meaning("prufa."); len(m) != 1 || m[0].Word != "prufuorð" {
		t.Errorf("unexpected meaning: %v", m)
	}
}

func TestLoadProfileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	path := writeFile(t, "bad.yaml", "kludgy_ordinals: 7\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for out-of-range kludgy_ordinals")
	}
	path = writeFile(t, "invalid.yaml", "convert_numbers: [unclosed")
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid yaml")
	}
}
