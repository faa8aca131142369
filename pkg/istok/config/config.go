// Package config loads tokenizer profiles from YAML files. A profile
// bundles an option set with an optional abbreviation file, so that a
// corpus pipeline can be configured in one place.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/istok/pkg/istok/abbrev"
	"github.com/cognicore/istok/pkg/istok/internalerr"
	"github.com/cognicore/istok/pkg/istok/tok"
)

// Profile is the YAML representation of a tokenizer configuration.
type Profile struct {
	ConvertNumbers      bool   `yaml:"convert_numbers"`
	ConvertMeasurements bool   `yaml:"convert_measurements"`
	KeepCompositeGlyphs bool   `yaml:"keep_composite_glyphs"`
	ReplaceHTMLEscapes  bool   `yaml:"replace_html_escapes"`
	OneSentPerLine      bool   `yaml:"one_sent_per_line"`
	Original            bool   `yaml:"original"`
	CoalescePercent     bool   `yaml:"coalesce_percent"`
	Normalize           bool   `yaml:"normalize"`
	KludgyOrdinals      int    `yaml:"kludgy_ordinals"`
	AbbrevFile          string `yaml:"abbrev_file"`
}

// Load reads a profile from a YAML file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	if p.KludgyOrdinals < 0 || p.KludgyOrdinals > int(tok.KludgyTranslate) {
		return nil, fmt.Errorf("profile %s: kludgy_ordinals out of range: %w",
			path, internalerr.ErrInvalidConfig)
	}
	return &p, nil
}

// Build constructs the tokenizer options described by the profile,
// loading the abbreviation file if one is configured.
func (p *Profile) Build() (tok.Options, error) {
	opts := tok.DefaultOptions()
	opts.ConvertNumbers = p.ConvertNumbers
	opts.ConvertMeasurements = p.ConvertMeasurements
	opts.ReplaceCompositeGlyphs = !p.KeepCompositeGlyphs
	opts.ReplaceHTMLEscapes = p.ReplaceHTMLEscapes
	opts.OneSentPerLine = p.OneSentPerLine
	opts.Original = p.Original
	opts.CoalescePercent = p.CoalescePercent
	opts.Normalize = p.Normalize
	opts.HandleKludgyOrdinals = tok.KludgyMode(p.KludgyOrdinals)
	if p.AbbrevFile != "" {
		abb, err := abbrev.Load(p.AbbrevFile)
		if err != nil {
			return opts, err
		}
		opts.Abbreviations = abb
	}
	return opts, nil
}
