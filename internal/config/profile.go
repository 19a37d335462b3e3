// Package config loads join profiles: YAML files holding a reusable set of
// join options.
//
// Profiles are decoded strictly (unknown keys are rejected) and then checked
// against an embedded CUE schema.
//
//	left:
//	  keys: [id]
//	  unmatched: true
//	right:
//	  keys: [2]
//	output: "0,1.name,2.city"
//	header: true
//	empty: "-"
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"unicode/utf8"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/mjoin/internal/header"
	"github.com/roach88/mjoin/internal/join"
	"github.com/roach88/mjoin/internal/projection"
	"github.com/roach88/mjoin/internal/source"
)

//go:embed schema.cue
var schemaCUE string

// Side holds the per-input options of a profile.
type Side struct {
	// Keys are 1-based field numbers or header names.
	Keys      []string `yaml:"keys,omitempty" json:"keys,omitempty"`
	Unmatched bool     `yaml:"unmatched,omitempty" json:"unmatched,omitempty"`
	Missing   *string  `yaml:"missing,omitempty" json:"missing,omitempty"`
}

// Profile is a decoded profile file.
type Profile struct {
	Left            *Side  `yaml:"left,omitempty" json:"left,omitempty"`
	Right           *Side  `yaml:"right,omitempty" json:"right,omitempty"`
	Delimiter       string `yaml:"delimiter,omitempty" json:"delimiter,omitempty"`
	OutputDelimiter string `yaml:"output_delimiter,omitempty" json:"output_delimiter,omitempty"`
	Output          string `yaml:"output,omitempty" json:"output,omitempty"`
	Header          bool   `yaml:"header,omitempty" json:"header,omitempty"`
	OnlyUnmatched   bool   `yaml:"only_unmatched,omitempty" json:"only_unmatched,omitempty"`
	Empty           string `yaml:"empty,omitempty" json:"empty,omitempty"`
	Encoding        string `yaml:"encoding,omitempty" json:"encoding,omitempty"`
	Sheet           string `yaml:"sheet,omitempty" json:"sheet,omitempty"`
}

// Load reads, decodes and validates the profile at path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes and validates profile YAML.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the profile against the embedded schema, then checks the
// values the schema cannot express.
func (p *Profile) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile profile schema: %w", err)
	}

	v := schema.Unify(ctx.Encode(p))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid profile: %s", cueerrors.Details(err, nil))
	}

	if _, err := projection.Parse(p.Output); err != nil {
		return fmt.Errorf("invalid profile: output: %w", err)
	}
	for name, side := range map[string]*Side{"left": p.Left, "right": p.Right} {
		if side == nil {
			continue
		}
		if side.Keys != nil && len(side.Keys) == 0 {
			return fmt.Errorf("invalid profile: %s.keys: at least one key field is required", name)
		}
		for _, k := range side.Keys {
			if _, err := header.Parse(k); err != nil {
				return fmt.Errorf("invalid profile: %s.keys: %w", name, err)
			}
		}
	}
	return nil
}

// Apply overlays the profile onto cfg. Options absent from the profile keep
// their value in cfg.
func (p *Profile) Apply(cfg *join.Config) error {
	if p.Delimiter != "" {
		r, _ := utf8.DecodeRuneInString(p.Delimiter)
		cfg.Delimiter = r
	}
	if p.OutputDelimiter != "" {
		cfg.OutputDelimiter = p.OutputDelimiter
	}
	if p.Output != "" {
		spec, err := projection.Parse(p.Output)
		if err != nil {
			return err
		}
		cfg.Output = spec
	}
	if p.Header {
		cfg.Header = true
	}
	if p.OnlyUnmatched {
		cfg.SuppressMatched = true
	}
	if p.Empty != "" {
		cfg.Left.Missing = p.Empty
		cfg.Right.Missing = p.Empty
	}
	if err := p.Left.apply(&cfg.Left); err != nil {
		return fmt.Errorf("left: %w", err)
	}
	if err := p.Right.apply(&cfg.Right); err != nil {
		return fmt.Errorf("right: %w", err)
	}
	return nil
}

func (s *Side) apply(side *join.Side) error {
	if s == nil {
		return nil
	}
	if len(s.Keys) > 0 {
		refs := make([]header.FieldRef, 0, len(s.Keys))
		for _, k := range s.Keys {
			ref, err := header.Parse(k)
			if err != nil {
				return err
			}
			refs = append(refs, ref)
		}
		side.Keys = refs
	}
	if s.Unmatched {
		side.EmitUnmatched = true
	}
	if s.Missing != nil {
		side.Missing = *s.Missing
	}
	return nil
}

// SourceOptions returns the input options named by the profile.
func (p *Profile) SourceOptions() source.Options {
	opts := source.Options{Encoding: p.Encoding, Sheet: p.Sheet}
	if p.Delimiter != "" {
		opts.Delimiter, _ = utf8.DecodeRuneInString(p.Delimiter)
	}
	return opts
}
