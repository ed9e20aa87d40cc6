package classifier

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"mondichat-be/pkg/vocabulary"
)

// ThresholdProfile holds the cut points of one product type. BlackMax is
// always 0: a count at or below it is BLACK.
type ThresholdProfile struct {
	BlackMax float64 `yaml:"-"`
	RedMin   float64 `yaml:"red_min"`
	AmberMin float64 `yaml:"amber_min"`
	GreenMin float64 `yaml:"green_min"`
}

// Valid reports whether the profile is well formed.
func (p ThresholdProfile) Valid() bool {
	return p.AmberMin <= p.GreenMin
}

// DefaultProfile is used for unmapped types and malformed profiles.
var DefaultProfile = ThresholdProfile{RedMin: 1, AmberMin: 5, GreenMin: 10}

var defaultProfiles = map[TypeCode]ThresholdProfile{
	TypeK1: {RedMin: 1, AmberMin: 4, GreenMin: 8},
	TypeK2: {RedMin: 1, AmberMin: 6, GreenMin: 12},
	TypeK3: {RedMin: 1, AmberMin: 9, GreenMin: 18},
	TypeL4: {RedMin: 1, AmberMin: 3, GreenMin: 6},
	TypeL6: {RedMin: 1, AmberMin: 4, GreenMin: 9},
	TypeL8: {RedMin: 1, AmberMin: 6, GreenMin: 12},
}

// ThresholdTable maps type codes to their default profile.
type ThresholdTable struct {
	profiles map[TypeCode]ThresholdProfile
	fallback ThresholdProfile
}

// DefaultThresholdTable returns the built-in table.
func DefaultThresholdTable() *ThresholdTable {
	profiles := make(map[TypeCode]ThresholdProfile, len(defaultProfiles))
	for k, v := range defaultProfiles {
		profiles[k] = v
	}
	return &ThresholdTable{profiles: profiles, fallback: DefaultProfile}
}

type thresholdFile struct {
	Default *ThresholdProfile             `yaml:"default"`
	Types   map[TypeCode]ThresholdProfile `yaml:"types"`
}

// LoadThresholdTable reads a YAML file shaped as
//
//	default: {red_min: 1, amber_min: 5, green_min: 10}
//	types:
//	  K2: {red_min: 1, amber_min: 6, green_min: 12}
//
// on top of the built-in table. Malformed profiles are rejected.
func LoadThresholdTable(path string) (*ThresholdTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read thresholds: %w", err)
	}

	var file thresholdFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse thresholds: %w", err)
	}

	table := DefaultThresholdTable()
	if file.Default != nil {
		if !file.Default.Valid() {
			return nil, fmt.Errorf("default threshold profile: amber_min %v > green_min %v", file.Default.AmberMin, file.Default.GreenMin)
		}
		table.fallback = *file.Default
	}
	for code, p := range file.Types {
		if !p.Valid() {
			return nil, fmt.Errorf("threshold profile %s: amber_min %v > green_min %v", code, p.AmberMin, p.GreenMin)
		}
		table.profiles[code] = p
	}
	return table, nil
}

// Profile returns the type's default profile, or the table fallback.
func (t *ThresholdTable) Profile(code TypeCode) ThresholdProfile {
	if p, ok := t.profiles[code]; ok {
		return p
	}
	return t.fallback
}

// Resolve applies per-row override columns field by field on top of the
// type's default. A malformed result falls back to the type default, and
// to the table fallback if that is malformed too.
func (t *ThresholdTable) Resolve(code TypeCode, attrs map[string]string) ThresholdProfile {
	base := t.Profile(code)
	p := base

	if v, ok := ParseCount(attrs[vocabulary.KeyRedMin]); ok {
		p.RedMin = v
	}
	if v, ok := ParseCount(attrs[vocabulary.KeyAmberMin]); ok {
		p.AmberMin = v
	}
	if v, ok := ParseCount(attrs[vocabulary.KeyGreenMin]); ok {
		p.GreenMin = v
	}

	if p.Valid() {
		return p
	}
	if base.Valid() {
		return base
	}
	return t.fallback
}
