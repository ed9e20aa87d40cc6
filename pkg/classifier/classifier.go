// Package classifier derives the product type, unit count, thresholds and
// color state of a client from its attribute bag.
package classifier

import (
	"fmt"
	"strings"

	"mondichat-be/pkg/vocabulary"
)

// Figures is the classification of one product family on a record.
type Figures struct {
	Family   vocabulary.Family
	Type     TypeCode
	Count    float64
	HasCount bool
	Profile  ThresholdProfile
	Color    ColorState
	// Distance is how many units are missing to reach the next tier.
	Distance float64
	Next     ColorState
	HasNext  bool
}

// ClientSummary is the derived, never persisted, view of a client.
type ClientSummary struct {
	Descriptor string
	Type       TypeCode
	Count      float64
	HasCount   bool
	Color      ColorState
	Distance   float64
	Target     float64
	Mixed      bool
	Families   []Figures

	TypeDisplay     string
	CountDisplay    string
	ColorDisplay    string
	DistanceDisplay string
}

// HasColor reports whether any family of the client is in state c.
func (s ClientSummary) HasColor(c ColorState) bool {
	for _, f := range s.Families {
		if f.Color == c {
			return true
		}
	}
	return false
}

// Classify evaluates a count against a profile. Unknown counts are UNKNOWN.
func Classify(count float64, known bool, p ThresholdProfile) (ColorState, float64) {
	switch {
	case !known:
		return ColorUnknown, 0
	case count <= p.BlackMax:
		return ColorBlack, max(p.RedMin-count, 0)
	case count >= p.GreenMin:
		return ColorGreen, 0
	case count >= p.AmberMin:
		return ColorAmber, p.GreenMin - count
	default:
		return ColorRed, p.AmberMin - count
	}
}

// Classifier classifies attribute bags against a threshold table.
type Classifier struct {
	thresholds *ThresholdTable
}

// New creates a classifier; a nil table selects the built-in defaults.
func New(thresholds *ThresholdTable) *Classifier {
	if thresholds == nil {
		thresholds = DefaultThresholdTable()
	}
	return &Classifier{thresholds: thresholds}
}

// Classify builds the summary of one record's attributes.
func (c *Classifier) Classify(attrs map[string]string) ClientSummary {
	descriptor, _ := firstValue(attrs, vocabulary.DescriptorKeys)

	var families []Figures
	for _, fam := range vocabulary.Families {
		famDescriptor, ok := firstValue(attrs, vocabulary.FamilyDescriptorKeys[fam])
		if !ok {
			famDescriptor = descriptor
		}
		code := detectFamilyType(famDescriptor, fam)
		raw, hasKey := firstValue(attrs, vocabulary.FamilyCountKeys[fam])
		if code == TypeUnknown && !hasKey {
			continue
		}
		families = append(families, c.figures(fam, code, raw, hasKey, attrs))
	}

	switch len(families) {
	case 0:
		// No family recognized: generic keys and the fallback profile.
		code := DetectType(descriptor)
		fam, _ := FamilyOf(code)
		raw, hasKey := firstValue(attrs, vocabulary.GenericCountKeys)
		families = []Figures{c.figures(fam, code, raw, hasKey, attrs)}
	case 1:
		if !families[0].HasCount {
			if raw, ok := firstValue(attrs, vocabulary.GenericCountKeys); ok {
				families[0] = c.figures(families[0].Family, families[0].Type, raw, true, attrs)
			}
		}
	}

	return summarize(descriptor, families)
}

func (c *Classifier) figures(fam vocabulary.Family, code TypeCode, raw string, hasKey bool, attrs map[string]string) Figures {
	f := Figures{Family: fam, Type: code}
	if hasKey {
		f.Count, f.HasCount = ParseCount(raw)
	}
	f.Profile = c.thresholds.Resolve(code, attrs)
	f.Color, f.Distance = Classify(f.Count, f.HasCount, f.Profile)
	f.Next, f.HasNext = f.Color.Next()
	return f
}

func summarize(descriptor string, families []Figures) ClientSummary {
	s := ClientSummary{
		Descriptor: descriptor,
		Families:   families,
		Mixed:      len(families) > 1,
	}

	primary := families[0]
	for _, f := range families[1:] {
		if f.Color.Known() && (!primary.Color.Known() || f.Color < primary.Color) {
			primary = f
		}
	}
	s.Color = primary.Color
	s.Count = primary.Count
	s.HasCount = primary.HasCount
	s.Distance = primary.Distance
	s.Target = primary.Profile.GreenMin

	if !s.Mixed {
		s.Type = primary.Type
		s.TypeDisplay = string(primary.Type)
		s.CountDisplay = countText(primary)
		s.ColorDisplay = primary.Color.Emoji() + " " + primary.Color.Label()
		s.DistanceDisplay = distanceText(primary)
		return s
	}

	var types, counts, colors, distances []string
	for _, f := range families {
		types = append(types, string(f.Type))
		counts = append(counts, fmt.Sprintf("%s: %s", f.Type, countText(f)))
		colors = append(colors, fmt.Sprintf("%s: %s %s", f.Type, f.Color.Emoji(), f.Color.Label()))
		distances = append(distances, fmt.Sprintf("%s: %s", f.Type, distanceText(f)))
	}
	s.Type = TypeCode(strings.Join(types, "+"))
	s.TypeDisplay = string(s.Type)
	s.CountDisplay = strings.Join(counts, " | ")
	s.ColorDisplay = strings.Join(colors, " | ")
	s.DistanceDisplay = strings.Join(distances, " | ")
	return s
}

func countText(f Figures) string {
	if !f.HasCount {
		return "sin dato"
	}
	return formatNumber(f.Count)
}

func distanceText(f Figures) string {
	switch {
	case !f.Color.Known():
		return "sin datos de inventario"
	case !f.HasNext:
		return "meta cumplida"
	}
	return fmt.Sprintf("faltan %s para %s", formatNumber(f.Distance), f.Next.Label())
}
