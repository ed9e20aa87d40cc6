package classifier

import "strings"

// ColorState is the inventory-health state of a client.
// BLACK < RED < AMBER < GREEN; UNKNOWN is outside the order.
type ColorState int

const (
	ColorBlack ColorState = iota
	ColorRed
	ColorAmber
	ColorGreen
	ColorUnknown
)

var colorNames = map[ColorState]string{
	ColorBlack:   "BLACK",
	ColorRed:     "RED",
	ColorAmber:   "AMBER",
	ColorGreen:   "GREEN",
	ColorUnknown: "UNKNOWN",
}

var colorLabels = map[ColorState]string{
	ColorBlack:   "NEGRO",
	ColorRed:     "ROJO",
	ColorAmber:   "AMARILLO",
	ColorGreen:   "VERDE",
	ColorUnknown: "SIN DATO",
}

var colorEmojis = map[ColorState]string{
	ColorBlack:   "⚫",
	ColorRed:     "🔴",
	ColorAmber:   "🟡",
	ColorGreen:   "🟢",
	ColorUnknown: "⚪",
}

func (c ColorState) String() string {
	if s, ok := colorNames[c]; ok {
		return s
	}
	return colorNames[ColorUnknown]
}

// Label is the user-facing (Spanish) name.
func (c ColorState) Label() string {
	if s, ok := colorLabels[c]; ok {
		return s
	}
	return colorLabels[ColorUnknown]
}

func (c ColorState) Emoji() string {
	if s, ok := colorEmojis[c]; ok {
		return s
	}
	return colorEmojis[ColorUnknown]
}

// Known reports whether c takes part in the BLACK..GREEN order.
func (c ColorState) Known() bool {
	return c >= ColorBlack && c <= ColorGreen
}

// ParseColorState accepts the enum name ("RED") in any case.
func ParseColorState(s string) (ColorState, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for c, name := range colorNames {
		if name == s {
			return c, true
		}
	}
	return ColorUnknown, false
}

// Next is the tier a client reaches by growing its count; GREEN has none.
func (c ColorState) Next() (ColorState, bool) {
	switch c {
	case ColorBlack:
		return ColorRed, true
	case ColorRed:
		return ColorAmber, true
	case ColorAmber:
		return ColorGreen, true
	}
	return ColorUnknown, false
}
