package colour

import (
	"fmt"
	"maps"
	"slices"
)

// Palette maps semantic slot names ("background", "red", "alt_red", ...) to
// "#rrggbb" colour strings.
type Palette map[string]string

// Semantic slot names.
const (
	SlotBackground = "background"
	SlotForeground = "foreground"
	SlotUnderline  = "underline"
)

// PositionalSlots is the number of positional colorN slots in a terminal palette.
const PositionalSlots = 16

// MinCompleteSlots is the number of slots a palette must carry before it is
// considered complete.
const MinCompleteSlots = 16

var baseNames = [8]string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

// slotDictionary translates Xresources-style positional keys to semantic slots.
var slotDictionary = func() map[string]string {
	m := map[string]string{
		"background": SlotBackground,
		"foreground": SlotForeground,
		"colorul":    SlotUnderline,
	}
	for i, name := range baseNames {
		m[fmt.Sprintf("color%d", i)] = name
		m[fmt.Sprintf("color%d", i+8)] = "alt_" + name
	}
	return m
}()

// SlotName translates a positional key (e.g. "color9", "background",
// "colorul") to its semantic slot name.
func SlotName(key string) (string, bool) {
	name, ok := slotDictionary[key]
	return name, ok
}

// PositionalSlot returns the semantic slot for colorN.
func PositionalSlot(index int) string {
	name, _ := SlotName(fmt.Sprintf("color%d", index))
	return name
}

// CanonicalSlots returns the 18 canonical slots: background, foreground and
// the 16 terminal colours in positional order.
func CanonicalSlots() []string {
	slots := []string{SlotBackground, SlotForeground}
	for i := range PositionalSlots {
		slots = append(slots, PositionalSlot(i))
	}
	return slots
}

// IncompleteError reports a palette that recovered fewer slots than expected.
// It is a warning: callers log it and continue with the partial palette.
type IncompleteError struct {
	Source string
	Found  int
	Want   int
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("only %d colours were read from %q (want at least %d)", e.Found, e.Source, e.Want)
}

// CheckComplete returns an *IncompleteError when fewer than MinCompleteSlots
// slots are present.
func (p Palette) CheckComplete(source string) error {
	if len(p) < MinCompleteSlots {
		return &IncompleteError{Source: source, Found: len(p), Want: MinCompleteSlots}
	}
	return nil
}

// Validate checks that every value is a canonical "#rrggbb" colour.
func (p Palette) Validate() error {
	for _, slot := range p.Slots() {
		v := p[slot]
		canonical, err := NormalizeHex(v)
		if err != nil {
			return fmt.Errorf("slot %s: %w", slot, err)
		}
		if canonical != v {
			return fmt.Errorf("slot %s: %w", slot, &FormatError{Input: v, Reason: "not lowercase #rrggbb"})
		}
	}
	return nil
}

// Slots returns the slot names in sorted order.
func (p Palette) Slots() []string {
	return slices.Sorted(maps.Keys(p))
}

// Clone returns a copy of the palette.
func (p Palette) Clone() Palette {
	return maps.Clone(p)
}

// Translate maps positional keys to semantic slots. Keys without a slot are
// dropped.
func Translate(positional map[string]string) Palette {
	p := make(Palette, len(positional))
	for key, value := range positional {
		if slot, ok := SlotName(key); ok {
			p[slot] = value
		}
	}
	return p
}
