package shell

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// Border is the set of box-drawing glyphs used to frame the prompt.
type Border struct {
	Horizontal  rune
	Vertical    rune
	TopLeft     rune
	TopRight    rune
	BottomLeft  rune
	BottomRight rune
}

var borders = map[string]lipgloss.Border{
	"normal":  lipgloss.NormalBorder(),
	"rounded": lipgloss.RoundedBorder(),
	"thick":   lipgloss.ThickBorder(),
	"double":  lipgloss.DoubleBorder(),
}

// DefaultBorderName is the preset used when none is configured.
const DefaultBorderName = "rounded"

// FromLipgloss takes the glyphs of a lipgloss border preset.
func FromLipgloss(b lipgloss.Border) Border {
	return Border{
		Horizontal:  firstRune(b.Top),
		Vertical:    firstRune(b.Left),
		TopLeft:     firstRune(b.TopLeft),
		TopRight:    firstRune(b.TopRight),
		BottomLeft:  firstRune(b.BottomLeft),
		BottomRight: firstRune(b.BottomRight),
	}
}

// DefaultBorder returns the rounded preset.
func DefaultBorder() Border {
	return FromLipgloss(lipgloss.RoundedBorder())
}

// BorderByName looks up a preset by case-insensitive name.
func BorderByName(name string) (Border, error) {
	b, ok := borders[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Border{}, fmt.Errorf("unknown border %q (valid: %s)", name, strings.Join(BorderNames(), ", "))
	}
	return FromLipgloss(b), nil
}

// BorderNames lists the available presets in sorted order.
func BorderNames() []string {
	names := make([]string, 0, len(borders))
	for name := range borders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return ' '
	}
	return r
}
