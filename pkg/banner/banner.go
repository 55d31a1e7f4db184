// Package banner renders one horizontal strip of a box: bracketed components
// grouped on the left and right, joined by a fill glyph.
//
// Example at width 22 with fill '─':
//
//	(exoshell)────────────
//	(MODE)(q Quit)(l Line)
//
// and at width 24 the same footer gains one fill glyph per gap:
//
//	(MODE)─(q Quit)─(l Line)
package banner

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// widths is fixed rather than taken from the locale so that the box geometry
// does not change with RUNEWIDTH_EASTASIAN or LANG.
var widths = &runewidth.Condition{StrictEmojiNeutral: true}

// StringWidth returns the display width of s in terminal columns.
func StringWidth(s string) int {
	return widths.StringWidth(s)
}

// RuneWidth returns the display width of r: 2 for wide runes, 0 for
// zero-width and combining runes, 1 otherwise.
func RuneWidth(r rune) int {
	return widths.RuneWidth(r)
}

// Banner is an ordered set of left and right components.
type Banner struct {
	left  []Component
	right []Component
	fill  rune
}

// New creates an empty banner that fills spare width with fill.
func New(fill rune) *Banner {
	return &Banner{fill: fill}
}

// PushLeft appends a component to the left group.
func (b *Banner) PushLeft(c Component) *Banner {
	b.left = append(b.left, c)
	return b
}

// PushRight appends a component to the right group.
func (b *Banner) PushRight(c Component) *Banner {
	b.right = append(b.right, c)
	return b
}

// Render lays the banner out in exactly width columns when there is room and
// never more than width columns otherwise. Left components take width first,
// in order, then right components take what is left.
func (b *Banner) Render(width int) string {
	if width < 0 {
		width = 0
	}
	remaining := width

	render := func(components []Component) []string {
		out := make([]string, 0, len(components))
		for _, c := range components {
			s := c.Render(remaining)
			remaining -= StringWidth(s)
			out = append(out, s)
		}
		return out
	}
	left := render(b.left)
	right := render(b.right)

	gaps := max(0, len(left)-1) + max(0, len(right)-1)
	join := ""
	if remaining > gaps {
		join = string(b.fill)
		remaining -= gaps
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(left, join))
	sb.WriteString(strings.Repeat(string(b.fill), remaining))
	sb.WriteString(strings.Join(right, join))
	return sb.String()
}

// Component is a piece of text between two delimiters, e.g. "(LINE)".
type Component struct {
	Left  rune
	Text  string
	Right rune
}

// NewComponent creates a component.
func NewComponent(left rune, text string, right rune) Component {
	return Component{Left: left, Text: text, Right: right}
}

// Width returns the natural display width of the component.
func (c Component) Width() int {
	return RuneWidth(c.Left) + StringWidth(c.Text) + RuneWidth(c.Right)
}

// Render returns the component fitted into width columns. Both delimiters are
// kept whenever width allows and the text is cut on grapheme cluster
// boundaries.
func (c Component) Render(width int) string {
	switch {
	case width <= 0:
		return ""
	case width == 1:
		return string(c.Left)
	case width == 2:
		return string(c.Left) + string(c.Right)
	}

	avail := width - RuneWidth(c.Left) - RuneWidth(c.Right)

	var sb strings.Builder
	sb.WriteRune(c.Left)
	sb.WriteString(Truncate(c.Text, avail))
	sb.WriteRune(c.Right)
	return sb.String()
}

// Truncate returns the longest prefix of s made of whole grapheme clusters
// whose display width is at most width.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if StringWidth(s) <= width {
		return s
	}

	var sb strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cluster := g.Str()
		w := StringWidth(cluster)
		if used+w > width {
			break
		}
		used += w
		sb.WriteString(cluster)
	}
	return sb.String()
}
