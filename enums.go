package gloss

import "github.com/gloss-dev/glossbridge/domain/entities"

// Position is a module-owned alignment value such as Top or Center.
type Position entities.Handle

// Border is a module-owned border definition.
type Border entities.Handle

// Color is a module-owned color. The zero Color means "unset".
type Color entities.Handle

// ListEnumerator selects how list items are numbered.
type ListEnumerator int32

// TreeEnumerator selects the branch glyphs of a tree.
type TreeEnumerator int32

// Indenter selects how nested tree levels are indented.
type Indenter int32

// HeaderRow is the row index a table StyleFunc receives for header cells.
const HeaderRow = -1

// StyleFunc picks the style of one cell or item. Tables call it with the
// row (-1 for the header) and column; lists and trees pass the item index.
// Returning nil keeps the default style.
type StyleFunc func(row, col int) *Style

// LightDark returns a chooser that picks light or dark depending on isDark.
func LightDark(isDark bool) func(light, dark Color) Color {
	return func(light, dark Color) Color {
		if isDark {
			return dark
		}
		return light
	}
}

// whichSides expands CSS-style shorthand: one value for all sides, two for
// vertical then horizontal, three for top, horizontal, bottom, four clockwise
// from the top.
func whichSides[T any](v ...T) (top, right, bottom, left T, ok bool) {
	switch len(v) {
	case 1:
		return v[0], v[0], v[0], v[0], true
	case 2:
		return v[0], v[1], v[0], v[1], true
	case 3:
		return v[0], v[1], v[2], v[1], true
	case 4:
		return v[0], v[1], v[2], v[3], true
	default:
		return top, right, bottom, left, false
	}
}
