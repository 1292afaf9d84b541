package gloss

import "github.com/gloss-dev/glossbridge/domain/entities"

// Style is a set of visual attributes applied when rendering text.
// Setters mutate the module object and return the receiver, so later calls
// override earlier ones on the same attribute.
type Style struct {
	r *Renderer
	h entities.Handle
}

// NewStyle creates an empty style.
func (r *Renderer) NewStyle() *Style {
	return &Style{r: r, h: entities.Handle(r.configure("StyleNewStyle"))}
}

// Handle returns the module handle of s. A nil Style has the null handle.
func (s *Style) Handle() entities.Handle {
	if s == nil {
		return 0
	}
	return s.h
}

func (s *Style) set(export string, params ...uint64) *Style {
	s.r.configure(export, append([]uint64{uint64(s.h)}, params...)...)
	return s
}

func (s *Style) withStyle(export string, other *Style) *Style {
	if other.Handle().IsNull() {
		return s
	}
	return s.set(export, uint64(other.h))
}

// SetString sets the text rendered by String. Multiple values are joined
// with spaces by the module.
func (s *Style) SetString(strs ...string) *Style {
	dir, n, ok := s.r.strs(strs)
	if !ok {
		return s
	}
	return s.set("StyleSetString", dir, n)
}

// Render applies the style to strs joined with spaces, or to the value set
// with SetString when strs is empty.
func (s *Style) Render(strs ...string) string {
	if len(strs) > 0 {
		dir, n, ok := s.r.strs(strs)
		if !ok {
			return ""
		}
		s.r.call("StyleJoinString", uint64(s.h), dir, n)
	}
	out := s.r.result(totalLen(strs), "StyleRender", uint64(s.h))
	s.r.call("StyleClearValue", uint64(s.h))
	return out
}

// String renders the value set with SetString.
func (s *Style) String() string {
	return s.Render()
}

// Inherit copies the attributes of other that s does not set.
func (s *Style) Inherit(other *Style) *Style { return s.withStyle("StyleInherit", other) }

// Bold sets bold text.
func (s *Style) Bold(v bool) *Style { return s.set("StyleBold", boolArg(v)) }

// Italic sets italic text.
func (s *Style) Italic(v bool) *Style { return s.set("StyleItalic", boolArg(v)) }

// Strikethrough draws a line through the text.
func (s *Style) Strikethrough(v bool) *Style { return s.set("StyleStrikethrough", boolArg(v)) }

// Underline underlines the text.
func (s *Style) Underline(v bool) *Style { return s.set("StyleUnderline", boolArg(v)) }

// Blink sets blinking text.
func (s *Style) Blink(v bool) *Style { return s.set("StyleBlink", boolArg(v)) }

// Reverse swaps the foreground and background colors.
func (s *Style) Reverse(v bool) *Style { return s.set("StyleReverse", boolArg(v)) }

// Faint dims the text.
func (s *Style) Faint(v bool) *Style { return s.set("StyleFaint", boolArg(v)) }

// Inline renders on a single line without margins or padding.
func (s *Style) Inline(v bool) *Style { return s.set("StyleInline", boolArg(v)) }

// UnderlineSpaces controls whether spaces between words are underlined.
func (s *Style) UnderlineSpaces(v bool) *Style {
	return s.set("StyleUnderlineSpaces", boolArg(v))
}

// StrikethroughSpaces controls whether spaces between words are struck through.
func (s *Style) StrikethroughSpaces(v bool) *Style {
	return s.set("StyleStrikethroughSpaces", boolArg(v))
}

// ColorWhitespace controls whether the background fills padding.
func (s *Style) ColorWhitespace(v bool) *Style {
	return s.set("StyleColorWhitespace", boolArg(v))
}

// Foreground sets the text color.
func (s *Style) Foreground(c Color) *Style { return s.set("StyleForeground", uint64(c)) }

// Background sets the background color.
func (s *Style) Background(c Color) *Style { return s.set("StyleBackground", uint64(c)) }

// MarginBackground sets the color of the margins.
func (s *Style) MarginBackground(c Color) *Style { return s.set("StyleMarginBackground", uint64(c)) }

// Width sets the block width, wrapping text that is longer.
func (s *Style) Width(n int) *Style { return s.set("StyleWidth", intArg(n)) }

// Height sets the minimum block height.
func (s *Style) Height(n int) *Style { return s.set("StyleHeight", intArg(n)) }

// MaxWidth truncates lines wider than n cells.
func (s *Style) MaxWidth(n int) *Style { return s.set("StyleMaxWidth", intArg(n)) }

// MaxHeight truncates output taller than n lines.
func (s *Style) MaxHeight(n int) *Style { return s.set("StyleMaxHeight", intArg(n)) }

// TabWidth sets how many spaces a tab expands to; -1 keeps tabs.
func (s *Style) TabWidth(n int) *Style { return s.set("StyleTabWidth", intArg(n)) }

// Align sets horizontal alignment, and vertical alignment when a second
// position is given.
func (s *Style) Align(p ...Position) *Style {
	if len(p) > 0 {
		s.AlignHorizontal(p[0])
	}
	if len(p) > 1 {
		s.AlignVertical(p[1])
	}
	return s
}

// AlignHorizontal sets horizontal alignment.
func (s *Style) AlignHorizontal(p Position) *Style { return s.set("StyleAlignHorizontal", uint64(p)) }

// AlignVertical sets vertical alignment.
func (s *Style) AlignVertical(p Position) *Style { return s.set("StyleAlignVertical", uint64(p)) }

// Padding uses CSS shorthand; more than four values are ignored.
func (s *Style) Padding(v ...int) *Style {
	top, right, bottom, left, ok := whichSides(v...)
	if !ok {
		return s
	}
	return s.PaddingTop(top).PaddingRight(right).PaddingBottom(bottom).PaddingLeft(left)
}

// PaddingTop sets top padding.
func (s *Style) PaddingTop(n int) *Style { return s.set("StylePaddingTop", intArg(n)) }

// PaddingRight sets right padding.
func (s *Style) PaddingRight(n int) *Style { return s.set("StylePaddingRight", intArg(n)) }

// PaddingBottom sets bottom padding.
func (s *Style) PaddingBottom(n int) *Style { return s.set("StylePaddingBottom", intArg(n)) }

// PaddingLeft sets left padding.
func (s *Style) PaddingLeft(n int) *Style { return s.set("StylePaddingLeft", intArg(n)) }

// Margin uses CSS shorthand; more than four values are ignored.
func (s *Style) Margin(v ...int) *Style {
	top, right, bottom, left, ok := whichSides(v...)
	if !ok {
		return s
	}
	return s.MarginTop(top).MarginRight(right).MarginBottom(bottom).MarginLeft(left)
}

// MarginTop sets the top margin.
func (s *Style) MarginTop(n int) *Style { return s.set("StyleMarginTop", intArg(n)) }

// MarginRight sets the right margin.
func (s *Style) MarginRight(n int) *Style { return s.set("StyleMarginRight", intArg(n)) }

// MarginBottom sets the bottom margin.
func (s *Style) MarginBottom(n int) *Style { return s.set("StyleMarginBottom", intArg(n)) }

// MarginLeft sets the left margin.
func (s *Style) MarginLeft(n int) *Style { return s.set("StyleMarginLeft", intArg(n)) }

// Border sets the border and which sides draw it, in CSS shorthand. With no
// sides every side is drawn.
func (s *Style) Border(b Border, sides ...bool) *Style {
	s.BorderStyle(b)
	top, right, bottom, left, ok := whichSides(sides...)
	if !ok {
		top, right, bottom, left = true, true, true, true
	}
	return s.BorderTop(top).BorderRight(right).BorderBottom(bottom).BorderLeft(left)
}

// BorderStyle sets the border without changing which sides are drawn.
func (s *Style) BorderStyle(b Border) *Style { return s.set("StyleBorder", uint64(b)) }

// BorderTop toggles the top border.
func (s *Style) BorderTop(v bool) *Style { return s.set("SetBorderTop", boolArg(v)) }

// BorderRight toggles the right border.
func (s *Style) BorderRight(v bool) *Style { return s.set("SetBorderRight", boolArg(v)) }

// BorderBottom toggles the bottom border.
func (s *Style) BorderBottom(v bool) *Style { return s.set("SetBorderBottom", boolArg(v)) }

// BorderLeft toggles the left border.
func (s *Style) BorderLeft(v bool) *Style { return s.set("SetBorderLeft", boolArg(v)) }

// BorderForeground sets border colors in CSS shorthand.
func (s *Style) BorderForeground(c ...Color) *Style {
	top, right, bottom, left, ok := whichSides(c...)
	if !ok {
		return s
	}
	return s.BorderTopForeground(top).
		BorderRightForeground(right).
		BorderBottomForeground(bottom).
		BorderLeftForeground(left)
}

// BorderTopForeground colors the top border.
func (s *Style) BorderTopForeground(c Color) *Style {
	return s.set("StyleBorderTopForeground", uint64(c))
}

// BorderRightForeground colors the right border.
func (s *Style) BorderRightForeground(c Color) *Style {
	return s.set("StyleBorderRightForeground", uint64(c))
}

// BorderBottomForeground colors the bottom border.
func (s *Style) BorderBottomForeground(c Color) *Style {
	return s.set("StyleBorderBottomForeground", uint64(c))
}

// BorderLeftForeground colors the left border.
func (s *Style) BorderLeftForeground(c Color) *Style {
	return s.set("StyleBorderLeftForeground", uint64(c))
}

// BorderBackground sets border background colors in CSS shorthand.
func (s *Style) BorderBackground(c ...Color) *Style {
	top, right, bottom, left, ok := whichSides(c...)
	if !ok {
		return s
	}
	return s.BorderTopBackground(top).
		BorderRightBackground(right).
		BorderBottomBackground(bottom).
		BorderLeftBackground(left)
}

// BorderTopBackground sets the background of the top border.
func (s *Style) BorderTopBackground(c Color) *Style {
	return s.set("StyleBorderTopBackground", uint64(c))
}

// BorderRightBackground sets the background of the right border.
func (s *Style) BorderRightBackground(c Color) *Style {
	return s.set("StyleBorderRightBackground", uint64(c))
}

// BorderBottomBackground sets the background of the bottom border.
func (s *Style) BorderBottomBackground(c Color) *Style {
	return s.set("StyleBorderBottomBackground", uint64(c))
}

// BorderLeftBackground sets the background of the left border.
func (s *Style) BorderLeftBackground(c Color) *Style {
	return s.set("StyleBorderLeftBackground", uint64(c))
}
