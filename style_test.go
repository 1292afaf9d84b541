package gloss_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gloss "github.com/gloss-dev/glossbridge"
)

func styleOps(e *engine, s *gloss.Style) []string {
	return e.objects[uint32(s.Handle())].ops
}

func TestStyle_ChainedEqualsSeparate(t *testing.T) {
	r, _ := open(t)
	fg := r.Color("#FAFAFA")

	chained := r.NewStyle().Bold(true).Foreground(fg).Padding(1, 2).SetString("hi")

	separate := r.NewStyle()
	separate.Bold(true)
	separate.Foreground(fg)
	separate.Padding(1, 2)
	separate.SetString("hi")

	want := fmt.Sprintf("<StyleBold(1) StyleForeground(%d) StylePaddingTop(1) StylePaddingRight(2) "+
		"StylePaddingBottom(1) StylePaddingLeft(2)>hi", fg)
	assert.Equal(t, want, chained.String())
	assert.Equal(t, want, separate.String())
}

func TestStyle_Render(t *testing.T) {
	r, e := open(t)
	s := r.NewStyle().Italic(true)

	assert.Equal(t, "<StyleItalic(1)>hello world", s.Render("hello", "world"))
	assert.Equal(t, "<StyleItalic(1)>", s.Render(), "value is cleared after each render")
	assert.Equal(t, 2, e.Calls["StyleClearValue"])
	assert.Equal(t, 1, e.Calls["StyleJoinString"])

	plain := r.NewStyle()
	assert.Equal(t, "", plain.Render())
	assert.Equal(t, "x", plain.Render("x"))
}

func TestStyle_RenderGrowsOnceForOutput(t *testing.T) {
	r, e := open(t)
	s := r.NewStyle().Bold(true)

	for i := 0; i < 5; i++ {
		assert.Equal(t, "<StyleBold(1)>row", s.Render("row"))
	}
	assert.Equal(t, 1, e.g.Mem().GrowCalls)
	assert.Equal(t, 0, r.Module().Arena().Stats().FrameDepth)
}

func TestStyle_Shorthand(t *testing.T) {
	tests := []struct {
		name string
		v    []int
		want []string
	}{
		{name: "one", v: []int{1}, want: []string{"StylePaddingTop(1)", "StylePaddingRight(1)", "StylePaddingBottom(1)", "StylePaddingLeft(1)"}},
		{name: "two", v: []int{1, 2}, want: []string{"StylePaddingTop(1)", "StylePaddingRight(2)", "StylePaddingBottom(1)", "StylePaddingLeft(2)"}},
		{name: "three", v: []int{1, 2, 3}, want: []string{"StylePaddingTop(1)", "StylePaddingRight(2)", "StylePaddingBottom(3)", "StylePaddingLeft(2)"}},
		{name: "four", v: []int{1, 2, 3, 4}, want: []string{"StylePaddingTop(1)", "StylePaddingRight(2)", "StylePaddingBottom(3)", "StylePaddingLeft(4)"}},
		{name: "none", v: nil, want: nil},
		{name: "five", v: []int{1, 2, 3, 4, 5}, want: nil},
		{name: "negative", v: []int{-1}, want: []string{"StylePaddingTop(-1)", "StylePaddingRight(-1)", "StylePaddingBottom(-1)", "StylePaddingLeft(-1)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, e := open(t)
			s := r.NewStyle().Padding(tt.v...)
			assert.Equal(t, tt.want, styleOps(e, s))
		})
	}
}

func TestStyle_Margin(t *testing.T) {
	r, e := open(t)
	s := r.NewStyle().Margin(2, 4).MarginBackground(r.NoColor())

	assert.Equal(t, []string{
		"StyleMarginTop(2)", "StyleMarginRight(4)", "StyleMarginBottom(2)", "StyleMarginLeft(4)",
		"StyleMarginBackground(900)",
	}, styleOps(e, s))
}

func TestStyle_Border(t *testing.T) {
	t.Run("all sides by default", func(t *testing.T) {
		r, e := open(t)
		b := r.RoundedBorder()
		s := r.NewStyle().Border(b)
		assert.Equal(t, []string{
			fmt.Sprintf("StyleBorder(%d)", b),
			"SetBorderTop(1)", "SetBorderRight(1)", "SetBorderBottom(1)", "SetBorderLeft(1)",
		}, styleOps(e, s))
	})

	t.Run("shorthand sides", func(t *testing.T) {
		r, e := open(t)
		b := r.NormalBorder()
		s := r.NewStyle().Border(b, true, false)
		assert.Equal(t, []string{
			fmt.Sprintf("StyleBorder(%d)", b),
			"SetBorderTop(1)", "SetBorderRight(0)", "SetBorderBottom(1)", "SetBorderLeft(0)",
		}, styleOps(e, s))
	})

	t.Run("colors", func(t *testing.T) {
		r, e := open(t)
		red, blue := r.Color("red"), r.Color("blue")
		s := r.NewStyle().BorderForeground(red, blue, red).BorderBackground(blue)
		assert.Equal(t, []string{
			fmt.Sprintf("StyleBorderTopForeground(%d)", red),
			fmt.Sprintf("StyleBorderRightForeground(%d)", blue),
			fmt.Sprintf("StyleBorderBottomForeground(%d)", red),
			fmt.Sprintf("StyleBorderLeftForeground(%d)", blue),
			fmt.Sprintf("StyleBorderTopBackground(%d)", blue),
			fmt.Sprintf("StyleBorderRightBackground(%d)", blue),
			fmt.Sprintf("StyleBorderBottomBackground(%d)", blue),
			fmt.Sprintf("StyleBorderLeftBackground(%d)", blue),
		}, styleOps(e, s))
	})
}

func TestStyle_Setters(t *testing.T) {
	r, e := open(t)
	s := r.NewStyle().
		Bold(false).
		Underline(true).
		Width(-3).
		MaxHeight(10).
		TabWidth(0).
		Align(r.Center(), r.Bottom()).
		ColorWhitespace(true)

	assert.Equal(t, []string{
		"StyleBold(0)", "StyleUnderline(1)", "StyleWidth(-3)", "StyleMaxHeight(10)", "StyleTabWidth(0)",
		"StyleAlignHorizontal(1004)", "StyleAlignVertical(1001)", "StyleColorWhitespace(1)",
	}, styleOps(e, s))
}

func TestStyle_Inherit(t *testing.T) {
	r, e := open(t)
	parent := r.NewStyle().Bold(true)
	child := r.NewStyle().Inherit(parent).Inherit(nil)

	assert.Equal(t, []string{fmt.Sprintf("StyleInherit(%d)", parent.Handle())}, styleOps(e, child))
}

func TestStyle_EncodeFailureDegrades(t *testing.T) {
	r, e := open(t)
	s := r.NewStyle().Bold(true)
	e.g.Mem().Refuse = true

	assert.Equal(t, "", s.Render(strings.Repeat("x", 200_000)))
	assert.Zero(t, e.Calls["StyleJoinString"])
	assert.Zero(t, e.Calls["StyleRender"])
	assert.Equal(t, 0, r.Module().Arena().Stats().FrameDepth)

	s.SetString(strings.Repeat("y", 200_000))
	assert.Zero(t, e.Calls["StyleSetString"])

	// Small values still fit without growing.
	e.g.Mem().Refuse = false
	assert.Equal(t, "<StyleBold(1)>ok", s.Render("ok"))
}

func TestStyle_ClosedModuleDegrades(t *testing.T) {
	r, _ := open(t)
	s := r.NewStyle().Bold(true)
	require.NoError(t, r.Close(context.Background()))

	assert.Equal(t, "", s.Render("x"))
	assert.True(t, r.NewStyle().Handle().IsNull())
}

func TestStyle_NilHandle(t *testing.T) {
	var s *gloss.Style
	assert.True(t, s.Handle().IsNull())
}

func TestLightDark(t *testing.T) {
	const light, dark = gloss.Color(1), gloss.Color(2)
	assert.Equal(t, dark, gloss.LightDark(true)(light, dark))
	assert.Equal(t, light, gloss.LightDark(false)(light, dark))
}
