package gloss_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero/api"

	gloss "github.com/gloss-dev/glossbridge"
	"github.com/gloss-dev/glossbridge/application/config"
	"github.com/gloss-dev/glossbridge/host"
	"github.com/gloss-dev/glossbridge/internal/testutil"
	glog "github.com/gloss-dev/glossbridge/log"
)

// The engine keeps its own output below the arena's safe zone, the way a
// real module keeps its heap out of the host's way.
const (
	heapStart = 4096
	heapEnd   = 65536
)

var styleSetters = []string{
	"StyleBold", "StyleItalic", "StyleStrikethrough", "StyleUnderline",
	"StyleBlink", "StyleReverse", "StyleFaint", "StyleInline",
	"StyleUnderlineSpaces", "StyleStrikethroughSpaces", "StyleColorWhitespace",
	"StyleForeground", "StyleBackground", "StyleMarginBackground",
	"StyleWidth", "StyleHeight", "StyleMaxWidth", "StyleMaxHeight", "StyleTabWidth",
	"StyleAlignHorizontal", "StyleAlignVertical",
	"StylePaddingTop", "StylePaddingRight", "StylePaddingBottom", "StylePaddingLeft",
	"StyleMarginTop", "StyleMarginRight", "StyleMarginBottom", "StyleMarginLeft",
	"StyleBorder", "SetBorderTop", "SetBorderRight", "SetBorderBottom", "SetBorderLeft",
	"StyleBorderTopForeground", "StyleBorderRightForeground",
	"StyleBorderBottomForeground", "StyleBorderLeftForeground",
	"StyleBorderTopBackground", "StyleBorderRightBackground",
	"StyleBorderBottomBackground", "StyleBorderLeftBackground",
	"StyleInherit",
}

var tableSetters = []string{
	"TableBorder", "TableBorderStyle", "TableWrap",
	"TableBorderLeft", "TableBorderRight", "TableBorderBottom",
	"TableBorderHeader", "TableBorderColumn", "TableBorderRow",
}

var constants = map[string]uint32{
	"NoColor":                900,
	"PositionTop":            1000,
	"PositionBottom":         1001,
	"PositionLeft":           1002,
	"PositionRight":          1003,
	"PositionCenter":         1004,
	"ListEnumeratorAlphabet": 1,
	"ListEnumeratorArabic":   2,
	"ListEnumeratorBullet":   3,
	"ListEnumeratorDash":     4,
	"ListEnumeratorRoman":    5,
	"ListEnumeratorAsterisk": 6,
	"TreeEnumeratorDefault":  1,
	"TreeEnumeratorRounded":  2,
	"TreeIndenterDefault":    1,
}

var listGlyphs = map[int32]string{1: "a.", 2: "1.", 3: "•", 4: "-", 5: "i.", 6: "*"}

type item struct {
	text string
	sub  uint32
}

type object struct {
	kind       string
	ops        []string
	value      string
	headers    []string
	rows       [][]string
	items      []item
	styleFn    uint32
	hidden     bool
	enumerator int32
	rendered   string
}

// engine is an in-process styling module. Styles record the setters applied
// to them and render as "<ops>text"; tables, lists and trees render a plain
// text layout that invokes their style functions through the host import.
type engine struct {
	g       *testutil.Guest
	objects map[uint32]*object
	next    uint32
	heap    uint32
	colors  map[string]uint32

	// Calls counts export invocations by name.
	Calls       map[string]int
	Collections int
}

func newEngine() *engine {
	e := &engine{
		g:       testutil.NewGuest("gloss", testutil.NewMemory(2, 16)),
		objects: make(map[uint32]*object),
		next:    1,
		heap:    heapStart,
		colors:  make(map[string]uint32),
		Calls:   make(map[string]int),
	}
	e.install()
	return e
}

// open returns a Renderer over a fresh engine.
func open(t *testing.T, opts ...host.Option) (*gloss.Renderer, *engine) {
	t.Helper()
	e := newEngine()
	cfg := config.Default()
	cfg.SafeZoneStart = heapEnd
	base := []host.Option{
		host.WithConfig(cfg),
		host.WithLogger(glog.Discard()),
		host.WithEnviron(nil),
	}
	m, err := host.NewModule(context.Background(), e.g, append(base, opts...)...)
	require.NoError(t, err)
	e.g.Import = m.Table().Invoke
	return gloss.New(context.Background(), m), e
}

func (e *engine) export(name string, fn func(ctx context.Context, p []uint64) uint64) {
	e.g.Export(name, func(ctx context.Context, _ *testutil.Guest, p []uint64) []uint64 {
		e.Calls[name]++
		return []uint64{fn(ctx, p)}
	})
}

func (e *engine) create(kind string) uint64 {
	h := e.next
	e.next++
	e.objects[h] = &object{kind: kind}
	return uint64(h)
}

func (e *engine) obj(p uint64, kind string) *object {
	o, ok := e.objects[uint32(p)]
	if !ok || o.kind != kind {
		panic(fmt.Sprintf("handle %d is not a %s", uint32(p), kind))
	}
	return o
}

func (e *engine) str(ptr, n uint64) string {
	if n == 0 {
		return ""
	}
	return e.g.ReadString(uint32(ptr), uint32(n))
}

func (e *engine) strs(dir, n uint64) []string {
	return e.g.ReadDirectory(uint32(dir), int(n))
}

func (e *engine) alloc(size int) uint32 {
	if e.heap+uint32(size) > heapEnd {
		e.heap = heapStart
	}
	ptr := e.heap
	e.heap += uint32(size+7) &^ 7
	return ptr
}

// result stores s behind a result header and returns the header address.
func (e *engine) result(s string) uint64 {
	hdr := e.alloc(8)
	data := e.alloc(len(s))
	return uint64(e.g.WriteResult(hdr, data, s))
}

// stash stores s and returns its address.
func (e *engine) stash(s string) uint64 {
	ptr := e.alloc(len(s))
	if !e.g.Mem().Write(ptr, []byte(s)) {
		panic("stash out of bounds")
	}
	return uint64(ptr)
}

// apply renders text with the style h, or returns it unchanged for the
// null handle.
func (e *engine) apply(h uint32, text string) string {
	if h == 0 {
		return text
	}
	o := e.obj(uint64(h), "style")
	if len(o.ops) == 0 {
		return text
	}
	return "<" + strings.Join(o.ops, " ") + ">" + text
}

func (e *engine) styleFor(ctx context.Context, fn uint32, row, col int32) uint32 {
	if fn == 0 {
		return 0
	}
	return e.g.CallHost(ctx, fn, uint32(row), uint32(col))
}

func record(name string, args []uint64) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(api.DecodeI32(a))
	}
	return name + "(" + strings.Join(parts, ",") + ")"
}

func (e *engine) install() {
	for name, v := range constants {
		e.export(name, func(context.Context, []uint64) uint64 { return uint64(v) })
	}
	for _, name := range []string{
		"BorderNormalBorder", "BorderRoundedBorder", "BorderBlockBorder",
		"BorderOuterHalfBlockBorder", "BorderInnerHalfBlockBorder", "BorderThickBorder",
		"BorderDoubleBorder", "BorderHiddenBorder", "BorderMarkdownBorder", "BorderASCIIBorder",
	} {
		e.export(name, func(context.Context, []uint64) uint64 { return e.create("border") })
	}
	e.g.Export("wasmGC", func(context.Context, *testutil.Guest, []uint64) []uint64 {
		e.Collections++
		return nil
	})

	e.installText()
	e.installStyle()
	e.installTable()
	e.installList()
	e.installTree()
}

func (e *engine) installText() {
	e.export("Width", func(_ context.Context, p []uint64) uint64 {
		w := 0
		for _, line := range strings.Split(e.str(p[0], p[1]), "\n") {
			w = max(w, len([]rune(line)))
		}
		return uint64(w)
	})
	e.export("Height", func(_ context.Context, p []uint64) uint64 {
		return uint64(strings.Count(e.str(p[0], p[1]), "\n") + 1)
	})
	e.export("JoinHorizontal", func(_ context.Context, p []uint64) uint64 {
		return e.result(fmt.Sprintf("h%d:%s", p[0], strings.Join(e.strs(p[1], p[2]), "|")))
	})
	e.export("JoinVertical", func(_ context.Context, p []uint64) uint64 {
		return e.result(fmt.Sprintf("v%d:%s", p[0], strings.Join(e.strs(p[1], p[2]), "\n")))
	})
	e.export("PositionPlace", func(_ context.Context, p []uint64) uint64 {
		return e.result(fmt.Sprintf("place(%d,%d,%d,%d):%s",
			api.DecodeI32(p[0]), api.DecodeI32(p[1]), p[2], p[3], e.str(p[4], p[5])))
	})
	e.export("StyleJoinStyled", func(_ context.Context, p []uint64) uint64 {
		return e.result(fmt.Sprintf("styled(bg=%d,fg=%d):%s", p[2], p[3], strings.Join(e.strs(p[0], p[1]), "")))
	})
	e.export("Color", func(_ context.Context, p []uint64) uint64 {
		name := e.str(p[0], p[1])
		if h, ok := e.colors[name]; ok {
			return uint64(h)
		}
		h := uint32(e.create("color"))
		e.colors[name] = h
		return uint64(h)
	})
}

func (e *engine) installStyle() {
	e.export("StyleNewStyle", func(context.Context, []uint64) uint64 { return e.create("style") })
	for _, name := range styleSetters {
		e.export(name, func(_ context.Context, p []uint64) uint64 {
			o := e.obj(p[0], "style")
			o.ops = append(o.ops, record(name, p[1:]))
			return 0
		})
	}
	e.export("StyleSetString", func(_ context.Context, p []uint64) uint64 {
		e.obj(p[0], "style").value = strings.Join(e.strs(p[1], p[2]), " ")
		return 0
	})
	e.export("StyleJoinString", func(_ context.Context, p []uint64) uint64 {
		e.obj(p[0], "style").value = strings.Join(e.strs(p[1], p[2]), " ")
		return 0
	})
	e.export("StyleClearValue", func(_ context.Context, p []uint64) uint64 {
		e.obj(p[0], "style").value = ""
		return 0
	})
	e.export("StyleRender", func(_ context.Context, p []uint64) uint64 {
		o := e.obj(p[0], "style")
		return e.result(e.apply(uint32(p[0]), o.value))
	})
}

func (e *engine) installTable() {
	e.export("TableNew", func(context.Context, []uint64) uint64 { return e.create("table") })
	for _, name := range tableSetters {
		e.export(name, func(_ context.Context, p []uint64) uint64 {
			o := e.obj(p[0], "table")
			o.ops = append(o.ops, record(name, p[1:]))
			return 0
		})
	}
	e.export("TableRow", func(_ context.Context, p []uint64) uint64 {
		o := e.obj(p[0], "table")
		o.rows = append(o.rows, e.strs(p[1], p[2]))
		return 0
	})
	e.export("TableHeaders", func(_ context.Context, p []uint64) uint64 {
		e.obj(p[0], "table").headers = e.strs(p[1], p[2])
		return 0
	})
	e.export("TableClearRows", func(_ context.Context, p []uint64) uint64 {
		e.obj(p[0], "table").rows = nil
		return 0
	})
	e.export("TableSetData", func(_ context.Context, p []uint64) uint64 {
		d := e.obj(p[1], "data")
		e.obj(p[0], "table").rows = append([][]string(nil), d.rows...)
		return 0
	})
	e.export("TableStyleFunc", func(_ context.Context, p []uint64) uint64 {
		e.obj(p[0], "table").styleFn = uint32(p[1])
		return 0
	})
	e.export("TableRenderPtr", func(ctx context.Context, p []uint64) uint64 {
		o := e.obj(p[0], "table")
		o.rendered = e.renderTable(ctx, o)
		if o.rendered == "" {
			return 0
		}
		return e.stash(o.rendered)
	})
	e.export("TableRenderLength", func(_ context.Context, p []uint64) uint64 {
		return uint64(len(e.obj(p[0], "table").rendered))
	})

	e.export("TableDataNew", func(context.Context, []uint64) uint64 { return e.create("data") })
	e.export("TableDataAppend", func(_ context.Context, p []uint64) uint64 {
		o := e.obj(p[0], "data")
		o.rows = append(o.rows, e.strs(p[1], p[2]))
		return 0
	})
	e.export("TableDataRows", func(_ context.Context, p []uint64) uint64 {
		return uint64(len(e.obj(p[0], "data").rows))
	})
	e.export("TableDataColumns", func(_ context.Context, p []uint64) uint64 {
		cols := 0
		for _, row := range e.obj(p[0], "data").rows {
			cols = max(cols, len(row))
		}
		return uint64(cols)
	})
	cell := func(p []uint64) string {
		rows := e.obj(p[0], "data").rows
		row, col := int(api.DecodeI32(p[1])), int(api.DecodeI32(p[2]))
		if row < 0 || row >= len(rows) || col < 0 || col >= len(rows[row]) {
			return ""
		}
		return rows[row][col]
	}
	e.export("TableDataAtPtr", func(_ context.Context, p []uint64) uint64 {
		s := cell(p)
		if s == "" {
			return 0
		}
		return e.stash(s)
	})
	e.export("TableDataAtLength", func(_ context.Context, p []uint64) uint64 {
		return uint64(len(cell(p)))
	})
}

func (e *engine) renderTable(ctx context.Context, o *object) string {
	var lines []string
	line := func(row int32, cells []string) {
		out := make([]string, len(cells))
		for col, c := range cells {
			out[col] = e.apply(e.styleFor(ctx, o.styleFn, row, int32(col)), c)
		}
		lines = append(lines, strings.Join(out, "|"))
	}
	if len(o.headers) > 0 {
		line(-1, o.headers)
	}
	for i, row := range o.rows {
		line(int32(i), row)
	}
	return strings.Join(lines, "\n")
}

func (e *engine) installList() {
	e.export("ListNew", func(context.Context, []uint64) uint64 {
		h := e.create("list")
		e.objects[uint32(h)].enumerator = int32(constants["ListEnumeratorBullet"])
		return h
	})
	e.export("ListItem", func(_ context.Context, p []uint64) uint64 {
		o := e.obj(p[0], "list")
		o.items = append(o.items, item{text: e.str(p[1], p[2])})
		return 0
	})
	e.export("ListItemList", func(_ context.Context, p []uint64) uint64 {
		e.obj(p[1], "list")
		o := e.obj(p[0], "list")
		o.items = append(o.items, item{sub: uint32(p[1])})
		return 0
	})
	e.export("ListHidden", func(_ context.Context, p []uint64) uint64 {
		if e.obj(p[0], "list").hidden {
			return 1
		}
		return 0
	})
	e.export("ListHide", func(_ context.Context, p []uint64) uint64 {
		e.obj(p[0], "list").hidden = p[1] != 0
		return 0
	})
	e.export("ListEnumerator", func(_ context.Context, p []uint64) uint64 {
		e.obj(p[0], "list").enumerator = api.DecodeI32(p[1])
		return 0
	})
	e.export("ListStyleFunc", func(_ context.Context, p []uint64) uint64 {
		e.obj(p[0], "list").styleFn = uint32(p[1])
		return 0
	})
	for _, name := range []string{"ListOffset", "ListEnumeratorStyle", "ListEnumeratorStyleFunc", "ListItemStyle"} {
		e.export(name, func(_ context.Context, p []uint64) uint64 {
			o := e.obj(p[0], "list")
			o.ops = append(o.ops, record(name, p[1:]))
			return 0
		})
	}
	e.export("ListRenderPtr", func(ctx context.Context, p []uint64) uint64 {
		o := e.obj(p[0], "list")
		o.rendered = strings.Join(e.renderList(ctx, o, ""), "\n")
		if o.rendered == "" {
			return 0
		}
		return e.stash(o.rendered)
	})
	e.export("ListRenderLength", func(_ context.Context, p []uint64) uint64 {
		return uint64(len(e.obj(p[0], "list").rendered))
	})
}

func (e *engine) renderList(ctx context.Context, o *object, indent string) []string {
	if o.hidden {
		return nil
	}
	var lines []string
	for i, it := range o.items {
		if it.sub != 0 {
			lines = append(lines, e.renderList(ctx, e.obj(uint64(it.sub), "list"), indent+"  ")...)
			continue
		}
		text := e.apply(e.styleFor(ctx, o.styleFn, int32(i), 0), it.text)
		lines = append(lines, indent+listGlyphs[o.enumerator]+" "+text)
	}
	return lines
}

func (e *engine) installTree() {
	e.export("TreeNew", func(context.Context, []uint64) uint64 { return e.create("tree") })
	e.export("TreeRoot", func(_ context.Context, p []uint64) uint64 {
		e.obj(p[0], "tree").value = e.str(p[1], p[2])
		return 0
	})
	e.export("TreeChild", func(_ context.Context, p []uint64) uint64 {
		o := e.obj(p[0], "tree")
		o.items = append(o.items, item{text: e.str(p[1], p[2])})
		return 0
	})
	e.export("TreeChildTree", func(_ context.Context, p []uint64) uint64 {
		e.obj(p[1], "tree")
		o := e.obj(p[0], "tree")
		o.items = append(o.items, item{sub: uint32(p[1])})
		return 0
	})
	e.export("TreeChildLeaf", func(_ context.Context, p []uint64) uint64 {
		e.obj(p[1], "leaf")
		o := e.obj(p[0], "tree")
		o.items = append(o.items, item{sub: uint32(p[1])})
		return 0
	})
	e.export("TreeHidden", func(_ context.Context, p []uint64) uint64 {
		if e.obj(p[0], "tree").hidden {
			return 1
		}
		return 0
	})
	e.export("TreeHide", func(_ context.Context, p []uint64) uint64 {
		e.obj(p[0], "tree").hidden = p[1] != 0
		return 0
	})
	e.export("TreeStyleFunc", func(_ context.Context, p []uint64) uint64 {
		e.obj(p[0], "tree").styleFn = uint32(p[1])
		return 0
	})
	for _, name := range []string{
		"TreeOffset", "TreeEnumerator", "TreeIndenter", "TreeEnumeratorStyle",
		"TreeItemStyle", "TreeRootStyle", "TreeEnumeratorStyleFunc",
	} {
		e.export(name, func(_ context.Context, p []uint64) uint64 {
			o := e.obj(p[0], "tree")
			o.ops = append(o.ops, record(name, p[1:]))
			return 0
		})
	}
	e.export("TreeRenderPtr", func(ctx context.Context, p []uint64) uint64 {
		o := e.obj(p[0], "tree")
		o.rendered = strings.Join(e.renderTree(ctx, o, ""), "\n")
		if o.rendered == "" {
			return 0
		}
		return e.stash(o.rendered)
	})
	e.export("TreeRenderLength", func(_ context.Context, p []uint64) uint64 {
		return uint64(len(e.obj(p[0], "tree").rendered))
	})

	e.export("TreeNewLeaf", func(_ context.Context, p []uint64) uint64 {
		h := e.create("leaf")
		o := e.objects[uint32(h)]
		o.value = e.str(p[0], p[1])
		o.hidden = p[2] != 0
		return h
	})
	e.export("TreeLeafValue", func(_ context.Context, p []uint64) uint64 {
		o := e.obj(p[0], "leaf")
		if o.value == "" {
			return 0
		}
		return e.stash(o.value)
	})
	e.export("TreeLeafValueLength", func(_ context.Context, p []uint64) uint64 {
		return uint64(len(e.obj(p[0], "leaf").value))
	})
	e.export("TreeLeafHidden", func(_ context.Context, p []uint64) uint64 {
		if e.obj(p[0], "leaf").hidden {
			return 1
		}
		return 0
	})
	e.export("TreeLeafSetHidden", func(_ context.Context, p []uint64) uint64 {
		e.obj(p[0], "leaf").hidden = p[1] != 0
		return 0
	})
	e.export("TreeLeafSetValue", func(_ context.Context, p []uint64) uint64 {
		e.obj(p[0], "leaf").value = e.str(p[1], p[2])
		return 0
	})
}

func (e *engine) renderTree(ctx context.Context, o *object, indent string) []string {
	if o.hidden {
		return nil
	}
	var lines []string
	if o.value != "" {
		lines = append(lines, indent+o.value)
	}
	for i, it := range o.items {
		text := it.text
		if it.sub != 0 {
			child := e.objects[it.sub]
			if child.kind == "tree" {
				lines = append(lines, e.renderTree(ctx, child, indent+"  ")...)
				continue
			}
			if child.hidden {
				continue
			}
			text = child.value
		}
		text = e.apply(e.styleFor(ctx, o.styleFn, int32(i), 0), text)
		lines = append(lines, indent+"- "+text)
	}
	return lines
}
