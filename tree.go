package gloss

import (
	"fmt"

	"github.com/gloss-dev/glossbridge/domain/entities"
)

// Tree renders a root with nested children.
type Tree struct {
	r *Renderer
	h entities.Handle
}

// NewTree creates an empty tree.
func (r *Renderer) NewTree() *Tree {
	return &Tree{r: r, h: entities.Handle(r.configure("TreeNew"))}
}

// Handle returns the module handle of t.
func (t *Tree) Handle() entities.Handle {
	if t == nil {
		return 0
	}
	return t.h
}

func (t *Tree) set(export string, params ...uint64) *Tree {
	t.r.configure(export, append([]uint64{uint64(t.h)}, params...)...)
	return t
}

func (t *Tree) withText(export, s string) *Tree {
	ptr, n, ok := t.r.str(s)
	if !ok {
		return t
	}
	return t.set(export, ptr, n)
}

// Root sets the root label.
func (t *Tree) Root(s string) *Tree { return t.withText("TreeRoot", s) }

// Child appends children in order. A *Tree is attached as a subtree and a
// *Leaf as a leaf; anything else becomes a leaf formatted with fmt.Sprint.
func (t *Tree) Child(children ...any) *Tree {
	for _, child := range children {
		switch v := child.(type) {
		case *Tree:
			if !v.Handle().IsNull() {
				t.set("TreeChildTree", uint64(v.h))
			}
		case *Leaf:
			if !v.Handle().IsNull() {
				t.set("TreeChildLeaf", uint64(v.h))
			}
		case string:
			t.withText("TreeChild", v)
		default:
			t.withText("TreeChild", fmt.Sprint(v))
		}
	}
	return t
}

// Hidden reports whether the tree is hidden.
func (t *Tree) Hidden() bool {
	return t.r.call("TreeHidden", uint64(t.h)) != 0
}

// Hide hides or shows the tree.
func (t *Tree) Hide(v bool) *Tree { return t.set("TreeHide", boolArg(v)) }

// Offset renders only children in [start, end).
func (t *Tree) Offset(start, end int) *Tree {
	return t.set("TreeOffset", intArg(start), intArg(end))
}

// Enumerator sets the branch glyphs.
func (t *Tree) Enumerator(e TreeEnumerator) *Tree {
	return t.set("TreeEnumerator", uint64(uint32(e)))
}

// Indenter sets how nested levels are indented.
func (t *Tree) Indenter(i Indenter) *Tree {
	return t.set("TreeIndenter", uint64(uint32(i)))
}

func (t *Tree) withStyle(export string, s *Style) *Tree {
	if s.Handle().IsNull() {
		return t
	}
	return t.set(export, uint64(s.h))
}

// EnumeratorStyle styles the branch glyphs. A nil style is ignored.
func (t *Tree) EnumeratorStyle(s *Style) *Tree { return t.withStyle("TreeEnumeratorStyle", s) }

// ItemStyle styles every child. A nil style is ignored.
func (t *Tree) ItemStyle(s *Style) *Tree { return t.withStyle("TreeItemStyle", s) }

// RootStyle styles the root label. A nil style is ignored.
func (t *Tree) RootStyle(s *Style) *Tree { return t.withStyle("TreeRootStyle", s) }

// EnumeratorStyleFunc styles each branch glyph by child index.
func (t *Tree) EnumeratorStyleFunc(fn StyleFunc) *Tree {
	return t.set("TreeEnumeratorStyleFunc", uint64(t.r.registerStyleFunc(fn)))
}

// ItemStyleFunc styles each child by index.
func (t *Tree) ItemStyleFunc(fn StyleFunc) *Tree {
	return t.set("TreeStyleFunc", uint64(t.r.registerStyleFunc(fn)))
}

// Render draws the tree.
func (t *Tree) Render() string {
	return t.r.pair("TreeRenderPtr", "TreeRenderLength", t.h)
}

// String renders the tree.
func (t *Tree) String() string {
	return t.Render()
}

// Leaf is a tree node without children.
type Leaf struct {
	r *Renderer
	h entities.Handle
}

// NewLeaf creates a leaf whose label is value formatted with fmt.Sprint.
func (r *Renderer) NewLeaf(value any, hidden bool) *Leaf {
	l := &Leaf{r: r}
	ptr, n, ok := r.str(fmt.Sprint(value))
	if !ok {
		return l
	}
	l.h = entities.Handle(r.configure("TreeNewLeaf", ptr, n, boolArg(hidden)))
	return l
}

// Handle returns the module handle of l.
func (l *Leaf) Handle() entities.Handle {
	if l == nil {
		return 0
	}
	return l.h
}

// Value returns the leaf's label.
func (l *Leaf) Value() string {
	return l.r.mod.CallString(l.r.ctx, "TreeLeafValue", "TreeLeafValueLength", uint64(l.h))
}

// Hidden reports whether the leaf is hidden.
func (l *Leaf) Hidden() bool {
	return l.r.call("TreeLeafHidden", uint64(l.h)) != 0
}

// SetHidden hides or shows the leaf.
func (l *Leaf) SetHidden(v bool) *Leaf {
	l.r.configure("TreeLeafSetHidden", uint64(l.h), boolArg(v))
	return l
}

// SetValue replaces the label with value formatted with fmt.Sprint.
func (l *Leaf) SetValue(value any) *Leaf {
	ptr, n, ok := l.r.str(fmt.Sprint(value))
	if !ok {
		return l
	}
	l.r.configure("TreeLeafSetValue", uint64(l.h), ptr, n)
	return l
}

// String returns the leaf label.
func (l *Leaf) String() string {
	return l.Value()
}
