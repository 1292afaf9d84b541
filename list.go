package gloss

import (
	"fmt"

	"github.com/gloss-dev/glossbridge/domain/entities"
)

// List renders enumerated items, possibly nested.
type List struct {
	r *Renderer
	h entities.Handle
}

// NewList creates a list holding items.
func (r *Renderer) NewList(items ...any) *List {
	l := &List{r: r, h: entities.Handle(r.configure("ListNew"))}
	return l.Items(items...)
}

// Handle returns the module handle of l.
func (l *List) Handle() entities.Handle {
	if l == nil {
		return 0
	}
	return l.h
}

func (l *List) set(export string, params ...uint64) *List {
	l.r.configure(export, append([]uint64{uint64(l.h)}, params...)...)
	return l
}

// Item appends one item. A *List is nested as a sublist; anything else is
// formatted with fmt.Sprint.
func (l *List) Item(item any) *List {
	switch v := item.(type) {
	case *List:
		if v.Handle().IsNull() {
			return l
		}
		return l.set("ListItemList", uint64(v.h))
	case string:
		return l.text(v)
	default:
		return l.text(fmt.Sprint(v))
	}
}

func (l *List) text(s string) *List {
	ptr, n, ok := l.r.str(s)
	if !ok {
		return l
	}
	return l.set("ListItem", ptr, n)
}

// Items appends each item in order.
func (l *List) Items(items ...any) *List {
	for _, item := range items {
		l.Item(item)
	}
	return l
}

// Hidden reports whether the list is hidden.
func (l *List) Hidden() bool {
	return l.r.call("ListHidden", uint64(l.h)) != 0
}

// Hide hides or shows the list.
func (l *List) Hide(v bool) *List { return l.set("ListHide", boolArg(v)) }

// Offset renders only items in [start, end).
func (l *List) Offset(start, end int) *List {
	return l.set("ListOffset", intArg(start), intArg(end))
}

// Enumerator sets how items are numbered.
func (l *List) Enumerator(e ListEnumerator) *List {
	return l.set("ListEnumerator", uint64(uint32(e)))
}

// EnumeratorStyle styles every enumerator. A nil style is ignored.
func (l *List) EnumeratorStyle(s *Style) *List {
	if s.Handle().IsNull() {
		return l
	}
	return l.set("ListEnumeratorStyle", uint64(s.h))
}

// EnumeratorStyleFunc styles each enumerator by item index.
func (l *List) EnumeratorStyleFunc(fn StyleFunc) *List {
	return l.set("ListEnumeratorStyleFunc", uint64(l.r.registerStyleFunc(fn)))
}

// ItemStyle styles every item. A nil style is ignored.
func (l *List) ItemStyle(s *Style) *List {
	if s.Handle().IsNull() {
		return l
	}
	return l.set("ListItemStyle", uint64(s.h))
}

// ItemStyleFunc styles each item by index.
func (l *List) ItemStyleFunc(fn StyleFunc) *List {
	return l.set("ListStyleFunc", uint64(l.r.registerStyleFunc(fn)))
}

// Render draws the list.
func (l *List) Render() string {
	return l.r.pair("ListRenderPtr", "ListRenderLength", l.h)
}

// String renders the list.
func (l *List) String() string {
	return l.Render()
}
