package gloss

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tetratelabs/wazero/api"

	"github.com/gloss-dev/glossbridge/domain/entities"
	"github.com/gloss-dev/glossbridge/host"
	"github.com/gloss-dev/glossbridge/hostfuncs"
)

// Renderer creates styling objects inside one module instance.
type Renderer struct {
	ctx      context.Context
	mod      *host.Module
	executor *host.Executor
	logger   *slog.Logger

	constants map[string]uint32
}

// New returns a Renderer over an already loaded module. ctx is used for
// every module call the Renderer and its objects make.
func New(ctx context.Context, m *host.Module) *Renderer {
	return &Renderer{
		ctx:       ctx,
		mod:       m,
		logger:    m.Logger(),
		constants: make(map[string]uint32),
	}
}

// Open starts a runtime, loads wasm into it and returns a Renderer that
// owns both. Close releases them.
func Open(ctx context.Context, wasm []byte, opts ...host.Option) (*Renderer, error) {
	e, err := host.NewExecutor(ctx, opts...)
	if err != nil {
		return nil, err
	}
	m, err := e.Load(ctx, wasm, "gloss")
	if err != nil {
		_ = e.Close(ctx)
		return nil, fmt.Errorf("failed to load styling module: %w", err)
	}
	r := New(ctx, m)
	r.executor = e
	return r, nil
}

// Module returns the module the Renderer drives.
func (r *Renderer) Module() *host.Module {
	return r.mod
}

// Close closes the module, and the runtime when the Renderer was opened
// with Open.
func (r *Renderer) Close(ctx context.Context) error {
	err := r.mod.Close(ctx)
	if r.executor != nil {
		if cerr := r.executor.Close(ctx); err == nil {
			err = cerr
		}
	}
	return err
}

// GC asks the module to collect unreachable objects.
func (r *Renderer) GC() {
	r.mod.GC(r.ctx)
}

// call invokes an export, logging and returning 0 on failure.
func (r *Renderer) call(export string, params ...uint64) uint64 {
	res, err := r.mod.Call(r.ctx, export, params...)
	if err != nil {
		r.logger.ErrorContext(r.ctx, "gloss: module call failed", "export", export, "error", err)
		return 0
	}
	return res
}

// configure is call for operations that mutate module objects.
func (r *Renderer) configure(export string, params ...uint64) uint64 {
	res := r.call(export, params...)
	r.mod.Touch(r.ctx)
	return res
}

// constant returns the value of a niladic export, cached after the first
// successful call.
func (r *Renderer) constant(export string) uint32 {
	if v, ok := r.constants[export]; ok {
		return v
	}
	res, err := r.mod.Call(r.ctx, export)
	if err != nil {
		r.logger.ErrorContext(r.ctx, "gloss: module call failed", "export", export, "error", err)
		return 0
	}
	v := api.DecodeU32(res)
	r.constants[export] = v
	return v
}

// str encodes s for the next call. ok is false when encoding failed and the
// call should be skipped.
func (r *Renderer) str(s string) (ptr, n uint64, ok bool) {
	enc, err := r.mod.WriteString(s)
	if err != nil {
		r.logger.ErrorContext(r.ctx, "gloss: failed to encode string", "bytes", len(s), "error", err)
		r.mod.Discard()
		return 0, 0, false
	}
	return uint64(enc.Ptr), uint64(enc.Len), true
}

// strs encodes a string array for the next call.
func (r *Renderer) strs(ss []string) (dir, n uint64, ok bool) {
	d, err := r.mod.WriteStringArray(r.ctx, ss)
	if err != nil {
		r.logger.ErrorContext(r.ctx, "gloss: failed to encode string array", "strings", len(ss), "error", err)
		r.mod.Discard()
		return 0, 0, false
	}
	return uint64(d), uint64(len(ss)), true
}

// result calls an export returning a result header after making room for
// output derived from inputSize bytes of input.
func (r *Renderer) result(inputSize int, export string, params ...uint64) string {
	r.mod.EnsureOutput(uint64(inputSize))
	return r.mod.CallResult(r.ctx, export, params...)
}

// pair reads a string exposed as a pointer export and a length export.
func (r *Renderer) pair(ptrExport, lenExport string, h entities.Handle) string {
	r.mod.EnsureOutput(0)
	return r.mod.CallString(r.ctx, ptrExport, lenExport, uint64(h))
}

// registerStyleFunc places fn in the callback table and returns its id. A
// nil fn maps to id 0, which the module treats as no function.
func (r *Renderer) registerStyleFunc(fn StyleFunc) entities.CallbackID {
	if fn == nil {
		return 0
	}
	return r.mod.Table().Register(func(_ context.Context, row, col int32) (hostfuncs.Handled, error) {
		s := fn(int(row), int(col))
		if s == nil {
			return nil, nil
		}
		return s, nil
	})
}

func boolArg(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func intArg(i int) uint64 {
	return api.EncodeI32(int32(i))
}

func totalLen(ss []string) int {
	n := 0
	for _, s := range ss {
		n += len(s)
	}
	return n
}

// Width returns the cell width of the widest line of s.
func (r *Renderer) Width(s string) int {
	ptr, n, ok := r.str(s)
	if !ok {
		return 0
	}
	return int(api.DecodeI32(r.call("Width", ptr, n)))
}

// Height returns the number of lines in s.
func (r *Renderer) Height(s string) int {
	ptr, n, ok := r.str(s)
	if !ok {
		return 0
	}
	return int(api.DecodeI32(r.call("Height", ptr, n)))
}

// Size returns the width and height of s.
func (r *Renderer) Size(s string) (width, height int) {
	return r.Width(s), r.Height(s)
}

// JoinHorizontal places blocks side by side, aligned along pos.
func (r *Renderer) JoinHorizontal(pos Position, blocks ...string) string {
	return r.join("JoinHorizontal", pos, blocks)
}

// JoinVertical stacks blocks, aligned along pos.
func (r *Renderer) JoinVertical(pos Position, blocks ...string) string {
	return r.join("JoinVertical", pos, blocks)
}

func (r *Renderer) join(export string, pos Position, blocks []string) string {
	switch len(blocks) {
	case 0:
		return ""
	case 1:
		return blocks[0]
	}
	dir, n, ok := r.strs(blocks)
	if !ok {
		return ""
	}
	return r.result(totalLen(blocks), export, uint64(pos), dir, n)
}

// Place positions s in a width by height box.
func (r *Renderer) Place(width, height int, hPos, vPos Position, s string) string {
	ptr, n, ok := r.str(s)
	if !ok {
		return ""
	}
	return r.result(len(s), "PositionPlace", intArg(width), intArg(height), uint64(hPos), uint64(vPos), ptr, n)
}

// JoinStyled joins strs horizontally with the given colors. Zero colors
// are left unset.
func (r *Renderer) JoinStyled(strs []string, bg, fg Color) string {
	dir, n, ok := r.strs(strs)
	if !ok {
		return ""
	}
	return r.result(totalLen(strs), "StyleJoinStyled", dir, n, uint64(bg), uint64(fg))
}

// Color parses a color such as "#7D56F4", "205" or "red".
func (r *Renderer) Color(s string) Color {
	ptr, n, ok := r.str(s)
	if !ok {
		return 0
	}
	return Color(api.DecodeU32(r.call("Color", ptr, n)))
}

// NoColor is the absence of color.
func (r *Renderer) NoColor() Color { return Color(r.constant("NoColor")) }

// Positions.
func (r *Renderer) Top() Position    { return Position(r.constant("PositionTop")) }
func (r *Renderer) Bottom() Position { return Position(r.constant("PositionBottom")) }
func (r *Renderer) Left() Position   { return Position(r.constant("PositionLeft")) }
func (r *Renderer) Right() Position  { return Position(r.constant("PositionRight")) }
func (r *Renderer) Center() Position { return Position(r.constant("PositionCenter")) }

func (r *Renderer) border(export string) Border {
	return Border(api.DecodeU32(r.call(export)))
}

// Borders.
func (r *Renderer) NormalBorder() Border         { return r.border("BorderNormalBorder") }
func (r *Renderer) RoundedBorder() Border        { return r.border("BorderRoundedBorder") }
func (r *Renderer) BlockBorder() Border          { return r.border("BorderBlockBorder") }
func (r *Renderer) OuterHalfBlockBorder() Border { return r.border("BorderOuterHalfBlockBorder") }
func (r *Renderer) InnerHalfBlockBorder() Border { return r.border("BorderInnerHalfBlockBorder") }
func (r *Renderer) ThickBorder() Border          { return r.border("BorderThickBorder") }
func (r *Renderer) DoubleBorder() Border         { return r.border("BorderDoubleBorder") }
func (r *Renderer) HiddenBorder() Border         { return r.border("BorderHiddenBorder") }
func (r *Renderer) MarkdownBorder() Border       { return r.border("BorderMarkdownBorder") }
func (r *Renderer) ASCIIBorder() Border          { return r.border("BorderASCIIBorder") }

func (r *Renderer) listEnumerator(export string) ListEnumerator {
	return ListEnumerator(r.constant(export))
}

// List enumerators.
func (r *Renderer) Alphabet() ListEnumerator { return r.listEnumerator("ListEnumeratorAlphabet") }
func (r *Renderer) Arabic() ListEnumerator   { return r.listEnumerator("ListEnumeratorArabic") }
func (r *Renderer) Bullet() ListEnumerator   { return r.listEnumerator("ListEnumeratorBullet") }
func (r *Renderer) Dash() ListEnumerator     { return r.listEnumerator("ListEnumeratorDash") }
func (r *Renderer) Roman() ListEnumerator    { return r.listEnumerator("ListEnumeratorRoman") }
func (r *Renderer) Asterisk() ListEnumerator { return r.listEnumerator("ListEnumeratorAsterisk") }

// Tree enumerators and indenters.
func (r *Renderer) DefaultEnumerator() TreeEnumerator {
	return TreeEnumerator(r.constant("TreeEnumeratorDefault"))
}

// RoundedEnumerator draws branches with rounded corners.
func (r *Renderer) RoundedEnumerator() TreeEnumerator {
	return TreeEnumerator(r.constant("TreeEnumeratorRounded"))
}

// DefaultIndenter indents nested levels with a continuation line.
func (r *Renderer) DefaultIndenter() Indenter {
	return Indenter(r.constant("TreeIndenterDefault"))
}
