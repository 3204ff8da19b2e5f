package cdl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Sentinel errors for programmatic error handling.
var (
	ErrUnmappedType      = errors.New("unmapped type")
	ErrDimensionNotFound = errors.New("dimension not found")
	ErrShapeMismatch     = errors.New("shape mismatch")
	ErrInvalidOptions    = errors.New("invalid options")
	ErrInvalidIndexMode  = errors.New("invalid index mode")
	ErrInvalidDataset    = errors.New("invalid dataset")
	ErrSinkClosed        = errors.New("output closed")
	ErrInterrupted       = errors.New("interrupted")
)

// IsGraceful reports whether err is one of the expected early terminations:
// the consumer of the output went away, or the render was cancelled.
func IsGraceful(err error) bool {
	return errors.Is(err, ErrSinkClosed) || errors.Is(err, ErrInterrupted)
}

// IndexMode selects how the data section is laid out.
type IndexMode string

const (
	// IndexNone reshapes each variable into rows wrapped to the line width.
	IndexNone IndexMode = ""
	// IndexC lists every element with its 0-based row-major coordinates.
	IndexC IndexMode = "c"
	// IndexFortran lists every element with reversed, 1-based coordinates.
	IndexFortran IndexMode = "f"
)

// String returns the mode name.
func (m IndexMode) String() string {
	if m == IndexNone {
		return "none"
	}
	return string(m)
}

// ParseIndexMode parses a full-indices flag value. It accepts "c" or
// "row-major", "f", "fortran" or "column-major", and "" or "none". Case and
// surrounding space are ignored.
func ParseIndexMode(s string) (IndexMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return IndexNone, nil
	case "c", "row-major":
		return IndexC, nil
	case "f", "column-major", "fortran":
		return IndexFortran, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidIndexMode, s)
}

// Defaults used by DefaultOptions.
const (
	DefaultName            = "unknown"
	DefaultLineWidth       = 80
	DefaultFloatPrecision  = 8
	DefaultDoublePrecision = 16
)

const (
	sectionIndent = 4 // declarations, attributes and nested groups
	dataIndent    = 1 // the data section
)

// Options controls rendering. Start from DefaultOptions; the zero value
// renders floats with no fractional digits.
type Options struct {
	// Name is shown on the opening line. Empty means "unknown".
	Name string
	// HeaderOnly omits the data section.
	HeaderOnly bool
	// Variables restricts the data section to these names. Empty means all.
	Variables []string
	// LineWidth is the wrap column for reshaped data. Zero means 80.
	LineWidth int
	// Indices selects the data layout.
	Indices IndexMode
	// FloatPrecision and DoublePrecision are the digits after the decimal
	// point for float32 and float64 data.
	FloatPrecision  int
	DoublePrecision int
	// Logger receives warnings and debug traces. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns the options matching ncdump's defaults.
func DefaultOptions() Options {
	return Options{
		Name:            DefaultName,
		LineWidth:       DefaultLineWidth,
		FloatPrecision:  DefaultFloatPrecision,
		DoublePrecision: DefaultDoublePrecision,
	}
}

func (o Options) normalize() (Options, error) {
	if o.Name == "" {
		o.Name = DefaultName
	}
	if o.LineWidth == 0 {
		o.LineWidth = DefaultLineWidth
	}
	if o.LineWidth < 0 {
		return o, fmt.Errorf("%w: line width %d", ErrInvalidOptions, o.LineWidth)
	}
	if o.FloatPrecision < 0 || o.DoublePrecision < 0 {
		return o, fmt.Errorf("%w: precision %d,%d", ErrInvalidOptions, o.FloatPrecision, o.DoublePrecision)
	}
	switch o.Indices {
	case IndexNone, IndexC, IndexFortran:
	default:
		return o, fmt.Errorf("%w: %q", ErrInvalidIndexMode, string(o.Indices))
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o, nil
}

type renderer struct {
	opts Options
	log  *slog.Logger
}

// Render writes the CDL text of c to w.
//
// Output is written incrementally. When the reader of w goes away the
// returned error matches ErrSinkClosed; when ctx is cancelled during the
// data section it matches ErrInterrupted. In both cases the closing brace
// is not written. Use IsGraceful to tell those apart from real failures.
func Render(ctx context.Context, w io.Writer, c Container, opts Options) error {
	if isNil(c) {
		return fmt.Errorf("%w: nil container", ErrInvalidDataset)
	}
	opts, err := opts.normalize()
	if err != nil {
		return err
	}
	r := &renderer{opts: opts, log: opts.Logger}
	p := newPrinter(ctx, w)
	if err := r.render(p, c, 0); err != nil {
		if !errors.Is(err, ErrSinkClosed) {
			_ = p.flush()
		}
		return err
	}
	return p.flush()
}

// Marshal renders c and returns the bytes.
func Marshal(c Container, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(context.Background(), &buf, c, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// render runs the full section sequence for one level. Nested groups render
// at depth > 0 without the opening line; their closing brace sits at the
// group's own indent.
func (r *renderer) render(p *printer, c Container, depth int) error {
	indent := depth * sectionIndent
	if depth == 0 {
		tag := defaultTypeTag
		if t, ok := c.(Tagged); ok {
			tag = t.TypeTag()
		}
		if err := p.linef(0, "%s %s {", tag, r.opts.Name); err != nil {
			return err
		}
	}

	if err := r.header(p, c, indent); err != nil {
		return err
	}

	if g, ok := c.(Grouper); ok {
		for name, group := range g.Groups().All() {
			if isNil(group) {
				return fmt.Errorf("%w: group %q is nil", ErrInvalidDataset, name)
			}
			if err := p.linef(indent, "group %s:", name); err != nil {
				return err
			}
			r.log.Debug("rendering group", "group", name, "depth", depth+1)
			if err := r.render(p, group, depth+1); err != nil {
				return fmt.Errorf("group %q: %w", name, err)
			}
		}
	}

	if !r.opts.HeaderOnly {
		if err := r.data(p, c, indent); err != nil {
			return err
		}
	}

	return p.line(indent, "}")
}

// isNil reports a nil Container, including a nil *Dataset behind the
// interface.
func isNil(c Container) bool {
	if c == nil {
		return true
	}
	d, ok := c.(*Dataset)
	return ok && d == nil
}
