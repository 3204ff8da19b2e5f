package cdl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errInternalWrite = errors.New("write failed")

type errWriterInternal struct{ err error }

func (e *errWriterInternal) Write([]byte) (int, error) {
	return 0, e.err
}

func TestWrapTokensFits(t *testing.T) {
	t.Parallel()
	lines := wrapTokens([]string{"1,", "2,", "3;"}, 80, "  ", "    ")
	assert.Equal(t, []string{"  1, 2, 3;"}, lines)
}

func TestWrapTokensBreaks(t *testing.T) {
	t.Parallel()
	lines := wrapTokens([]string{"aa,", "bb,", "cc,", "dd;"}, 10, "  ", "    ")
	assert.Equal(t, []string{"  aa, bb,", "    cc,", "    dd;"}, lines)
}

func TestWrapTokensExactWidth(t *testing.T) {
	t.Parallel()
	// "  aa, bb," is exactly 9 columns.
	lines := wrapTokens([]string{"aa,", "bb,"}, 9, "  ", "    ")
	assert.Equal(t, []string{"  aa, bb,"}, lines)
}

func TestWrapTokensOverlongToken(t *testing.T) {
	t.Parallel()
	lines := wrapTokens([]string{"abcdefghij,", "k;"}, 4, "  ", "    ")
	assert.Equal(t, []string{"  abcdefghij,", "    k;"}, lines)
}

func TestWrapTokensWideChars(t *testing.T) {
	t.Parallel()
	// Each "你" takes two columns.
	lines := wrapTokens([]string{`"你你",`, `"好";`}, 10, "  ", "    ")
	assert.Equal(t, []string{`  "你你",`, `    "好";`}, lines)
}

func TestWrapTokensEmpty(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"  "}, wrapTokens(nil, 80, "  ", "    "))
}

func TestFloatLiteral(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		f       float64
		bitSize int
		want    string
	}{
		"integral":          {f: 2, bitSize: 64, want: "2.0"},
		"negative integral": {f: -7, bitSize: 64, want: "-7.0"},
		"fraction":          {f: 0.25, bitSize: 64, want: "0.25"},
		"float32 shortest":  {f: float64(float32(0.1)), bitSize: 32, want: "0.1"},
		"lower boundary":    {f: 1e-4, bitSize: 64, want: "0.0001"},
		"below boundary":    {f: 1.5e-5, bitSize: 64, want: "1.5e-05"},
		"upper boundary":    {f: 1e16, bitSize: 64, want: "1e+16"},
		"below upper":       {f: 1e15, bitSize: 64, want: "1000000000000000.0"},
		"zero":              {f: 0, bitSize: 32, want: "0.0"},
		"nan":               {f: math.NaN(), bitSize: 64, want: "nan"},
		"inf":               {f: math.Inf(1), bitSize: 64, want: "inf"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, floatLiteral(tt.f, tt.bitSize))
		})
	}
}

func TestExpFloat(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "1.00000000e+00", expFloat(1, 8, 32))
	assert.Equal(t, "-2.5e-03", expFloat(-0.0025, 1, 64))
	assert.Equal(t, "-inf", expFloat(math.Inf(-1), 8, 64))
}

func TestQuote(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		in   string
		want string
	}{
		"plain":     {in: "abc", want: `"abc"`},
		"empty":     {in: "", want: `""`},
		"quote":     {in: `say "hi"`, want: `"say \"hi\""`},
		"backslash": {in: `a\b`, want: `"a\\b"`},
		"newline":   {in: "a\nb", want: `"a\nb"`},
		"tab":       {in: "a\tb", want: `"a\tb"`},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, quote(tt.in))
		})
	}
}

func TestLiteralEmptySequence(t *testing.T) {
	t.Parallel()
	got, err := literal(Int32s())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestElementFormatterMismatch(t *testing.T) {
	t.Parallel()
	_, err := elementFormatter(RawValue(Float64, []float32{1}), 8, 16)
	require.ErrorIs(t, err, ErrUnmappedType)
}

func TestAdvance(t *testing.T) {
	t.Parallel()
	shape := []int{2, 3}
	idx := []int{0, 0}
	var got []string
	for range product(shape) {
		got = append(got, IndexC.tuple(idx))
		advance(idx, shape)
	}
	assert.Equal(t, []string{"(0, 0)", "(0, 1)", "(0, 2)", "(1, 0)", "(1, 1)", "(1, 2)"}, got)
	// Wraps back to the origin after the last element.
	assert.Equal(t, []int{0, 0}, idx)
}

func TestTuple(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		mode IndexMode
		idx  []int
		want string
	}{
		"c scalar":   {mode: IndexC, idx: nil, want: "()"},
		"c 1d":       {mode: IndexC, idx: []int{4}, want: "(4)"},
		"c 3d":       {mode: IndexC, idx: []int{1, 0, 2}, want: "(1, 0, 2)"},
		"f scalar":   {mode: IndexFortran, idx: []int{}, want: "()"},
		"f 1d":       {mode: IndexFortran, idx: []int{4}, want: "(5)"},
		"f reversed": {mode: IndexFortran, idx: []int{1, 0, 2}, want: "(3, 1, 2)"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.mode.tuple(tt.idx))
		})
	}
}

func TestProduct(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 1, product(nil))
	assert.Equal(t, 0, product([]int{3, 0}))
	assert.Equal(t, 24, product([]int{2, 3, 4}))
}

func TestPrinterLine(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	p := newPrinter(context.Background(), &buf)
	require.NoError(t, p.line(4, "x = 1 ;"))
	require.NoError(t, p.line(4, ""))
	require.NoError(t, p.linef(0, "%s %d", "n", 2))
	assert.Empty(t, buf.String(), "buffered until flush")
	require.NoError(t, p.flush())
	assert.Equal(t, "    x = 1 ;\n\nn 2\n", buf.String())
}

func TestPrinterInterrupted(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer
	p := newPrinter(ctx, &buf)
	require.NoError(t, p.interrupted())
	require.NoError(t, p.line(0, "data:"))

	cancel()
	err := p.interrupted()
	require.ErrorIs(t, err, ErrInterrupted)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "data:\n", buf.String(), "pending output flushed")
}

func TestPrinterFlushError(t *testing.T) {
	t.Parallel()
	p := newPrinter(context.Background(), &errWriterInternal{err: errInternalWrite})
	require.NoError(t, p.line(0, "x"))
	err := p.flush()
	require.ErrorIs(t, err, errInternalWrite)
	assert.NotErrorIs(t, err, ErrSinkClosed)
}

func TestSinkError(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		err    error
		closed bool
	}{
		"epipe":         {err: syscall.EPIPE, closed: true},
		"wrapped epipe": {err: &os.PathError{Op: "write", Path: "/dev/stdout", Err: syscall.EPIPE}, closed: true},
		"closed pipe":   {err: io.ErrClosedPipe, closed: true},
		"closed file":   {err: fmt.Errorf("write: %w", os.ErrClosed), closed: true},
		"other":         {err: errInternalWrite, closed: false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got := sinkError(tt.err)
			assert.Equal(t, tt.closed, errors.Is(got, ErrSinkClosed))
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestOptionsNormalize(t *testing.T) {
	t.Parallel()
	opts, err := Options{}.normalize()
	require.NoError(t, err)
	assert.Equal(t, DefaultName, opts.Name)
	assert.Equal(t, DefaultLineWidth, opts.LineWidth)
	assert.NotNil(t, opts.Logger)
}

func TestSelectVariablesDuplicateFilter(t *testing.T) {
	t.Parallel()
	vars := NewOrderedMap[*Variable]()
	vars.Set("a", &Variable{})
	vars.Set("b", &Variable{})
	opts, err := Options{Variables: []string{"b", "a", "b"}}.normalize()
	require.NoError(t, err)
	r := &renderer{opts: opts, log: opts.Logger}
	assert.Equal(t, []string{"a", "b"}, r.selectVariables(vars))
}
