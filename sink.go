package cdl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
)

// printer writes CDL lines to a buffered sink. Every write reports whether
// the consumer went away so callers can stop at once.
type printer struct {
	ctx context.Context
	w   *bufio.Writer
}

func newPrinter(ctx context.Context, w io.Writer) *printer {
	return &printer{ctx: ctx, w: bufio.NewWriter(w)}
}

// line writes s indented by n spaces. Empty lines carry no indentation.
func (p *printer) line(n int, s string) error {
	if s != "" && n > 0 {
		if _, err := p.w.WriteString(strings.Repeat(" ", n)); err != nil {
			return sinkError(err)
		}
	}
	if _, err := p.w.WriteString(s); err != nil {
		return sinkError(err)
	}
	if err := p.w.WriteByte('\n'); err != nil {
		return sinkError(err)
	}
	return nil
}

func (p *printer) linef(n int, format string, args ...any) error {
	return p.line(n, fmt.Sprintf(format, args...))
}

// interrupted reports cancellation of the render context. Buffered output is
// flushed first so the consumer sees every complete line.
func (p *printer) interrupted() error {
	err := p.ctx.Err()
	if err == nil {
		return nil
	}
	_ = p.w.Flush()
	return fmt.Errorf("%w: %w", ErrInterrupted, err)
}

func (p *printer) flush() error {
	if err := p.w.Flush(); err != nil {
		return sinkError(err)
	}
	return nil
}

// sinkError marks errors that mean the reader of the output is gone.
func sinkError(err error) error {
	if errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, os.ErrClosed) {
		return fmt.Errorf("%w: %w", ErrSinkClosed, err)
	}
	return err
}
