package cdl

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

func (r *renderer) data(p *printer, c Container, indent int) error {
	if err := p.line(indent, "data:"); err != nil {
		return err
	}
	vars := c.Variables()
	for _, name := range r.selectVariables(vars) {
		if err := p.interrupted(); err != nil {
			return err
		}
		v, _ := vars.Get(name)
		if err := p.line(indent+dataIndent, name+" ="); err != nil {
			return err
		}
		format, err := elementFormatter(v.Data, r.opts.FloatPrecision, r.opts.DoublePrecision)
		if err != nil {
			return fmt.Errorf("variable %q: %w", name, err)
		}
		shape, err := variableShape(c, name, v)
		if err != nil {
			return err
		}
		r.log.Debug("rendering variable", "variable", name, "shape", shape)
		if r.opts.Indices != IndexNone {
			err = r.indexed(p, name, shape, format, indent)
		} else {
			err = r.reshaped(p, shape, format, indent)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// selectVariables intersects the filter with the container's variables,
// keeping container order. An empty filter selects everything.
func (r *renderer) selectVariables(vars *OrderedMap[*Variable]) []string {
	if len(r.opts.Variables) == 0 {
		return vars.Keys()
	}
	want := make(map[string]bool, len(r.opts.Variables))
	for _, name := range r.opts.Variables {
		want[name] = true
	}
	var out []string
	for _, name := range vars.Keys() {
		if want[name] {
			out = append(out, name)
		}
	}
	if len(want) > len(out) {
		var missing []string
		for _, name := range r.opts.Variables {
			if !vars.Has(name) && !slices.Contains(missing, name) {
				missing = append(missing, name)
			}
		}
		r.log.Warn("requested variables not found", "missing", missing)
	}
	return out
}

// variableShape resolves the shape of v from the sizes of its dimensions
// and checks it against the declared shape and the data length.
func variableShape(c Container, name string, v *Variable) ([]int, error) {
	dims := c.Dimensions()
	shape := make([]int, len(v.Dims))
	for i, dn := range v.Dims {
		dim, ok := dims.Get(dn)
		if !ok {
			return nil, fmt.Errorf("%w: %q (variable %q)", ErrDimensionNotFound, dn, name)
		}
		shape[i] = dim.Size
	}
	if v.Shape != nil && !slices.Equal(v.Shape, shape) {
		return nil, fmt.Errorf("%w: variable %q has shape %v, dimensions give %v", ErrShapeMismatch, name, v.Shape, shape)
	}
	if n := product(shape); v.Data.Len() != n {
		return nil, fmt.Errorf("%w: variable %q has %d values, shape %v needs %d", ErrShapeMismatch, name, v.Data.Len(), shape, n)
	}
	return shape, nil
}

func product(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}

// indexed writes one element per line, each annotated with its coordinates.
func (r *renderer) indexed(p *printer, name string, shape []int, format func(int) string, indent int) error {
	n := product(shape)
	idx := make([]int, len(shape))
	for k := range n {
		if err := p.interrupted(); err != nil {
			return err
		}
		term := ","
		if k == n-1 {
			term = ";"
		}
		line := format(k) + term + " // " + name + r.opts.Indices.tuple(idx)
		if err := p.line(indent+2*dataIndent, line); err != nil {
			return err
		}
		advance(idx, shape)
	}
	return nil
}

// advance steps idx to the next row-major coordinate.
func advance(idx, shape []int) {
	for i := len(idx) - 1; i >= 0; i-- {
		idx[i]++
		if idx[i] < shape[i] {
			return
		}
		idx[i] = 0
	}
}

func (m IndexMode) tuple(idx []int) string {
	parts := make([]string, len(idx))
	for i, x := range idx {
		if m == IndexFortran {
			parts[len(idx)-1-i] = strconv.Itoa(x + 1)
		} else {
			parts[i] = strconv.Itoa(x)
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// reshaped collapses the leading axes into rows and writes each row as a
// wrapped, comma separated block.
func (r *renderer) reshaped(p *printer, shape []int, format func(int) string, indent int) error {
	rows, cols := 1, 1
	if len(shape) > 0 {
		rows = product(shape[:len(shape)-1])
		cols = shape[len(shape)-1]
	}
	first := strings.Repeat(" ", indent+2*dataIndent)
	rest := strings.Repeat(" ", indent+4*dataIndent)
	tokens := make([]string, max(cols, 1))
	for row := range rows {
		if err := p.interrupted(); err != nil {
			return err
		}
		term := ","
		if row == rows-1 {
			term = ";"
		}
		tokens = tokens[:0]
		for j := range cols {
			tok := format(row*cols + j)
			if j < cols-1 {
				tok += ","
			} else {
				tok += term
			}
			tokens = append(tokens, tok)
		}
		if cols == 0 {
			tokens = append(tokens, term)
		}
		for _, line := range wrapTokens(tokens, r.opts.LineWidth, first, rest) {
			if err := p.line(0, line); err != nil {
				return err
			}
		}
	}
	return nil
}
