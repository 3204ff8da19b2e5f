package cdl

import (
	"fmt"
	"strings"
)

func (r *renderer) header(p *printer, c Container, indent int) error {
	if err := p.line(indent, "dimensions:"); err != nil {
		return err
	}
	for name, dim := range c.Dimensions().All() {
		var err error
		if dim.Unlimited {
			err = p.linef(indent+sectionIndent, "%s = UNLIMITED // (%d currently) ;", name, dim.Size)
		} else {
			err = p.linef(indent+sectionIndent, "%s = %d ;", name, dim.Size)
		}
		if err != nil {
			return err
		}
	}

	if err := p.line(indent, "variables:"); err != nil {
		return err
	}
	for name, v := range c.Variables().All() {
		if v == nil {
			return fmt.Errorf("%w: variable %q is nil", ErrInvalidDataset, name)
		}
		kw, err := v.Type.Keyword()
		if err != nil {
			return fmt.Errorf("variable %q: %w", name, err)
		}
		if dt := v.Data.Type(); dt != v.Type {
			return fmt.Errorf("%w: variable %q declared %s, data is %s", ErrUnmappedType, name, v.Type, dt)
		}
		if err := p.linef(indent+sectionIndent, "%s %s(%s);", kw, name, strings.Join(v.Dims, ", ")); err != nil {
			return err
		}
		for att, val := range v.Attributes.All() {
			lit, err := literal(val)
			if err != nil {
				return fmt.Errorf("attribute %s:%s: %w", name, att, err)
			}
			if err := p.linef(indent+2*sectionIndent, "%s:%s = %s ;", name, att, lit); err != nil {
				return err
			}
		}
	}

	if err := p.line(0, ""); err != nil {
		return err
	}
	if err := p.line(indent, "// global properties:"); err != nil {
		return err
	}
	for att, val := range c.Attributes().All() {
		lit, err := literal(val)
		if err != nil {
			return fmt.Errorf("global attribute %s: %w", att, err)
		}
		if err := p.linef(indent+2*sectionIndent, ":%s = %s ;", att, lit); err != nil {
			return err
		}
	}
	return nil
}
