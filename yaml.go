package cdl

import (
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"
)

// LoadYAML reads a dataset description. Mapping order in the document is
// kept as declaration order:
//
//	type: netcdf
//	dimensions:
//	  time: {size: 2, unlimited: true}
//	  x: 3
//	variables:
//	  temp:
//	    type: float32
//	    dimensions: [time, x]
//	    attributes:
//	      units: K
//	      valid_range: {type: float32, values: [0, 400]}
//	    data: [1, 2, 3, 4, 5, 6]
//	attributes:
//	  title: demo
//	groups:
//	  child: {dimensions: {y: 1}}
//
// Untyped attribute scalars map string to String, int to Int32, float to
// Float64 and bool to Bool. Errors match ErrInvalidDataset.
func LoadYAML(r io.Reader) (*Dataset, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidDataset)
	}
	return decodeDataset(doc.Content[0], "/")
}

func invalid(path, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidDataset, path, fmt.Sprintf(format, args...))
}

// wrapInvalid is invalid for an underlying error, which stays matchable.
func wrapInvalid(path string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInvalidDataset, path, err)
}

// pairs yields the key/value nodes of a mapping.
func pairs(n *yaml.Node, path string) ([][2]*yaml.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, invalid(path, "expected a mapping, line %d", n.Line)
	}
	out := make([][2]*yaml.Node, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		out = append(out, [2]*yaml.Node{n.Content[i], n.Content[i+1]})
	}
	return out, nil
}

func decodeDataset(n *yaml.Node, path string) (*Dataset, error) {
	kvs, err := pairs(n, path)
	if err != nil {
		return nil, err
	}
	sections := make(map[string]*yaml.Node)
	for _, kv := range kvs {
		switch key := kv[0].Value; key {
		case "type", "dimensions", "variables", "attributes", "groups":
			sections[key] = kv[1]
		default:
			return nil, invalid(path, "unknown key %q", key)
		}
	}

	ds := NewDataset()
	if n, ok := sections["type"]; ok {
		ds.Tag = n.Value
	}
	if n, ok := sections["dimensions"]; ok {
		if err := decodeDimensions(ds, n, path+"dimensions"); err != nil {
			return nil, err
		}
	}
	if n, ok := sections["variables"]; ok {
		if err := decodeVariables(ds, n, path+"variables"); err != nil {
			return nil, err
		}
	}
	if n, ok := sections["attributes"]; ok {
		if err := decodeAttributes(ds.atts, n, path+"attributes"); err != nil {
			return nil, err
		}
	}
	if n, ok := sections["groups"]; ok {
		groups, err := pairs(n, path+"groups")
		if err != nil {
			return nil, err
		}
		for _, kv := range groups {
			g, err := decodeDataset(kv[1], path+kv[0].Value+"/")
			if err != nil {
				return nil, err
			}
			if g.Tag == "" {
				g.Tag = ds.Tag
			}
			ds.AddGroup(kv[0].Value, g)
		}
	}
	return ds, nil
}

func decodeDimensions(ds *Dataset, n *yaml.Node, path string) error {
	kvs, err := pairs(n, path)
	if err != nil {
		return err
	}
	for _, kv := range kvs {
		name := kv[0].Value
		var dim struct {
			Size      int  `yaml:"size"`
			Unlimited bool `yaml:"unlimited"`
		}
		if kv[1].Kind == yaml.ScalarNode {
			err = kv[1].Decode(&dim.Size)
		} else {
			err = kv[1].Decode(&dim)
		}
		if err != nil {
			return wrapInvalid(path+"/"+name, err)
		}
		if dim.Size < 0 {
			return invalid(path+"/"+name, "negative size %d", dim.Size)
		}
		ds.AddDimension(name, dim.Size, dim.Unlimited)
	}
	return nil
}

func decodeVariables(ds *Dataset, n *yaml.Node, path string) error {
	kvs, err := pairs(n, path)
	if err != nil {
		return err
	}
	for _, kv := range kvs {
		name, vpath := kv[0].Value, path+"/"+kv[0].Value
		var raw struct {
			Type       string    `yaml:"type"`
			Dimensions []string  `yaml:"dimensions"`
			Attributes yaml.Node `yaml:"attributes"`
			Data       yaml.Node `yaml:"data"`
		}
		if err := kv[1].Decode(&raw); err != nil {
			return wrapInvalid(vpath, err)
		}
		typ, err := ParseType(raw.Type)
		if err != nil {
			return wrapInvalid(vpath, err)
		}
		var items []*yaml.Node
		flatten(&raw.Data, &items)
		data, err := decodeValues(typ, items, vpath+"/data")
		if err != nil {
			return err
		}
		v, err := ds.AddVariable(name, raw.Dimensions, data)
		if err != nil {
			return wrapInvalid(vpath, err)
		}
		if raw.Attributes.Kind != 0 {
			if err := decodeAttributes(v.Attributes, &raw.Attributes, vpath+"/attributes"); err != nil {
				return err
			}
		}
	}
	return nil
}

// flatten collects the scalars of arbitrarily nested sequences in order.
func flatten(n *yaml.Node, out *[]*yaml.Node) {
	switch n.Kind {
	case yaml.SequenceNode:
		for _, c := range n.Content {
			flatten(c, out)
		}
	case yaml.ScalarNode:
		*out = append(*out, n)
	}
}

func decodeAttributes(m *OrderedMap[Value], n *yaml.Node, path string) error {
	kvs, err := pairs(n, path)
	if err != nil {
		return err
	}
	for _, kv := range kvs {
		name, apath := kv[0].Value, path+"/"+kv[0].Value
		val, err := decodeAttribute(kv[1], apath)
		if err != nil {
			return err
		}
		m.Set(name, val)
	}
	return nil
}

func decodeAttribute(n *yaml.Node, path string) (Value, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		typ, err := inferType(n, path)
		if err != nil {
			return Value{}, err
		}
		return decodeValues(typ, []*yaml.Node{n}, path)
	case yaml.SequenceNode:
		if len(n.Content) == 0 {
			return Value{}, invalid(path, "empty list needs an explicit type")
		}
		var items []*yaml.Node
		flatten(n, &items)
		typ, err := inferType(items[0], path)
		if err != nil {
			return Value{}, err
		}
		return decodeValues(typ, items, path)
	case yaml.MappingNode:
		var typed struct {
			Type   string    `yaml:"type"`
			Value  yaml.Node `yaml:"value"`
			Values yaml.Node `yaml:"values"`
		}
		if err := n.Decode(&typed); err != nil {
			return Value{}, wrapInvalid(path, err)
		}
		typ, err := ParseType(typed.Type)
		if err != nil {
			return Value{}, wrapInvalid(path, err)
		}
		var items []*yaml.Node
		flatten(&typed.Value, &items)
		flatten(&typed.Values, &items)
		return decodeValues(typ, items, path)
	}
	return Value{}, invalid(path, "unsupported attribute value, line %d", n.Line)
}

func inferType(n *yaml.Node, path string) (Type, error) {
	switch n.ShortTag() {
	case "!!str":
		return String, nil
	case "!!int":
		var x int64
		if err := n.Decode(&x); err == nil && (x < math.MinInt32 || x > math.MaxInt32) {
			return Int64, nil
		}
		return Int32, nil
	case "!!float":
		return Float64, nil
	case "!!bool":
		return Bool, nil
	}
	return 0, invalid(path, "cannot infer a type for %s, line %d", n.ShortTag(), n.Line)
}

// decodeValues decodes scalar nodes into a Value of type t.
func decodeValues(t Type, items []*yaml.Node, path string) (Value, error) {
	switch t {
	case Float32:
		return decodeAll(items, path, Float32s)
	case Float64:
		return decodeAll(items, path, Float64s)
	case Int16:
		return decodeAll(items, path, Int16s)
	case Int32:
		return decodeAll(items, path, Int32s)
	case Int64:
		return decodeAll(items, path, Int64s)
	case Bool:
		return decodeAll(items, path, Bools)
	case String:
		return decodeAll(items, path, Strings)
	}
	return Value{}, wrapInvalid(path, fmt.Errorf("%w: %s", ErrUnmappedType, t))
}

func decodeAll[T any](items []*yaml.Node, path string, build func(...T) Value) (Value, error) {
	out := make([]T, len(items))
	for i, n := range items {
		if err := n.Decode(&out[i]); err != nil {
			return Value{}, wrapInvalid(fmt.Sprintf("%s[%d]", path, i), err)
		}
	}
	return build(out...), nil
}
