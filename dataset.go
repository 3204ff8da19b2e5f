package cdl

import "fmt"

// Dimension is a named axis. Size is the current length; for an unlimited
// dimension it is the number of records currently present.
type Dimension struct {
	Size      int
	Unlimited bool
}

// Variable is a typed, dense, row-major array tied to named dimensions.
type Variable struct {
	Type Type
	// Dims lists the dimension names in declaration order.
	Dims []string
	// Shape is the array shape. When nil it is taken from the sizes of Dims.
	Shape      []int
	Data       Value
	Attributes *OrderedMap[Value]
}

// Container is the read-only data model the renderer walks.
type Container interface {
	Dimensions() *OrderedMap[Dimension]
	Variables() *OrderedMap[*Variable]
	Attributes() *OrderedMap[Value]
}

// Grouper exposes nested groups. Containers without it have no groups.
type Grouper interface {
	Groups() *OrderedMap[Container]
}

// Tagged names the container type on the opening line.
// Default: "netcdf".
type Tagged interface {
	TypeTag() string
}

const defaultTypeTag = "netcdf"

// Dataset is the in-memory Container. The zero value is not usable; create
// one with NewDataset.
type Dataset struct {
	Tag  string
	dims *OrderedMap[Dimension]
	vars *OrderedMap[*Variable]
	atts *OrderedMap[Value]
	grps *OrderedMap[Container]
}

// NewDataset returns an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{
		dims: NewOrderedMap[Dimension](),
		vars: NewOrderedMap[*Variable](),
		atts: NewOrderedMap[Value](),
		grps: NewOrderedMap[Container](),
	}
}

func (d *Dataset) Dimensions() *OrderedMap[Dimension] { return d.dims }
func (d *Dataset) Variables() *OrderedMap[*Variable]  { return d.vars }
func (d *Dataset) Attributes() *OrderedMap[Value]     { return d.atts }
func (d *Dataset) Groups() *OrderedMap[Container]     { return d.grps }

// TypeTag returns Tag, or "netcdf" when it is empty.
func (d *Dataset) TypeTag() string {
	if d.Tag == "" {
		return defaultTypeTag
	}
	return d.Tag
}

// AddDimension declares a dimension.
func (d *Dataset) AddDimension(name string, size int, unlimited bool) *Dataset {
	d.dims.Set(name, Dimension{Size: size, Unlimited: unlimited})
	return d
}

// AddVariable declares a variable over dims holding data. The shape is
// taken from the declared dimensions, which must already exist.
func (d *Dataset) AddVariable(name string, dims []string, data Value) (*Variable, error) {
	shape := make([]int, len(dims))
	for i, dn := range dims {
		dim, ok := d.dims.Get(dn)
		if !ok {
			return nil, fmt.Errorf("%w: %q (variable %q)", ErrDimensionNotFound, dn, name)
		}
		shape[i] = dim.Size
	}
	v := &Variable{
		Type:       data.Type(),
		Dims:       dims,
		Shape:      shape,
		Data:       data,
		Attributes: NewOrderedMap[Value](),
	}
	d.vars.Set(name, v)
	return v, nil
}

// SetAttribute sets a global attribute.
func (d *Dataset) SetAttribute(name string, v Value) *Dataset {
	d.atts.Set(name, v)
	return d
}

// AddGroup attaches a nested container.
func (d *Dataset) AddGroup(name string, g Container) *Dataset {
	d.grps.Set(name, g)
	return d
}
