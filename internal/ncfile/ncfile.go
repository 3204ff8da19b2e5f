// Package ncfile loads NetCDF classic (CDF-1 and CDF-2) files into
// cdl.Dataset values.
package ncfile

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ctessum/cdf"

	"github.com/bjaus/cdl"
)

// Open reads the whole file at path into memory.
func Open(path string) (*cdl.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ncfile: opening %s: %w", path, err)
	}
	defer f.Close()

	nc, err := cdf.Open(f)
	if err != nil {
		return nil, fmt.Errorf("ncfile: reading header of %s: %w", path, err)
	}
	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("ncfile: %w", err)
	}
	ds, err := Load(nc, fi.Size())
	if err != nil {
		return nil, fmt.Errorf("ncfile: %s: %w", path, err)
	}
	slog.Debug("loaded netcdf file",
		"path", path,
		"dimensions", ds.Dimensions().Len(),
		"variables", ds.Variables().Len())
	return ds, nil
}

// Load converts an open file. size is the file size in bytes, used to count
// the records along the unlimited dimension.
func Load(nc *cdf.File, size int64) (*cdl.Dataset, error) {
	h := nc.Header
	nrecs := int(h.NumRecs(size))
	if nrecs < 0 {
		nrecs = 0
	}

	ds := cdl.NewDataset()
	ds.Tag = "netcdf"
	lengths := h.Lengths("")
	for i, name := range h.Dimensions("") {
		if lengths[i] == 0 {
			ds.AddDimension(name, nrecs, true)
		} else {
			ds.AddDimension(name, lengths[i], false)
		}
	}

	for _, name := range h.Variables() {
		data, err := readVariable(nc, name, nrecs)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", name, err)
		}
		v, err := ds.AddVariable(name, h.Dimensions(name), data)
		if err != nil {
			return nil, err
		}
		for _, att := range h.Attributes(name) {
			val, err := convert(h.GetAttribute(name, att), false)
			if err != nil {
				return nil, fmt.Errorf("attribute %s:%s: %w", name, att, err)
			}
			v.Attributes.Set(att, val)
		}
	}

	for _, att := range h.Attributes("") {
		val, err := convert(h.GetAttribute("", att), false)
		if err != nil {
			return nil, fmt.Errorf("global attribute %s: %w", att, err)
		}
		ds.SetAttribute(att, val)
	}
	return ds, nil
}

func readVariable(nc *cdf.File, name string, nrecs int) (cdl.Value, error) {
	h := nc.Header
	_, isChar := h.ZeroValue(name, 0).(string)

	lengths := append([]int(nil), h.Lengths(name)...)
	record := h.IsRecordVariable(name)
	if record {
		lengths[0] = nrecs
	}
	n := 1
	for _, l := range lengths {
		n *= l
	}
	if n == 0 {
		return convert(h.ZeroValue(name, 0), isChar)
	}

	var end []int
	if record {
		end = make([]int, len(lengths))
		for i, l := range lengths {
			end[i] = l - 1
		}
	}
	r := nc.Reader(name, nil, end)
	buf := r.Zero(n)
	if _, err := r.Read(buf); err != nil && !errors.Is(err, io.EOF) {
		return cdl.Value{}, err
	}
	return convert(buf, isChar)
}

// convert maps the library's value representations onto cdl values. BYTE
// data widens to Int16; CHAR data becomes one string per character.
func convert(data any, char bool) (cdl.Value, error) {
	switch d := data.(type) {
	case []uint8:
		if char {
			out := make([]string, len(d))
			for i, b := range d {
				if b != 0 {
					out[i] = string(rune(b))
				}
			}
			return cdl.Strings(out...), nil
		}
		out := make([]int16, len(d))
		for i, b := range d {
			out[i] = int16(int8(b))
		}
		return cdl.Int16s(out...), nil
	case string:
		if char {
			return cdl.Strings(), nil
		}
		return cdl.Text(strings.TrimRight(d, "\x00")), nil
	case []int16:
		return cdl.Int16s(d...), nil
	case []int32:
		return cdl.Int32s(d...), nil
	case []float32:
		return cdl.Float32s(d...), nil
	case []float64:
		return cdl.Float64s(d...), nil
	}
	return cdl.Value{}, fmt.Errorf("%w: %T", cdl.ErrUnmappedType, data)
}
