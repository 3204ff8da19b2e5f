// Package cdl renders hierarchical scientific datasets as CDL, the text
// notation printed by ncdump.
//
// The central entry points are [Render] and [Marshal], which walk a
// [Container] and write its dimensions, variables, attributes, nested groups
// and, unless [Options].HeaderOnly is set, its data:
//
//	ds, err := cdl.LoadYAML(f)
//	if err != nil { ... }
//	opts := cdl.DefaultOptions()
//	opts.Name = "sample"
//	err = cdl.Render(ctx, os.Stdout, ds, opts)
//
// # Data Model
//
// A [Container] exposes insertion-ordered maps ([OrderedMap]) of dimensions,
// variables and global attributes. Optional interfaces enhance the output:
//
//   - [Grouper] → nested groups, rendered recursively with 4 more spaces of
//     indentation per level
//   - [Tagged] → the type tag on the opening line (default "netcdf")
//
// [Dataset] is the in-memory implementation. [LoadYAML] builds one from a
// YAML description.
//
// # Types
//
// Element types form the closed set [Float32], [Float64], [Int16], [Int32],
// [Int64], [Bool] and [String]. Each declares itself with a fixed CDL keyword
// (float, double, short, integer, long, bool, char). Anything else fails with
// [ErrUnmappedType].
//
// # Data Layout
//
// By default each variable is reshaped to rows of its last dimension and the
// rows are wrapped to [Options].LineWidth columns without splitting values.
// With [IndexC] or [IndexFortran] every element is written on its own line
// followed by a comment giving its coordinates, 0-based row-major or 1-based
// reversed respectively.
//
// # Errors
//
// The package exports sentinel errors for programmatic handling:
//
//   - [ErrUnmappedType]: element type outside the supported set
//   - [ErrDimensionNotFound]: a variable refers to an undeclared dimension
//   - [ErrShapeMismatch]: data length or shape disagrees with the dimensions
//   - [ErrInvalidOptions], [ErrInvalidIndexMode]: bad rendering options
//   - [ErrInvalidDataset]: malformed YAML description
//   - [ErrSinkClosed]: the reader of the output went away
//   - [ErrInterrupted]: the context was cancelled during the data section
//
// The last two are expected terminations; [IsGraceful] reports them.
package cdl
