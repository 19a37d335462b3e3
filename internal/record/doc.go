// Package record splits delimited text lines into addressable fields.
//
// A FieldView never copies the line it was built from. Each field is kept as
// a (start, end) byte-offset pair relative to the owning line, so copying a
// Record copies the line header and reuses the same offsets unchanged.
package record
