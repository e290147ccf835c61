package layout

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrStructNotFound  = errors.New("layout: struct not found")
	ErrUnsupportedType = errors.New("layout: unsupported type")
	ErrHostLayout      = errors.New("layout: host struct does not follow WGSL layout")
)

// Decl is a struct member as written in source, before offsets are known.
// Align and Size are optional @align(n) / @size(n) overrides.
type Decl struct {
	Name  string
	Type  string
	Align uint64
	Size  uint64
}

// Field is a struct member with its resolved placement.
type Field struct {
	Name   string
	Type   string
	Offset uint64
	Size   uint64
	Align  uint64
}

// Table is the resolved layout of one struct.
type Table struct {
	Name   string
	Fields []Field
	Size   uint64
	Align  uint64
}

// Build resolves offsets, struct alignment and struct size for decls.
func Build(name string, decls []Decl) (Table, error) {
	table := Table{Name: name}
	var offset uint64
	for _, d := range decls {
		t, ok := LookupType(d.Type)
		if !ok {
			return Table{}, fmt.Errorf("%s.%s: %q: %w", name, d.Name, d.Type, ErrUnsupportedType)
		}
		align, size := t.Align, t.Size
		if d.Align != 0 {
			if d.Align&(d.Align-1) != 0 || d.Align < t.Align {
				return Table{}, fmt.Errorf("%s.%s: invalid @align(%d)", name, d.Name, d.Align)
			}
			align = d.Align
		}
		if d.Size != 0 {
			if d.Size < t.Size {
				return Table{}, fmt.Errorf("%s.%s: @size(%d) smaller than %s", name, d.Name, d.Size, t.Name)
			}
			size = d.Size
		}

		offset = roundUp(align, offset)
		table.Fields = append(table.Fields, Field{
			Name:   d.Name,
			Type:   t.Name,
			Offset: offset,
			Size:   size,
			Align:  align,
		})
		offset += size
		table.Align = max(table.Align, align)
	}
	table.Size = roundUp(table.Align, offset)
	return table, nil
}

// Field returns the named field.
func (t Table) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// String renders the table one field per line, e.g. for -verify output.
func (t Table) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "struct %s (size %d, align %d)\n", t.Name, t.Size, t.Align)
	for _, f := range t.Fields {
		fmt.Fprintf(&sb, "  %-4d %-12s %-12s size %d\n", f.Offset, f.Name, f.Type, f.Size)
	}
	return sb.String()
}
