package layout

import (
	"errors"
	"fmt"
)

// MismatchError lists every way a host table differs from a shader table.
type MismatchError struct {
	Host   Table
	Shader Table
	Diffs  []error
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("layout mismatch for %s: %v", e.Host.Name, errors.Join(e.Diffs...))
}

func (e *MismatchError) Unwrap() []error {
	return e.Diffs
}

// Compare returns nil when host and shader agree byte for byte, otherwise a
// *MismatchError. Struct names are not compared.
func Compare(host, shader Table) error {
	var diffs []error

	n := max(len(host.Fields), len(shader.Fields))
	for i := 0; i < n; i++ {
		switch {
		case i >= len(shader.Fields):
			diffs = append(diffs, fmt.Errorf("field %d %q missing in shader", i, host.Fields[i].Name))
			continue
		case i >= len(host.Fields):
			diffs = append(diffs, fmt.Errorf("field %d %q missing in host", i, shader.Fields[i].Name))
			continue
		}

		h, s := host.Fields[i], shader.Fields[i]
		if h.Name != s.Name {
			diffs = append(diffs, fmt.Errorf("field %d: host %q, shader %q", i, h.Name, s.Name))
		}
		if h.Type != s.Type {
			diffs = append(diffs, fmt.Errorf("%s: host type %s, shader type %s", h.Name, h.Type, s.Type))
		}
		if h.Offset != s.Offset {
			diffs = append(diffs, fmt.Errorf("%s: host offset %d, shader offset %d", h.Name, h.Offset, s.Offset))
		}
		if h.Size != s.Size {
			diffs = append(diffs, fmt.Errorf("%s: host size %d, shader size %d", h.Name, h.Size, s.Size))
		}
	}
	if host.Size != shader.Size {
		diffs = append(diffs, fmt.Errorf("struct size: host %d, shader %d", host.Size, shader.Size))
	}

	if len(diffs) == 0 {
		return nil
	}
	return &MismatchError{Host: host, Shader: shader, Diffs: diffs}
}

// Verify checks that the Go struct v and the WGSL struct name declared in
// src share one layout, and returns that layout.
func Verify(v any, src, name string) (Table, error) {
	host, err := FromStruct(v)
	if err != nil {
		return Table{}, err
	}
	shader, err := ParseWGSL(src, name)
	if err != nil {
		return Table{}, err
	}
	if err := Compare(host, shader); err != nil {
		return Table{}, err
	}
	return host, nil
}
