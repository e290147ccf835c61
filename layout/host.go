package layout

import (
	"fmt"
	"reflect"
	"strings"
)

// FromStruct builds the layout table of a Go struct meant for GPU upload.
//
// Each shared field carries a `wgsl:"name"` tag naming the shader member;
// the WGSL type is derived from the Go type. Blank `_` fields are explicit
// padding and are left out of the table. The result is rejected with
// ErrHostLayout when the Go compiler placed a field, or sized the struct,
// differently from the WGSL rules.
func FromStruct(v any) (Table, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return Table{}, fmt.Errorf("layout: %T is not a struct: %w", v, ErrUnsupportedType)
	}

	var decls []Decl
	var goOffsets []uint64
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Name == "_" {
			continue
		}
		tag := field.Tag.Get("wgsl")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "" {
			name = field.Name
		}
		wgslType, err := wgslTypeOf(field.Type)
		if err != nil {
			return Table{}, fmt.Errorf("%s.%s: %w", t.Name(), field.Name, err)
		}
		decls = append(decls, Decl{Name: name, Type: wgslType})
		goOffsets = append(goOffsets, uint64(field.Offset))
	}

	table, err := Build(t.Name(), decls)
	if err != nil {
		return Table{}, err
	}

	for i, f := range table.Fields {
		if goOffsets[i] != f.Offset {
			return Table{}, fmt.Errorf("%s.%s: Go offset %d, WGSL offset %d: %w",
				t.Name(), f.Name, goOffsets[i], f.Offset, ErrHostLayout)
		}
	}
	if uint64(t.Size()) != table.Size {
		return Table{}, fmt.Errorf("%s: Go size %d, WGSL size %d: %w",
			t.Name(), t.Size(), table.Size, ErrHostLayout)
	}
	return table, nil
}

func wgslTypeOf(t reflect.Type) (string, error) {
	switch t.Kind() {
	case reflect.Float32:
		return "f32", nil
	case reflect.Int32:
		return "i32", nil
	case reflect.Uint32:
		return "u32", nil
	case reflect.Array:
		elem, err := wgslTypeOf(t.Elem())
		if err != nil || t.Elem().Kind() == reflect.Array {
			break
		}
		switch t.Len() {
		case 2, 3, 4:
			return fmt.Sprintf("vec%d<%s>", t.Len(), elem), nil
		case 16:
			if elem == "f32" {
				return "mat4x4<f32>", nil
			}
		}
	}
	return "", fmt.Errorf("%s: %w", t, ErrUnsupportedType)
}
