// Package layout describes the byte layout of structs shared between Go host
// code and WGSL shaders, and checks that both sides agree on it.
//
// A Table is the language-neutral form: field names, WGSL types, offsets and
// sizes. FromStruct builds one from a Go struct, ParseWGSL builds one from
// shader source, and Compare reports every difference between the two.
package layout

import "strings"

// Type is a host-shareable WGSL type with its size and alignment as
// defined by the WGSL memory layout rules.
type Type struct {
	Name  string
	Size  uint64
	Align uint64
}

// Types lists the WGSL types that may appear in shared structs.
// See: https://www.w3.org/TR/WGSL/#alignment-and-size
var Types = map[string]Type{
	"f32": {Name: "f32", Size: 4, Align: 4},
	"i32": {Name: "i32", Size: 4, Align: 4},
	"u32": {Name: "u32", Size: 4, Align: 4},

	"vec2<f32>": {Name: "vec2<f32>", Size: 8, Align: 8},
	"vec2<i32>": {Name: "vec2<i32>", Size: 8, Align: 8},
	"vec2<u32>": {Name: "vec2<u32>", Size: 8, Align: 8},

	// vec3 occupies 12 bytes but aligns like vec4
	"vec3<f32>": {Name: "vec3<f32>", Size: 12, Align: 16},
	"vec3<i32>": {Name: "vec3<i32>", Size: 12, Align: 16},
	"vec3<u32>": {Name: "vec3<u32>", Size: 12, Align: 16},

	"vec4<f32>": {Name: "vec4<f32>", Size: 16, Align: 16},
	"vec4<i32>": {Name: "vec4<i32>", Size: 16, Align: 16},
	"vec4<u32>": {Name: "vec4<u32>", Size: 16, Align: 16},

	"mat3x3<f32>": {Name: "mat3x3<f32>", Size: 48, Align: 16},
	"mat4x4<f32>": {Name: "mat4x4<f32>", Size: 64, Align: 16},
}

// aliases maps WGSL predeclared shorthands to their canonical spelling.
var aliases = map[string]string{
	"vec2f":   "vec2<f32>",
	"vec2i":   "vec2<i32>",
	"vec2u":   "vec2<u32>",
	"vec3f":   "vec3<f32>",
	"vec3i":   "vec3<i32>",
	"vec3u":   "vec3<u32>",
	"vec4f":   "vec4<f32>",
	"vec4i":   "vec4<i32>",
	"vec4u":   "vec4<u32>",
	"mat3x3f": "mat3x3<f32>",
	"mat4x4f": "mat4x4<f32>",
}

// LookupType resolves a WGSL type name, accepting shorthand aliases and
// whitespace inside the angle brackets.
func LookupType(name string) (Type, bool) {
	name = strings.Join(strings.Fields(name), "")
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	t, ok := Types[name]
	return t, ok
}

func roundUp(align, n uint64) uint64 {
	if align == 0 {
		return n
	}
	return (n + align - 1) / align * align
}
