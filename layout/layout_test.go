package layout

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type singleFloat struct {
	Time float32 `wgsl:"time"`
}

type lightBlock struct {
	Position  [3]float32 `wgsl:"position"`
	Intensity float32    `wgsl:"intensity"`
	Color     [3]float32 `wgsl:"color"`
	_         float32
	ViewProj  [16]float32 `wgsl:"view_proj"`
	Count     uint32      `wgsl:"count"`
	Mode      int32       `wgsl:"mode"`
	_         [2]uint32
}

type unpaddedVec3s struct {
	A [3]float32 `wgsl:"a"`
	B [3]float32 `wgsl:"b"`
}

const lightBlockWGSL = `
// shared with lightBlock
struct LightBlock {
    position: vec3<f32>,
    intensity: f32,   /* packs into vec3 tail */
    color: vec3f,
    view_proj: mat4x4<f32>,
    count: u32,
    mode: i32,
};

@group(0) @binding(0) var<uniform> light: LightBlock;
`

func TestBuild_WGSLRules(t *testing.T) {
	table, err := Build("T", []Decl{
		{Name: "a", Type: "f32"},
		{Name: "b", Type: "vec3<f32>"},
		{Name: "c", Type: "vec2<f32>"},
		{Name: "d", Type: "f32", Align: 16},
		{Name: "e", Type: "u32", Size: 12},
	})
	require.NoError(t, err)

	offsets := []uint64{0, 16, 32, 48, 52}
	for i, f := range table.Fields {
		assert.Equal(t, offsets[i], f.Offset, "offset of %s", f.Name)
	}
	assert.Equal(t, uint64(16), table.Align)
	assert.Equal(t, uint64(64), table.Size)
}

func TestBuild_Rejects(t *testing.T) {
	_, err := Build("T", []Decl{{Name: "a", Type: "f64"}})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Build("T", []Decl{{Name: "a", Type: "vec4<f32>", Align: 4}})
	assert.Error(t, err)

	_, err = Build("T", []Decl{{Name: "a", Type: "vec4<f32>", Size: 8}})
	assert.Error(t, err)
}

func TestFromStruct_SingleFloat(t *testing.T) {
	table, err := FromStruct(singleFloat{})
	require.NoError(t, err)

	require.Len(t, table.Fields, 1)
	assert.Equal(t, "time", table.Fields[0].Name)
	assert.Equal(t, "f32", table.Fields[0].Type)
	assert.Equal(t, uint64(0), table.Fields[0].Offset)
	assert.Equal(t, uint64(4), table.Size)
	assert.Equal(t, uint64(4), table.Align)
}

func TestFromStruct_PaddingMustBeExplicit(t *testing.T) {
	_, err := FromStruct(&lightBlock{})
	require.NoError(t, err)

	_, err = FromStruct(unpaddedVec3s{})
	assert.ErrorIs(t, err, ErrHostLayout)

	_, err = FromStruct(struct{ X float64 }{})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = FromStruct(42)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestParseWGSL(t *testing.T) {
	table, err := ParseWGSL(lightBlockWGSL, "LightBlock")
	require.NoError(t, err)

	names := []string{"position", "intensity", "color", "view_proj", "count", "mode"}
	offsets := []uint64{0, 12, 16, 32, 96, 100}
	require.Len(t, table.Fields, len(names))
	for i, f := range table.Fields {
		assert.Equal(t, names[i], f.Name)
		assert.Equal(t, offsets[i], f.Offset, "offset of %s", f.Name)
	}
	assert.Equal(t, uint64(112), table.Size)

	_, err = ParseWGSL(lightBlockWGSL, "Missing")
	assert.ErrorIs(t, err, ErrStructNotFound)

	assert.True(t, HasStruct(lightBlockWGSL, "LightBlock"))
	assert.False(t, HasStruct("// struct LightBlock { a: f32 }", "LightBlock"))
}

func TestParseWGSL_Attributes(t *testing.T) {
	src := `struct P { @align(16) a: f32; @size(8) b: u32; c: vec2< f32 > }`
	table, err := ParseWGSL(src, "P")
	require.NoError(t, err)

	assert.Equal(t, uint64(0), table.Fields[0].Offset)
	assert.Equal(t, uint64(4), table.Fields[1].Offset)
	assert.Equal(t, uint64(8), table.Fields[1].Size)
	assert.Equal(t, uint64(16), table.Fields[2].Offset)
	assert.Equal(t, "vec2<f32>", table.Fields[2].Type)
	assert.Equal(t, uint64(32), table.Size)
}

func TestParseWGSL_SuffixedAttributeLiterals(t *testing.T) {
	plain, err := ParseWGSL(`struct P { @align(16) a: f32, @size(8) b: u32 }`, "P")
	require.NoError(t, err)

	for _, src := range []string{
		`struct P { @align(16u) a: f32, @size(8i) b: u32 }`,
		`struct P { @align(0x10u) a: f32, @size( 8u ) b: u32 }`,
	} {
		table, err := ParseWGSL(src, "P")
		require.NoError(t, err, src)
		assert.Equal(t, plain, table, src)
	}

	_, err = ParseWGSL(`struct P { @size(8f) a: f32 }`, "P")
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	table, err := Verify(lightBlock{}, lightBlockWGSL, "LightBlock")
	require.NoError(t, err)
	assert.Equal(t, uint64(112), table.Size)

	_, err = Verify(singleFloat{}, `struct S { time: f32, extra: f32 }`, "S")
	var mismatch *MismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Len(t, mismatch.Diffs, 2)

	_, err = Verify(singleFloat{}, `struct S { time: u32 }`, "S")
	require.True(t, errors.As(err, &mismatch))
	assert.Contains(t, err.Error(), "host type f32, shader type u32")
}

func TestEncodeDecode(t *testing.T) {
	in := lightBlock{
		Position:  [3]float32{1, 2, 3},
		Intensity: 2.5,
		Color:     [3]float32{0.25, 0.5, 0.75},
		Count:     7,
		Mode:      -1,
	}
	in.ViewProj[0], in.ViewProj[15] = 1, 1

	b, err := Encode(in)
	require.NoError(t, err)
	assert.Len(t, b, 112)
	// padding after color stays zero
	assert.Equal(t, []byte{0, 0, 0, 0}, b[28:32])

	var out lightBlock
	require.NoError(t, Decode(b, &out))
	assert.Equal(t, in, out)

	assert.Error(t, Decode(b[:8], &out))
	assert.Error(t, Decode(b, out))
}

func TestEncode_PiBits(t *testing.T) {
	b, err := Encode(singleFloat{Time: math.Pi})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDB, 0x0F, 0x49, 0x40}, b)

	// 3.14159 is 11 ulps below float32(pi)
	b, err = Encode(singleFloat{Time: 3.14159})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xD0, 0x0F, 0x49, 0x40}, b)
}
