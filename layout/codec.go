package layout

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
)

// Encode serializes a shared struct into the little-endian bytes the shader
// reads. Padding, explicit or trailing, is zero.
func Encode(v any) ([]byte, error) {
	table, err := FromStruct(v)
	if err != nil {
		return nil, err
	}
	val := reflect.Indirect(reflect.ValueOf(v))

	buf := make([]byte, table.Size)
	for i := 0; i < val.NumField(); i++ {
		sf := val.Type().Field(i)
		if sf.Name == "_" || sf.Tag.Get("wgsl") == "-" {
			continue
		}
		writeValue(buf[sf.Offset:], val.Field(i))
	}
	return buf, nil
}

// Decode fills the struct pointed to by v from bytes produced by Encode or
// read back from GPU memory.
func Decode(b []byte, v any) error {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Pointer || val.IsNil() {
		return fmt.Errorf("layout: Decode needs a non-nil pointer, got %T", v)
	}
	table, err := FromStruct(v)
	if err != nil {
		return err
	}
	if uint64(len(b)) < table.Size {
		return fmt.Errorf("layout: %s needs %d bytes, got %d", table.Name, table.Size, len(b))
	}

	val = val.Elem()
	for i := 0; i < val.NumField(); i++ {
		sf := val.Type().Field(i)
		if sf.Name == "_" || sf.Tag.Get("wgsl") == "-" {
			continue
		}
		readValue(b[sf.Offset:], val.Field(i))
	}
	return nil
}

func writeValue(b []byte, field reflect.Value) {
	switch field.Kind() {
	case reflect.Array:
		stride := int(field.Type().Elem().Size())
		for i := 0; i < field.Len(); i++ {
			writeValue(b[i*stride:], field.Index(i))
		}
	case reflect.Float32:
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(field.Float())))
	case reflect.Int32:
		binary.LittleEndian.PutUint32(b, uint32(int32(field.Int())))
	case reflect.Uint32:
		binary.LittleEndian.PutUint32(b, uint32(field.Uint()))
	default:
		panic(fmt.Errorf("unsupported uniform type: %v", field.Type()))
	}
}

func readValue(b []byte, field reflect.Value) {
	switch field.Kind() {
	case reflect.Array:
		stride := int(field.Type().Elem().Size())
		for i := 0; i < field.Len(); i++ {
			readValue(b[i*stride:], field.Index(i))
		}
	case reflect.Float32:
		field.SetFloat(float64(math.Float32frombits(binary.LittleEndian.Uint32(b))))
	case reflect.Int32:
		field.SetInt(int64(int32(binary.LittleEndian.Uint32(b))))
	case reflect.Uint32:
		field.SetUint(uint64(binary.LittleEndian.Uint32(b)))
	default:
		panic(fmt.Errorf("unsupported uniform type: %v", field.Type()))
	}
}
