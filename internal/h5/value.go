package h5

type valueClass int

const (
	classNone valueClass = iota
	classString
	classBool
	classInt
	classFloat
	classBytes
)

func scalarClass(v any) valueClass {
	switch v.(type) {
	case string:
		return classString
	case bool:
		return classBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return classInt
	case float32, float64:
		return classFloat
	case []byte:
		return classBytes
	}
	return classNone
}

// nativeValue reports whether the format can hold v directly as dataset
// data or an attribute value: scalars, byte strings, and homogeneous
// one-dimensional sequences of a single scalar kind. Everything else
// (nil, mappings, nested or mixed sequences) is rejected; the copiers in
// the nexus package recover those via JSON fallback encoding.
func nativeValue(v any) bool {
	if scalarClass(v) != classNone {
		return true
	}
	switch s := v.(type) {
	case []string, []bool, []int, []int64, []float64:
		return true
	case []any:
		want := classNone
		for _, el := range s {
			c := scalarClass(el)
			if c == classNone {
				return false
			}
			if want == classNone {
				want = c
				continue
			}
			if c != want {
				return false
			}
		}
		return true
	}
	return false
}
