package ctypes

// SizeOf estimates the object size of t in bytes for an LP64 target.
// Records carry the estimate computed from their fields; unknown or
// incomplete types report 0.
func SizeOf(t *Type) int {
	if t == nil {
		return 0
	}
	switch t.Kind {
	case Bool, Char, SChar, UChar:
		return 1
	case Short, UShort:
		return 2
	case Int, UInt, Float, Enum:
		return 4
	case Long, ULong, LongLong, ULongLong, Double, Pointer, Nullptr:
		return 8
	case LongDouble:
		return 16
	case LValueRef, RValueRef:
		return 8
	case Record:
		return t.Size
	case Typedef:
		return SizeOf(t.Elem)
	default:
		return 0
	}
}
