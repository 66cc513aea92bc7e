package tree

// Class is the structural classification of a tree value: an array, an
// object, or a primitive. Scalar kinds, null included, all share
// ClassPrimitive.
type Class uint8

const (
	ClassPrimitive Class = iota
	ClassArray
	ClassObject
)

func (c Class) String() string {
	switch c {
	case ClassPrimitive:
		return "primitive"
	case ClassArray:
		return "array"
	case ClassObject:
		return "object"
	default:
		return "unknown"
	}
}

// ClassOf classifies v.
func ClassOf(v any) Class {
	switch KindOf(v) {
	case KindArray:
		return ClassArray
	case KindObject:
		return ClassObject
	default:
		return ClassPrimitive
	}
}

// SameClass reports whether a and b have the same structural classification.
func SameClass(a, b any) bool {
	return ClassOf(a) == ClassOf(b)
}
