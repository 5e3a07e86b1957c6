package easel

// Value is the currency of the interpolation system: an arbitrarily nested
// structure of numeric scalars, opaque non-numeric leaves, and lists. It is
// what interpolation functions produce and what setters receive, mirroring
// positions, sizes, colour channels or any shape gameplay code needs.
//
// The zero Value is a numeric scalar 0.
type Value struct {
	kind valueKind
	num  float64
	leaf any
	list []Value
}

type valueKind uint8

const (
	valueNum valueKind = iota
	valueLeaf
	valueList
)

// noValueMarker marks a leaf as finished during interpolation.
type noValueMarker struct{}

var noValue = Value{kind: valueLeaf, leaf: noValueMarker{}}

// Num returns a numeric scalar Value.
func Num(f float64) Value {
	return Value{kind: valueNum, num: f}
}

// Leaf returns a non-numeric leaf Value. Such leaves pass through
// interpolation unchanged.
func Leaf(v any) Value {
	return Value{kind: valueLeaf, leaf: v}
}

// List returns a list Value of the given elements.
func List(vs ...Value) Value {
	return Value{kind: valueList, list: vs}
}

// Nums returns a list Value of numeric scalars, a shorthand for positions
// and colours.
func Nums(fs ...float64) Value {
	vs := make([]Value, len(fs))
	for i, f := range fs {
		vs[i] = Num(f)
	}
	return Value{kind: valueList, list: vs}
}

// IsNum reports whether v is a numeric scalar.
func (v Value) IsNum() bool {
	return v.kind == valueNum
}

// Float returns the numeric scalar value, or 0 for non-numeric leaves and
// lists.
func (v Value) Float() float64 {
	if v.kind == valueNum {
		return v.num
	}
	return 0
}

// IsList reports whether v is a list.
func (v Value) IsList() bool {
	return v.kind == valueList
}

// Len returns the number of elements for a list Value, 0 otherwise.
func (v Value) Len() int {
	return len(v.list)
}

// At returns the i'th element of a list Value.
func (v Value) At(i int) Value {
	return v.list[i]
}

// LeafValue returns the opaque leaf payload, or nil for scalars and lists.
func (v Value) LeafValue() any {
	if v.kind == valueLeaf {
		return v.leaf
	}
	return nil
}

// Floats flattens all numeric leaves of v in order. Convenient for setters
// that want positional arguments.
func (v Value) Floats() []float64 {
	var out []float64
	v.walk(func(leaf Value) {
		if leaf.kind == valueNum {
			out = append(out, leaf.num)
		}
	})
	return out
}

func (v Value) walk(f func(Value)) {
	if v.kind == valueList {
		for _, e := range v.list {
			e.walk(f)
		}
		return
	}
	f(v)
}

// Equal reports deep equality. Non-numeric leaves compare with ==.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case valueNum:
		return v.num == o.num
	case valueLeaf:
		return v.leaf == o.leaf
	default:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	}
}

// zipApply walks any number of similarly-shaped Values in lockstep and calls
// f on corresponding leaves, building a result with the broadcast shape.
// Scalar arguments broadcast against list arguments; all list arguments at a
// given nesting level must have equal length, anything else is a usage
// error.
func zipApply(f func(leaves []Value) Value, args ...Value) Value {
	n := -1
	for _, a := range args {
		if a.kind == valueList {
			if n >= 0 && len(a.list) != n {
				panic("easel: mismatched value list lengths")
			}
			n = len(a.list)
		}
	}
	if n < 0 {
		return f(args)
	}
	out := make([]Value, n)
	inner := make([]Value, len(args))
	for i := 0; i < n; i++ {
		for j, a := range args {
			if a.kind == valueList {
				inner[j] = a.list[i]
			} else {
				inner[j] = a
			}
		}
		out[i] = zipApply(f, append([]Value(nil), inner...)...)
	}
	return Value{kind: valueList, list: out}
}

// allLeaves reports whether every leaf of v satisfies pred.
func allLeaves(v Value, pred func(Value) bool) bool {
	ok := true
	v.walk(func(leaf Value) {
		if !pred(leaf) {
			ok = false
		}
	})
	return ok
}

// sameShape reports whether two values have the same nested list structure,
// ignoring leaf kinds.
func sameShape(a, b Value) bool {
	if (a.kind == valueList) != (b.kind == valueList) {
		return false
	}
	if a.kind != valueList {
		return true
	}
	if len(a.list) != len(b.list) {
		return false
	}
	for i := range a.list {
		if !sameShape(a.list[i], b.list[i]) {
			return false
		}
	}
	return true
}

// roundValue rounds every numeric leaf of v to the nearest integer, leaving
// other leaves untouched.
func roundValue(v Value) Value {
	return zipApply(func(leaves []Value) Value {
		l := leaves[0]
		if l.kind == valueNum {
			return Num(float64(Round(l.num)))
		}
		return l
	}, v)
}
