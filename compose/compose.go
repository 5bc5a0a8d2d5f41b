// Package compose provides right-to-left function composition.
//
// Compose(f, g, h) returns a function equivalent to x -> f(g(h(x))): the
// rightmost function receives the original argument and every other
// function receives the result of the function to its right.
//
//	inc := func(n int) int { return n + 1 }
//	double := func(n int) int { return n * 2 }
//	f := compose.Compose(inc, double)
//	f(3) // 7
//
// Compose is homogeneous over T. Compose2 and Compose3 cover pipelines whose
// stages change type.
package compose

// Compose composes fns from right to left.
//
// With no functions the result is the identity function. With exactly one
// function that function is returned unchanged, not wrapped. Panics raised by
// any stage propagate to the caller.
func Compose[T any](fns ...func(T) T) func(T) T {
	switch len(fns) {
	case 0:
		return Identity[T]
	case 1:
		return fns[0]
	}

	composed := fns[len(fns)-1]
	for i := len(fns) - 2; i >= 0; i-- {
		outer, inner := fns[i], composed
		composed = func(v T) T {
			return outer(inner(v))
		}
	}
	return composed
}

// Compose2 returns x -> f(g(x)).
func Compose2[A, B, C any](f func(B) C, g func(A) B) func(A) C {
	return func(a A) C {
		return f(g(a))
	}
}

// Compose3 returns x -> f(g(h(x))).
func Compose3[A, B, C, D any](f func(C) D, g func(B) C, h func(A) B) func(A) D {
	return func(a A) D {
		return f(g(h(a)))
	}
}

// Identity returns its argument.
func Identity[T any](v T) T {
	return v
}
