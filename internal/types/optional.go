package types

import "fmt"

// Optional holds a value that is either unspecified or explicitly set.
// The zero value is unspecified. Setting a value to its type's zero value
// (false, "") is distinct from leaving it unspecified.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns an Optional set to v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None returns an unspecified Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// IsSet reports whether a value was specified.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// Get returns the value and whether it was specified.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// OrElse returns the value if specified, otherwise def.
func (o Optional[T]) OrElse(def T) T {
	if o.set {
		return o.value
	}
	return def
}

func (o Optional[T]) String() string {
	if !o.set {
		return "<unset>"
	}
	return fmt.Sprintf("%v", o.value)
}
