package model

import "encoding/json"

// Nullable is a field of a partial update. It tells a field that is missing in the JSON (Set is
// false) from one that was sent as null (Set is true, Valid is false).
type Nullable[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// Some returns a field that was sent with the given value.
func Some[T any](value T) Nullable[T] {
	return Nullable[T]{Set: true, Valid: true, Value: value}
}

// Null returns a field that was sent as null.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// UnmarshalJSON is only called for fields present in the JSON, including an explicit null.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	var zero T
	n.Set = true
	n.Valid = false
	n.Value = zero
	if string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// Ptr returns a copy of the value, or nil if it is null or missing.
func (n Nullable[T]) Ptr() *T {
	if !n.Valid {
		return nil
	}
	value := n.Value
	return &value
}

// Interface returns the value, or nil if it is null or missing. The database driver stores nil
// as NULL.
func (n Nullable[T]) Interface() interface{} {
	if !n.Valid {
		return nil
	}
	return n.Value
}
