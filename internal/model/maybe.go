package model

import (
	"bytes"
	"encoding/json"
)

// Unavailable is written in place of a value the API did not give us.
const Unavailable = "N/A"

// Maybe holds a value that may be unavailable. An unavailable value is
// serialized as "N/A", which is distinct from a present zero value.
type Maybe[T any] struct {
	Value T
	Valid bool
}

func Some[T any](v T) Maybe[T] {
	return Maybe[T]{Value: v, Valid: true}
}

func NA[T any]() Maybe[T] {
	return Maybe[T]{}
}

// FromPtr maps nil to unavailable.
func FromPtr[T any](p *T) Maybe[T] {
	if p == nil {
		return NA[T]()
	}
	return Some(*p)
}

func (m Maybe[T]) Ptr() *T {
	if !m.Valid {
		return nil
	}
	v := m.Value
	return &v
}

func (m Maybe[T]) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return json.Marshal(Unavailable)
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON never fails: null, "N/A" and values of the wrong shape all
// decode as unavailable, matching how loosely older snapshots were written.
func (m *Maybe[T]) UnmarshalJSON(data []byte) error {
	*m = NA[T]()
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return nil
	}
	*m = Some(v)
	return nil
}
