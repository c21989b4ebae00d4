package blob

import (
	"io"
	"reflect"
)

// Blob is a named slot in a workspace that holds a single value of any
// type. It is not safe for concurrent mutation.
type Blob struct {
	value interface{}
}

// New returns a Blob holding value.
func New(value interface{}) *Blob {
	return &Blob{value: value}
}

// Get returns the value the blob holds, or nil.
func (b *Blob) Get() interface{} {
	return b.value
}

// Set replaces the value of the blob. The previous value is not closed;
// use Reset for that.
func (b *Blob) Set(value interface{}) {
	b.value = value
}

// Reset closes the held value if it is an io.Closer and empties the blob.
func (b *Blob) Reset() error {
	value := b.value
	b.value = nil
	if closer, ok := value.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// IsEmpty returns whether the blob holds no value.
func (b *Blob) IsEmpty() bool {
	return b.value == nil
}

// Type returns the dynamic type of the held value, or nil when empty.
func (b *Blob) Type() reflect.Type {
	if b.value == nil {
		return nil
	}
	return reflect.TypeOf(b.value)
}

// TypeName returns a human readable name of the held value's type.
func (b *Blob) TypeName() string {
	valueType := b.Type()
	if valueType == nil {
		return "nothing"
	}
	return valueType.String()
}
