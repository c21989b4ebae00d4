package blob

import (
	"reflect"
	"sync"

	"github.com/pkg/errors"
)

var (
	// ErrNoSerializer denotes that no serializer is registered for the
	// type of value a blob holds.
	ErrNoSerializer = errors.New("no serializer registered for blob type")

	// ErrNoDeserializer denotes that no deserializer is registered for
	// the type named in a BlobProto.
	ErrNoDeserializer = errors.New("no deserializer registered for blob type")

	// ErrEmptyBlob is returned when serializing a blob that holds nothing.
	ErrEmptyBlob = errors.New("blob is empty")
)

// SerializationAcceptor receives the serialized form of a blob. name is the
// name the blob is stored under and data is a serialized BlobProto.
type SerializationAcceptor func(name string, data []byte) error

// Serializer turns a blob holding a value of one specific type into one or
// more serialized BlobProtos handed to acceptor.
type Serializer interface {
	Serialize(blob *Blob, name string, acceptor SerializationAcceptor) error
}

// Deserializer fills blob from a BlobProto of one specific type name.
type Deserializer interface {
	Deserialize(proto *BlobProto, blob *Blob) error
}

// SerializerFunc adapts a function to the Serializer interface.
type SerializerFunc func(blob *Blob, name string, acceptor SerializationAcceptor) error

// Serialize calls f.
func (f SerializerFunc) Serialize(blob *Blob, name string, acceptor SerializationAcceptor) error {
	return f(blob, name, acceptor)
}

// DeserializerFunc adapts a function to the Deserializer interface.
type DeserializerFunc func(proto *BlobProto, blob *Blob) error

// Deserialize calls f.
func (f DeserializerFunc) Deserialize(proto *BlobProto, blob *Blob) error {
	return f(proto, blob)
}

var (
	serializers   = make(map[reflect.Type]Serializer)
	deserializers = make(map[string]Deserializer)
	registryLock  sync.RWMutex
)

// RegisterSerializer registers the serializer used for blobs holding values
// of valueType.
func RegisterSerializer(valueType reflect.Type, serializer Serializer) error {
	registryLock.Lock()
	defer registryLock.Unlock()

	if _, ok := serializers[valueType]; ok {
		return errors.Errorf("a serializer for %s is already registered", valueType)
	}
	serializers[valueType] = serializer
	return nil
}

// RegisterDeserializer registers the deserializer used for BlobProtos whose
// Type is typeName.
func RegisterDeserializer(typeName string, deserializer Deserializer) error {
	registryLock.Lock()
	defer registryLock.Unlock()

	if _, ok := deserializers[typeName]; ok {
		return errors.Errorf("a deserializer for %s is already registered", typeName)
	}
	deserializers[typeName] = deserializer
	return nil
}

// MustRegister registers a serializer and a deserializer pair, panicking on
// failure. It's meant to be called from init functions.
func MustRegister(valueType reflect.Type, typeName string, serializer Serializer, deserializer Deserializer) {
	err := RegisterSerializer(valueType, serializer)
	if err != nil {
		panic(err)
	}
	err = RegisterDeserializer(typeName, deserializer)
	if err != nil {
		panic(err)
	}
}

// Serialize serializes blob under name using the serializer registered for
// the type of its value.
func Serialize(blob *Blob, name string, acceptor SerializationAcceptor) error {
	if blob.IsEmpty() {
		return errors.Wrapf(ErrEmptyBlob, "blob %s", name)
	}

	registryLock.RLock()
	serializer, ok := serializers[blob.Type()]
	registryLock.RUnlock()
	if !ok {
		return errors.Wrapf(ErrNoSerializer, "blob %s holds %s", name, blob.TypeName())
	}
	log.Tracef("Serializing blob %s of type %s", name, blob.TypeName())
	return serializer.Serialize(blob, name, acceptor)
}

// SerializeToBytes serializes a blob whose serializer produces a single
// BlobProto and returns it.
func SerializeToBytes(blob *Blob, name string) ([]byte, error) {
	var serialized []byte
	accepted := 0
	err := Serialize(blob, name, func(_ string, data []byte) error {
		serialized = data
		accepted++
		return nil
	})
	if err != nil {
		return nil, err
	}
	if accepted != 1 {
		return nil, errors.Errorf("blob %s serialized into %d parts, expected exactly one", name, accepted)
	}
	return serialized, nil
}

// Deserialize fills blob from proto using the deserializer registered for
// proto.Type.
func Deserialize(proto *BlobProto, blob *Blob) error {
	registryLock.RLock()
	deserializer, ok := deserializers[proto.Type]
	registryLock.RUnlock()
	if !ok {
		return errors.Wrapf(ErrNoDeserializer, "blob %s has type %s", proto.Name, proto.Type)
	}
	log.Tracef("Deserializing blob %s of type %s", proto.Name, proto.Type)
	return deserializer.Deserialize(proto, blob)
}

// DeserializeFromBytes decodes a serialized BlobProto and fills blob from it.
func DeserializeFromBytes(serialized []byte, blob *Blob) error {
	proto, err := DeserializeBlobProto(serialized)
	if err != nil {
		return err
	}
	return Deserialize(proto, blob)
}
