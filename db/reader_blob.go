package db

import (
	"reflect"

	"github.com/kaspanet/blobdb/blob"
	"github.com/pkg/errors"
)

// ReaderBlobTypeName is the BlobProto type of serialized Readers.
const ReaderBlobTypeName = "DBReaderProto"

func init() {
	blob.MustRegister(reflect.TypeOf((*Reader)(nil)), ReaderBlobTypeName,
		ReaderSerializer{}, ReaderDeserializer{})
}

// ReaderSerializer serializes blobs holding a *Reader into a BlobProto whose
// content is the Reader's descriptor.
type ReaderSerializer struct{}

// Serialize hands the serialized descriptor of the Reader held by b to
// acceptor. It returns ErrNotAReader if b holds anything else and
// ErrReaderNotOpen if the Reader is closed.
func (ReaderSerializer) Serialize(b *blob.Blob, name string, acceptor blob.SerializationAcceptor) error {
	reader, ok := b.Get().(*Reader)
	if !ok || reader == nil {
		return errors.Wrapf(ErrNotAReader, "blob %s holds %s", name, b.TypeName())
	}

	descriptor, ok := reader.descriptorIfOpen()
	if !ok {
		return errors.Wrapf(ErrReaderNotOpen, "blob %s", name)
	}
	descriptor.Name = name
	content, err := descriptor.Serialize()
	if err != nil {
		return err
	}
	proto := &blob.BlobProto{
		Name:    name,
		Type:    ReaderBlobTypeName,
		Content: content,
	}
	serialized, err := proto.Serialize()
	if err != nil {
		return err
	}
	return acceptor(name, serialized)
}

// ReaderDeserializer rebuilds a Reader from a serialized descriptor.
type ReaderDeserializer struct {
	// Registry is used to reopen the database. DefaultRegistry is used
	// when nil.
	Registry *Registry
}

// Deserialize opens a Reader from the descriptor in proto and stores it in
// b, closing whatever b held before.
func (d ReaderDeserializer) Deserialize(proto *blob.BlobProto, b *blob.Blob) error {
	descriptor, err := DeserializeReaderDescriptor(proto.Content)
	if err != nil {
		return errors.Wrapf(err, "blob %s", proto.Name)
	}

	registry := d.Registry
	if registry == nil {
		registry = DefaultRegistry
	}
	reader, err := registry.NewReaderFromDescriptor(descriptor)
	if err != nil {
		return err
	}

	err = b.Reset()
	if err != nil {
		log.Warnf("Failed closing the previous value of blob %s: %s", proto.Name, err)
	}
	b.Set(reader)
	return nil
}
