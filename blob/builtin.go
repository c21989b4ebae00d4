package blob

import (
	"reflect"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// Type names of the builtin serializers.
const (
	BytesTypeName  = "bytes"
	StringTypeName = "string"
	Int64TypeName  = "int64"
)

func init() {
	MustRegister(reflect.TypeOf([]byte(nil)), BytesTypeName,
		SerializerFunc(serializeBytes), DeserializerFunc(deserializeBytes))
	MustRegister(reflect.TypeOf(""), StringTypeName,
		SerializerFunc(serializeString), DeserializerFunc(deserializeString))
	MustRegister(reflect.TypeOf(int64(0)), Int64TypeName,
		SerializerFunc(serializeInt64), DeserializerFunc(deserializeInt64))
}

func serializeBytes(blob *Blob, name string, acceptor SerializationAcceptor) error {
	proto := &BlobProto{
		Name:    name,
		Type:    BytesTypeName,
		Content: blob.Get().([]byte),
	}
	return acceptBlobProto(acceptor, proto)
}

func deserializeBytes(proto *BlobProto, blob *Blob) error {
	blob.Set(proto.Content)
	return nil
}

func serializeString(blob *Blob, name string, acceptor SerializationAcceptor) error {
	proto := &BlobProto{
		Name:    name,
		Type:    StringTypeName,
		Content: []byte(blob.Get().(string)),
	}
	return acceptBlobProto(acceptor, proto)
}

func deserializeString(proto *BlobProto, blob *Blob) error {
	blob.Set(string(proto.Content))
	return nil
}

func serializeInt64(blob *Blob, name string, acceptor SerializationAcceptor) error {
	value := blob.Get().(int64)
	proto := &BlobProto{
		Name:    name,
		Type:    Int64TypeName,
		Content: protowire.AppendVarint(nil, protowire.EncodeZigZag(value)),
	}
	return acceptBlobProto(acceptor, proto)
}

func deserializeInt64(proto *BlobProto, blob *Blob) error {
	encoded, length := protowire.ConsumeVarint(proto.Content)
	if length < 0 {
		return errors.Wrapf(protowire.ParseError(length), "malformed int64 blob %s", proto.Name)
	}
	if length != len(proto.Content) {
		return errors.Errorf("int64 blob %s has %d trailing bytes", proto.Name, len(proto.Content)-length)
	}
	blob.Set(protowire.DecodeZigZag(encoded))
	return nil
}

func acceptBlobProto(acceptor SerializationAcceptor, proto *BlobProto) error {
	serialized, err := proto.Serialize()
	if err != nil {
		return err
	}
	return acceptor(proto.Name, serialized)
}
