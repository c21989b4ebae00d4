package blob

import (
	"github.com/kaspanet/blobdb/serialization"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"
)

// BlobProto is the persisted envelope of a blob: its name, the name of the
// serializer that produced it, and the serializer-specific content.
type BlobProto struct {
	Name    string
	Type    string
	Content []byte
}

// Serialize returns the protobuf encoding of p as a serialization.BlobProto.
func (p *BlobProto) Serialize() ([]byte, error) {
	serialized, err := proto.Marshal(blobProtoToDBBlobProto(p))
	if err != nil {
		return nil, errors.Wrapf(err, "failed serializing blob %s", p.Name)
	}
	return serialized, nil
}

// DeserializeBlobProto decodes a BlobProto produced by Serialize. Unknown
// fields are skipped.
func DeserializeBlobProto(serialized []byte) (*BlobProto, error) {
	dbBlobProto := &serialization.BlobProto{}
	err := proto.Unmarshal(serialized, dbBlobProto)
	if err != nil {
		return nil, errors.Wrap(err, "malformed blob")
	}
	return dbBlobProtoToBlobProto(dbBlobProto), nil
}

func blobProtoToDBBlobProto(p *BlobProto) *serialization.BlobProto {
	return &serialization.BlobProto{
		Name:    p.Name,
		Type:    p.Type,
		Content: p.Content,
	}
}

func dbBlobProtoToBlobProto(dbBlobProto *serialization.BlobProto) *BlobProto {
	var content []byte
	if dbBlobProto.Content != nil {
		content = make([]byte, len(dbBlobProto.Content))
		copy(content, dbBlobProto.Content)
	}
	return &BlobProto{
		Name:    dbBlobProto.Name,
		Type:    dbBlobProto.Type,
		Content: content,
	}
}
