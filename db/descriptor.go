package db

import (
	"github.com/kaspanet/blobdb/serialization"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"
)

// ReaderDescriptor is the persisted form of a Reader: enough to reopen the
// same database and, when HasKey is set, resume from the record at Key.
type ReaderDescriptor struct {
	// Name is the name of the blob holding the Reader, if any.
	Name   string
	DBType string
	Source string

	// Key is only meaningful when HasKey is true. An empty Key with
	// HasKey set is a valid position.
	Key    []byte
	HasKey bool
}

// Serialize returns the protobuf encoding of the descriptor as a
// serialization.DBReaderProto. The key field is left out entirely when
// HasKey is false.
func (d *ReaderDescriptor) Serialize() ([]byte, error) {
	serialized, err := proto.Marshal(readerDescriptorToDBReaderProto(d))
	if err != nil {
		return nil, errors.Wrapf(err, "failed serializing descriptor of %s", d.Source)
	}
	return serialized, nil
}

// DeserializeReaderDescriptor decodes a descriptor produced by Serialize.
// Unknown fields are skipped.
func DeserializeReaderDescriptor(serialized []byte) (*ReaderDescriptor, error) {
	dbReaderProto := &serialization.DBReaderProto{}
	err := proto.Unmarshal(serialized, dbReaderProto)
	if err != nil {
		return nil, errors.Wrap(err, "malformed reader descriptor")
	}
	return dbReaderProtoToReaderDescriptor(dbReaderProto), nil
}

func readerDescriptorToDBReaderProto(d *ReaderDescriptor) *serialization.DBReaderProto {
	dbReaderProto := &serialization.DBReaderProto{
		Name:   d.Name,
		Source: d.Source,
		DbType: d.DBType,
	}
	if d.HasKey {
		// A nil key would clear the presence bit.
		dbReaderProto.Key = d.Key
		if dbReaderProto.Key == nil {
			dbReaderProto.Key = []byte{}
		}
	}
	return dbReaderProto
}

func dbReaderProtoToReaderDescriptor(dbReaderProto *serialization.DBReaderProto) *ReaderDescriptor {
	descriptor := &ReaderDescriptor{
		Name:   dbReaderProto.Name,
		DBType: dbReaderProto.DbType,
		Source: dbReaderProto.Source,
	}
	if dbReaderProto.Key != nil {
		descriptor.Key = CopyBytes(dbReaderProto.Key)
		descriptor.HasKey = true
	}
	return descriptor
}
