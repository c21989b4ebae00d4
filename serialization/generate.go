//go:generate protoc --go_out=. --go_opt=paths=source_relative blobdb.proto

// Package serialization holds the protobuf messages blobs and reader
// positions are persisted as.
package serialization
