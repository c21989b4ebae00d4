/*
Package db provides a pluggable key-value database abstraction used to persist
and restore named binary blobs.

# Overview

Backends implement the Database, Cursor and Transaction interfaces and
register a Constructor under a type name, usually from an init function in
the backend package. Callers never reference backend types directly; they
call Create with a type name, a source and a Mode:

	database, err := db.Create("leveldb", "/tmp/params", db.ModeNew)

Importing github.com/kaspanet/blobdb/db/backends/all registers every
bundled backend.

# Reader

Reader wraps one Database and one Cursor and presents a cyclic view over the
records: Read returns the current record and advances, going back to the
first record after the last one. Read and SeekToFirst are safe for concurrent
use, so several consumers can stream the same dataset. The cursor position
is mutable state shared by everyone holding the Reader.

A Reader's position can be captured as a ReaderDescriptor and restored later
against any backend that supports seeking.
*/
package db
