/*
Package ops loads workspace blobs from a database and saves them back.

Each record of a saved database is one blob: the key is the blob name and
the value is a serialized BlobProto. Load fills output blobs from such a
database, or from a shared db.Reader held by another blob. Save writes a set
of blobs into a new database. Snapshot saves every few iterations into a
database whose name is derived from the iteration counter.
*/
package ops
