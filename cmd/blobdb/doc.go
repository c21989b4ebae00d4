/*
blobdb is a command line tool for inspecting and moving data between the
key-value databases supported by the db package.

Usage:

	blobdb [OPTIONS] <command> [COMMAND OPTIONS]

Commands:

	put     Writes key=value records to a database in a single transaction
	get     Prints the value stored under a key
	dump    Prints the records of a database in cursor order
	count   Counts the records of a database
	copy    Copies every record of a database into a new one
	stream  Shares one cyclic reader between several goroutines

Every command takes --dbtype and --db. Supported database types are leveldb,
pebble, bolt, flatfile and memory.

The long form of all option flags (except -C) can be specified in an INI
configuration file given with -C (--configfile). Options of a command go in a
section named after it. For an up-to-date help message:

	blobdb <command> --help
*/
package main
