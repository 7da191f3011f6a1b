// Package loader reads a directory of numbered SQL upgrade files and turns
// it into the ordered sequence of steps the rest of the system operates on.
//
// A directory is expected to be flat and to contain files named
// NNN_description.sql (or .ddl), where NNN is a decimal file id. Within each
// file, steps are introduced by header lines of the form
//
//	--- 0: create users table
//
// and everything up to the next header (or end of file) is that step's SQL
// body. File ids and step ids must both be dense sequences starting at zero;
// any gap, duplicate, or malformed name/header is reported as a typed error
// before anything touches a database.
package loader
