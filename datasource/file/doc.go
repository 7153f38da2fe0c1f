// Package file provides a DataSource which reads data from URI-addressed files
// through a storage.FileSystem. Files are loaded in their entirety, in the order
// they were supplied.
package file
