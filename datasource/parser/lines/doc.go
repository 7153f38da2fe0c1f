// Package lines provides a DataSourceParser which turns line-oriented text into
// Partitions of single-field Records, one Record per line. Splitting lines into
// fields is left to the DataFrame's own operations.
package lines
