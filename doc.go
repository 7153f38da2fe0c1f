// Package crimeflow contains the core components of crimeflow, a framework for declarative
// record-processing pipelines which run against interchangeable execution backends.
// This root package defines the types employed during regular use of the framework
// (Records, DataFrames, operations and cardinality estimates), as well as those used
// when extending it with new DataSources, parsers and backends.
package crimeflow
