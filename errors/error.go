package errors

import (
	"fmt"
)

// SchemaError occurs when a Record does not have the shape a stage expects,
// e.g. it is too short or a field which must be an integer is not
type SchemaError struct {
	Field  int
	Width  int
	Value  string
	Reason string
}

// Error returns a textual representation of this SchemaError
func (e SchemaError) Error() string {
	if len(e.Value) > 0 {
		return fmt.Sprintf("Field %d of record with %d fields (%q): %s", e.Field, e.Width, e.Value, e.Reason)
	}
	return fmt.Sprintf("Field %d of record with %d fields: %s", e.Field, e.Width, e.Reason)
}

// UnsupportedBackendError occurs when a backend specification names an unknown execution engine
type UnsupportedBackendError struct{ Name string }

// Error returns a textual representation of this UnsupportedBackendError
func (e UnsupportedBackendError) Error() string {
	return fmt.Sprintf("Unsupported backend %q", e.Name)
}

// MalformedHintError occurs when an optimizer hint or backend specification is not well-formed
type MalformedHintError struct {
	Hint   string
	Reason string
}

// Error returns a textual representation of this MalformedHintError
func (e MalformedHintError) Error() string {
	return fmt.Sprintf("Malformed %s: %s", e.Hint, e.Reason)
}

// ResourceUnavailableError occurs when a resource required to run a job cannot be reached
type ResourceUnavailableError struct {
	Resource string
	Err      error
}

// Error returns a textual representation of this ResourceUnavailableError
func (e ResourceUnavailableError) Error() string {
	return fmt.Sprintf("Resource %s is unavailable: %v", e.Resource, e.Err)
}

// Unwrap returns the underlying cause of this ResourceUnavailableError
func (e ResourceUnavailableError) Unwrap() error {
	return e.Err
}

// NotKeyedError occurs when a keyed operation is attempted against rows which have no group keys
type NotKeyedError struct{}

// Error returns a textual representation of this NotKeyedError
func (e NotKeyedError) Error() string {
	return "Partition rows are not keyed"
}

// PartitionFullError occurs when a Partition has reached its max size an a new row insertion is attempted
type PartitionFullError struct{}

// Error returns a textual representation of this PartitionFullError
func (e PartitionFullError) Error() string {
	return "Partition is full"
}

// NoMorePartitionsError occurs when there are no more partitions in a PartitionIterator
type NoMorePartitionsError struct{}

// Error returns a textual representation of this NoMorePartitionsError
func (e NoMorePartitionsError) Error() string {
	return "No more partitions"
}
