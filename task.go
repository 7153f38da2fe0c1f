package crimeflow

// A Task is an action or transformation applied
// to Partitions of Records.
type Task interface {
	RunWorker(previous OperablePartition) ([]OperablePartition, error)
}
