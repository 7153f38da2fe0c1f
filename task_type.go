package crimeflow

// TaskType describes the type of a Task, used internally to control behaviour
type TaskType string

const (
	// NoOpTaskType indicates that this task does not manipulate data
	NoOpTaskType TaskType = "no_op"
	// ExtractTaskType indicates that this task sources data from a DataSource
	ExtractTaskType TaskType = "extract"
	// MapTaskType indicates that this task triggers a Map
	MapTaskType TaskType = "map"
	// FilterTaskType indicates that this task triggers a Filter
	FilterTaskType TaskType = "filter"
	// FlatMapTaskType indicates that this task triggers a FlatMap
	FlatMapTaskType TaskType = "flatmap"
	// SortTaskType indicates that this task triggers a global Sort
	SortTaskType TaskType = "sort"
	// KeyTaskType indicates that this task turns Records into KeyedRecords
	KeyTaskType TaskType = "key"
	// ShuffleTaskType indicates that this task triggers a Shuffle and a reduction by key
	ShuffleTaskType TaskType = "shuffle"
	// CollectTaskType indicates that this task triggers a Collect
	CollectTaskType TaskType = "collect"
)

// IsBoundary returns true iff tasks of this type end a Stage
func (t TaskType) IsBoundary() bool {
	return t == SortTaskType || t == ShuffleTaskType || t == CollectTaskType
}
