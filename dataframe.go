package crimeflow

// A DataFrame is a tool for constructing a chain of
// transformations and actions applied to Records
type DataFrame interface {
	GetDataSource() DataSource                        // GetDataSource returns the DataSource of a DataFrame
	GetParser() DataSourceParser                      // GetParser returns the DataSourceParser of a DataFrame
	To(ops ...*DataFrameOperation) (DataFrame, error) // To is a "functional operations" factory method for DataFrames, chaining operations onto the current one(s).
}
