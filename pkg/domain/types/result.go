package types

// Result is the terminal outcome of an indexing run or a build
type Result string

const (
	ResultSuccess  Result = "SUCCESS"
	ResultFailure  Result = "FAILURE"
	ResultAborted  Result = "ABORTED"
	ResultNotBuilt Result = "NOT_BUILT"
)

var resultOrder = map[Result]int{
	ResultSuccess:  0,
	ResultFailure:  1,
	ResultAborted:  2,
	ResultNotBuilt: 3,
}

// Worse returns the more severe of x and y. NotBuilt > Aborted > Failure > Success.
func (x Result) Worse(y Result) Result {
	if resultOrder[y] > resultOrder[x] {
		return y
	}
	return x
}

func (x Result) String() string { return string(x) }
