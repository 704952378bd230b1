package services

// sourceOutcome says whether an aggregation sub-query produced data or was
// substituted with an empty value after failing.
type sourceOutcome int

const (
	sourceOK sourceOutcome = iota
	sourceEmpty
)

func (o sourceOutcome) String() string {
	if o == sourceEmpty {
		return "empty"
	}
	return "ok"
}

// sourceResult is the outcome of one secondary read. When Outcome is
// sourceEmpty, Value is the zero value and Err holds the swallowed cause.
type sourceResult[T any] struct {
	Value   T
	Outcome sourceOutcome
	Err     error
}

func okResult[T any](v T) sourceResult[T] {
	return sourceResult[T]{Value: v, Outcome: sourceOK}
}

func emptyResult[T any](err error) sourceResult[T] {
	var zero T
	return sourceResult[T]{Value: zero, Outcome: sourceEmpty, Err: err}
}

// fromQuery folds a (value, error) pair into an explicit outcome.
func fromQuery[T any](v T, err error) sourceResult[T] {
	if err != nil {
		return emptyResult[T](err)
	}
	return okResult(v)
}
