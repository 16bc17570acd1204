package domain

// Result is the outcome of an operation that can answer the caller even when
// a collaborator fails. A degraded result carries computed data that was not
// durably stored, plus the reason. Hard failures travel as a separate error.
type Result[T any] struct {
	Value    T
	Degraded bool
	Reason   string
}

func Ok[T any](v T) Result[T] { return Result[T]{Value: v} }

func Degraded[T any](v T, reason string) Result[T] {
	return Result[T]{Value: v, Degraded: true, Reason: reason}
}
