package booking

import (
	"strings"
	"time"

	"github.com/shareit-marketplace/server/internal/domain"
)

// FilterState selects which slice of a subject's bookings a list query
// returns. It is a query parameter, never persisted.
type FilterState string

const (
	FilterAll      FilterState = "ALL"
	FilterCurrent  FilterState = "CURRENT"
	FilterPast     FilterState = "PAST"
	FilterFuture   FilterState = "FUTURE"
	FilterWaiting  FilterState = "WAITING"
	FilterRejected FilterState = "REJECTED"
)

// ParseFilterState matches a string against the filter states
// case-insensitively. Anything else is an unsupported-status error, not a
// default.
func ParseFilterState(s string) (FilterState, error) {
	state := FilterState(strings.ToUpper(s))
	if _, ok := filterSpecs[state]; !ok {
		return "", domain.NewUnsupportedStatusError("UNSUPPORTED_STATUS")
	}
	return state, nil
}

// filterSpec declares, as data, the extra clauses and sort direction a
// filter state adds on top of the subject clause. startOp/endOp compare the
// corresponding field against "now"; a zero Op adds no clause.
type filterSpec struct {
	startOp   Op
	endOp     Op
	status    Status
	ascending bool
}

var filterSpecs = map[FilterState]filterSpec{
	FilterAll:      {},
	FilterCurrent:  {startOp: OpBefore, endOp: OpAfter, ascending: true},
	FilterPast:     {endOp: OpBefore},
	FilterFuture:   {startOp: OpAfter},
	FilterWaiting:  {status: StatusWaiting},
	FilterRejected: {status: StatusRejected},
}

// Query composes the full predicate and sort for the filter state. The
// caller evaluates "now" exactly once per operation and passes it in.
func (s FilterState) Query(subject Clause, now time.Time) Query {
	spec := filterSpecs[s]
	clauses := []Clause{subject}
	if spec.startOp != "" {
		clauses = append(clauses, Clause{Field: FieldStart, Op: spec.startOp, Value: now})
	}
	if spec.endOp != "" {
		clauses = append(clauses, Clause{Field: FieldEnd, Op: spec.endOp, Value: now})
	}
	if spec.status != "" {
		clauses = append(clauses, Clause{Field: FieldStatus, Op: OpEq, Value: spec.status})
	}
	return Query{
		Clauses: clauses,
		Sort:    Sort{Field: FieldStart, Ascending: spec.ascending},
	}
}
