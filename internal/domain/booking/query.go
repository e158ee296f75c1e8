package booking

import (
	"time"

	"github.com/google/uuid"
)

// Field names a booking attribute a query clause can filter or sort on.
type Field string

const (
	FieldStart       Field = "start"
	FieldEnd         Field = "end"
	FieldStatus      Field = "status"
	FieldBookerID    Field = "booker_id"
	FieldItemID      Field = "item_id"
	FieldItemOwnerID Field = "item_owner_id"
)

// Op is a comparison operator applied to a clause's value.
type Op string

const (
	OpEq     Op = "eq"
	OpBefore Op = "before"
	OpAfter  Op = "after"
	OpIn     Op = "in"
)

// Clause is one typed filter condition. Clauses in a Query combine with AND.
type Clause struct {
	Field Field
	Op    Op
	Value interface{}
}

// Sort describes the ordering of a query result.
type Sort struct {
	Field     Field
	Ascending bool
}

// Query is the persistence-agnostic descriptor the repository layer
// translates into its own query mechanism.
type Query struct {
	Clauses []Clause
	Sort    Sort
}

// ByBooker builds the subject clause selecting a booker's bookings.
func ByBooker(bookerID uuid.UUID) Clause {
	return Clause{Field: FieldBookerID, Op: OpEq, Value: bookerID}
}

// ByItemOwner builds the subject clause selecting bookings of a user's items.
func ByItemOwner(ownerID uuid.UUID) Clause {
	return Clause{Field: FieldItemOwnerID, Op: OpEq, Value: ownerID}
}

// ApprovedForItems builds the query feeding the booking-summary projector:
// approved bookings of the given items, ascending by start.
func ApprovedForItems(itemIDs []uuid.UUID) Query {
	return Query{
		Clauses: []Clause{
			{Field: FieldItemID, Op: OpIn, Value: itemIDs},
			{Field: FieldStatus, Op: OpEq, Value: StatusApproved},
		},
		Sort: Sort{Field: FieldStart, Ascending: true},
	}
}

// FinishedByBookerForItem builds the comment-eligibility query: bookings of
// the item by the author that ended before now.
func FinishedByBookerForItem(bookerID, itemID uuid.UUID, now time.Time) Query {
	return Query{
		Clauses: []Clause{
			{Field: FieldBookerID, Op: OpEq, Value: bookerID},
			{Field: FieldItemID, Op: OpEq, Value: itemID},
			{Field: FieldEnd, Op: OpBefore, Value: now},
		},
		Sort: Sort{Field: FieldStart, Ascending: false},
	}
}

// Matches evaluates the clause against a booking in memory. The gorm
// repository translates clauses to SQL instead; this form backs test doubles
// and keeps clause semantics executable without a store.
func (c Clause) Matches(b *Booking) bool {
	switch c.Field {
	case FieldBookerID:
		return c.Op == OpEq && b.Booker().ID() == c.Value.(uuid.UUID)
	case FieldItemID:
		switch c.Op {
		case OpEq:
			return b.Item().ID() == c.Value.(uuid.UUID)
		case OpIn:
			for _, id := range c.Value.([]uuid.UUID) {
				if b.Item().ID() == id {
					return true
				}
			}
			return false
		}
		return false
	case FieldItemOwnerID:
		return c.Op == OpEq && b.Item().OwnerID() == c.Value.(uuid.UUID)
	case FieldStatus:
		return c.Op == OpEq && b.Status() == c.Value.(Status)
	case FieldStart:
		return compareTime(b.Start(), c.Op, c.Value.(time.Time))
	case FieldEnd:
		return compareTime(b.End(), c.Op, c.Value.(time.Time))
	}
	return false
}

// Matches reports whether the booking satisfies every clause of the query.
func (q Query) Matches(b *Booking) bool {
	for _, c := range q.Clauses {
		if !c.Matches(b) {
			return false
		}
	}
	return true
}

func compareTime(v time.Time, op Op, bound time.Time) bool {
	switch op {
	case OpBefore:
		return v.Before(bound)
	case OpAfter:
		return v.After(bound)
	case OpEq:
		return v.Equal(bound)
	}
	return false
}
