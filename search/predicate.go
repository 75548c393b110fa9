package search

import "fmt"

// Predicate is a boolean expression over entity fields.
// It is either a Condition or a Junction of two predicates.
// A nil Predicate means "no filter".
type Predicate interface {
	fmt.Stringer
	predicate()
}

type Combinator int

const (
	And Combinator = iota
	Or
)

func (c Combinator) String() string {
	if c == Or {
		return "OR"
	}
	return "AND"
}

// Condition is a leaf predicate.
type Condition struct {
	Criterion Criterion
}

func (Condition) predicate() {}

func (c Condition) String() string {
	return c.Criterion.String()
}

// Junction combines two predicates.
type Junction struct {
	Combinator Combinator
	Left       Predicate
	Right      Predicate
}

func (Junction) predicate() {}

func (j Junction) String() string {
	return fmt.Sprintf("(%s %s %s)", j.Left, j.Combinator, j.Right)
}

// Criteria returns the criteria of p in evaluation order.
func Criteria(p Predicate) []Criterion {
	switch v := p.(type) {
	case Condition:
		return []Criterion{v.Criterion}
	case Junction:
		return append(Criteria(v.Left), Criteria(v.Right)...)
	default:
		return nil
	}
}
