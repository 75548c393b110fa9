package search

import "slices"

// Builder accumulates criteria. It is immutable: every With call returns a new Builder
// and leaves the receiver untouched, so a partially built Builder can be shared.
type Builder struct {
	criteria []Criterion
}

func NewBuilder() Builder {
	return Builder{}
}

// With adds a criterion parsed from an operator token and its punctuation.
// Unknown tokens are dropped.
func (b Builder) With(field, token string, value any, prefix, suffix string) Builder {
	return b.OrWith("", field, token, value, prefix, suffix)
}

// OrWith is With with an explicit OR flag; only OrFlag marks the criterion as OR.
func (b Builder) OrWith(orFlag, field, token string, value any, prefix, suffix string) Builder {
	op, ok := ResolveOperation(token, prefix, suffix)
	if !ok {
		return b
	}
	return b.WithCriterion(NewCriterion(orFlag, field, op, value))
}

func (b Builder) WithCriterion(c Criterion) Builder {
	return Builder{criteria: append(slices.Clip(b.criteria), c)}
}

func (b Builder) Len() int {
	return len(b.criteria)
}

func (b Builder) Criteria() []Criterion {
	return slices.Clone(b.criteria)
}

// Build left-folds the criteria into one predicate. The first criterion seeds the
// tree, each following one is joined with OR when flagged and AND otherwise.
// It returns nil when there are no criteria.
func (b Builder) Build() Predicate {
	if len(b.criteria) == 0 {
		return nil
	}
	var result Predicate = Condition{Criterion: b.criteria[0]}
	for _, c := range b.criteria[1:] {
		combinator := And
		if c.Or {
			combinator = Or
		}
		result = Junction{
			Combinator: combinator,
			Left:       result,
			Right:      Condition{Criterion: c},
		}
	}
	return result
}
