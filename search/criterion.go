package search

import "fmt"

// Criterion is a single filter condition on one field.
type Criterion struct {
	Field     string
	Operation Operation
	Value     any
	// Or combines this criterion with the preceding ones using OR instead of AND.
	Or bool
}

func NewCriterion(orFlag string, field string, op Operation, value any) Criterion {
	return Criterion{
		Field:     field,
		Operation: op,
		Value:     value,
		Or:        orFlag == OrFlag,
	}
}

func (c Criterion) String() string {
	return fmt.Sprintf("%s %s %v", c.Field, c.Operation, c.Value)
}
