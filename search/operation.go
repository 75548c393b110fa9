package search

import "strings"

// Operation is the comparison a Criterion applies to its field.
type Operation int

const (
	Equality Operation = iota
	Negation
	GreaterThan
	LessThan
	Like
	StartsWith
	EndsWith
	Contains
)

var operationNames = [...]string{
	Equality:    "EQUALITY",
	Negation:    "NEGATION",
	GreaterThan: "GREATER_THAN",
	LessThan:    "LESS_THAN",
	Like:        "LIKE",
	StartsWith:  "STARTS_WITH",
	EndsWith:    "ENDS_WITH",
	Contains:    "CONTAINS",
}

func (o Operation) String() string {
	if o < 0 || int(o) >= len(operationNames) {
		return "UNKNOWN"
	}
	return operationNames[o]
}

const (
	// Wildcard marks a prefix or suffix as "zero or more characters".
	Wildcard = "*"
	// OrFlag marks a criterion that combines with OR instead of AND.
	OrFlag = "'"
)

// SimpleOperationTokens lists the operator tokens of the query syntax, in matching order.
var SimpleOperationTokens = []string{":", "!", ">", "<", "~"}

func simpleOperation(token byte) (Operation, bool) {
	switch token {
	case ':':
		return Equality, true
	case '!':
		return Negation, true
	case '>':
		return GreaterThan, true
	case '<':
		return LessThan, true
	case '~':
		return Like, true
	default:
		return 0, false
	}
}

// ResolveOperation maps an operator token and its surrounding punctuation to an Operation.
// Equality is refined by wildcards: a leading wildcard anchors the match at the end of
// the value and a trailing one anchors it at the start.
func ResolveOperation(token, prefix, suffix string) (Operation, bool) {
	if token == "" {
		return 0, false
	}
	op, ok := simpleOperation(token[0])
	if !ok {
		return 0, false
	}
	if op != Equality {
		return op, true
	}

	startsWithWildcard := strings.Contains(prefix, Wildcard)
	endsWithWildcard := strings.Contains(suffix, Wildcard)
	switch {
	case startsWithWildcard && endsWithWildcard:
		return Contains, true
	case startsWithWildcard:
		return EndsWith, true
	case endsWithWildcard:
		return StartsWith, true
	}
	return Equality, true
}
