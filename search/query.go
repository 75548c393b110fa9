package search

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

const wordClass = `[\p{L}\p{M}\p{Nd}\p{Pc}]`

// clausePattern matches comma terminated clauses such as `name:*john*,`:
// field, operator token, optional punctuation, value, optional punctuation.
var clausePattern = regexp.MustCompile(
	`(` + wordClass + `+?)` +
		`(` + strings.Join(lo.Map(SimpleOperationTokens, func(t string, _ int) string {
		return regexp.QuoteMeta(t)
	}), "|") + `)` +
		`(\pP?)(` + wordClass + `+?)(\pP?),`,
)

// FromQuery translates a free-text query into a predicate over entity.
//
// Clauses of the form field<op>[*]value[*] separated by commas are AND-combined.
// When the query holds no such clause, every candidate field is matched with CONTAINS
// against the raw query and the matches are OR-combined. Candidates are the given
// fields, or the string and UUID fields of entity when none are given; audit fields
// are always left out.
//
// A nil result means no filter.
func FromQuery(query string, entity *Entity, fields ...string) Predicate {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	builder := NewBuilder()
	for _, m := range clausePattern.FindAllStringSubmatch(query+",", -1) {
		builder = builder.With(m[1], m[2], m[4], m[3], m[5])
	}

	if builder.Len() == 0 {
		var candidates []string
		if len(fields) == 0 {
			candidates = entity.SearchableFields()
		} else {
			candidates = lo.Reject(fields, func(f string, _ int) bool {
				return isAuditField(f)
			})
		}
		for _, field := range candidates {
			builder = builder.OrWith(OrFlag, field, ":", query, Wildcard, Wildcard)
		}
	}

	return builder.Build()
}
