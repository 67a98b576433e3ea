package products

import (
	"fmt"
	"strings"
)

// buildSearchPredicate turns whitespace-split search terms into a
// parameterized conjunction where every term must match the product name or
// category. argOffset is the index of the first placeholder to emit.
// User input never reaches the query text itself.
func buildSearchPredicate(terms []string, argOffset int) (string, []any) {
	if len(terms) == 0 {
		return "", nil
	}

	predicates := make([]string, 0, len(terms))
	args := make([]any, 0, len(terms))
	for i, term := range terms {
		n := argOffset + i
		predicates = append(predicates, fmt.Sprintf("(p.name ILIKE $%d OR p.category ILIKE $%d)", n, n))
		args = append(args, "%"+term+"%")
	}

	return strings.Join(predicates, " AND "), args
}

// splitSearchTerms normalizes a raw query string into its non-empty terms.
func splitSearchTerms(query string) []string {
	return strings.Fields(query)
}
