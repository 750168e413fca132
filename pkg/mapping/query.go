package mapping

import (
	"strings"

	"github.com/marmos91/gridaccounts/pkg/models"
)

// minTokenLength is the shortest token kept by ParseQuery.
const minTokenLength = 3

// Query is a parsed search query: match Field against Value.
type Query struct {
	Field string
	Value string
}

// ParseQuery parses the search grammar "<field-token> <value-token>".
//
// The query is split on whitespace and tokens shorter than three bytes are
// dropped. Exactly two tokens must remain, otherwise ok is false and the
// search yields no results. A first token of "ConnectID" selects the
// ConnectID field; any other first token selects PrincipalID.
func ParseQuery(query string) (q Query, ok bool) {
	var tokens []string
	for _, t := range strings.Fields(query) {
		if len(t) >= minTokenLength {
			tokens = append(tokens, t)
		}
	}
	if len(tokens) != 2 {
		return Query{}, false
	}

	field := models.FieldPrincipalID
	if tokens[0] == models.FieldConnectID {
		field = models.FieldConnectID
	}
	return Query{Field: field, Value: tokens[1]}, true
}
