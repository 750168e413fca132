package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/marmos91/gridaccounts/pkg/models"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		wantOK bool
		want   Query
	}{
		{"connect id", "ConnectID 123", true, Query{Field: models.FieldConnectID, Value: "123"}},
		{"principal id", "PrincipalID 00000000-0000-0000-0000-000000000001", true, Query{Field: models.FieldPrincipalID, Value: "00000000-0000-0000-0000-000000000001"}},
		{"any other field token selects principal", "whatever abc", true, Query{Field: models.FieldPrincipalID, Value: "abc"}},
		{"short tokens dropped", "ConnectID ab 123 x", true, Query{Field: models.FieldConnectID, Value: "123"}},
		{"extra whitespace", "  ConnectID \t  123  ", true, Query{Field: models.FieldConnectID, Value: "123"}},
		{"three tokens", "xyz PrincipalID 123", false, Query{}},
		{"all short", "ab cd ef", false, Query{}},
		{"one token", "ConnectID", false, Query{}},
		{"empty", "", false, Query{}},
		{"case sensitive field token", "connectid 123", true, Query{Field: models.FieldPrincipalID, Value: "123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseQuery(tt.query)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseQuery_TokenCountProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		long := rapid.SliceOf(rapid.StringMatching(`[A-Za-z0-9-]{3,12}`)).Draw(rt, "long")
		short := rapid.SliceOf(rapid.StringMatching(`[a-z]{0,2}`)).Draw(rt, "short")

		tokens := append([]string{}, long...)
		tokens = append(tokens, short...)
		perm := rapid.Permutation(tokens).Draw(rt, "order")

		query := ""
		for _, tok := range perm {
			query += tok + " "
		}

		_, ok := ParseQuery(query)
		if ok != (len(long) == 2) {
			rt.Fatalf("ParseQuery(%q) ok=%v with %d long tokens", query, ok, len(long))
		}
	})
}

func TestValidateFilter(t *testing.T) {
	assert.NoError(t, ValidateFilter([]string{"ConnectID", "PrincipalID"}, []string{"a", "b"}))
	assert.NoError(t, ValidateFilter(nil, nil))
	assert.ErrorIs(t, ValidateFilter([]string{"ConnectID"}, nil), ErrFieldValueMismatch)
	assert.ErrorIs(t, ValidateFilter([]string{"Email"}, []string{"x"}), ErrUnsupportedField)
}

func TestFieldValue(t *testing.T) {
	r := &models.MappingRecord{PrincipalID: "p", ConnectID: "c"}
	assert.Equal(t, "p", FieldValue(r, models.FieldPrincipalID))
	assert.Equal(t, "c", FieldValue(r, models.FieldConnectID))
	assert.Equal(t, "", FieldValue(r, "Institution"))
}
