package fix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvmend/internal/diag"
	"csvmend/internal/shape"
)

func TestSuggestUnbalanced(t *testing.T) {
	fixes := Suggest(`1001,"Laptop Pro 15`, diag.UnbalancedQuotes())
	require.Len(t, fixes, 2)

	assert.Equal(t, "close the open quote", fixes[0].Title)
	assert.Equal(t, `1001,"Laptop Pro 15"`, fixes[0].Replacement)
	assert.Equal(t, "remove stray quotes", fixes[1].Title)
	assert.Equal(t, `1001,Laptop Pro 15`, fixes[1].Replacement)

	for _, f := range fixes {
		assert.False(t, shape.Unbalanced(f.Replacement), f.Title)
	}
}

func TestSuggestPad(t *testing.T) {
	fixes := Suggest("1,2", diag.FieldCountMismatch(2, 4))
	require.Len(t, fixes, 1)
	assert.Equal(t, "pad with 2 empty fields", fixes[0].Title)
	assert.Equal(t, "1,2,,", fixes[0].Replacement)
	assert.Equal(t, 4, shape.FieldCount(fixes[0].Replacement))

	single := Suggest("1,2", diag.FieldCountMismatch(2, 3))
	assert.Equal(t, "pad with 1 empty field", single[0].Title)
}

func TestSuggestTooMany(t *testing.T) {
	content := `1001,John,Laptop,$1,299.99`
	fixes := Suggest(content, diag.FieldCountMismatch(5, 4))
	require.Len(t, fixes, 2)

	assert.Equal(t, "quote the last 2 fields as one value", fixes[0].Title)
	assert.Equal(t, `1001,John,Laptop,"$1,299.99"`, fixes[0].Replacement)
	assert.Equal(t, "drop 1 trailing field", fixes[1].Title)
	assert.Equal(t, `1001,John,Laptop,$1`, fixes[1].Replacement)

	for _, f := range fixes {
		assert.Equal(t, 4, shape.FieldCount(f.Replacement), f.Title)
		assert.False(t, shape.Unbalanced(f.Replacement), f.Title)
	}
}

func TestMergeTrailingEscapesQuotes(t *testing.T) {
	f := MergeTrailing(`1,2,"x",3`, 2)
	assert.Equal(t, `1,"2,""x"",3"`, f.Replacement)
	assert.Equal(t, 2, shape.FieldCount(f.Replacement))
	assert.False(t, shape.Unbalanced(f.Replacement))
}

func TestSuggestNothing(t *testing.T) {
	assert.Empty(t, Suggest("x", diag.Diagnosis{}))
	assert.Empty(t, Suggest("a,b", diag.FieldCountMismatch(2, 2)))
}
