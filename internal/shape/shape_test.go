package shape

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldCount(t *testing.T) {
	cases := []struct {
		name string
		line string
		want int
	}{
		{"empty", "", 1},
		{"single", "abc", 1},
		{"three", "a,b,c", 3},
		{"trailing delimiter", "a,b,", 3},
		{"only delimiters", ",,,", 4},
		{"quoted comma", `a,"b,c",d`, 3},
		{"price", `1001,John,Laptop,"$1,299.99"`, 4},
		{"unquoted price", `1001,John,Laptop,$1,299.99`, 5},
		{"doubled quotes", `"say ""hi"", ok",x`, 2},
		{"unclosed swallows rest", `x,"a,b`, 2},
		{"newline kept inert", "a,b\n", 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FieldCount(tc.line))
		})
	}
}

func TestFieldCountWithoutQuotesIsOnePlusDelimiters(t *testing.T) {
	lines := []string{"", "a", "a,b", "1,2,3,4,5", ",,", "x y z", "ünï,cödé"}
	for _, line := range lines {
		assert.Equal(t, 1+strings.Count(line, ","), FieldCount(line), "line %q", line)
	}
}

func TestUnbalanced(t *testing.T) {
	cases := []struct {
		line string
		want bool
	}{
		{"", false},
		{"a,b,c", false},
		{`"a"`, false},
		{`"a`, true},
		{`x,"a,b`, true},
		{`john smith,Laptop Pro 15"`, true},
		{`""""`, false},
		{`"""`, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Unbalanced(tc.line), "line %q", tc.line)
		assert.Equal(t, strings.Count(tc.line, `"`)%2 == 1, Unbalanced(tc.line), "line %q", tc.line)
	}
}

func TestUnbalancedIgnoresDelimiters(t *testing.T) {
	assert.Equal(t, Unbalanced(`"a`), Unbalanced(`"a,,,,`))
	assert.Equal(t, Unbalanced(`"a"`), Unbalanced(`,"a",`))
}

func TestSplitFieldsAgreesWithFieldCount(t *testing.T) {
	lines := []string{"", "a", "a,b,", `a,"b,c",d`, `x,"a,b`, `"q""q",1`}
	for _, line := range lines {
		fields := SplitFields(line)
		require.Len(t, fields, FieldCount(line), "line %q", line)
		assert.Equal(t, line, strings.Join(fields, ","), "line %q", line)
	}
}
