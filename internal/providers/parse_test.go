package providers

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumberedList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "plain list",
			raw:  "1. First\n2. Second\n3. Third",
			want: []string{"First", "Second", "Third"},
		},
		{
			name: "prose around the list is dropped",
			raw:  "Here is your mock test:\n\n1. Discuss Rawls.\n\nSection B\n2.   Examine federalism.  \nGood luck!",
			want: []string{"Discuss Rawls.", "Examine federalism."},
		},
		{
			name: "multi digit markers",
			raw:  "10. Ten\n11.Eleven",
			want: []string{"Ten", "Eleven"},
		},
		{
			name: "indented and bulleted lines do not match",
			raw:  "  1. indented\n- 2. bullet\n3) paren\n4. kept",
			want: []string{"kept"},
		},
		{
			name: "marker without text yields empty item",
			raw:  "1. One\n2.\n3. Three",
			want: []string{"One", "", "Three"},
		},
		{
			name: "crlf line endings",
			raw:  "1. One\r\n2. Two\r\n",
			want: []string{"One", "Two"},
		},
		{
			name: "only the leading marker is stripped",
			raw:  "1. Compare 1. and 2. above",
			want: []string{"Compare 1. and 2. above"},
		},
		{
			name: "no list",
			raw:  "I cannot help with that.",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumberedList(tt.raw))
		})
	}
}

func TestParseNumberedListKeepsAllItemsInOrder(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 25; i++ {
		fmt.Fprintf(&b, "%d. Question %d\n", i, i)
	}
	got := ParseNumberedList(b.String())
	assert.Len(t, got, 25)
	assert.Equal(t, "Question 1", got[0])
	assert.Equal(t, "Question 25", got[24])
}
