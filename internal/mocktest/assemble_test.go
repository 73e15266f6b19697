package mocktest

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emandor/mocktest_service/internal/providers"
)

func numbered(n int) string {
	var s string
	for i := 1; i <= n; i++ {
		s += fmt.Sprintf("%d. model-line-%d\n", i, i)
	}
	return s
}

var at = time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC)

func TestAssembleModelOnly(t *testing.T) {
	got := Assemble(paper(t, "1A"), Inputs{}, providers.ParseNumberedList(numbered(20)), at)

	require.Len(t, got.Questions, 20)
	assert.Equal(t, "model-line-1", got.Questions[0])
	assert.Equal(t, "model-line-20", got.Questions[19])
	assert.Equal(t, "1A", got.PaperCode)
	assert.Equal(t, at, got.GeneratedAt)
	assert.NotEmpty(t, got.ID)
}

func TestAssembleCustomFirst(t *testing.T) {
	in := Inputs{Custom: []string{"Q1 text", "Q2 text"}}
	got := Assemble(paper(t, "1A"), in, providers.ParseNumberedList(numbered(20)), at)

	require.Len(t, got.Questions, 20)
	assert.Equal(t, "Q1 text", got.Questions[0])
	assert.Equal(t, "Q2 text", got.Questions[1])
	assert.Equal(t, "model-line-1", got.Questions[2])
	assert.Equal(t, "model-line-18", got.Questions[19])
}

func TestAssembleOrderCustomPredefinedGenerated(t *testing.T) {
	in := Inputs{
		Custom:     []string{"c1"},
		Predefined: []string{"p1", "p2"},
		Articles:   []string{"https://ignored.test"},
		Topics:     []string{"ignored"},
	}
	got := Assemble(paper(t, "2B"), in, []string{"g1", "g2"}, at)
	assert.Equal(t, []string{"c1", "p1", "p2", "g1", "g2"}, got.Questions)
}

func TestAssembleTruncatesModelOverflow(t *testing.T) {
	in := Inputs{Custom: []string{"c1", "c2", "c3", "c4", "c5"}}
	got := Assemble(paper(t, "1B"), in, providers.ParseNumberedList(numbered(25)), at)

	require.Len(t, got.Questions, 20)
	assert.Equal(t, []string{"c1", "c2", "c3", "c4", "c5"}, got.Questions[:5])
	assert.Equal(t, "model-line-15", got.Questions[19])
	assert.NotContains(t, got.Questions, "model-line-16")
}

func TestAssembleShortResultIsNotPadded(t *testing.T) {
	got := Assemble(paper(t, "2A"), Inputs{}, []string{"only"}, at)
	assert.Equal(t, []string{"only"}, got.Questions)
}
