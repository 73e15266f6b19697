package mocktest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emandor/mocktest_service/internal/model"
)

func paper(t *testing.T, code string) model.Paper {
	t.Helper()
	p, ok := FindPaper(code)
	require.True(t, ok, code)
	return p
}

func TestInputsOfSplitsAndTrims(t *testing.T) {
	in := InputsOf(model.Params{
		CustomQuestionsRaw: "  Q1 text \n\n Q2 text\n   \n",
		ArticleLinksRaw:    "https://a.test/x\r\nhttps://b.test/y",
		TopicsRaw:          " Machiavelli, ,Parliament ,India-China border,",
		Predefined:         []string{"pyq5", "nope", "pyq1"},
	})

	assert.Equal(t, []string{"Q1 text", "Q2 text"}, in.Custom)
	assert.Equal(t, []string{"https://a.test/x", "https://b.test/y"}, in.Articles)
	assert.Equal(t, []string{"Machiavelli", "Parliament", "India-China border"}, in.Topics)
	require.Len(t, in.Predefined, 2)
	assert.Equal(t, PredefinedQuestions[0].Text, in.Predefined[0], "table order, not selection order")
	assert.Equal(t, PredefinedQuestions[4].Text, in.Predefined[1])
}

func TestRemaining(t *testing.T) {
	tests := []struct {
		name string
		in   Inputs
		want int
	}{
		{"empty", Inputs{}, 20},
		{"mixed", Inputs{Custom: make([]string, 2), Articles: make([]string, 1), Topics: make([]string, 3), Predefined: make([]string, 4)}, 10},
		{"exactly twenty", Inputs{Custom: make([]string, 20)}, 0},
		{"over twenty floors at zero", Inputs{Custom: make([]string, 15), Topics: make([]string, 9)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Remaining())
		})
	}
}

func TestBuildPromptNoOptionalInputs(t *testing.T) {
	p := BuildPrompt(paper(t, "1A"), Inputs{})

	assert.Contains(t, p, "Create a 20-question UPSC-style mock test for PSIR Paper 1A (Western Political Thought, Political Theory)")
	assert.Contains(t, p, "Generate 20 additional questions from across the syllabus")
	assert.Contains(t, p, "- Return exactly 20 questions total")
	assert.True(t, strings.HasSuffix(p, "Format: Return as a numbered list (1. Question text)"))
	assert.NotContains(t, p, "custom questions")
	assert.NotContains(t, p, "article URLs")
	assert.NotContains(t, p, "per topic")
	assert.NotContains(t, p, "previous year questions")
}

func TestBuildPromptAllClauses(t *testing.T) {
	in := Inputs{
		Custom:     []string{"Q1", "Q2"},
		Articles:   []string{"https://a.test", "https://b.test"},
		Topics:     []string{"Rawls"},
		Predefined: []string{PredefinedQuestions[1].Text},
	}
	p := BuildPrompt(paper(t, "1B"), in)

	assert.Contains(t, p, "- Include these 2 custom questions exactly as provided: Q1 | Q2")
	assert.Contains(t, p, "- For these article URLs: https://a.test, https://b.test - FIRST use web search")
	assert.Contains(t, p, "Do NOT mention the article, its title, author, or source in the question")
	assert.Contains(t, p, "- Ensure 1 question per topic is included for: Rawls")
	assert.Contains(t, p, "- Include these 1 previous year questions exactly as provided: "+PredefinedQuestions[1].Text)
	assert.Contains(t, p, "Generate 14 additional questions")
}

func TestBuildPromptFivePredefinedRequestsFifteen(t *testing.T) {
	ids := make([]string, 0, len(PredefinedQuestions))
	for _, q := range PredefinedQuestions {
		ids = append(ids, q.ID)
	}
	in := InputsOf(model.Params{PaperCode: "2A", Predefined: ids})

	assert.Equal(t, 15, in.Remaining())
	assert.Contains(t, BuildPrompt(paper(t, "2A"), in), "Generate 15 additional questions")
}

func TestBuildPromptOmitsAdditionalClauseWhenQuotaIsZero(t *testing.T) {
	custom := make([]string, 25)
	for i := range custom {
		custom[i] = "Q"
	}
	p := BuildPrompt(paper(t, "2B"), Inputs{Custom: custom})

	assert.NotContains(t, p, "additional questions")
	assert.NotContains(t, p, "Generate 0")
	assert.NotContains(t, p, "-5")
	assert.Contains(t, p, "Create a 20-question")
	assert.Contains(t, p, "Return exactly 20 questions total")
}

func TestBuildPromptIsDeterministic(t *testing.T) {
	params := model.Params{
		PaperCode:          "1A",
		CustomQuestionsRaw: "A\nB",
		TopicsRaw:          "x, y",
		Predefined:         []string{"pyq2"},
	}
	first := BuildPrompt(paper(t, "1A"), InputsOf(params))
	second := BuildPrompt(paper(t, "1A"), InputsOf(params))
	assert.Equal(t, first, second)
}

func TestCompletionRequestFixedParameters(t *testing.T) {
	r := CompletionRequest("p")
	assert.Equal(t, SystemPrompt, r.System)
	assert.Equal(t, "p", r.Prompt)
	assert.Equal(t, 3000, r.MaxTokens)
	assert.InDelta(t, 0.7, r.Temperature, 1e-9)
}
