package mocktest

import (
	"strings"

	"github.com/emandor/mocktest_service/internal/model"
)

// TotalQuestions is the fixed size of every mock test.
const TotalQuestions = 20

// Inputs are the optional form fields, split and trimmed.
type Inputs struct {
	Custom     []string
	Articles   []string
	Topics     []string
	Predefined []string
}

func InputsOf(p model.Params) Inputs {
	return Inputs{
		Custom:     splitTrim(p.CustomQuestionsRaw, "\n"),
		Articles:   splitTrim(p.ArticleLinksRaw, "\n"),
		Topics:     splitTrim(p.TopicsRaw, ","),
		Predefined: ResolvePredefined(p.Predefined),
	}
}

// Remaining is how many questions the model must invent to reach
// TotalQuestions. Never negative.
func (in Inputs) Remaining() int {
	return max(0, TotalQuestions-len(in.Custom)-len(in.Articles)-len(in.Topics)-len(in.Predefined))
}

func splitTrim(raw, sep string) []string {
	var out []string
	for _, s := range strings.Split(raw, sep) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
