package mocktest

import "github.com/emandor/mocktest_service/internal/model"

var Papers = []model.Paper{
	{Code: "1A", Label: "Paper 1A (Western Political Thought, Political Theory)"},
	{Code: "1B", Label: "Paper 1B (Indian Political Thought, Indian Government & Politics)"},
	{Code: "2A", Label: "Paper 2A (Comparative Politics, Theories of IR)"},
	{Code: "2B", Label: "Paper 2B (India & World, Global Issues)"},
}

// PredefinedQuestions are the curated previous-year questions, in display order.
var PredefinedQuestions = []model.PredefinedQuestion{
	{ID: "pyq1", Text: `"Human rights debate is caught between the limitations of universalism and cultural relativism." Elaborate.`},
	{ID: "pyq2", Text: `"Does the actual working of Indian federalism conform to the centralising tendencies in Indian polity?" Discuss.`},
	{ID: "pyq3", Text: `Identify the major differences between the classical realism of Hans J. Morgenthau and the neorealism of Kenneth Waltz. Which approach is best suited for analyzing international relations after the Cold War?`},
	{ID: "pyq4", Text: `"The Panchayats with Gram Sabhas should be so organised as to identify the resources locally available for the development in agricultural and industrial sectors." Examine the statement in the context of Gram Swaraj.`},
	{ID: "pyq5", Text: `Discuss the main limitations of the comparative method to the study of Political Science.`},
}

func FindPaper(code string) (model.Paper, bool) {
	for _, p := range Papers {
		if p.Code == code {
			return p, true
		}
	}
	return model.Paper{}, false
}

func IsPredefined(id string) bool {
	for _, q := range PredefinedQuestions {
		if q.ID == id {
			return true
		}
	}
	return false
}

// ResolvePredefined returns the texts of the selected ids in table order.
// Unknown ids are dropped.
func ResolvePredefined(ids []string) []string {
	selected := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		selected[id] = struct{}{}
	}
	var out []string
	for _, q := range PredefinedQuestions {
		if _, ok := selected[q.ID]; ok {
			out = append(out, q.Text)
		}
	}
	return out
}
