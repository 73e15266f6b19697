package model

import "time"

// Paper is one of the fixed PSIR papers a test can target.
type Paper struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// PredefinedQuestion is a curated previous-year question the user may include verbatim.
type PredefinedQuestion struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Params holds the form inputs of one session. The completion credential is
// deliberately absent: it travels with the generate call only.
type Params struct {
	PaperCode          string   `json:"paper"`
	CustomQuestionsRaw string   `json:"custom_questions"`
	ArticleLinksRaw    string   `json:"article_links"`
	TopicsRaw          string   `json:"topics"`
	Predefined         []string `json:"predefined"`
}

// IsEmpty reports whether nothing has been entered yet.
func (p Params) IsEmpty() bool {
	return p.PaperCode == "" && p.CustomQuestionsRaw == "" && p.ArticleLinksRaw == "" &&
		p.TopicsRaw == "" && len(p.Predefined) == 0
}

// HasPredefined reports whether id is in the selected set.
func (p Params) HasPredefined(id string) bool {
	for _, v := range p.Predefined {
		if v == id {
			return true
		}
	}
	return false
}

// GeneratedTest is the immutable result of one successful generation.
type GeneratedTest struct {
	ID          string    `json:"id"`
	PaperCode   string    `json:"paper"`
	PaperLabel  string    `json:"paper_label"`
	Questions   []string  `json:"questions"`
	GeneratedAt time.Time `json:"generated_at"`
}
