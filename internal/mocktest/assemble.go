package mocktest

import (
	"time"

	"github.com/google/uuid"

	"github.com/emandor/mocktest_service/internal/model"
)

// Assemble merges custom, then predefined, then generated questions and keeps
// the first TotalQuestions. Fewer is fine; nothing is padded.
func Assemble(paper model.Paper, in Inputs, generated []string, at time.Time) model.GeneratedTest {
	merged := make([]string, 0, len(in.Custom)+len(in.Predefined)+len(generated))
	merged = append(merged, in.Custom...)
	merged = append(merged, in.Predefined...)
	merged = append(merged, generated...)
	if len(merged) > TotalQuestions {
		merged = merged[:TotalQuestions]
	}
	return model.GeneratedTest{
		ID:          uuid.NewString(),
		PaperCode:   paper.Code,
		PaperLabel:  paper.Label,
		Questions:   merged,
		GeneratedAt: at,
	}
}
