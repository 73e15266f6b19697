package mocktest

import (
	"fmt"
	"strings"

	"github.com/emandor/mocktest_service/internal/model"
	"github.com/emandor/mocktest_service/internal/providers"
)

const (
	SystemPrompt = "You are an expert UPSC PSIR mock test generator. Create high-quality, exam-style questions."
	MaxTokens    = 3000
	Temperature  = 0.7
)

// BuildPrompt renders the single user message for a generation. It is pure:
// identical params give an identical string.
func BuildPrompt(paper model.Paper, in Inputs) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert UPSC PSIR paper-setter. Create a %d-question UPSC-style mock test for PSIR %s. Follow these rules:\n\n",
		TotalQuestions, paper.Label)

	if n := len(in.Custom); n > 0 {
		fmt.Fprintf(&b, "- Include these %d custom questions exactly as provided: %s\n", n, strings.Join(in.Custom, " | "))
	}
	if len(in.Articles) > 0 {
		fmt.Fprintf(&b, "- For these article URLs: %s - FIRST use web search to read and understand the complete content of each article. "+
			"Then generate 1 high-quality UPSC question per article based on the core themes, arguments, and insights from the article content. "+
			"IMPORTANT: Do NOT mention the article, its title, author, or source in the question. "+
			"Frame it as a general UPSC question that tests understanding of the concepts discussed in the article.\n",
			strings.Join(in.Articles, ", "))
	}
	if len(in.Topics) > 0 {
		fmt.Fprintf(&b, "- Ensure 1 question per topic is included for: %s\n", strings.Join(in.Topics, ", "))
	}
	if n := len(in.Predefined); n > 0 {
		fmt.Fprintf(&b, "- Include these %d previous year questions exactly as provided: %s\n", n, strings.Join(in.Predefined, " | "))
	}

	if remaining := in.Remaining(); remaining > 0 {
		fmt.Fprintf(&b, "\nGenerate %d additional questions from across the syllabus of the selected paper, with weightage based on past UPSC trends:\n", remaining)
		b.WriteString("- Common themes like justice, equality, realism, globalisation, Indian secularism, federalism, IR theories should appear more.\n")
		b.WriteString("- Less frequent themes should appear only occasionally unless explicitly requested.\n")
	}

	b.WriteString("\nRequirements:\n")
	b.WriteString("- All questions must be in UPSC CSE mains format (analytical, thematic, clear, concise)\n")
	b.WriteString("- Avoid duplication and ensure all questions are unique\n")
	b.WriteString("- Balance difficulty levels and test conceptual understanding\n")
	fmt.Fprintf(&b, "- Return exactly %d questions total\n", TotalQuestions)
	b.WriteString("\nFormat: Return as a numbered list (1. Question text)")
	return b.String()
}

// CompletionRequest wraps the prompt with the fixed system role and sampling.
func CompletionRequest(prompt string) providers.Request {
	return providers.Request{
		System:      SystemPrompt,
		Prompt:      prompt,
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	}
}
