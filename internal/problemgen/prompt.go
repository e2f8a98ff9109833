package problemgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a technical interviewer writing skill assessment questions for software professionals.

Rules:
- Generate exactly the requested number of questions for the given skill and proficiency level.
- Beginner questions check fundamentals and vocabulary. Intermediate questions check applied use and common pitfalls. Advanced questions check design trade-offs, internals and edge cases.
- Each question must be self-contained and have exactly one correct answer.
- For mcq and code_output, give exactly 4 options. correct_answer must be copied verbatim from options. Distractors should reflect common mistakes.
- For code_output, code must be a short, deterministic snippet whose output can be predicted without running it.
- For code_challenge, describe the task in question_text, give starter_code and at least one test case.
- Award more points to harder questions.
- Leave fields that do not apply to a question type empty.
- Do not repeat any question from the "already asked" list.`

// buildUserMessage constructs the user message from GenerateInput and Config limits.
func buildUserMessage(input GenerateInput, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Skill: %s\n", input.SkillName)
	if input.SkillCategory != "" {
		fmt.Fprintf(&b, "Category: %s\n", input.SkillCategory)
	}
	fmt.Fprintf(&b, "Proficiency level: %s\n", input.Level.Title())
	fmt.Fprintf(&b, "Number of questions: %d\n", input.Count)
	if cfg.AllowCodeChallenges {
		b.WriteString("Allowed question types: mcq, code_output, code_challenge\n")
	} else {
		b.WriteString("Allowed question types: mcq, code_output\n")
	}

	b.WriteString("\nQuestions from the learner's earlier assessments on this skill. Do not repeat or rephrase them:\n")
	b.WriteString(priorQuestionList(input.PriorQuestions, cfg.MaxPriorQuestions))

	return b.String()
}
