// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package suggest

import (
	"strings"
)

// ============================================================================
// SUBJECT CLASSIFICATION
// ============================================================================

// Subject is the detected topic bucket of a learner question.
type Subject int

const (
	SubjectGeneral Subject = iota
	SubjectMath
	SubjectScience
	SubjectHistory
	SubjectWriting
)

// String returns the human-readable name of the subject.
func (s Subject) String() string {
	switch s {
	case SubjectMath:
		return "Math"
	case SubjectScience:
		return "Science"
	case SubjectHistory:
		return "History"
	case SubjectWriting:
		return "Writing"
	default:
		return "General"
	}
}

// ClassifySubject categorizes a question based on keyword heuristics.
//
// Classification rules (in order of priority):
//  1. Math: math, equation, calculate, solve, integral, derivative
//  2. Science: science, physics, chemistry, biology
//  3. History: history, war, century, period
//  4. Writing: grammar, write, essay, language
//  5. General: default fallback
func ClassifySubject(question string) Subject {
	q := strings.ToLower(question)

	if strings.Contains(q, "math") ||
		strings.Contains(q, "equation") ||
		strings.Contains(q, "calculate") ||
		strings.Contains(q, "solve") ||
		strings.Contains(q, "integral") ||
		strings.Contains(q, "derivative") {
		return SubjectMath
	}

	if strings.Contains(q, "science") ||
		strings.Contains(q, "physics") ||
		strings.Contains(q, "chemistry") ||
		strings.Contains(q, "biology") {
		return SubjectScience
	}

	if strings.Contains(q, "history") ||
		strings.Contains(q, "war") ||
		strings.Contains(q, "century") ||
		strings.Contains(q, "period") {
		return SubjectHistory
	}

	if strings.Contains(q, "grammar") ||
		strings.Contains(q, "write") ||
		strings.Contains(q, "essay") ||
		strings.Contains(q, "language") {
		return SubjectWriting
	}

	return SubjectGeneral
}

// ============================================================================
// SUGGESTION LINES
// ============================================================================

// Lines returns the study-tip lines for a subject. Every subject yields at
// least one line so a formatted reply always carries a followup hook.
func (s Subject) Lines() []string {
	switch s {
	case SubjectMath:
		return []string{
			"Try breaking the problem into smaller steps and check worked examples for similar problems.",
			"Would you like a step-by-step walkthrough or a solved example?",
		}
	case SubjectScience:
		return []string{
			"Consider drawing diagrams and identifying core principles involved.",
			"I can provide experiment examples or key formulas if you want.",
		}
	case SubjectHistory:
		return []string{
			"Look for primary sources and timelines to understand context.",
			"I can summarize key events or provide recommended readings.",
		}
	case SubjectWriting:
		return []string{
			"Try outlining your main points first and then expand each paragraph.",
			"I can help edit or provide sample sentences if you share a draft.",
		}
	default:
		return []string{
			"If you'd like, ask me for a summary, examples, or further practice problems.",
		}
	}
}

// Format trims a raw reply and appends the suggestion lines for the question
// that prompted it, separated by a blank line. Real and fallback replies go
// through the same path so every assistant message ends with study tips.
func Format(reply, question string) string {
	trimmed := strings.TrimSpace(reply)
	lines := ClassifySubject(question).Lines()
	if len(lines) == 0 {
		return trimmed
	}
	return trimmed + "\n\n" + strings.Join(lines, "\n")
}
