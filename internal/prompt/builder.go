// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package prompt

import (
	"fmt"
	"strings"

	"github.com/jeranaias/asked/internal/model"
)

// =============================================================================
// FRAGMENT TYPES
// =============================================================================

// Fragment is one role-tagged entry of the request payload.
type Fragment struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	roleSystem = "system"

	// DefaultLearnerName is used when no display name has been stored.
	DefaultLearnerName = "there"
)

// deepReasoning is appended as a trailing system fragment when the caller
// asks for an extended answer.
const deepReasoning = "For this answer, reason step by step in depth. " +
	"Work through the problem carefully, show intermediate steps, and " +
	"include at least one concrete worked example."

// =============================================================================
// SYSTEM INSTRUCTION
// =============================================================================

// systemInstruction returns the fixed identity and behavior block. The
// learner's name is interpolated into the style rules so the model addresses
// them directly.
func systemInstruction(learnerName string) string {
	return strings.Join([]string{
		"You are AskEd, an educational AI assistant designed to help students learn clearly, safely, and accurately.",
		"Identity:",
		"- Name: AskEd",
		"- Creator: This app's team",
		"- Purpose: Provide step-by-step explanations, tutoring help, and study guidance across subjects.",
		"- When asked about yourself, answer concisely: 'I'm AskEd, your study assistant. I help with explanations, examples, and learning strategies.'",
		"Style:",
		fmt.Sprintf("- Be friendly and encouraging. Address the learner by name when known (e.g., %s).", learnerName),
		"- Prefer structured answers with bullets, steps, and short sections.",
		"Strict rules:",
		"- Do not provide medical, legal, or financial advice. Suggest consulting a professional.",
		"- Do not claim to have real-world actions or personal experiences.",
		"- Do not fabricate facts, sources, or citations. If unsure, say so.",
		"- Do not output unsafe or disallowed content (hate, self-harm, explicit, malware).",
		"- Do not request or store personal sensitive data.",
		"- Keep answers brief when asked for summaries; be concise by default.",
		"Output:",
		"- Use plain text with simple formatting. Provide step-by-step reasoning only when explicitly requested.",
	}, "\n")
}

// =============================================================================
// BUILDER
// =============================================================================

// Build composes the full ordered payload for one completion request.
// Fragment order is fixed: system instruction, optional reference material,
// conversation history oldest first, the new utterance, then an optional
// trailing deep-reasoning directive. Build never mutates its inputs and is
// deterministic for identical arguments.
func Build(history []model.Message, learnerName, enrichment string, deep bool, utterance string) []Fragment {
	if strings.TrimSpace(learnerName) == "" {
		learnerName = DefaultLearnerName
	}

	out := make([]Fragment, 0, len(history)+4)
	out = append(out, Fragment{Role: roleSystem, Content: systemInstruction(learnerName)})

	if enrichment != "" {
		out = append(out, Fragment{
			Role:    roleSystem,
			Content: "Reference material from an external encyclopedia, for grounding only:\n" + enrichment,
		})
	}

	for _, msg := range history {
		out = append(out, Fragment{Role: string(msg.Role), Content: msg.Content})
	}

	out = append(out, Fragment{Role: string(model.RoleUser), Content: utterance})

	if deep {
		out = append(out, Fragment{Role: roleSystem, Content: deepReasoning})
	}
	return out
}
