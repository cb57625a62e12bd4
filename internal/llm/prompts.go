// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

// Prompts for each analysis operation. Kept short and directive; the
// orchestrator treats the responses as opaque text.
const (
	promptAudio = "Listen to this audio and describe the question or problem it contains. " +
		"Respond with the problem statement only, no preamble."

	promptImage = "Look at this screenshot and extract the question or problem it shows. " +
		"Respond with the problem statement only, no preamble."

	promptMCQ = "This screenshot shows a multiple-choice question. State the question, " +
		"list the options, and identify the correct answer with a brief justification."

	promptCode = "This screenshot shows a programming problem. Write a complete, correct " +
		"solution. Respond with code only inside a single fenced block, no explanation."

	promptSolution = "Solve the following problem. Provide a clear, complete solution.\n\n"

	promptDebug = "Here is a proposed solution to a problem, followed by screenshots showing " +
		"its current behavior or errors. Identify what is wrong and provide a corrected " +
		"solution.\n\nProposed solution:\n\n"
)
