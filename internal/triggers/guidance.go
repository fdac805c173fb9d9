package triggers

import "github.com/DEVELOPER7-sudo/aionyxgpt-sub000/pkg/onyxtypes"

// categoryGuidance is the elaboration attached to every directive of a category.
var categoryGuidance = map[onyxtypes.Category]string{
	onyxtypes.CategoryReasoning: `- State the question precisely before reasoning about it.
- Make every assumption explicit and show how each step follows from the last.
- Consider at least one alternative line of reasoning and explain why it was rejected.
- End the working section with a clear conclusion the final answer can build on.`,
	onyxtypes.CategoryResearch: `- Organize findings by theme rather than by source.
- Distinguish established facts, mainstream views, and contested claims.
- Name sources where possible and note their reliability.
- Close with the open questions that remain.`,
	onyxtypes.CategoryPlanning: `- Start from the goal and the constraints.
- Break the work into ordered, concrete steps with checkpoints.
- Call out dependencies, risks, and what to do if a step slips.
- Keep the plan realistic for the resources described.`,
	onyxtypes.CategoryWriting: `- Identify the audience, purpose, and tone before drafting.
- Keep structure visible: opening, body, close.
- Prefer plain, active language and cut filler.
- Put the finished text in the final answer, not in the working section.`,
	onyxtypes.CategoryCoding: `- Restate the technical requirement and any constraints on language or platform.
- Reason about edge cases, error handling, and complexity.
- Keep code samples complete and runnable, inside fenced code blocks.
- Explain how to verify the result.`,
	onyxtypes.CategoryCreative: `- Generate several distinct directions before committing to one.
- Favor specific, vivid detail over generic description.
- Keep an eye on the requested form, length, and mood.
- Present the strongest result in the final answer.`,
	onyxtypes.CategoryLearning: `- Gauge the learner's likely level and build from what they already know.
- Introduce one idea at a time with a concrete example.
- Check understanding with a short question or exercise.
- Summarize the key takeaways at the end.`,
	onyxtypes.CategoryData: `- Describe the shape of the data before analyzing it.
- Show the method behind every number you report.
- Point out data quality issues and their effect on conclusions.
- Recommend a presentation (table or chart) that fits the message.`,
	onyxtypes.CategoryProductivity: `- Focus on the smallest change that removes the most friction.
- Make steps actionable and tool-agnostic where possible.
- Estimate time or effort for each step.
- Suggest how to review whether the change worked.`,
}

const defaultGuidance = `- Follow the trigger instruction closely.
- Keep the working section focused and the final answer self-contained.`

// GuidanceFor returns the elaboration text for a category, or a generic text for
// unknown categories.
func GuidanceFor(category onyxtypes.Category) string {
	if text, ok := categoryGuidance[category]; ok {
		return text
	}
	return defaultGuidance
}
