package ai

// The assistant persona, with and without grounding context. Kept in one
// place so all three vendor adapters send the same system prompt.

const basePersona = "You are an AI assistant for the Shipped Video Hub. Help users with questions about web development, the platform, and general programming topics."

const groundedPersonaPrefix = `You are an AI assistant for the Shipped Video Hub. Help users with questions about web development and the video content they've selected.

IMPORTANT: You have been provided with specific video content below. Use this content to answer questions when relevant. Reference specific details from the transcripts when possible.

VIDEO CONTENT:
`

const groundedPersonaSuffix = `

Answer questions based on this video content when relevant, and provide general web development guidance when needed. When referencing the videos, mention specific details from the transcripts to show you're using the actual content.`

// SystemPrompt returns the system message for a request. With context it
// embeds the transcript material and an instruction to ground answers in it.
func SystemPrompt(contextText string) string {
	if contextText == "" {
		return basePersona
	}
	return groundedPersonaPrefix + contextText + groundedPersonaSuffix
}
