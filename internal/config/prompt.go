package config

// DefaultLLMPrompt is rendered with the transcript as template data.
const DefaultLLMPrompt = `You are reviewing a support chat between a user and an AI assistant.

Conversation:
{{range .Turns}}[{{.Role}}] {{.Text}}
{{end}}
Rate the assistant. Respond with JSON only:
{"clarity": <0-5>, "relevance": <0-5>, "accuracy": <0-5>, "completeness": <0-5>,
 "sentiment": "positive|neutral|negative", "empathy": <0-5>,
 "resolved": <true|false>, "needs_escalation": <true|false>}
`
