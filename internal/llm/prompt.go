package llm

import (
	"strings"
)

// MaxPromptChars bounds the resume text sent to the model.
const MaxPromptChars = 24000

// SystemPrompt is the fixed system instruction for resume extraction.
const SystemPrompt = "You are an expert at extracting structured information from resumes. Return only valid JSON."

// BuildUserPrompt wraps the resume text in the fixed extraction instruction.
func BuildUserPrompt(req ExtractRequest) string {
	text := strings.TrimSpace(req.ResumeText)
	truncated := false
	if len(text) > MaxPromptChars {
		text = text[:MaxPromptChars]
		truncated = true
	}

	var b strings.Builder
	b.WriteString("Extract candidate information from the following resume text and return it in JSON format.\n\n")
	b.WriteString("Required fields:\n")
	b.WriteString("- full_name (string): The candidate's full name\n")
	b.WriteString("- email (string): The candidate's email address\n")
	b.WriteString("- university (string, optional): The university or educational institution\n")
	b.WriteString("- address (string, optional): The candidate's location or address\n")
	b.WriteString("- status (string): Set to \"pending\"\n")
	b.WriteString("- skills (string): Comma-separated string of skills mentioned in the resume\n\n")
	if fn := strings.TrimSpace(req.FilenameHint); fn != "" {
		b.WriteString("Filename: ")
		b.WriteString(fn)
		b.WriteString("\n\n")
	}
	b.WriteString("Resume text:\n")
	b.WriteString(text)
	if truncated {
		b.WriteString("\n…(truncated)")
	}
	b.WriteString("\n\nReturn ONLY a valid JSON object with the extracted information. ")
	b.WriteString("If an optional field is not found, omit it. If no skills are found, use an empty string.\n")
	b.WriteString("Example format:\n")
	b.WriteString(`{"full_name": "John Doe", "email": "john.doe@example.com", "university": "Example University", "address": "City, Country", "status": "pending", "skills": "Python, Java, Docker"}`)
	b.WriteString("\n")
	return b.String()
}
