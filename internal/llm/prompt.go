package llm

import (
	"strings"
	"unicode/utf8"
)

const summaryPrompt = `You are a helpful assistant. Read the following document text extracted with OCR and provide a concise summary highlighting the main points. Be clear and coherent.

Document text extracted with OCR :
{text}

Summary:`

// BuildSummaryPrompt fills the fixed summary prompt with text.
func BuildSummaryPrompt(text string) string {
	return strings.Replace(summaryPrompt, "{text}", text, 1)
}

// Truncate cuts text to at most maxChars runes, preferring a whitespace
// boundary in the last tenth. maxChars <= 0 disables truncation.
func Truncate(text string, maxChars int) (string, bool) {
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text, false
	}
	end, n := len(text), 0
	for i := range text {
		if n == maxChars {
			end = i
			break
		}
		n++
	}
	out := text[:end]
	if ws := strings.LastIndexAny(out, " \n\t\f"); ws > 0 && utf8.RuneCountInString(out[ws:]) <= maxChars/10+1 {
		out = out[:ws]
	}
	return strings.TrimRight(out, " \n\t\f"), true
}
