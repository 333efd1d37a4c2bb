// Package split breaks long answers into bounded-size segments for chat
// transports that cap message length.
package split

import "strings"

// Sentences splits text into chunks of at most maxLen bytes, cutting at
// sentence boundaries (full stops) so each delivered segment reads as
// complete sentences. A single sentence longer than maxLen is hard-cut,
// preferring a space near the end of the chunk.
func Sentences(text string, maxLen int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= maxLen {
		return []string{text}
	}

	var parts []string
	current := ""

	for _, sentence := range strings.Split(text, ".") {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		sentence += "."

		if len(sentence) > maxLen {
			if current != "" {
				parts = append(parts, current)
				current = ""
			}
			parts = append(parts, hardCut(sentence, maxLen)...)
			continue
		}

		if current != "" && len(current)+len(sentence)+1 > maxLen {
			parts = append(parts, current)
			current = sentence
			continue
		}

		if current == "" {
			current = sentence
		} else {
			current += " " + sentence
		}
	}

	if current != "" {
		parts = append(parts, current)
	}
	return parts
}

func hardCut(text string, maxLen int) []string {
	var chunks []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			chunks = append(chunks, text)
			break
		}

		cut := maxLen
		// Prefer a space in the latter part of the chunk over a mid-word cut.
		if idx := strings.LastIndex(text[:maxLen], " "); idx > maxLen/3 {
			cut = idx
		}

		chunks = append(chunks, strings.TrimSpace(text[:cut]))
		text = strings.TrimSpace(text[cut:])
	}
	return chunks
}
