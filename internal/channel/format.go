// Package channel renders a pipeline response into delivery-ready message
// chunks for the target medium. Pure string transformation; the transport
// that actually sends the chunks lives in the host application.
package channel

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/Quinntas/max/internal/lead"
)

const (
	// SMSMaxLength is the single-segment SMS limit used as chunk size.
	SMSMaxLength = 160
	// SMSConcatMaxLength is the carrier concatenation ceiling; anything
	// longer is truncated before chunking.
	SMSConcatMaxLength = 1600
)

// Formatted is a channel-rendered response: the joined display form plus the
// individual chunks handed to the transport.
type Formatted struct {
	Response string
	Chunks   []string
}

// Format renders the response for the given channel. Unknown channels pass
// through as a single chunk.
func Format(response string, ch lead.Channel, dealershipName string) Formatted {
	switch ch {
	case lead.ChannelSMS:
		chunks := formatSMS(response)
		return Formatted{Response: strings.Join(chunks, "\n\n"), Chunks: chunks}
	case lead.ChannelEmail:
		body := formatEmail(response, dealershipName)
		return Formatted{Response: body, Chunks: []string{body}}
	case lead.ChannelVoice:
		spoken := formatVoice(response)
		return Formatted{Response: spoken, Chunks: []string{spoken}}
	default:
		return Formatted{Response: response, Chunks: []string{response}}
	}
}

// formatSMS returns the response as SMS chunks. Up to the carrier
// concatenation limit the message ships as one chunk; past it the text is
// truncated to 1600 characters and split greedily at sentence boundaries,
// falling back to the last space and then a hard cut. Limits count
// characters, not bytes, so multi-byte text never splits mid-rune.
func formatSMS(response string) []string {
	trimmed := []rune(strings.TrimSpace(response))

	if len(trimmed) <= SMSConcatMaxLength {
		return []string{string(trimmed)}
	}

	var chunks []string
	remaining := trimSpaceRunes(trimmed[:SMSConcatMaxLength])

	for len(remaining) > 0 {
		if len(remaining) <= SMSMaxLength {
			chunks = append(chunks, string(remaining))
			break
		}

		window := remaining[:SMSMaxLength]
		breakPoint := lastSentenceEnd(window)
		// A sentence break in the first half of the window wastes too much
		// of the segment; prefer a word break instead.
		if breakPoint == -1 || breakPoint < SMSMaxLength/2 {
			breakPoint = lastSpace(window)
		}
		if breakPoint == -1 {
			breakPoint = SMSMaxLength - 1
		}

		chunks = append(chunks, string(trimSpaceRunes(remaining[:breakPoint+1])))
		remaining = trimSpaceRunes(remaining[breakPoint+1:])
	}

	return chunks
}

// lastSentenceEnd returns the index of the last ". " in window, or -1.
func lastSentenceEnd(window []rune) int {
	for i := len(window) - 2; i >= 0; i-- {
		if window[i] == '.' && window[i+1] == ' ' {
			return i
		}
	}
	return -1
}

// lastSpace returns the index of the last whitespace rune in window, or -1.
func lastSpace(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		if unicode.IsSpace(window[i]) {
			return i
		}
	}
	return -1
}

func trimSpaceRunes(r []rune) []rune {
	start := 0
	for start < len(r) && unicode.IsSpace(r[start]) {
		start++
	}
	end := len(r)
	for end > start && unicode.IsSpace(r[end-1]) {
		end--
	}
	return r[start:end]
}

// formatEmail appends the dealership signature block.
func formatEmail(response, dealershipName string) string {
	return fmt.Sprintf("%s\n\nBest regards,\n%s Team", response, dealershipName)
}

var (
	voiceDigitRun    = regexp.MustCompile(`\b(\d+)\b`)
	voiceSentenceEnd = regexp.MustCompile(`([.!?])\s*`)
)

// formatVoice applies TTS-friendly substitutions: symbols become words,
// digit runs get breathing room, and sentence ends gain a short pause.
func formatVoice(response string) string {
	spoken := strings.ReplaceAll(response, "&", "and")
	spoken = strings.ReplaceAll(spoken, "$", "dollars ")
	spoken = strings.ReplaceAll(spoken, "%", " percent")
	spoken = voiceDigitRun.ReplaceAllString(spoken, "${1} ")
	spoken = voiceSentenceEnd.ReplaceAllString(spoken, "${1} <break time='300ms'/> ")
	return spoken
}
