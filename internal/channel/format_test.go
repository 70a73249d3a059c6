package channel

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Quinntas/max/internal/lead"
)

func TestFormatSMSShortMessage(t *testing.T) {
	got := Format("Thanks for reaching out! What are you looking for?", lead.ChannelSMS, "Sunrise Toyota")
	require.Len(t, got.Chunks, 1)
	assert.Equal(t, "Thanks for reaching out! What are you looking for?", got.Chunks[0])
	assert.Equal(t, got.Chunks[0], got.Response)
}

func TestFormatSMSTrimsWhitespace(t *testing.T) {
	got := Format("  hello there  ", lead.ChannelSMS, "")
	require.Len(t, got.Chunks, 1)
	assert.Equal(t, "hello there", got.Chunks[0])
}

func TestFormatSMSAtConcatLimit(t *testing.T) {
	msg := strings.Repeat("a", SMSConcatMaxLength)
	got := Format(msg, lead.ChannelSMS, "")
	require.Len(t, got.Chunks, 1)
	assert.Equal(t, msg, got.Chunks[0])
}

func TestFormatSMSLongMessageChunks(t *testing.T) {
	// 2000 chars of sentences forces truncation to 1600 and chunking.
	sentence := "This is a test sentence that fills space. "
	msg := strings.Repeat(sentence, 50) // 2100 chars

	got := Format(msg, lead.ChannelSMS, "")
	require.Greater(t, len(got.Chunks), 1)

	total := 0
	for i, chunk := range got.Chunks {
		assert.LessOrEqual(t, len(chunk), SMSMaxLength, "chunk %d too long", i)
		assert.Equal(t, strings.TrimSpace(chunk), chunk, "chunk %d not trimmed", i)
		assert.NotEmpty(t, chunk)
		total += len(chunk)
	}
	// Nothing past the carrier ceiling survives.
	assert.LessOrEqual(t, total, SMSConcatMaxLength)
	assert.Equal(t, strings.Join(got.Chunks, "\n\n"), got.Response)
}

func TestFormatSMSPrefersSentenceBreaks(t *testing.T) {
	// Two sentences whose boundary sits in the back half of the first
	// 160-char window: the split should land on it.
	first := strings.Repeat("a", 118) + "."
	msg := first + " " + strings.Repeat("b", 1600)

	got := Format(msg, lead.ChannelSMS, "")
	require.Greater(t, len(got.Chunks), 1)
	assert.Equal(t, first, got.Chunks[0])
}

func TestFormatSMSMultiByteChunksStayValid(t *testing.T) {
	// Accented text past the carrier ceiling: every cut must land on a
	// rune boundary and limits count characters, not bytes.
	msg := "a" + strings.Repeat("é", 2000)

	got := Format(msg, lead.ChannelSMS, "")
	require.Greater(t, len(got.Chunks), 1)

	total := 0
	for i, chunk := range got.Chunks {
		assert.True(t, utf8.ValidString(chunk), "chunk %d is not valid UTF-8", i)
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), SMSMaxLength, "chunk %d too long", i)
		total += utf8.RuneCountInString(chunk)
	}
	assert.LessOrEqual(t, total, SMSConcatMaxLength)
}

func TestFormatSMSMultiByteSentenceBreak(t *testing.T) {
	first := strings.Repeat("é", 118) + "."
	msg := first + " " + strings.Repeat("ü", 1600)

	got := Format(msg, lead.ChannelSMS, "")
	require.Greater(t, len(got.Chunks), 1)
	assert.Equal(t, first, got.Chunks[0])
	for i, chunk := range got.Chunks {
		assert.True(t, utf8.ValidString(chunk), "chunk %d is not valid UTF-8", i)
	}
}

func TestFormatSMSMultiByteUnderLimitUntouched(t *testing.T) {
	msg := strings.Repeat("日本語のメッセージ。", 155) // 1550 runes, well past 1600 bytes
	got := Format(msg, lead.ChannelSMS, "")
	require.Len(t, got.Chunks, 1)
	assert.Equal(t, msg, got.Chunks[0])
}

func TestFormatSMSHardCutWithoutSpaces(t *testing.T) {
	msg := strings.Repeat("x", 1700)
	got := Format(msg, lead.ChannelSMS, "")
	require.Equal(t, 10, len(got.Chunks)) // 1600 / 160
	for _, chunk := range got.Chunks {
		assert.Len(t, chunk, SMSMaxLength)
	}
}

func TestFormatEmail(t *testing.T) {
	got := Format("Happy to help with your Camry search.", lead.ChannelEmail, "Sunrise Toyota")
	require.Len(t, got.Chunks, 1)
	assert.Equal(t, "Happy to help with your Camry search.\n\nBest regards,\nSunrise Toyota Team", got.Response)
	assert.Equal(t, got.Response, got.Chunks[0])
}

func TestFormatVoice(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "ampersand",
			response: "sales & service",
			want:     "sales and service",
		},
		{
			name:     "dollar sign",
			response: "about $30",
			want:     "about dollars 30 ",
		},
		{
			name:     "percent sign",
			response: "about 5% down",
			want:     "about 5  percent down",
		},
		{
			name:     "sentence pause",
			response: "Welcome. How can I help?",
			want:     "Welcome. <break time='300ms'/> How can I help? <break time='300ms'/> ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(tt.response, lead.ChannelVoice, "")
			require.Len(t, got.Chunks, 1)
			assert.Equal(t, tt.want, got.Response)
		})
	}
}

func TestFormatUnknownChannelPassesThrough(t *testing.T) {
	got := Format("hello", lead.Channel("FAX"), "")
	assert.Equal(t, "hello", got.Response)
	assert.Equal(t, []string{"hello"}, got.Chunks)
}
