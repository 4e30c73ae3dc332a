package geminiservice

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitlab/internal/faults"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "json fence",
			raw:  "```json\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "bare fence",
			raw:  "```\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "no fence",
			raw:  `{"a":1}`,
			want: `{"a":1}`,
		},
		{
			name: "surrounding whitespace",
			raw:  "  \n```json\n{\"a\": \"b\"}\n```\n  ",
			want: `{"a": "b"}`,
		},
		{
			name: "fence only at start",
			raw:  "```json\n{\"a\":1}",
			want: `{"a":1}`,
		},
		{
			name: "plain text untouched",
			raw:  "not json at all",
			want: "not json at all",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.raw))
		})
	}
}

func TestExtractJSON(t *testing.T) {
	var out struct {
		A int `json:"a"`
	}
	require.NoError(t, ExtractJSON("```json\n{\"a\": 7}\n```", &out))
	assert.Equal(t, 7, out.A)
}

func TestExtractJSONParseError(t *testing.T) {
	var out map[string]interface{}
	err := ExtractJSON("```json\nnot valid json\n```", &out)
	require.Error(t, err)

	var pe *faults.ParseError
	assert.True(t, errors.As(err, &pe))
	assert.True(t, faults.IsFallbackTrigger(err))
}

func TestPromptDigestDistinguishesPrompts(t *testing.T) {
	a := promptDigest("system", "user one")
	b := promptDigest("system", "user two")
	c := promptDigest("system", "user one")

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, c)
}
