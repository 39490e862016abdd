package jsonx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadolammi/careeradvisor/internal/domain"
)

func TestCleanJson(t *testing.T) {
	assert.Equal(t, `{"a":1}`, CleanJson("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, CleanJson("```\n{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, CleanJson("  {\"a\":1}  "))
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"plain object", `{"done":true}`, `{"done":true}`, true},
		{"prose around object", "Here you go: {\"a\":[1,2]} hope it helps", `{"a":[1,2]}`, true},
		{"array first", "result: [{\"id\":1}] end", `[{"id":1}]`, true},
		{"object containing array", `{"xs":[1]}`, `{"xs":[1]}`, true},
		{"fenced", "```json\n[1,2]\n```", `[1,2]`, true},
		{"no payload", "sorry, I cannot", "", false},
		{"reversed braces", "} nothing {", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode(t *testing.T) {
	var out domain.QuestionOutcome
	err := Decode("```json\n{\"nextQuestion\":\"Why?\",\"options\":[\"A\"],\"isComplete\":false}\n```", &out)
	require.NoError(t, err)
	assert.Equal(t, "Why?", out.Question)
	assert.Equal(t, []string{"A"}, out.Options)
	assert.False(t, out.Done)
}

func TestDecodeMalformed(t *testing.T) {
	var out domain.QuestionOutcome
	for _, in := range []string{"", "   ", "no json here", `{"nextQuestion": }`} {
		err := Decode(in, &out)
		require.Error(t, err, in)
		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	}
}
