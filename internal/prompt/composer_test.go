package prompt

import (
	"errors"
	"testing"

	"github.com/Veraticus/radstage/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     string
	}{
		{
			name:     "braced placeholders",
			template: "examples:\n${few_shots}\ninput:\n${test_input}\noutput:\n",
			want:     "examples:\nFS\ninput:\nREPORT\noutput:\n",
		},
		{
			name:     "bare placeholders",
			template: "$few_shots|$test_input.",
			want:     "FS|REPORT.",
		},
		{
			name:     "escaped dollar",
			template: "cost $$5 ${test_input}",
			want:     "cost $5 REPORT",
		},
		{
			name:     "placeholder used twice",
			template: "${test_input}/${test_input}",
			want:     "REPORT/REPORT",
		},
		{
			name:     "no placeholders",
			template: "plain text",
			want:     "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compose(tt.template, "FS", "REPORT")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompose_ValuesAreNotReexpanded(t *testing.T) {
	got, err := Compose("${few_shots}:${test_input}", "$test_input", "${unknown} $$")
	require.NoError(t, err)
	assert.Equal(t, "$test_input:${unknown} $$", got)
}

func TestCompose_Deterministic(t *testing.T) {
	first, err := Compose(DefaultTemplate, "input:\nA\n\noutput:\n{}", "肺野に腫瘤")
	require.NoError(t, err)

	for range 5 {
		again, err := Compose(DefaultTemplate, "input:\nA\n\noutput:\n{}", "肺野に腫瘤")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCompose_TemplateErrors(t *testing.T) {
	tests := []struct {
		name        string
		template    string
		placeholder string
		offset      int
	}{
		{"unknown braced placeholder", "x ${report}", "report", 2},
		{"unknown bare placeholder", "$name", "name", 0},
		{"unterminated brace", "${few_shots", "", 0},
		{"empty braces", "a${}", "", 1},
		{"dangling dollar", "total: $", "", 7},
		{"dollar before digit", "$5", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Compose(tt.template, "FS", "REPORT")
			require.Error(t, err)
			assert.Empty(t, out)
			assert.ErrorIs(t, err, common.ErrTemplate)

			var templateErr *TemplateError
			require.True(t, errors.As(err, &templateErr))
			assert.Equal(t, tt.placeholder, templateErr.Placeholder)
			assert.Equal(t, tt.offset, templateErr.Offset)

			assert.Equal(t, err, Validate(tt.template))
		})
	}
}

func TestDefaultTemplateIsValid(t *testing.T) {
	require.NoError(t, Validate(DefaultTemplate))

	out, err := Compose(DefaultTemplate, "FEW", "TARGET")
	require.NoError(t, err)
	assert.Contains(t, out, "## 入出力例\n\nFEW\n")
	assert.Contains(t, out, "input:\nTARGET\n\noutput:\n")
	assert.NotContains(t, out, "$")
}
