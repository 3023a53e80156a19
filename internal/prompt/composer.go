// Package prompt renders classification prompts from a template, a few-shot
// block and the target report text.
package prompt

import (
	"fmt"
	"strings"

	"github.com/Veraticus/radstage/internal/common"
)

// Placeholder names recognized in templates.
const (
	PlaceholderFewShots  = "few_shots"
	PlaceholderTestInput = "test_input"
)

// TemplateError describes a template that cannot be rendered.
type TemplateError struct {
	Placeholder string
	Reason      string
	Offset      int
}

func (e *TemplateError) Error() string {
	if e.Placeholder != "" {
		return fmt.Sprintf("template: %s %q at offset %d", e.Reason, e.Placeholder, e.Offset)
	}
	return fmt.Sprintf("template: %s at offset %d", e.Reason, e.Offset)
}

func (e *TemplateError) Unwrap() error {
	return common.ErrTemplate
}

// Compose substitutes the few-shot block and target text into template.
// Placeholders are written $name or ${name}; $$ is a literal dollar sign.
// Substituted values are inserted verbatim and never re-expanded.
func Compose(template, fewShotBlock, targetText string) (string, error) {
	values := map[string]string{
		PlaceholderFewShots:  fewShotBlock,
		PlaceholderTestInput: targetText,
	}

	var out strings.Builder
	out.Grow(len(template) + len(fewShotBlock) + len(targetText))

	err := scan(template, func(literal string) {
		out.WriteString(literal)
	}, func(name string) {
		out.WriteString(values[name])
	})
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

// Validate reports whether template can be rendered by Compose.
func Validate(template string) error {
	return scan(template, func(string) {}, func(string) {})
}

// scan walks template, emitting literal runs and recognized placeholder names.
func scan(template string, literal func(string), placeholder func(string)) error {
	i := 0
	for {
		j := strings.IndexByte(template[i:], '$')
		if j < 0 {
			literal(template[i:])
			return nil
		}
		literal(template[i : i+j])
		start := i + j
		rest := template[start+1:]

		switch {
		case strings.HasPrefix(rest, "$"):
			literal("$")
			i = start + 2

		case strings.HasPrefix(rest, "{"):
			end := strings.IndexByte(rest, '}')
			if end < 0 {
				return &TemplateError{Reason: "unterminated placeholder", Offset: start}
			}
			name := rest[1:end]
			if !isIdentifier(name) {
				return &TemplateError{Placeholder: name, Reason: "invalid placeholder", Offset: start}
			}
			if err := checkName(name, start); err != nil {
				return err
			}
			placeholder(name)
			i = start + 1 + end + 1

		default:
			n := identifierLength(rest)
			if n == 0 {
				return &TemplateError{Reason: "invalid placeholder", Offset: start}
			}
			name := rest[:n]
			if err := checkName(name, start); err != nil {
				return err
			}
			placeholder(name)
			i = start + 1 + n
		}
	}
}

func checkName(name string, offset int) error {
	switch name {
	case PlaceholderFewShots, PlaceholderTestInput:
		return nil
	default:
		return &TemplateError{Placeholder: name, Reason: "unknown placeholder", Offset: offset}
	}
}

func isIdentifier(s string) bool {
	return s != "" && identifierLength(s) == len(s)
}

// identifierLength returns the length of the ASCII identifier prefix of s.
func identifierLength(s string) int {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' && i > 0:
		default:
			return i
		}
	}
	return len(s)
}
