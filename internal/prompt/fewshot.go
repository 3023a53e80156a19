package prompt

import (
	"strings"

	"github.com/Veraticus/radstage/internal/model"
)

// BuildFewShotBlock renders examples in order as input/output pairs separated
// by blank lines. The output of each pair is the minified label object.
func BuildFewShotBlock(examples []model.Example) string {
	blocks := make([]string, 0, len(examples))
	for _, ex := range examples {
		blocks = append(blocks, "input:\n"+ex.Text+"\n\noutput:\n"+ex.Labels.MarshalCompact())
	}
	return strings.Join(blocks, "\n\n")
}
