package prompt

import (
	"strings"
	"testing"

	"github.com/Veraticus/radstage/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestBuildFewShotBlock(t *testing.T) {
	examples := []model.Example{
		{Text: "report A", Labels: model.Labels{T: model.T1b, N: model.N0, M: model.M0}},
		{Text: "report B", Labels: model.Labels{T: model.T2b, N: model.N1, M: model.M1c}},
	}

	got := BuildFewShotBlock(examples)

	want := "input:\nreport A\n\noutput:\n{\"t\":\"T1b\",\"n\":\"N0\",\"m\":\"M0\"}" +
		"\n\n" +
		"input:\nreport B\n\noutput:\n{\"t\":\"T2b\",\"n\":\"N1\",\"m\":\"M1c\"}"
	assert.Equal(t, want, got)
}

func TestBuildFewShotBlock_PreservesOrder(t *testing.T) {
	a := model.Example{Text: "AAA", Labels: model.Labels{T: model.T3, N: model.N2, M: model.M1a}}
	b := model.Example{Text: "BBB", Labels: model.Labels{T: model.T0, N: model.N0, M: model.M0}}

	forward := BuildFewShotBlock([]model.Example{a, b})
	assert.Less(t, strings.Index(forward, "AAA"), strings.Index(forward, "BBB"))
	assert.Less(t, strings.Index(forward, `"T3"`), strings.Index(forward, "BBB"))

	reverse := BuildFewShotBlock([]model.Example{b, a})
	assert.Less(t, strings.Index(reverse, "BBB"), strings.Index(reverse, "AAA"))
}

func TestBuildFewShotBlock_Empty(t *testing.T) {
	assert.Empty(t, BuildFewShotBlock(nil))
}
