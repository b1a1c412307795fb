package a2a

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArtifactTextJoinsTextPartsOnly(t *testing.T) {
	a := Artifact{Parts: []Part{
		NewTextPart("part one"),
		NewDataPart([]byte("skip")),
		NewTextPart("part two"),
	}}
	assert.Equal(t, "part one part two", a.Text())
}

func TestArtifactTextEmptyWithNoParts(t *testing.T) {
	a := Artifact{}
	assert.Equal(t, "", a.Text())
}
