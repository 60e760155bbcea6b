package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateEntityID(t *testing.T) {
	id := GenerateEntityID("Town Hall")

	assert.True(t, strings.HasPrefix(id, "town-hall-"))
	assert.Len(t, id, len("town-hall-")+8)
	assert.NotEqual(t, id, GenerateEntityID("Town Hall"))
}

func TestGenerateEntityID_EmptyKind(t *testing.T) {
	assert.Len(t, GenerateEntityID("  "), 8)
}

func TestNormalizeKind(t *testing.T) {
	cases := map[string]string{
		"Town Hall":  "town-hall",
		"  footman ": "footman",
		"":           "",
	}
	for input, want := range cases {
		assert.Equal(t, want, normalizeKind(input), input)
	}
}
