package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetRandomName(t *testing.T) {
	for i := 0; i < 100; i++ {
		name := GetRandomName()
		parts := strings.SplitN(name, " ", 2)
		assert.Equal(t, 2, len(parts))
		assert.Contains(t, adjectives, parts[0])
		assert.Contains(t, animals, parts[1])
	}
}
