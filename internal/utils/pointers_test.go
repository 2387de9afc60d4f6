package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetOrDefault(t *testing.T) {
	value := 7
	assert.Equal(t, 7, GetOrDefault(&value, 42))
	assert.Equal(t, 42, GetOrDefault[int](nil, 42))

	name := "issuer"
	assert.Equal(t, "issuer", GetOrDefault(&name, "Unknown"))
	assert.Equal(t, "Unknown", GetOrDefault[string](nil, "Unknown"))
}
