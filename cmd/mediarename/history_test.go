package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidHistoryAction(t *testing.T) {
	for _, a := range []string{"", "renamed", "copied", "skipped", "backed_up"} {
		assert.True(t, validHistoryAction(a), a)
	}
	assert.False(t, validHistoryAction("deleted"))
}

func TestShortSession(t *testing.T) {
	assert.Equal(t, "0f8fad5b", shortSession("0f8fad5b-d9cb-469f-a165-70867728950e"))
	assert.Equal(t, "abc", shortSession("abc"))
}
