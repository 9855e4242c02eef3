package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMessageType(t *testing.T) {
	for _, valid := range []string{"TEXT", "EMOJI", "IMAGE", "AUDIO", "VIDEO", "FILE", "SYSTEM"} {
		parsed, err := ParseMessageType(valid)
		assert.NoError(t, err)
		assert.Equal(t, MessageType(valid), parsed)
	}

	_, err := ParseMessageType("text")
	assert.Error(t, err)
	_, err = ParseMessageType("POKE")
	assert.Error(t, err)
}

func TestMessageTypeShape(t *testing.T) {
	assert.True(t, TypeText.NeedsContent())
	assert.True(t, TypeEmoji.NeedsContent())
	assert.False(t, TypeImage.NeedsContent())

	assert.True(t, TypeImage.NeedsAttachment())
	assert.True(t, TypeFile.NeedsAttachment())
	assert.False(t, TypeText.NeedsAttachment())
	assert.False(t, TypeSystem.NeedsAttachment())
}

func TestParseDirection(t *testing.T) {
	dir, err := ParseDirection("")
	assert.NoError(t, err)
	assert.Equal(t, DirectionNext, dir)

	dir, err = ParseDirection("PREVIOUS")
	assert.NoError(t, err)
	assert.Equal(t, DirectionPrevious, dir)

	_, err = ParseDirection("next")
	assert.Error(t, err)
	_, err = ParseDirection("UP")
	assert.Error(t, err)
}
