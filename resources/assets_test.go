package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogos(t *testing.T) {
	for _, name := range []string{LogoActive, LogoMuted} {
		resource, err := Logo(name)
		require.NoError(t, err, name)
		assert.Equal(t, "\x89PNG", string(resource.Content()[:4]))
	}

	_, err := Logo("missing.png")
	assert.Error(t, err)
}

func TestNotificationSound(t *testing.T) {
	sound := NotificationSound()
	require.Greater(t, len(sound), 44)
	assert.Equal(t, "RIFF", string(sound[:4]))
	assert.Equal(t, "WAVE", string(sound[8:12]))
}
