package media

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataURI(t *testing.T) {
	encoded := EncodeDataURI("image/jpeg", []byte("jpeg-bytes"))

	parsed, err := ParseDataURI(encoded)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", parsed.MIMEType)
	assert.Equal(t, []byte("jpeg-bytes"), parsed.Data)
}

func TestParseDataURIParams(t *testing.T) {
	parsed, err := ParseDataURI("data:audio/L16;codec=pcm;rate=16000;base64,AAEC")
	require.NoError(t, err)
	assert.Equal(t, "audio/l16", parsed.MIMEType)
	assert.Equal(t, "16000", parsed.Params["rate"])
	assert.Equal(t, []byte{0, 1, 2}, parsed.Data)
}

func TestParseDataURIRejects(t *testing.T) {
	cases := map[string]string{
		"no prefix":    "image/jpeg;base64,AAEC",
		"no separator": "data:image/jpeg;base64",
		"no mime":      "data:;base64,AAEC",
		"not base64":   "data:text/plain,hello",
		"bad payload":  "data:image/png;base64,@@@",
		"empty":        "data:image/png;base64,",
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDataURI(value)
			assert.ErrorIs(t, err, ErrInvalidDataURI)
		})
	}
}

func TestPCMFormatFromMIME(t *testing.T) {
	assert.Equal(t, PCMFormat{SampleRate: 24000, Channels: 1}, PCMFormatFromMIME("audio/L16;codec=pcm;rate=24000"))
	assert.Equal(t, PCMFormat{SampleRate: 16000, Channels: 2}, PCMFormatFromMIME("audio/L16;rate=16000;channels=2"))
	assert.Equal(t, PCMFormat{SampleRate: 24000, Channels: 1}, PCMFormatFromMIME("audio/L16;rate=abc"))
	assert.True(t, IsPCM("audio/L16;codec=pcm"))
	assert.False(t, IsPCM("audio/wav"))
}

func TestWrapPCMAsWAV(t *testing.T) {
	pcm := []byte{1, 2, 3, 4}
	wav, err := WrapPCMAsWAV(pcm, PCMFormat{SampleRate: 24000, Channels: 1})
	require.NoError(t, err)
	require.Len(t, wav, 44+len(pcm))

	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, uint32(36+len(pcm)), binary.LittleEndian.Uint32(wav[4:8]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, uint32(24000), binary.LittleEndian.Uint32(wav[24:28]))
	assert.Equal(t, uint32(48000), binary.LittleEndian.Uint32(wav[28:32]))
	assert.Equal(t, "data", string(wav[36:40]))
	assert.Equal(t, pcm, wav[44:])

	_, err = WrapPCMAsWAV(pcm, PCMFormat{})
	assert.Error(t, err)
}
