package media

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

const (
	defaultPCMRate     = 24000
	defaultPCMChannels = 1
	pcmBitsPerSample   = 16
)

// PCMFormat describes raw little-endian signed 16-bit PCM audio.
type PCMFormat struct {
	SampleRate int
	Channels   int
}

// PCMFormatFromMIME reads `audio/L16;codec=pcm;rate=24000` style parameters.
func PCMFormatFromMIME(mimeType string) PCMFormat {
	format := PCMFormat{SampleRate: defaultPCMRate, Channels: defaultPCMChannels}
	for _, part := range strings.Split(mimeType, ";") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			continue
		}
		switch strings.ToLower(key) {
		case "rate":
			format.SampleRate = parsed
		case "channels":
			format.Channels = parsed
		}
	}
	return format
}

// IsPCM reports whether the MIME type carries raw PCM samples.
func IsPCM(mimeType string) bool {
	lower := strings.ToLower(mimeType)
	return strings.HasPrefix(lower, "audio/l16") || strings.HasPrefix(lower, "audio/pcm")
}

// WrapPCMAsWAV prefixes raw PCM samples with a RIFF/WAVE header.
func WrapPCMAsWAV(pcm []byte, format PCMFormat) ([]byte, error) {
	if format.SampleRate <= 0 || format.Channels <= 0 {
		return nil, fmt.Errorf("wrap pcm: invalid format %+v", format)
	}
	blockAlign := format.Channels * pcmBitsPerSample / 8
	byteRate := format.SampleRate * blockAlign

	var buffer bytes.Buffer
	buffer.Grow(44 + len(pcm))
	buffer.WriteString("RIFF")
	writeLE(&buffer, uint32(36+len(pcm)))
	buffer.WriteString("WAVE")
	buffer.WriteString("fmt ")
	writeLE(&buffer, uint32(16))
	writeLE(&buffer, uint16(1))
	writeLE(&buffer, uint16(format.Channels))
	writeLE(&buffer, uint32(format.SampleRate))
	writeLE(&buffer, uint32(byteRate))
	writeLE(&buffer, uint16(blockAlign))
	writeLE(&buffer, uint16(pcmBitsPerSample))
	buffer.WriteString("data")
	writeLE(&buffer, uint32(len(pcm)))
	buffer.Write(pcm)
	return buffer.Bytes(), nil
}

func writeLE(buffer *bytes.Buffer, value any) {
	// bytes.Buffer writes never fail.
	_ = binary.Write(buffer, binary.LittleEndian, value)
}
