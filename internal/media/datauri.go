package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDataURI indicates a value that is not a base64 data URI with a MIME type.
var ErrInvalidDataURI = errors.New("invalid data uri")

// DataURI is a decoded `data:<mime>;base64,<data>` value.
type DataURI struct {
	MIMEType string
	Params   map[string]string
	Data     []byte
}

// ParseDataURI decodes a base64 data URI. The MIME type is required.
func ParseDataURI(value string) (DataURI, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(value), "data:")
	if !ok {
		return DataURI{}, fmt.Errorf("%w: missing data: prefix", ErrInvalidDataURI)
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return DataURI{}, fmt.Errorf("%w: missing payload separator", ErrInvalidDataURI)
	}

	parts := strings.Split(header, ";")
	mimeType := strings.ToLower(strings.TrimSpace(parts[0]))
	if mimeType == "" || !strings.Contains(mimeType, "/") {
		return DataURI{}, fmt.Errorf("%w: missing mime type", ErrInvalidDataURI)
	}

	params := make(map[string]string)
	isBase64 := false
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if strings.EqualFold(part, "base64") {
			isBase64 = true
			continue
		}
		if key, val, found := strings.Cut(part, "="); found {
			params[strings.ToLower(key)] = val
		}
	}
	if !isBase64 {
		return DataURI{}, fmt.Errorf("%w: payload is not base64", ErrInvalidDataURI)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return DataURI{}, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	if len(data) == 0 {
		return DataURI{}, fmt.Errorf("%w: empty payload", ErrInvalidDataURI)
	}

	return DataURI{MIMEType: mimeType, Params: params, Data: data}, nil
}

// EncodeDataURI builds a base64 data URI for data.
func EncodeDataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
