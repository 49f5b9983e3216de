package models

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDataURL is returned when a string is not a base64 data URL.
var ErrInvalidDataURL = errors.New("invalid data url")

// SceneImage is opaque presentation data produced for a scene description.
// It never influences player state.
type SceneImage struct {
	MIMEType string
	Data     []byte
}

// DataURL encodes the image as data:<mime>;base64,<payload>.
func (img *SceneImage) DataURL() string {
	return "data:" + img.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// ParseDataURL is the inverse of DataURL.
func ParseDataURL(s string) (*SceneImage, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, ErrInvalidDataURL
	}
	mime, payload, ok := strings.Cut(rest, ";base64,")
	if !ok || mime == "" {
		return nil, ErrInvalidDataURL
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return &SceneImage{MIMEType: mime, Data: data}, nil
}
