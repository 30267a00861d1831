package flows

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	PlaceholderOutfitImage  = "https://placehold.co/600x800.png"
	PlaceholderProductImage = "https://placehold.co/300x400.png"
)

var errNotDataURI = errors.New("not a base64 data URI")

// InlineMedia is an image sent to or received from the generative services.
type InlineMedia struct {
	MIMEType string
	Data     []byte
}

// ParseDataURI decodes "data:<mime>;base64,<payload>".
func ParseDataURI(uri string) (InlineMedia, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return InlineMedia{}, errNotDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return InlineMedia{}, errNotDataURI
	}
	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok || mimeType == "" {
		return InlineMedia{}, errNotDataURI
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return InlineMedia{}, fmt.Errorf("decode data URI payload: %w", err)
	}
	if len(data) == 0 {
		return InlineMedia{}, errNotDataURI
	}
	return InlineMedia{MIMEType: mimeType, Data: data}, nil
}

func DataURIFromBytes(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func (m InlineMedia) DataURI() string {
	return DataURIFromBytes(m.MIMEType, m.Data)
}

// SearchURL is the generic shopping search link for an outfit item.
func SearchURL(item string) string {
	return "https://google.com/search?q=" + url.QueryEscape(item)
}
