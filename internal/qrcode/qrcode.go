// Package qrcode renders the patient QR codes printed at reception.
package qrcode

import (
	"fmt"
	"regexp"
	"strings"

	goqrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the PNG edge length in pixels.
const DefaultSize = 290

var (
	feetPattern  = regexp.MustCompile(`(ft|feet)+`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// Encoder builds QR images that point at the public patient card.
type Encoder struct {
	baseURL string
	size    int
}

// NewEncoder creates an encoder for links under baseURL.
func NewEncoder(baseURL string) *Encoder {
	return &Encoder{baseURL: strings.TrimRight(baseURL, "/"), size: DefaultSize}
}

// PatientURL is the public card URL encoded in the QR.
func (e *Encoder) PatientURL(uid string) string {
	return e.baseURL + "/p/" + uid
}

// PNG encodes the patient card URL for uid.
func (e *Encoder) PNG(uid string) ([]byte, error) {
	if uid == "" {
		return nil, fmt.Errorf("qrcode: empty uid")
	}
	png, err := goqrcode.Encode(e.PatientURL(uid), goqrcode.Medium, e.size)
	if err != nil {
		return nil, fmt.Errorf("qrcode: encode %s: %w", uid, err)
	}
	return png, nil
}

// Filename is the stored image name for uid.
func Filename(uid string) string {
	return uid + ".png"
}

// NormalizeHeight tidies free-text heights such as "5 Feet" into "5 ft".
func NormalizeHeight(height string) string {
	h := strings.ToLower(strings.TrimSpace(height))
	if h == "" {
		return ""
	}
	h = feetPattern.ReplaceAllString(h, "ft")
	h = strings.TrimSpace(spacePattern.ReplaceAllString(h, " "))
	if !strings.HasSuffix(h, "ft") {
		h += " ft"
	}
	return h
}
