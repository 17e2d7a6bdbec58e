package qr

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/geocoder89/eventmail/internal/domain/participant"
)

const (
	// pixels per module; go-qrcode treats a negative size as a module scale
	ModuleSize = 10
	// go-qrcode always draws the standard 4-module quiet zone unless disabled
	BorderModules = 4
)

var ErrInvalidPayload = errors.New("invalid qr payload")

// Payload is the string carried by the QR code: the participant as compact
// JSON, base64 encoded so the scanner sees plain ASCII.
func Payload(p participant.Participant) (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal participant: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// Encode renders the participant payload as a PNG QR code at error
// correction level L.
func Encode(p participant.Participant) ([]byte, error) {
	payload, err := Payload(p)
	if err != nil {
		return nil, err
	}

	code, err := qrcode.New(payload, qrcode.Low)
	if err != nil {
		return nil, fmt.Errorf("build qr: %w", err)
	}
	code.ForegroundColor = color.Black
	code.BackgroundColor = color.White

	png, err := code.PNG(-ModuleSize)
	if err != nil {
		return nil, fmt.Errorf("render qr: %w", err)
	}
	return png, nil
}

// Decode reverses Payload. Scanners at the venue use it to recover the
// participant record.
func Decode(payload string) (participant.Participant, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return participant.Participant{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	var p participant.Participant
	if err := json.Unmarshal(raw, &p); err != nil {
		return participant.Participant{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return p, nil
}
