package rewrite

import (
	"strings"

	apperrors "github.com/yanqian/tone-changer/pkg/errors"
)

// Payload is the raw JSON body. Pointer fields distinguish a missing key from
// an empty string; non-string values are rejected while decoding.
type Payload struct {
	Text *string `json:"text"`
	Tone *string `json:"tone"`
}

// Validate turns a decoded payload into a trimmed Request or an invalid_input error.
func (p Payload) Validate() (Request, error) {
	text, err := requiredField("text", p.Text)
	if err != nil {
		return Request{}, err
	}
	tone, err := requiredField("tone", p.Tone)
	if err != nil {
		return Request{}, err
	}
	return Request{Text: text, Tone: tone}, nil
}

func requiredField(name string, value *string) (string, error) {
	if value == nil {
		return "", apperrors.Wrap(apperrors.CodeInvalidInput, `missing "`+name+`" in request body`, nil)
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return "", apperrors.Wrap(apperrors.CodeInvalidInput, `"`+name+`" cannot be blank`, nil)
	}
	return trimmed, nil
}
