package model

import (
	"fmt"
	"regexp"
	"strings"

	"stock-lookup-bot/internal/domain"
)

var productCodeRe = regexp.MustCompile(`(?i)^\d{4}KH$`)

// ProductCode is four digits followed by the "KH" suffix, always upper case.
type ProductCode string

func (c ProductCode) String() string { return string(c) }

// InvalidFormatError carries the rejected text so the caller can echo it back.
type InvalidFormatError struct {
	Text string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("%s: %q", domain.ErrInvalidFormat, e.Text)
}

func (e *InvalidFormatError) Unwrap() error { return domain.ErrInvalidFormat }

// ParseProductCode validates already trimmed text. The suffix is accepted in any
// case and normalized to upper case, matching how codes are stored.
func ParseProductCode(text string) (ProductCode, error) {
	if !productCodeRe.MatchString(text) {
		return "", &InvalidFormatError{Text: text}
	}
	return ProductCode(strings.ToUpper(text)), nil
}
