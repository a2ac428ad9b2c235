package diagram

import (
	"fmt"
	"strings"
)

// Format is the requested output image format. The set is closed; anything
// else is rejected before the pipeline runs.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
	FormatJPG Format = "jpg"
)

// DefaultFormat is used when a request leaves the format empty.
const DefaultFormat = FormatPNG

// ValidationError reports a caller-visible request problem detected before
// any parsing or rendering happens.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return "validation: " + e.Msg }

// ParseFormat normalizes and validates a requested output format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultFormat, nil
	case FormatPNG:
		return FormatPNG, nil
	case FormatSVG:
		return FormatSVG, nil
	case FormatJPG:
		return FormatJPG, nil
	default:
		return "", &ValidationError{Msg: fmt.Sprintf("unsupported output format %q (expected png, svg or jpg)", s)}
	}
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string { return string(f) }
