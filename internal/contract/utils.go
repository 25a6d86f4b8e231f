package contract

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/fairprice/schema"
)

// Color variables for console output.
var (
	AcceptedColor   = color.New(color.FgGreen, color.Bold) // price passed every rule
	ClampedColor    = color.New(color.FgYellow)            // floor or ceiling correction
	MarginColor     = color.New(color.FgRed, color.Bold)   // margin correction
	CompetitorColor = color.New(color.FgMagenta)           // competitor gap correction
	UndefinedColor  = color.New(color.FgHiBlack)           // empty segmentation cell
)

// UndefinedValue is shown in place of an elasticity that could not be computed.
const UndefinedValue = "undefined"

// GetColorLabel returns a colored label for a guardrail reason.
// It uses schema.GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(reason schema.GuardrailReason) string {
	text := schema.GetPlainLabel(reason)

	switch reason {
	case schema.ReasonOK:
		return AcceptedColor.Sprint(text)
	case schema.ReasonBelowFloor, schema.ReasonAboveCeiling:
		return ClampedColor.Sprint(text)
	case schema.ReasonMargin:
		return MarginColor.Sprint(text)
	default:
		return CompetitorColor.Sprint(text)
	}
}

// FormatElasticity renders an optional elasticity with the given precision.
func FormatElasticity(e *float64, precision int, useColors bool) string {
	if e == nil {
		if useColors {
			return UndefinedColor.Sprint(UndefinedValue)
		}
		return UndefinedValue
	}
	return strconv.FormatFloat(*e, 'f', precision, 64)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".fairprice_history.db"
	}
	return filepath.Join(homeDir, ".fairprice_history.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so the ellipsis leaves room for content.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// ParseOptionalFloat parses a flag value that may be left empty.
// An empty string yields nil.
func ParseOptionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", s, err)
	}
	if !isFinite(v) {
		return nil, fmt.Errorf("number %q must be finite", s)
	}
	return &v, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
