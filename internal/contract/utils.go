package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/huangsam/gitpulse/schema"
)

// DBFileName is the default SQLite state file under the home directory.
const DBFileName = ".gitpulse_state.db"

// DateTimeFormat is the timestamp layout used in human-readable output.
const DateTimeFormat = "2006-01-02 15:04:05"

// Color variables for console output.
var (
	ReactiveColor = color.New(color.FgRed, color.Bold) // urgent, unplanned work
	NormalColor   = color.New(color.FgYellow)          // routine work
	PlannedColor  = color.New(color.FgGreen)           // scheduled work
	MutedColor    = color.New(color.FgHiBlack)         // empty or unset values
)

// IntensityColors shade heatmap levels 1 through 4.
var IntensityColors = [...]*color.Color{
	color.New(color.FgHiGreen),
	color.New(color.FgGreen),
	color.New(color.FgGreen, color.Bold),
	color.New(color.FgHiGreen, color.Bold),
}

// IntensityGlyphs draw heatmap levels 0 through 4.
var IntensityGlyphs = [...]string{"·", "░", "▒", "▓", "█"}

// GetColorIntensity renders a heatmap level as a shaded glyph.
func GetColorIntensity(level int) string {
	level = min(max(level, 0), len(IntensityGlyphs)-1)
	glyph := IntensityGlyphs[level]
	if level == 0 {
		return MutedColor.Sprint(glyph)
	}
	return IntensityColors[level-1].Sprint(glyph)
}

// GetColorUrgency colours an urgency bucket label.
func GetColorUrgency(b schema.UrgencyBucket) string {
	switch b {
	case schema.UrgencyReactive:
		return ReactiveColor.Sprint(b)
	case schema.UrgencyNormal:
		return NormalColor.Sprint(b)
	case schema.UrgencyPlanned:
		return PlannedColor.Sprint(b)
	default:
		return MutedColor.Sprint(b)
	}
}

// GetColorRisk colours a risk label.
func GetColorRisk(risk string) string {
	switch risk {
	case schema.RiskHigh:
		return ReactiveColor.Sprint(risk)
	case schema.RiskMedium:
		return NormalColor.Sprint(risk)
	case schema.RiskLow:
		return PlannedColor.Sprint(risk)
	default:
		return risk
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetDBFilePath returns the path to the SQLite DB file for state storage.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return DBFileName
	}
	return filepath.Join(homeDir, DBFileName)
}

// TruncatePath truncates a value to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to leave room for the "..." prefix and at least one character.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// TruncateText truncates a value to a maximum width with ellipsis suffix.
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

// FormatBool renders a boolean the way ParseBoolString reads it back.
func FormatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
