package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/gitpulse/schema"
)

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.csv")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.FileExists(t, path)
}

func TestGetDBFilePath(t *testing.T) {
	assert.Equal(t, DBFileName, filepath.Base(GetDBFilePath()))
}

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		maxWidth int
		expected string
	}{
		{"fits", "main.go", 10, "main.go"},
		{"truncated", "internal/contract/utils.go", 12, "...utils.go"},
		{"too narrow", "abcdef", 3, "abcdef"},
		{"unicode", "ünïcödé/fïlé.go", 8, "...lé.go"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncatePath(tt.path, tt.maxWidth))
		})
	}
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "fix login", TruncateText("fix login", 20))
	assert.Equal(t, "fix lo...", TruncateText("fix login redirect", 9))
	assert.Equal(t, "abc", TruncateText("abc", 2))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		b, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, b, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		b, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, b, s)
	}
	_, err := ParseBoolString("perhaps")
	assert.Error(t, err)

	for _, b := range []bool{true, false} {
		got, err := ParseBoolString(FormatBool(b))
		require.NoError(t, err)
		assert.Equal(t, b, got)
	}
}

func TestColorHelpers(t *testing.T) {
	for level := -1; level <= 5; level++ {
		assert.NotEmpty(t, GetColorIntensity(level))
	}
	assert.True(t, strings.Contains(GetColorIntensity(4), IntensityGlyphs[4]))
	assert.Contains(t, GetColorUrgency(schema.UrgencyReactive), "reactive")
	assert.Contains(t, GetColorRisk(schema.RiskHigh), "high")
	assert.Equal(t, "unrated", GetColorRisk("unrated"))
}
