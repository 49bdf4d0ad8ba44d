package clientmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMapper(t *testing.T) *Mapper {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "client_codes.json"))
}

func TestNormalizeCode(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "valid code unchanged", input: "GLX", expected: "GLX"},
		{name: "case folded", input: "glx", expected: "GLX"},
		{name: "truncated", input: "GLOBEX", expected: "GLO"},
		{name: "padded", input: "ab", expected: "ABX"},
		{name: "non-letters stripped", input: "g-l-x!", expected: "GLX"},
		{name: "digits only", input: "123", expected: "XXX"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeCode(tc.input))
		})
	}
}

func TestSuggestCode(t *testing.T) {
	m := newTestMapper(t)

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "single word", input: "Globex", expected: "GLO"},
		{name: "single short word", input: "Ab", expected: "ABX"},
		{name: "two words pads with first initial", input: "Globex Corp", expected: "GCG"},
		{name: "three words", input: "Acme Business Consulting", expected: "ABC"},
		{name: "four words uses first three", input: "Very Long Company Name", expected: "VLC"},
		{name: "empty", input: "", expected: "UNK"},
		{name: "punctuation only", input: "...", expected: "UNK"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := m.SuggestCode(tc.input)
			assert.Equal(t, tc.expected, result)
			// Deterministic: a second call yields the same suggestion.
			assert.Equal(t, result, m.SuggestCode(tc.input))
			assert.Len(t, result, 3)
		})
	}
}

func TestGetCodeAfterAddMapping(t *testing.T) {
	m := newTestMapper(t)

	stored := m.AddMapping("Globex Corp", "glx")
	assert.Equal(t, "GLX", stored)

	// Exact name.
	code, ok := m.GetCode("Globex Corp")
	require.True(t, ok)
	assert.Equal(t, "GLX", code)

	// Superset containing the normalized name.
	code, ok = m.GetCode("Globex Corp International")
	require.True(t, ok)
	assert.Equal(t, "GLX", code)

	// Case variant with a filler prefix.
	code, ok = m.GetCode("the GLOBEX corp")
	require.True(t, ok)
	assert.Equal(t, "GLX", code)

	_, ok = m.GetCode("Initech")
	assert.False(t, ok)
}

func TestGetCode_FirstMatchWins(t *testing.T) {
	m := newTestMapper(t)
	m.AddMapping("Acme Retail", "ARE")
	m.AddMapping("Acme", "ACM")

	// Both stored keys match "acmeretailholdings" by containment; the one
	// inserted first wins.
	code, ok := m.GetCode("Acme Retail Holdings")
	require.True(t, ok)
	assert.Equal(t, "ARE", code)

	// A name that only the shorter key matches resolves to that key.
	code, ok = m.GetCode("Acme Holdings")
	require.True(t, ok)
	assert.Equal(t, "ACM", code)
}

func TestAddMapping_OverwritesPriorCode(t *testing.T) {
	m := newTestMapper(t)
	m.AddMapping("Globex", "GLO")
	m.AddMapping("Globex", "GLX")

	code, ok := m.GetCode("Globex")
	require.True(t, ok)
	assert.Equal(t, "GLX", code)
	assert.Len(t, m.AllMappings(), 1)
}

func TestMappingsSurviveReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client_codes.json")

	m := New(path)
	m.AddMapping("Globex Corp", "GLX")
	m.AddMapping("Initech", "INI")

	reloaded := New(path)
	code, ok := reloaded.GetCode("Globex Corp")
	require.True(t, ok)
	assert.Equal(t, "GLX", code)

	mappings := reloaded.AllMappings()
	assert.Len(t, mappings, 2)
}

func TestCorruptFileDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client_codes.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	m := New(path)
	_, ok := m.GetCode("anything")
	assert.False(t, ok)
	assert.Empty(t, m.AllMappings())

	// Still usable in memory after the corrupt load.
	m.AddMapping("Globex", "GLX")
	code, ok := m.GetCode("Globex")
	require.True(t, ok)
	assert.Equal(t, "GLX", code)
}

func TestFindClients(t *testing.T) {
	m := newTestMapper(t)
	m.AddMapping("Globex Corp", "GLX")
	m.AddMapping("Initech", "INI")

	matches := m.FindClients("globex")
	require.Len(t, matches, 1)
	assert.Equal(t, "GLX", matches[0].Code)

	assert.Len(t, m.FindClients(""), 2)
}
