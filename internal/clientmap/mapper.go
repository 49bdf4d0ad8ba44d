// Package clientmap resolves free-form client names to the stable 3-letter
// codes used in the hour sheet. Mappings are keyed by a normalized form of
// the name and persisted to a flat JSON file.
package clientmap

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

const codeFiller = 'X'

// Prefixes that carry no identity: "the acme company" and "acme company"
// should resolve to the same client.
var fillerPrefixes = []string{"the ", "company ", "client "}

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]`)
	nonLetter       = regexp.MustCompile(`[^A-Z]`)
	wordPattern     = regexp.MustCompile(`[A-Za-z0-9]+`)
)

// Mapping is one stored client name to code association.
type Mapping struct {
	Name string
	Code string
}

// Mapper maps client names to 3-letter codes. Lookups fall back to
// substring containment, so "Globex Corp International" still resolves once
// "globexcorp" is known. All methods are safe for concurrent use.
type Mapper struct {
	mu    sync.Mutex
	path  string
	codes map[string]string
	order []string // insertion order of keys, for deterministic fallback scans
}

// New loads the mapper from the given JSON file. A missing file is created
// empty; an unreadable or corrupt file degrades to an empty in-memory
// mapping so a broken config never blocks startup.
func New(path string) *Mapper {
	m := &Mapper{
		path:  path,
		codes: make(map[string]string),
	}
	m.load()
	return m
}

func (m *Mapper) load() {
	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		log.Printf("Creating new client codes file at %s", m.path)
		m.save()
		return
	}
	if err != nil {
		log.Printf("Error reading client codes from %s: %v", m.path, err)
		return
	}

	codes, order, err := decodeOrdered(data)
	if err != nil {
		log.Printf("Error parsing client codes from %s: %v", m.path, err)
		return
	}

	m.codes = codes
	m.order = order
	log.Printf("Loaded %d client codes from %s", len(m.codes), m.path)
}

// decodeOrdered unmarshals a flat JSON object while preserving the order of
// its keys. Fallback lookup scans in insertion order, so the file order is
// part of the lookup contract.
func decodeOrdered(data []byte) (map[string]string, []string, error) {
	codes := make(map[string]string)
	var order []string

	dec := json.NewDecoder(strings.NewReader(string(data)))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected string key, got %v", keyTok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return nil, nil, err
		}
		if _, exists := codes[key]; !exists {
			order = append(order, key)
		}
		codes[key] = value
	}

	return codes, order, nil
}

// encodeOrdered renders the mapping as an indented JSON object with keys in
// insertion order, so the stored file keeps the order lookups depend on.
func encodeOrdered(codes map[string]string, order []string) ([]byte, error) {
	var buf strings.Builder
	buf.WriteString("{")
	for i, key := range order {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(codes[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteString(": ")
		buf.Write(v)
	}
	if len(order) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}")
	return []byte(buf.String()), nil
}

// save writes the mapping to disk. Failures are logged, not returned: the
// mapping stays usable in memory for the rest of the process lifetime.
func (m *Mapper) save() {
	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("Error creating client codes directory: %v", err)
			return
		}
	}

	data, err := encodeOrdered(m.codes, m.order)
	if err != nil {
		log.Printf("Error encoding client codes: %v", err)
		return
	}

	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		log.Printf("Error writing client codes file: %v", err)
		return
	}
	if err := os.Rename(tmp, m.path); err != nil {
		_ = os.Remove(tmp)
		log.Printf("Error saving client codes file: %v", err)
	}
}

// GetCode returns the code for a client name. It tries an exact match on
// the normalized name first, then scans known names in insertion order and
// accepts containment in either direction. First match wins, no scoring.
func (m *Mapper) GetCode(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	normalized := normalizeName(name)
	if normalized == "" {
		return "", false
	}

	if code, ok := m.codes[normalized]; ok {
		return code, true
	}

	for _, existing := range m.order {
		if strings.Contains(existing, normalized) || strings.Contains(normalized, existing) {
			return m.codes[existing], true
		}
	}

	return "", false
}

// AddMapping stores the association between a client name and a code, both
// normalized, overwriting any previous code for that name, and persists the
// mapping synchronously. The stored code is returned.
func (m *Mapper) AddMapping(name, code string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	normalized := normalizeName(name)
	normalizedCode := NormalizeCode(code)

	if _, exists := m.codes[normalized]; !exists {
		m.order = append(m.order, normalized)
	}
	m.codes[normalized] = normalizedCode
	m.save()

	log.Printf("Added client code mapping: %s -> %s", normalized, normalizedCode)
	return normalizedCode
}

// SuggestCode derives a candidate 3-letter code from a client name.
// Single-word names use their first three letters; multi-word names use the
// first letter of each of the first three words. Short results are padded:
// single words with the filler letter, multi-word codes by repeating the
// first word's initial. Deterministic for any input.
func (m *Mapper) SuggestCode(name string) string {
	words := wordPattern.FindAllString(strings.ToUpper(name), -1)
	if len(words) == 0 {
		return "UNK"
	}

	if len(words) == 1 {
		word := words[0]
		if len(word) >= 3 {
			return word[:3]
		}
		return word + strings.Repeat(string(codeFiller), 3-len(word))
	}

	var code strings.Builder
	for i := 0; i < len(words) && i < 3; i++ {
		code.WriteByte(words[i][0])
	}
	suggestion := code.String()
	if len(suggestion) < 3 {
		suggestion += strings.Repeat(string(words[0][0]), 3-len(suggestion))
	}
	return suggestion
}

// AllMappings returns every stored association in insertion order.
func (m *Mapper) AllMappings() []Mapping {
	m.mu.Lock()
	defer m.mu.Unlock()

	mappings := make([]Mapping, 0, len(m.order))
	for _, name := range m.order {
		mappings = append(mappings, Mapping{Name: name, Code: m.codes[name]})
	}
	return mappings
}

// FindClients returns all stored clients whose normalized name contains the
// given partial name. An empty partial returns everything.
func (m *Mapper) FindClients(partial string) []Mapping {
	m.mu.Lock()
	defer m.mu.Unlock()

	normalized := normalizeName(partial)

	var matches []Mapping
	for _, name := range m.order {
		if strings.Contains(name, normalized) {
			matches = append(matches, Mapping{Name: name, Code: m.codes[name]})
		}
	}
	return matches
}

// normalizeName lowercases a client name, strips one leading filler prefix
// and removes everything that is not a letter or digit.
func normalizeName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, prefix := range fillerPrefixes {
		if strings.HasPrefix(normalized, prefix) {
			normalized = normalized[len(prefix):]
			break
		}
	}
	return nonAlphanumeric.ReplaceAllString(normalized, "")
}

// NormalizeCode forces a code into the canonical shape: uppercase letters
// only, truncated or right-padded with 'X' to exactly three characters.
// An empty input stays empty.
func NormalizeCode(code string) string {
	normalized := nonLetter.ReplaceAllString(strings.ToUpper(code), "")
	if normalized == "" && strings.TrimSpace(code) == "" {
		return ""
	}
	if len(normalized) > 3 {
		return normalized[:3]
	}
	return normalized + strings.Repeat(string(codeFiller), 3-len(normalized))
}
