// Package schema has models, constants and value types shared by all parts of gitpulse.
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultRepoID is the repo_id assigned to commits that do not carry one.
// A repository literally named "default" shares this group.
const DefaultRepoID = "default"

// Commit is one analyzed unit of version-control history.
// Every field except SHA is optional; legacy field names are kept so older
// datasets still decode.
type Commit struct {
	SHA         string   `json:"sha"`
	Timestamp   string   `json:"timestamp,omitempty"`
	Message     string   `json:"message,omitempty"`
	Author      Author   `json:"author,omitzero"`
	AuthorID    string   `json:"author_id,omitempty"`
	AuthorName  string   `json:"author_name,omitempty"`  // legacy
	AuthorEmail string   `json:"author_email,omitempty"` // legacy
	RepoID      string   `json:"repo_id,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Tag         string   `json:"tag,omitempty"` // legacy single tag
	Complexity  Rating   `json:"complexity,omitzero"`
	Urgency     Rating   `json:"urgency,omitzero"`
	Impact      string   `json:"impact,omitempty"`
	Risk        string   `json:"risk,omitempty"`
	Debt        string   `json:"debt,omitempty"`
	Semver      string   `json:"semver,omitempty"`
	Epic        string   `json:"epic,omitempty"`
	Stats       Stats    `json:"stats,omitzero"`
	Files       []string `json:"files,omitempty"`
}

// commitWire mirrors Commit for decoding; every field tolerates a wrong JSON type.
type commitWire struct {
	SHA         looseString  `json:"sha"`
	Timestamp   looseString  `json:"timestamp"`
	Message     looseString  `json:"message"`
	Author      Author       `json:"author"`
	AuthorID    looseString  `json:"author_id"`
	AuthorName  looseString  `json:"author_name"`
	AuthorEmail looseString  `json:"author_email"`
	RepoID      looseString  `json:"repo_id"`
	Tags        looseStrings `json:"tags"`
	Tag         looseString  `json:"tag"`
	Complexity  Rating       `json:"complexity"`
	Urgency     Rating       `json:"urgency"`
	Impact      looseString  `json:"impact"`
	Risk        looseString  `json:"risk"`
	Debt        looseString  `json:"debt"`
	Semver      looseString  `json:"semver"`
	Epic        looseString  `json:"epic"`
	Stats       Stats        `json:"stats"`
	Files       looseStrings `json:"files"`
}

// UnmarshalJSON requires an object but never fails on a field's shape:
// a value of the wrong type reads as absent.
func (c *Commit) UnmarshalJSON(b []byte) error {
	var w commitWire
	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("commit must be an object: %w", err)
	}
	*c = Commit{
		SHA:         string(w.SHA),
		Timestamp:   string(w.Timestamp),
		Message:     string(w.Message),
		Author:      w.Author,
		AuthorID:    string(w.AuthorID),
		AuthorName:  string(w.AuthorName),
		AuthorEmail: string(w.AuthorEmail),
		RepoID:      string(w.RepoID),
		Tags:        w.Tags,
		Tag:         string(w.Tag),
		Complexity:  w.Complexity,
		Urgency:     w.Urgency,
		Impact:      string(w.Impact),
		Risk:        string(w.Risk),
		Debt:        string(w.Debt),
		Semver:      string(w.Semver),
		Epic:        string(w.Epic),
		Stats:       w.Stats,
		Files:       w.Files,
	}
	return nil
}

// looseString decodes a JSON string; any other value reads as "".
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		v = ""
	}
	*s = looseString(v)
	return nil
}

// looseStrings decodes an array of strings, dropping non-string elements.
// Anything other than an array reads as nil.
type looseStrings []string

func (l *looseStrings) UnmarshalJSON(b []byte) error {
	*l = nil
	var raw []any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	for _, v := range raw {
		if s, ok := v.(string); ok {
			*l = append(*l, s)
		}
	}
	return nil
}

// Author identifies who wrote a commit.
type Author struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// UnmarshalJSON accepts either {"name","email"} or a "Name <email>" string.
// Any other shape reads as an unknown author.
func (a *Author) UnmarshalJSON(b []byte) error {
	*a = Author{}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = ParseAuthorString(s)
		return nil
	}
	var p struct {
		Name  looseString `json:"name"`
		Email looseString `json:"email"`
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return nil
	}
	*a = Author{Name: string(p.Name), Email: string(p.Email)}
	return nil
}

// ParseAuthorString splits "Jane Doe <jane@example.com>" into its parts.
// A bare value containing '@' is treated as an email.
func ParseAuthorString(s string) Author {
	s = strings.TrimSpace(s)
	if open := strings.LastIndex(s, "<"); open >= 0 && strings.HasSuffix(s, ">") {
		return Author{
			Name:  strings.TrimSpace(s[:open]),
			Email: strings.TrimSpace(s[open+1 : len(s)-1]),
		}
	}
	if strings.Contains(s, "@") {
		return Author{Email: s}
	}
	return Author{Name: s}
}

// Rating is an optional 1-5 score assigned by the tagging step.
// Absent, non-numeric, fractional and out-of-range values all decode as unset.
type Rating struct {
	Value int
	Valid bool
}

// NewRating returns a set rating when v is within 1..5.
func NewRating(v int) Rating {
	if v < MinRating || v > MaxRating {
		return Rating{}
	}
	return Rating{Value: v, Valid: true}
}

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// UnmarshalJSON never fails on shape; unusable values leave the rating unset.
func (r *Rating) UnmarshalJSON(b []byte) error {
	*r = Rating{}
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	if v, ok := wholeNumber(raw); ok {
		*r = NewRating(v)
	}
	return nil
}

// MarshalJSON writes the number, or null when unset.
func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(r.Value)), nil
}

// IsZero reports whether the rating is unset, for omitzero.
func (r Rating) IsZero() bool { return !r.Valid }

// Stats holds diff statistics. Missing counts read as 0.
type Stats struct {
	Additions    int `json:"additions"`
	Deletions    int `json:"deletions"`
	FilesChanged int `json:"files_changed,omitempty"`
}

// UnmarshalJSON tolerates numeric strings and floats; anything else reads as 0.
func (s *Stats) UnmarshalJSON(b []byte) error {
	*s = Stats{}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	s.Additions = nonNegative(raw["additions"])
	s.Deletions = nonNegative(raw["deletions"])
	s.FilesChanged = nonNegative(raw["files_changed"])
	return nil
}

func nonNegative(v any) int {
	n, ok := wholeNumber(v)
	if !ok || n < 0 {
		return 0
	}
	return n
}

// wholeNumber converts JSON numbers and numeric strings holding an integer.
func wholeNumber(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) || t != math.Trunc(t) {
			return 0, false
		}
		return int(t), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Dataset is a loaded commit collection plus its descriptive metadata.
type Dataset struct {
	Commits  []Commit `json:"commits"`
	Metadata Metadata `json:"metadata"`
}

// Metadata is the free-form metadata object of a dataset file.
type Metadata map[string]any

// Well-known metadata keys.
const (
	MetaRepoName     = "repo_name"
	MetaGeneratedAt  = "generated_at"
	MetaTotalCommits = "total_commits"
)

// RepoNames returns repo_name as a list whether it was stored as a string or an array.
func (m Metadata) RepoNames() []string {
	switch v := m[MetaRepoName].(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case []any:
		names := make([]string, 0, len(v))
		for _, n := range v {
			if s, ok := n.(string); ok && s != "" {
				names = append(names, s)
			}
		}
		return names
	default:
		return nil
	}
}

// GeneratedAt returns generated_at when it is a string.
func (m Metadata) GeneratedAt() string {
	s, _ := m[MetaGeneratedAt].(string)
	return s
}

// TotalCommits returns total_commits as an int.
func (m Metadata) TotalCommits() int {
	n, _ := wholeNumber(m[MetaTotalCommits])
	if v, ok := m[MetaTotalCommits].(int); ok {
		return v
	}
	return n
}
