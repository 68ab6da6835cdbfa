package schema

import "time"

// Selector identifies the visual element a detail pane was opened from.
// Mode is only read for SelectGroup.
type Selector struct {
	Kind  SelectorKind    `json:"kind"`
	Value string          `json:"value,omitempty"`
	Mode  ContributorMode `json:"mode,omitempty"`
}

// DetailSelection is the exact commit subset behind a visual element.
type DetailSelection struct {
	Title      string   `json:"title"`
	Subtitle   string   `json:"subtitle"`
	Commits    []Commit `json:"commits"`
	FilterInfo string   `json:"filter_info,omitempty"`
}

// DetailPage is one window of a DetailSelection.
type DetailPage struct {
	Title      string   `json:"title"`
	Subtitle   string   `json:"subtitle"`
	Commits    []Commit `json:"commits"`
	FilterInfo string   `json:"filter_info,omitempty"`
	Offset     int      `json:"offset"`
	Limit      int      `json:"limit"`
	Total      int      `json:"total"`
	HasMore    bool     `json:"has_more"`
}

// StateStatus represents the status of the state store.
type StateStatus struct {
	Backend        string    `json:"backend"`
	Connected      bool      `json:"connected"`
	TotalEntries   int       `json:"total_entries"`
	Keys           []string  `json:"keys"`
	LastEntryTime  time.Time `json:"last_entry_time"`
	TableSizeBytes int64     `json:"table_size_bytes"`
}
