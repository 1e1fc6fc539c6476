package record

import (
	"encoding/json"
	"sort"
	"strings"
	"unicode/utf8"

	"tableflip.dev/propertease/pkg/calendar"
)

// TitleMaxRunes bounds titles derived from an idea.
const TitleMaxRunes = 48

// DayRecord is the planning data stored for one calendar day.
type DayRecord struct {
	Idea     string   `json:"idea"`
	Prompt   string   `json:"prompt"`
	Category Category `json:"category,omitempty"`
	Status   Status   `json:"status,omitempty"`
	Title    string   `json:"title,omitempty"`
	Thumb    string   `json:"thumb,omitempty"`

	// Extra keeps fields this version does not know about so that a
	// load/save cycle writes them back untouched.
	Extra map[string]json.RawMessage `json:"-"`
}

// New returns a freshly materialized record: empty text, the given category
// and draft status.
func New(category Category) *DayRecord {
	return &DayRecord{
		Category: category,
		Status:   StatusDraft,
	}
}

var knownFields = []string{"idea", "prompt", "category", "status", "title", "thumb"}

// dayRecordFields has the layout of DayRecord without its JSON methods.
type dayRecordFields DayRecord

// MarshalJSON merges Extra underneath the known fields.
func (r DayRecord) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(dayRecordFields(r))
	if err != nil {
		return nil, err
	}
	if len(r.Extra) == 0 {
		return base, nil
	}
	var known map[string]json.RawMessage
	if err := json.Unmarshal(base, &known); err != nil {
		return nil, err
	}
	merged := make(map[string]json.RawMessage, len(r.Extra)+len(known))
	for k, v := range r.Extra {
		merged[k] = v
	}
	for k, v := range known {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// UnmarshalJSON reads the known fields and stashes everything else in Extra.
func (r *DayRecord) UnmarshalJSON(b []byte) error {
	var fields dayRecordFields
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	for _, k := range knownFields {
		delete(all, k)
	}
	*r = DayRecord(fields)
	r.Extra = nil
	if len(all) > 0 {
		r.Extra = all
	}
	return nil
}

// IsEmpty reports whether the record carries no user content: no idea, no
// title and no category. Whitespace counts as content.
func (r *DayRecord) IsEmpty() bool {
	if r == nil {
		return true
	}
	return r.Idea == "" && r.Title == "" && r.Category == ""
}

// DisplayTitle returns Title, or a title derived from the idea when unset.
func (r *DayRecord) DisplayTitle() string {
	if r == nil {
		return ""
	}
	if t := strings.TrimSpace(r.Title); t != "" {
		return t
	}
	return DeriveTitle(r.Idea)
}

// Clone returns a deep copy.
func (r *DayRecord) Clone() *DayRecord {
	if r == nil {
		return nil
	}
	cp := *r
	if r.Extra != nil {
		cp.Extra = make(map[string]json.RawMessage, len(r.Extra))
		for k, v := range r.Extra {
			cp.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return &cp
}

// DeriveTitle takes the first non-blank line of idea, truncated to
// TitleMaxRunes with a trailing ellipsis.
func DeriveTitle(idea string) string {
	for _, line := range strings.Split(idea, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) <= TitleMaxRunes {
			return line
		}
		runes := []rune(line)
		return strings.TrimSpace(string(runes[:TitleMaxRunes-1])) + "…"
	}
	return ""
}

// MonthSet maps each day of one month to its record.
type MonthSet map[calendar.DayKey]*DayRecord

// Materialize returns the record for key, creating it with the given
// category when absent. Existing records are never replaced.
func (s MonthSet) Materialize(key calendar.DayKey, category Category) *DayRecord {
	if r, ok := s[key]; ok && r != nil {
		return r
	}
	r := New(category)
	s[key] = r
	return r
}

// Clone returns a deep copy of the set.
func (s MonthSet) Clone() MonthSet {
	out := make(MonthSet, len(s))
	for k, r := range s {
		out[k] = r.Clone()
	}
	return out
}

// Keys returns the day keys in chronological order.
func (s MonthSet) Keys() []calendar.DayKey {
	keys := make([]calendar.DayKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
