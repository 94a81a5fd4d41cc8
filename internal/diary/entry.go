package diary

import (
	"encoding/json"
	"fmt"
	"time"
)

// EmptyContent is the structured document stored for entries that were
// created through a mood update and have no text yet.
const EmptyContent = "{}"

// Entry is one diary record. EntryDate (YYYY-MM-DD) is the natural key:
// there is exactly one entry per date.
type Entry struct {
	ID          string    // UUID, immutable
	EntryDate   string    // YYYY-MM-DD
	ContentJSON string    // editor document, stored verbatim
	Mood        *string   // optional mood category
	MoodEmoji   *string   // optional display glyph, not validated against Mood
	CreatedAt   time.Time // immutable after creation
	UpdatedAt   time.Time // never earlier than CreatedAt
}

// AIOperation is the audit record of a text transformation performed by an
// external AI provider. Records are insert-only and are removed together with
// their owning entry.
type AIOperation struct {
	ID           string
	EntryID      string
	OpType       string // "polish", "expand", "fix_grammar", ...
	OriginalText string
	ResultText   string
	Provider     string
	Model        string
	CreatedAt    time.Time
}

// WritingStats summarises writing activity across all entries.
type WritingStats struct {
	TotalEntries  int64 `json:"total_entries"`
	CurrentStreak int   `json:"current_streak"`
	LongestStreak int   `json:"longest_streak"`
}

// SchemaVersion records one applied migration step.
type SchemaVersion struct {
	Version   uint
	AppliedAt time.Time
}

// IndexReport describes how the search shadow index relates to the entries
// table. A consistent store has zero Missing, Orphaned, Stale and Duplicated.
type IndexReport struct {
	Entries     int64
	Projections int64
	Missing     int64 // entries without a projection
	Orphaned    int64 // projections whose entry no longer exists
	Stale       int64 // projections whose text differs from the entry
	Duplicated  int64 // extra projections for the same entry
}

// Consistent reports whether the index matches the entries table exactly.
func (r *IndexReport) Consistent() bool {
	return r.Missing == 0 && r.Orphaned == 0 && r.Stale == 0 && r.Duplicated == 0
}

// entryJSON is the wire form shared by bundles and CLI output.
// Timestamps are milliseconds since the Unix epoch.
type entryJSON struct {
	ID          string  `json:"id"`
	EntryDate   string  `json:"entry_date"`
	ContentJSON string  `json:"content_json"`
	Mood        *string `json:"mood"`
	MoodEmoji   *string `json:"mood_emoji"`
	CreatedAt   int64   `json:"created_at"`
	UpdatedAt   int64   `json:"updated_at"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryJSON{
		ID:          e.ID,
		EntryDate:   e.EntryDate,
		ContentJSON: e.ContentJSON,
		Mood:        e.Mood,
		MoodEmoji:   e.MoodEmoji,
		CreatedAt:   toMillis(e.CreatedAt),
		UpdatedAt:   toMillis(e.UpdatedAt),
	})
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var w entryJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: decoding entry: %w", ErrSerialization, err)
	}
	*e = Entry{
		ID:          w.ID,
		EntryDate:   w.EntryDate,
		ContentJSON: w.ContentJSON,
		Mood:        w.Mood,
		MoodEmoji:   w.MoodEmoji,
		CreatedAt:   FromMillis(w.CreatedAt),
		UpdatedAt:   FromMillis(w.UpdatedAt),
	}
	return nil
}

type aiOperationJSON struct {
	ID           string `json:"id"`
	EntryID      string `json:"entry_id"`
	OpType       string `json:"op_type"`
	OriginalText string `json:"original_text"`
	ResultText   string `json:"result_text"`
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	CreatedAt    int64  `json:"created_at"`
}

func (op AIOperation) MarshalJSON() ([]byte, error) {
	return json.Marshal(aiOperationJSON{
		ID:           op.ID,
		EntryID:      op.EntryID,
		OpType:       op.OpType,
		OriginalText: op.OriginalText,
		ResultText:   op.ResultText,
		Provider:     op.Provider,
		Model:        op.Model,
		CreatedAt:    toMillis(op.CreatedAt),
	})
}

func (op *AIOperation) UnmarshalJSON(data []byte) error {
	var w aiOperationJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: decoding ai operation: %w", ErrSerialization, err)
	}
	*op = AIOperation{
		ID:           w.ID,
		EntryID:      w.EntryID,
		OpType:       w.OpType,
		OriginalText: w.OriginalText,
		ResultText:   w.ResultText,
		Provider:     w.Provider,
		Model:        w.Model,
		CreatedAt:    FromMillis(w.CreatedAt),
	}
	return nil
}

// FromMillis converts a stored millisecond timestamp to a UTC time.
// Zero maps to the zero time.
func FromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
