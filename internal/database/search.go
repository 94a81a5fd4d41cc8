package database

import (
	"context"
	"strings"
	"unicode"

	"echo-daily/internal/database/sqlc"
	"echo-daily/internal/diary"
)

const searchEntries = `
	SELECT e.id, e.entry_date, e.content_json, e.created_at, e.updated_at, e.mood, e.mood_emoji
	FROM entries_fts fts
	JOIN entries e ON e.id = fts.entry_id
	WHERE entries_fts MATCH ?
	ORDER BY fts.rank, e.entry_date DESC
`

// SearchEntries ranks entries by BM25 relevance of their content and mood,
// best match first; equally relevant entries are ordered newest first.
// Every whitespace-separated term must match. A blank query returns no
// entries.
func (s *SQLiteDatabase) SearchEntries(query string) ([]*diary.Entry, error) {
	ftsQuery := sanitizeFTS(query)
	if ftsQuery == "" {
		return []*diary.Entry{}, nil
	}

	rows, err := s.db.QueryContext(context.Background(), searchEntries, ftsQuery)
	if err != nil {
		return nil, storageErr("searching entries", err)
	}
	defer rows.Close()

	entries := []*diary.Entry{}
	for rows.Next() {
		var row sqlc.Entry
		if err := rows.Scan(&row.ID, &row.EntryDate, &row.ContentJson,
			&row.CreatedAt, &row.UpdatedAt, &row.Mood, &row.MoodEmoji); err != nil {
			return nil, storageErr("scanning search result", err)
		}
		entries = append(entries, toEntry(row))
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("searching entries", err)
	}
	return entries, nil
}

// sanitizeFTS quotes each word so FTS5 treats user input as plain terms.
// Control characters are dropped; FTS5 cannot parse a NUL inside a string.
// "coffee AND tea" → `"coffee" "AND" "tea"`
func sanitizeFTS(query string) string {
	query = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, query)

	words := strings.Fields(query)
	terms := words[:0]
	for _, w := range words {
		w = strings.Trim(w, `"`)
		if w == "" {
			continue
		}
		terms = append(terms, `"`+strings.ReplaceAll(w, `"`, `""`)+`"`)
	}
	return strings.Join(terms, " ")
}
