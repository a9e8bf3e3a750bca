package storage

// Source is one imported corpus file.
type Source struct {
	ID       int64  `db:"id"`
	Name     string `db:"name"`
	LoadedAt string `db:"loaded_at"` // SQLite CURRENT_TIMESTAMP text
	Entries  int    `db:"entries"`
}

// entryRow is a qa_entries row joined with its source name.
type entryRow struct {
	SourceID int64  `db:"source_id"`
	Position int    `db:"position"`
	Question string `db:"question"`
	Answer   string `db:"answer"`
	Category string `db:"category"`
	Intent   string `db:"intent"`
	City     string `db:"city"`
	Source   string `db:"source"`
}
