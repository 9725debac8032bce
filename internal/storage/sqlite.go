// Package storage persists parsed references and processing runs in SQLite.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/refsift/refsift/internal/reference"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// StoredRef is a persisted reference with its storage identity.
type StoredRef struct {
	ID        int64  `json:"id"`
	Source    string `json:"source"` // Originating document
	CreatedAt string `json:"created_at"`
	reference.ParsedReference
}

// Run is one processing-history record.
type Run struct {
	ID        int64         `json:"id"`
	Source    string        `json:"source"`
	RefsFound int           `json:"refs_found"`
	Duration  time.Duration `json:"duration"`
	Status    string        `json:"status"`
	Error     string        `json:"error,omitempty"`
	CreatedAt string        `json:"created_at"`
}

// Stats summarizes the stored corpus.
type Stats struct {
	TotalRefs      int            `json:"total_refs"`
	TotalDocuments int            `json:"total_documents"`
	AvgConfidence  float64        `json:"avg_confidence"`
	WithDOI        int            `json:"with_doi"`
	ByType         map[string]int `json:"by_type"`
	ByYear         map[string]int `json:"by_year"`
}

// selectRefFields is the standard field list for SELECT queries.
const selectRefFields = `id, source, seq, raw_text, authors, title, year,
	journal, booktitle, volume, issue, pages, publisher,
	doi, url, isbn, issn, citation_type, confidence, notes, created_at`

// OpenDB opens or creates a SQLite database at the given path, creating
// parent directories as needed.
func OpenDB(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		-- Parsed references
		CREATE TABLE IF NOT EXISTS refs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			seq TEXT,
			raw_text TEXT NOT NULL,
			authors TEXT NOT NULL,
			title TEXT NOT NULL,
			year TEXT,
			journal TEXT,
			booktitle TEXT,
			volume TEXT,
			issue TEXT,
			pages TEXT,
			publisher TEXT,
			doi TEXT,
			url TEXT,
			isbn TEXT,
			issn TEXT,
			citation_type TEXT NOT NULL DEFAULT 'article',
			confidence REAL NOT NULL DEFAULT 0.0,
			notes TEXT,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_refs_doi ON refs(doi) WHERE doi IS NOT NULL AND doi != '';
		CREATE INDEX IF NOT EXISTS idx_refs_source ON refs(source);
		CREATE INDEX IF NOT EXISTS idx_refs_confidence ON refs(confidence);

		-- Full-text search over the fields users actually query
		CREATE VIRTUAL TABLE IF NOT EXISTS refs_fts USING fts5(
			ref_id,
			title,
			authors,
			journal
		);

		-- Processing history
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			refs_found INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			error TEXT,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);
	`

	_, err := db.Exec(schema)
	return err
}

// InsertRefs stores one document's references in a single transaction and
// returns the number inserted.
func (d *DB) InsertRefs(source string, refs []reference.ParsedReference) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	refsStmt, err := tx.Prepare(`
		INSERT INTO refs (
			source, seq, raw_text, authors, title, year,
			journal, booktitle, volume, issue, pages, publisher,
			doi, url, isbn, issn, citation_type, confidence, notes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing refs insert: %w", err)
	}
	defer refsStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO refs_fts (ref_id, title, authors, journal)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, ref := range refs {
		authors := ref.AuthorString()
		res, err := refsStmt.Exec(
			source, ref.Seq, ref.RawText, authors, ref.Title, ref.Year,
			ref.Journal, ref.BookTitle, ref.Volume, ref.Issue, ref.Pages, ref.Publisher,
			ref.DOI, ref.URL, ref.ISBN, ref.ISSN, ref.CitationType, ref.Confidence,
			strings.Join(ref.Notes, "; "), now,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting ref %q: %w", ref.Title, err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("reading insert id: %w", err)
		}
		if _, err := ftsStmt.Exec(id, ref.Title, authors, ref.Journal); err != nil {
			return 0, fmt.Errorf("inserting fts for %q: %w", ref.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return len(refs), nil
}

// GetByID retrieves a stored reference.
func (d *DB) GetByID(id int64) (*StoredRef, error) {
	row := d.db.QueryRow(`SELECT `+selectRefFields+` FROM refs WHERE id = ?`, id)
	return scanRef(row)
}

// BySource returns all references extracted from one document, in sequence
// order.
func (d *DB) BySource(source string) ([]StoredRef, error) {
	rows, err := d.db.Query(`
		SELECT `+selectRefFields+`
		FROM refs
		WHERE source = ?
		ORDER BY CAST(seq AS INTEGER), id`, source)
	if err != nil {
		return nil, fmt.Errorf("querying by source: %w", err)
	}
	defer rows.Close()

	return scanRefs(rows)
}

// List returns stored references newest first, paginated.
func (d *DB) List(limit, offset int) ([]StoredRef, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := d.db.Query(`
		SELECT `+selectRefFields+`
		FROM refs
		ORDER BY id DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing refs: %w", err)
	}
	defer rows.Close()

	return scanRefs(rows)
}

// Search performs a full-text search over title, authors and journal.
func (d *DB) Search(query string, limit int) ([]StoredRef, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := d.db.Query(`
		SELECT `+selectRefFields+`
		FROM refs
		WHERE id IN (SELECT ref_id FROM refs_fts WHERE refs_fts MATCH ?)
		ORDER BY confidence DESC
		LIMIT ?`, prepareFTSQuery(query), limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanRefs(rows)
}

// MissingDOI returns references without a DOI, for enrichment passes.
func (d *DB) MissingDOI(limit int) ([]StoredRef, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := d.db.Query(`
		SELECT `+selectRefFields+`
		FROM refs
		WHERE doi IS NULL OR doi = ''
		ORDER BY confidence DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying missing DOIs: %w", err)
	}
	defer rows.Close()

	return scanRefs(rows)
}

// UpdateEnrichment writes registry-supplied identifier fields back to a
// stored reference. Empty arguments leave the stored value untouched.
func (d *DB) UpdateEnrichment(id int64, doi, url, publisher, issn string) error {
	_, err := d.db.Exec(`
		UPDATE refs SET
			doi = CASE WHEN ? != '' THEN ? ELSE doi END,
			url = CASE WHEN ? != '' THEN ? ELSE url END,
			publisher = CASE WHEN ? != '' THEN ? ELSE publisher END,
			issn = CASE WHEN ? != '' THEN ? ELSE issn END
		WHERE id = ?`,
		doi, doi, url, url, publisher, publisher, issn, issn, id)
	if err != nil {
		return fmt.Errorf("updating enrichment for %d: %w", id, err)
	}
	return nil
}

// AddRun records one document processing outcome.
func (d *DB) AddRun(source string, refsFound int, duration time.Duration, status, errMsg string) error {
	_, err := d.db.Exec(`
		INSERT INTO runs (source, refs_found, duration_ms, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		source, refsFound, duration.Milliseconds(), status, errMsg,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// Runs returns processing history, newest first.
func (d *DB) Runs(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := d.db.Query(`
		SELECT id, source, refs_found, duration_ms, status, error, created_at
		FROM runs
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var durationMS int64
		var errMsg sql.NullString
		if err := rows.Scan(&r.ID, &r.Source, &r.RefsFound, &durationMS, &r.Status, &errMsg, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.Error = errMsg.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetStats computes corpus statistics.
func (d *DB) GetStats() (*Stats, error) {
	stats := &Stats{
		ByType: make(map[string]int),
		ByYear: make(map[string]int),
	}

	row := d.db.QueryRow(`
		SELECT COUNT(*),
			COUNT(DISTINCT source),
			COALESCE(AVG(confidence), 0),
			SUM(CASE WHEN doi != '' THEN 1 ELSE 0 END)
		FROM refs`)
	var withDOI sql.NullInt64
	if err := row.Scan(&stats.TotalRefs, &stats.TotalDocuments, &stats.AvgConfidence, &withDOI); err != nil {
		return nil, fmt.Errorf("computing totals: %w", err)
	}
	stats.WithDOI = int(withDOI.Int64)

	rows, err := d.db.Query(`SELECT citation_type, COUNT(*) FROM refs GROUP BY citation_type`)
	if err != nil {
		return nil, fmt.Errorf("counting by type: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, fmt.Errorf("scanning type count: %w", err)
		}
		stats.ByType[t] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	yearRows, err := d.db.Query(`SELECT year, COUNT(*) FROM refs WHERE year != '' GROUP BY year`)
	if err != nil {
		return nil, fmt.Errorf("counting by year: %w", err)
	}
	defer yearRows.Close()
	for yearRows.Next() {
		var y string
		var n int
		if err := yearRows.Scan(&y, &n); err != nil {
			return nil, fmt.Errorf("scanning year count: %w", err)
		}
		stats.ByYear[y] = n
	}
	return stats, yearRows.Err()
}

// scanner abstracts sql.Row and sql.Rows for shared scan code.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRef(s scanner) (*StoredRef, error) {
	var r StoredRef
	var authors, notes string
	var seq, year, journal, booktitle, volume, issue, pages, publisher sql.NullString
	var doi, url, isbn, issn sql.NullString

	err := s.Scan(
		&r.ID, &r.Source, &seq, &r.RawText, &authors, &r.Title, &year,
		&journal, &booktitle, &volume, &issue, &pages, &publisher,
		&doi, &url, &isbn, &issn, &r.CitationType, &r.Confidence, &notes, &r.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning reference: %w", err)
	}

	if authors != "" {
		r.Authors = strings.Split(authors, " and ")
	}
	if notes != "" {
		r.Notes = strings.Split(notes, "; ")
	}
	r.Seq = seq.String
	r.Year = year.String
	r.Journal = journal.String
	r.BookTitle = booktitle.String
	r.Volume = volume.String
	r.Issue = issue.String
	r.Pages = pages.String
	r.Publisher = publisher.String
	r.DOI = doi.String
	r.URL = url.String
	r.ISBN = isbn.String
	r.ISSN = issn.String

	return &r, nil
}

func scanRefs(rows *sql.Rows) ([]StoredRef, error) {
	var refs []StoredRef
	for rows.Next() {
		r, err := scanRef(rows)
		if err != nil {
			return nil, err
		}
		if r != nil {
			refs = append(refs, *r)
		}
	}
	return refs, rows.Err()
}

// prepareFTSQuery quotes each token so FTS5 operators in user input are
// treated literally.
func prepareFTSQuery(query string) string {
	tokens := strings.Fields(query)
	for i, t := range tokens {
		tokens[i] = `"` + strings.ReplaceAll(t, `"`, ``) + `"`
	}
	return strings.Join(tokens, " ")
}
