package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"fundlist/internal"
	"fundlist/internal/util"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS funds (
  code TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  type TEXT,
  fullName TEXT,
  company TEXT,
  inceptionDate TEXT,
  navDate TEXT,
  nav TEXT,
  lastSeenAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_funds_name ON funds(name);
CREATE INDEX IF NOT EXISTS idx_funds_type ON funds(type);

CREATE TABLE IF NOT EXISTS nav_history (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  code TEXT NOT NULL,
  navDate TEXT NOT NULL,
  nav TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(code, navDate),
  FOREIGN KEY(code) REFERENCES funds(code)
);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  kind TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) UpsertFunds(funds []internal.FundRecord) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO funds (code, name, type, fullName, company, inceptionDate, lastSeenAt)
VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(code) DO UPDATE SET
  name=excluded.name,
  type=excluded.type,
  fullName=excluded.fullName,
  company=excluded.company,
  inceptionDate=excluded.inceptionDate,
  lastSeenAt=CURRENT_TIMESTAMP
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, f := range funds {
		if _, err := stmt.Exec(f.Code, f.Name, f.Type, f.FullName, f.Company, f.InceptionDate); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) ListFunds(limit int) ([]internal.FundRecord, error) {
	query := `
SELECT code, name, type, fullName, company, inceptionDate, navDate, nav
FROM funds ORDER BY code ASC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.FundRecord
	for rows.Next() {
		var f internal.FundRecord
		var nav *string
		if err := rows.Scan(&f.Code, &f.Name, &f.Type, &f.FullName, &f.Company, &f.InceptionDate, &f.NavDate, &nav); err != nil {
			return nil, err
		}
		if nav != nil {
			if parsed, ok := util.ParseDecimal(*nav); ok {
				f.Nav = &parsed
			}
		}
		out = append(out, f)
	}

	return out, rows.Err()
}

// RecordNav stores the latest observation on the fund row and appends
// it to the history table.
func (d *DB) RecordNav(code, navDate string, nav decimal.Decimal) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
UPDATE funds SET navDate = ?, nav = ?, lastSeenAt = CURRENT_TIMESTAMP WHERE code = ?
`, navDate, nav.String(), code); err != nil {
		return err
	}

	if _, err := tx.Exec(`
INSERT INTO nav_history (code, navDate, nav) VALUES (?, ?, ?)
ON CONFLICT(code, navDate) DO UPDATE SET nav = excluded.nav
`, code, navDate, nav.String()); err != nil {
		return err
	}

	return tx.Commit()
}

func (d *DB) InsertRun(traceID, kind string, counts map[string]int) error {
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, kind, countsJson) VALUES (?, ?, ?)`,
		traceID, kind, string(countsJSON))
	return err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
