// Package store provides a SQLite-backed catalog of subcategory templates.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned when a named template does not exist.
var ErrNotFound = errors.New("template not found")

// Catalog stores subcategory templates.
type Catalog struct {
	db *sql.DB
}

// Open opens or creates the catalog database at the given path. A new
// catalog is seeded with DefaultTemplates exactly once, so removing a
// built-in template sticks.
func Open(dbPath string) (*Catalog, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating catalog dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening catalog db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	c := &Catalog{db: db}
	if err := c.seed(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seeding templates: %w", err)
	}
	return c, nil
}

// Close closes the catalog database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) seed() error {
	var seeded string
	err := c.db.QueryRow("SELECT value FROM meta WHERE key = 'seeded'").Scan(&seeded)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range DefaultTemplates {
		if err := putTx(tx, t); err != nil {
			return err
		}
	}
	if _, err := tx.Exec("INSERT INTO meta (key, value) VALUES ('seeded', ?)",
		time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return tx.Commit()
}

// List returns every template ordered by name.
func (c *Catalog) List() ([]Template, error) {
	rows, err := c.db.Query(`SELECT t.name, t.builtin, i.name
		FROM templates t
		LEFT JOIN template_items i ON i.template_id = t.id
		ORDER BY t.name COLLATE NOCASE, i.position`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Template
	for rows.Next() {
		var (
			name    string
			builtin int
			item    sql.NullString
		)
		if err := rows.Scan(&name, &builtin, &item); err != nil {
			return nil, err
		}
		if len(out) == 0 || out[len(out)-1].Name != name {
			out = append(out, Template{Name: name, Builtin: builtin == 1})
		}
		if item.Valid {
			last := &out[len(out)-1]
			last.Subcategories = append(last.Subcategories, item.String)
		}
	}
	return out, rows.Err()
}

// Get returns the template with the given name, ignoring case.
func (c *Catalog) Get(name string) (Template, error) {
	all, err := c.List()
	if err != nil {
		return Template{}, err
	}
	t, ok := Lookup(all, name)
	if !ok {
		return Template{}, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return t, nil
}

// Suggest returns templates whose name contains input, ignoring case.
func (c *Catalog) Suggest(input string) ([]Template, error) {
	all, err := c.List()
	if err != nil {
		return nil, err
	}
	return Match(all, input), nil
}

// Put creates or replaces a template.
func (c *Catalog) Put(t Template) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return errors.New("template name is empty")
	}
	if len(t.Subcategories) == 0 {
		return errors.New("template needs at least one subcategory")
	}

	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := putTx(tx, t); err != nil {
		return err
	}
	return tx.Commit()
}

func putTx(tx *sql.Tx, t Template) error {
	builtin := 0
	if t.Builtin {
		builtin = 1
	}
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := tx.Exec(`INSERT INTO templates (name, builtin, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET name = excluded.name, builtin = excluded.builtin, updated_at = excluded.updated_at`,
		t.Name, builtin, now)
	if err != nil {
		return fmt.Errorf("saving template %s: %w", t.Name, err)
	}

	var id int64
	if err := tx.QueryRow("SELECT id FROM templates WHERE name = ?", t.Name).Scan(&id); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM template_items WHERE template_id = ?", id); err != nil {
		return err
	}
	for i, sub := range t.Subcategories {
		if _, err := tx.Exec("INSERT INTO template_items (template_id, position, name) VALUES (?, ?, ?)",
			id, i, sub); err != nil {
			return err
		}
	}
	return nil
}

// Remove deletes the named template. It returns ErrNotFound if nothing matched.
func (c *Catalog) Remove(name string) error {
	res, err := c.db.Exec("DELETE FROM templates WHERE name = ?", strings.TrimSpace(name))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return nil
}
