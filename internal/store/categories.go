package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/raido/internal/models"
)

// ResolveCategory maps a category name to its id, creating the category on
// first use. The name must already be trimmed by the caller; the resolver
// matches exactly and never normalizes.
//
// Lookup-then-create is not atomic. The store assumes a single writer, so a
// concurrent identical call cannot happen; the boundary (one process, one
// connection) enforces that, not this method.
func (db *DB) ResolveCategory(name string) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("store: resolve category: empty name")
	}
	var id int64
	err := db.conn.QueryRow(`SELECT id FROM categories WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("store: resolve category: %w", err)
	}
	res, err := db.conn.Exec(`INSERT INTO categories (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("store: create category: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: create category id: %w", err)
	}
	return id, nil
}

// Categories returns every category ordered alphabetically by name.
func (db *DB) Categories() ([]models.Category, error) {
	rows, err := db.conn.Query(`SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("store: list categories: %w", err)
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
