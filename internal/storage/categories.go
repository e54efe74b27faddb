package storage

import (
	"fmt"
)

type SubcategorySeed struct {
	Canonical string            `json:"canonical"`
	Names     map[string]string `json:"names"`
}

type CategorySeed struct {
	Canonical     string            `json:"canonical"`
	Names         map[string]string `json:"names"`
	Subcategories []SubcategorySeed `json:"subcategories"`
}

func (s *Storage) IsCategoriesEmpty() (bool, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM categories`).Scan(&count)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// SeedCategories inserts the static catalog, keyed by canonical name so a
// repeated run changes nothing.
func (s *Storage) SeedCategories(catalog []CategorySeed) error {
	for _, cat := range catalog {
		if _, err := s.db.Exec(
			`INSERT OR IGNORE INTO categories (canonical_name) VALUES (?)`, cat.Canonical,
		); err != nil {
			return fmt.Errorf("seed category %s: %w", cat.Canonical, err)
		}
		var catID int64
		if err := s.db.QueryRow(
			`SELECT id FROM categories WHERE canonical_name = ?`, cat.Canonical,
		).Scan(&catID); err != nil {
			return err
		}
		for lang, name := range cat.Names {
			if _, err := s.db.Exec(
				`INSERT INTO category_translations (category_id, lang, name) VALUES (?, ?, ?)
					ON CONFLICT(category_id, lang) DO UPDATE SET name = excluded.name`,
				catID, lang, name,
			); err != nil {
				return err
			}
		}
		for _, sub := range cat.Subcategories {
			if _, err := s.db.Exec(
				`INSERT OR IGNORE INTO subcategories (category_id, canonical_name) VALUES (?, ?)`,
				catID, sub.Canonical,
			); err != nil {
				return err
			}
			var subID int64
			if err := s.db.QueryRow(
				`SELECT id FROM subcategories WHERE category_id = ? AND canonical_name = ?`,
				catID, sub.Canonical,
			).Scan(&subID); err != nil {
				return err
			}
			for lang, name := range sub.Names {
				if _, err := s.db.Exec(
					`INSERT INTO subcategory_translations (subcategory_id, lang, name) VALUES (?, ?, ?)
						ON CONFLICT(subcategory_id, lang) DO UPDATE SET name = excluded.name`,
					subID, lang, name,
				); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *Storage) CategoryNames(lang string) ([]string, error) {
	query := `SELECT t.name FROM categories c
		JOIN category_translations t ON t.category_id = c.id
		WHERE t.lang = ? ORDER BY c.id`
	return s.queryNames(query, lang)
}

// SubcategoryNames resolves a localized category label back to its category
// and lists that category's subcategory labels in the same language.
func (s *Storage) SubcategoryNames(lang, categoryName string) ([]string, error) {
	query := `SELECT st.name FROM subcategories sc
		JOIN subcategory_translations st ON st.subcategory_id = sc.id
		JOIN category_translations ct ON ct.category_id = sc.category_id AND ct.lang = ?
		WHERE st.lang = ? AND ct.name = ? ORDER BY sc.id`
	return s.queryNames(query, lang, lang, categoryName)
}

func (s *Storage) queryNames(query string, args ...interface{}) ([]string, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
