package blogicum

import (
	"strings"
	"time"

	"github.com/eringen/blogicum/views"
)

// GetCategoryBySlug returns a published category. Hidden categories are a
// miss: their listing pages must look like they do not exist.
func (s *Store) GetCategoryBySlug(slug string) (views.Category, error) {
	var cat views.Category
	row := s.db.QueryRow(`SELECT id, title, description, slug, is_published, created_at
        FROM categories WHERE slug = ? AND is_published = 1`, slug)
	if err := row.Scan(&cat.ID, &cat.Title, &cat.Description, &cat.Slug, &cat.Published, scanTime(&cat.CreatedAt)); err != nil {
		return views.Category{}, err
	}
	return cat, nil
}

// ListCategories returns categories ordered by title.
func (s *Store) ListCategories(publishedOnly bool) ([]views.Category, error) {
	query := "SELECT id, title, description, slug, is_published, created_at FROM categories"
	if publishedOnly {
		query += " WHERE is_published = 1"
	}
	query += " ORDER BY title ASC"
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []views.Category
	for rows.Next() {
		var cat views.Category
		if err := rows.Scan(&cat.ID, &cat.Title, &cat.Description, &cat.Slug, &cat.Published, scanTime(&cat.CreatedAt)); err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}
	return cats, rows.Err()
}

// CreateCategory inserts a category and returns its id. An empty slug is
// derived from the title. The slug must be unique; sqlite reports a
// constraint error otherwise.
func (s *Store) CreateCategory(title, description, slug string, published bool) (int64, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		slug = Slugify(title)
	}
	res, err := s.db.Exec(`INSERT INTO categories (title, description, slug, is_published, created_at)
        VALUES (?, ?, ?, ?, ?)`, title, description, slug, published, timeToDB(time.Now()))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// DeleteCategory removes a category; posts referencing it fall back to no
// category via ON DELETE SET NULL.
func (s *Store) DeleteCategory(id int64) error {
	_, err := s.db.Exec("DELETE FROM categories WHERE id = ?", id)
	return err
}

// ListLocations returns locations ordered by name.
func (s *Store) ListLocations(publishedOnly bool) ([]views.Location, error) {
	query := "SELECT id, name, is_published, created_at FROM locations"
	if publishedOnly {
		query += " WHERE is_published = 1"
	}
	query += " ORDER BY name ASC"
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locs []views.Location
	for rows.Next() {
		var loc views.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Published, scanTime(&loc.CreatedAt)); err != nil {
			return nil, err
		}
		locs = append(locs, loc)
	}
	return locs, rows.Err()
}

// CreateLocation inserts a location and returns its id.
func (s *Store) CreateLocation(name string, published bool) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO locations (name, is_published, created_at)
        VALUES (?, ?, ?)`, name, published, timeToDB(time.Now()))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// DeleteLocation removes a location; dependent posts keep existing with the
// reference cleared.
func (s *Store) DeleteLocation(id int64) error {
	_, err := s.db.Exec("DELETE FROM locations WHERE id = ?", id)
	return err
}
