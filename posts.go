package blogicum

import (
	"database/sql"
	"strings"
	"time"

	"github.com/eringen/blogicum/views"
)

// PostFilter selects which posts a listing query returns. The zero value
// returns every post ordered by publication date descending.
//
// OnlyVisible applies the public visibility predicate: published, not
// scheduled in the future, and either uncategorized or in a published
// category. The predicate evaluates the clock at query time; callers decide
// whether the viewer is entitled to the unfiltered set.
type PostFilter struct {
	OnlyVisible      bool
	WithCommentCount bool
	AuthorID         int64 // restrict to one author (0 = all)
	CategoryID       int64 // restrict to one category (0 = all)
	Limit            int   // page size (0 = no limit)
	Offset           int
}

const postColumns = `p.id, p.title, p.text, p.image, p.pub_date, p.is_published, p.created_at,
    p.author_id, u.username,
    p.location_id, COALESCE(l.name, ''),
    p.category_id, COALESCE(c.title, ''), COALESCE(c.slug, ''), COALESCE(c.is_published, 0)`

const postJoins = `FROM posts p
    JOIN users u ON u.id = p.author_id
    LEFT JOIN locations l ON l.id = p.location_id
    LEFT JOIN categories c ON c.id = p.category_id`

func (f PostFilter) where(now time.Time) (string, []any) {
	var conds []string
	var args []any
	if f.OnlyVisible {
		conds = append(conds, "p.is_published = 1", "p.pub_date <= ?",
			"(p.category_id IS NULL OR c.is_published = 1)")
		args = append(args, timeToDB(now))
	}
	if f.AuthorID != 0 {
		conds = append(conds, "p.author_id = ?")
		args = append(args, f.AuthorID)
	}
	if f.CategoryID != 0 {
		conds = append(conds, "p.category_id = ?")
		args = append(args, f.CategoryID)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListPosts returns posts matching the filter, newest publication first.
func (s *Store) ListPosts(f PostFilter) ([]views.Post, error) {
	query := "SELECT " + postColumns
	if f.WithCommentCount {
		query += ", COUNT(cm.id)"
	}
	query += " " + postJoins
	if f.WithCommentCount {
		query += " LEFT JOIN comments cm ON cm.post_id = p.id"
	}
	where, args := f.where(time.Now())
	query += where
	if f.WithCommentCount {
		query += " GROUP BY p.id"
	}
	query += " ORDER BY p.pub_date DESC, p.id DESC"
	if f.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []views.Post
	for rows.Next() {
		var p views.Post
		dest := postScanDest(&p)
		if f.WithCommentCount {
			dest = append(dest, &p.CommentCount)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// CountPosts returns how many posts match the filter, ignoring Limit/Offset.
func (s *Store) CountPosts(f PostFilter) (int, error) {
	where, args := f.where(time.Now())
	query := "SELECT COUNT(*) " + postJoins + where
	var n int
	err := s.db.QueryRow(query, args...).Scan(&n)
	return n, err
}

// GetPost returns a post by id regardless of its visibility; callers apply
// VisibleTo before showing it to anyone but the author.
func (s *Store) GetPost(id int64) (views.Post, error) {
	var p views.Post
	row := s.db.QueryRow("SELECT "+postColumns+" "+postJoins+" WHERE p.id = ?", id)
	if err := row.Scan(postScanDest(&p)...); err != nil {
		return views.Post{}, err
	}
	return p, nil
}

// postScanDest builds the scan targets matching postColumns. Timestamps and
// nullable references go through intermediates captured by the closures in
// scanTime / scanNullID, so the final assignment happens inside Scan via
// sql.Scanner values.
func postScanDest(p *views.Post) []any {
	return []any{
		&p.ID, &p.Title, &p.Text, &p.Image,
		scanTime(&p.PubDate), &p.Published, scanTime(&p.CreatedAt),
		&p.AuthorID, &p.Author,
		scanNullID(&p.LocationID), &p.LocationName,
		scanNullID(&p.CategoryID), &p.CategoryTitle, &p.CategorySlug, &p.CategoryPublished,
	}
}

// CreatePost inserts a post and returns its id.
func (s *Store) CreatePost(p views.Post) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO posts
        (title, text, image, pub_date, is_published, created_at, author_id, location_id, category_id)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Text, p.Image, timeToDB(p.PubDate), p.Published,
		timeToDB(time.Now()), p.AuthorID, nullID(p.LocationID), nullID(p.CategoryID))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdatePost rewrites the editable fields of a post. The author and creation
// time never change.
func (s *Store) UpdatePost(p views.Post) error {
	res, err := s.db.Exec(`UPDATE posts SET
        title = ?, text = ?, image = ?, pub_date = ?, is_published = ?,
        location_id = ?, category_id = ?
        WHERE id = ?`,
		p.Title, p.Text, p.Image, timeToDB(p.PubDate), p.Published,
		nullID(p.LocationID), nullID(p.CategoryID), p.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

// DeletePost removes a post; its comments go with it via cascade.
func (s *Store) DeletePost(id int64) error {
	_, err := s.db.Exec("DELETE FROM posts WHERE id = ?", id)
	return err
}

// scanTime adapts a time.Time field to the text column layout.
func scanTime(t *time.Time) sql.Scanner {
	return &timeScanner{t}
}

type timeScanner struct{ t *time.Time }

func (ts *timeScanner) Scan(src any) error {
	switch v := src.(type) {
	case string:
		*ts.t = timeFromDB(v)
	case []byte:
		*ts.t = timeFromDB(string(v))
	case time.Time:
		*ts.t = v.UTC()
	case nil:
		*ts.t = time.Time{}
	}
	return nil
}

// scanNullID adapts an optional reference field; NULL scans as 0.
func scanNullID(id *int64) sql.Scanner {
	return &nullIDScanner{id}
}

type nullIDScanner struct{ id *int64 }

func (ns *nullIDScanner) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		*ns.id = v
	case nil:
		*ns.id = 0
	}
	return nil
}
