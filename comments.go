package blogicum

import (
	"time"

	"github.com/eringen/blogicum/views"
)

const commentColumns = `cm.id, cm.text, cm.author_id, u.username, cm.post_id, cm.created_at`

// ListComments returns a post's comments oldest first.
func (s *Store) ListComments(postID int64) ([]views.Comment, error) {
	rows, err := s.db.Query(`SELECT `+commentColumns+`
        FROM comments cm JOIN users u ON u.id = cm.author_id
        WHERE cm.post_id = ?
        ORDER BY cm.created_at ASC, cm.id ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []views.Comment
	for rows.Next() {
		var cm views.Comment
		if err := rows.Scan(&cm.ID, &cm.Text, &cm.AuthorID, &cm.Author, &cm.PostID, scanTime(&cm.CreatedAt)); err != nil {
			return nil, err
		}
		comments = append(comments, cm)
	}
	return comments, rows.Err()
}

// GetComment returns a comment addressed by both its own id and its parent
// post id. A comment reached through the wrong post URL is a miss, not a
// different comment.
func (s *Store) GetComment(postID, commentID int64) (views.Comment, error) {
	var cm views.Comment
	row := s.db.QueryRow(`SELECT `+commentColumns+`
        FROM comments cm JOIN users u ON u.id = cm.author_id
        WHERE cm.id = ? AND cm.post_id = ?`, commentID, postID)
	if err := row.Scan(&cm.ID, &cm.Text, &cm.AuthorID, &cm.Author, &cm.PostID, scanTime(&cm.CreatedAt)); err != nil {
		return views.Comment{}, err
	}
	return cm, nil
}

// CreateComment inserts a comment and returns its id.
func (s *Store) CreateComment(postID, authorID int64, text string) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO comments (text, author_id, post_id, created_at)
        VALUES (?, ?, ?, ?)`, text, authorID, postID, timeToDB(time.Now()))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateComment rewrites a comment's text.
func (s *Store) UpdateComment(id int64, text string) error {
	res, err := s.db.Exec("UPDATE comments SET text = ? WHERE id = ?", text, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

// DeleteComment removes a comment.
func (s *Store) DeleteComment(id int64) error {
	_, err := s.db.Exec("DELETE FROM comments WHERE id = ?", id)
	return err
}

// CountComments returns the number of comments on a post.
func (s *Store) CountComments(postID int64) (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM comments WHERE post_id = ?", postID).Scan(&n)
	return n, err
}
