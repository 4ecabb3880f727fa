package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"tiponx-backend/internal/features/comment/models"
	"tiponx-backend/internal/features/comment/repository"
)

const commentColumns = `id, profile_handle, author_handle, parent_comment_id, content,
	liked_by, is_deleted, created_at, updated_at`

type commentRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.CommentRepository {
	return &commentRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var c models.Comment
	var parentID sql.NullString
	var likedBy []byte
	err := row.Scan(
		&c.ID, &c.ProfileHandle, &c.AuthorHandle, &parentID, &c.Content,
		&likedBy, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if parentID.Valid {
		c.ParentCommentID = parentID.String
	}
	if err := json.Unmarshal(likedBy, &c.LikedBy); err != nil {
		return nil, fmt.Errorf("failed to decode liked_by: %w", err)
	}
	c.Likes = len(c.LikedBy)
	return &c, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	likedBy, err := json.Marshal(comment.LikedBy)
	if err != nil {
		return fmt.Errorf("failed to encode liked_by: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO comments (id, profile_handle, author_handle, parent_comment_id, content, liked_by)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)`,
		comment.ID, comment.ProfileHandle, comment.AuthorHandle,
		comment.ParentCommentID, comment.Content, likedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)
	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return c, nil
}

func (r *commentRepository) ListByProfile(ctx context.Context, profileHandle string) ([]*models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+commentColumns+` FROM comments
		WHERE profile_handle = $1 AND is_deleted = FALSE
		ORDER BY created_at DESC`, profileHandle)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var out []*models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *commentRepository) SetLikes(ctx context.Context, id string, likedBy []string) (*models.Comment, error) {
	if likedBy == nil {
		likedBy = []string{}
	}
	encoded, err := json.Marshal(likedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to encode liked_by: %w", err)
	}
	row := r.db.QueryRowContext(ctx, `
		UPDATE comments SET liked_by = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+commentColumns, id, encoded)
	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update comment likes: %w", err)
	}
	return c, nil
}

func (r *commentRepository) SoftDelete(ctx context.Context, id string) (*models.Comment, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE comments
		SET is_deleted = TRUE, content = '[deleted]', updated_at = now()
		WHERE id = $1
		RETURNING `+commentColumns, id)
	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete comment: %w", err)
	}
	return c, nil
}
