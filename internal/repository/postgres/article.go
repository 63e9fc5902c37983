package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Rohit2924/news-sub000/internal/domain/article"
	apperrors "github.com/Rohit2924/news-sub000/pkg/errors"
)

const articleColumns = `id, title, slug, summary, body, category_id, author_id, image_key, published, published_at, created_at, updated_at`

type ArticleRepository struct {
	db *DB
}

func NewArticleRepository(db *DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func scanArticle(row pgx.Row) (*article.Article, error) {
	a := &article.Article{}
	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Slug,
		&a.Summary,
		&a.Body,
		&a.CategoryID,
		&a.AuthorID,
		&a.ImageKey,
		&a.Published,
		&a.PublishedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

func (r *ArticleRepository) Create(ctx context.Context, input article.CreateArticleInput) (*article.Article, error) {
	query := `
		INSERT INTO articles (title, slug, summary, body, category_id, author_id, image_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + articleColumns

	a, err := scanArticle(r.db.Pool.QueryRow(ctx, query,
		input.Title, input.Slug, input.Summary, input.Body, input.CategoryID, input.AuthorID, input.ImageKey))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("article with this slug already exists")
		}
		return nil, fmt.Errorf(errFailedCreateArticleFmt, err)
	}

	return a, nil
}

func (r *ArticleRepository) GetBySlug(ctx context.Context, slug string) (*article.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE slug = $1`

	a, err := scanArticle(r.db.Pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("article not found")
		}
		return nil, fmt.Errorf(errFailedGetArticleFmt, err)
	}

	return a, nil
}

func (r *ArticleRepository) GetByID(ctx context.Context, id uuid.UUID) (*article.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`

	a, err := scanArticle(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("article not found")
		}
		return nil, fmt.Errorf(errFailedGetArticleFmt, err)
	}

	return a, nil
}

// ListPublished returns published articles, newest first, optionally
// filtered by category.
func (r *ArticleRepository) ListPublished(ctx context.Context, categoryID *uuid.UUID, limit, offset int) ([]*article.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE published = true
		  AND ($1::uuid IS NULL OR category_id = $1)
		ORDER BY published_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Pool.Query(ctx, query, categoryID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf(errFailedListArticlesFmt, err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

// ListByAuthor returns an author's articles including drafts.
func (r *ArticleRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]*article.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE author_id = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Pool.Query(ctx, query, authorID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf(errFailedListArticlesFmt, err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

func collectArticles(rows pgx.Rows) ([]*article.Article, error) {
	articles := []*article.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf(errFailedListArticlesFmt, err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func (r *ArticleRepository) Update(ctx context.Context, id uuid.UUID, input article.UpdateArticleInput) (*article.Article, error) {
	query := `
		UPDATE articles
		SET title = COALESCE($2, title),
		    summary = COALESCE($3, summary),
		    body = COALESCE($4, body),
		    category_id = COALESCE($5, category_id),
		    image_key = COALESCE($6, image_key),
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + articleColumns

	a, err := scanArticle(r.db.Pool.QueryRow(ctx, query,
		id, input.Title, input.Summary, input.Body, input.CategoryID, input.ImageKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("article not found")
		}
		return nil, fmt.Errorf(errFailedUpdateArticleFmt, err)
	}

	return a, nil
}

func (r *ArticleRepository) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	query := `
		UPDATE articles
		SET published = $2,
		    published_at = CASE WHEN $2 THEN now() ELSE published_at END,
		    updated_at = now()
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query, id, published)
	if err != nil {
		return fmt.Errorf(errFailedUpdateArticleFmt, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("article not found")
	}

	return nil
}

func (r *ArticleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf(errFailedDeleteArticleFmt, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("article not found")
	}

	return nil
}

type CategoryRepository struct {
	db *DB
}

func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, name, slug string) (*article.Category, error) {
	query := `
		INSERT INTO categories (name, slug)
		VALUES ($1, $2)
		RETURNING id, name, slug, created_at
	`

	cat := &article.Category{}
	err := r.db.Pool.QueryRow(ctx, query, name, slug).Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("category with this slug already exists")
		}
		return nil, fmt.Errorf(errFailedCreateCategoryFmt, err)
	}

	return cat, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*article.Category, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT id, name, slug, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf(errFailedListCategoriesFmt, err)
	}
	defer rows.Close()

	categories := []*article.Category{}
	for rows.Next() {
		cat := &article.Category{}
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf(errFailedListCategoriesFmt, err)
		}
		categories = append(categories, cat)
	}

	return categories, rows.Err()
}

type CommentRepository struct {
	db *DB
}

func NewCommentRepository(db *DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, input article.CreateCommentInput) (*article.Comment, error) {
	query := `
		INSERT INTO comments (article_id, author_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, article_id, author_id, body, created_at
	`

	cm := &article.Comment{}
	err := r.db.Pool.QueryRow(ctx, query, input.ArticleID, input.AuthorID, input.Body).Scan(
		&cm.ID, &cm.ArticleID, &cm.AuthorID, &cm.Body, &cm.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf(errFailedCreateCommentFmt, err)
	}

	return cm, nil
}

func (r *CommentRepository) ListByArticle(ctx context.Context, articleID uuid.UUID, limit, offset int) ([]*article.Comment, error) {
	query := `
		SELECT id, article_id, author_id, body, created_at
		FROM comments
		WHERE article_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Pool.Query(ctx, query, articleID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf(errFailedListCommentsFmt, err)
	}
	defer rows.Close()

	comments := []*article.Comment{}
	for rows.Next() {
		cm := &article.Comment{}
		if err := rows.Scan(&cm.ID, &cm.ArticleID, &cm.AuthorID, &cm.Body, &cm.CreatedAt); err != nil {
			return nil, fmt.Errorf(errFailedListCommentsFmt, err)
		}
		comments = append(comments, cm)
	}

	return comments, rows.Err()
}

func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf(errFailedDeleteCommentFmt, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("comment not found")
	}

	return nil
}
