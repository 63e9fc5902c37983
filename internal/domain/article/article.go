package article

import (
	"time"

	"github.com/google/uuid"
)

type Article struct {
	ID          uuid.UUID
	Title       string
	Slug        string
	Summary     string
	Body        string
	CategoryID  uuid.UUID
	AuthorID    uuid.UUID
	ImageKey    string
	Published   bool
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateArticleInput struct {
	Title      string
	Slug       string
	Summary    string
	Body       string
	CategoryID uuid.UUID
	AuthorID   uuid.UUID
	ImageKey   string
}

type UpdateArticleInput struct {
	Title      *string
	Summary    *string
	Body       *string
	CategoryID *uuid.UUID
	ImageKey   *string
}

type Category struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	CreatedAt time.Time
}

type Comment struct {
	ID        uuid.UUID
	ArticleID uuid.UUID
	AuthorID  uuid.UUID
	Body      string
	CreatedAt time.Time
}

type CreateCommentInput struct {
	ArticleID uuid.UUID
	AuthorID  uuid.UUID
	Body      string
}
