package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Rohit2924/news-sub000/internal/domain/article"
	"github.com/Rohit2924/news-sub000/internal/gateway"
	apperrors "github.com/Rohit2924/news-sub000/pkg/errors"
)

type articleStore interface {
	Create(ctx context.Context, input article.CreateArticleInput) (*article.Article, error)
	GetByID(ctx context.Context, id uuid.UUID) (*article.Article, error)
	GetBySlug(ctx context.Context, slug string) (*article.Article, error)
	ListPublished(ctx context.Context, categoryID *uuid.UUID, limit, offset int) ([]*article.Article, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]*article.Article, error)
	Update(ctx context.Context, id uuid.UUID, input article.UpdateArticleInput) (*article.Article, error)
	SetPublished(ctx context.Context, id uuid.UUID, published bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryStore interface {
	Create(ctx context.Context, name, slug string) (*article.Category, error)
	List(ctx context.Context) ([]*article.Category, error)
}

type imageStore interface {
	PresignedUploadURL(objectKey, contentType string) (string, error)
}

type ArticleHandler struct {
	articles   articleStore
	categories categoryStore
	images     imageStore
}

func NewArticleHandler(articles articleStore, categories categoryStore, images imageStore) *ArticleHandler {
	return &ArticleHandler{
		articles:   articles,
		categories: categories,
		images:     images,
	}
}

type ArticleResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Summary     string     `json:"summary"`
	Body        string     `json:"body,omitempty"`
	CategoryID  string     `json:"category_id"`
	AuthorID    string     `json:"author_id"`
	ImageKey    string     `json:"image_key,omitempty"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toArticleResponse(a *article.Article, includeBody bool) ArticleResponse {
	resp := ArticleResponse{
		ID:          a.ID.String(),
		Title:       a.Title,
		Slug:        a.Slug,
		Summary:     a.Summary,
		CategoryID:  a.CategoryID.String(),
		AuthorID:    a.AuthorID.String(),
		ImageKey:    a.ImageKey,
		Published:   a.Published,
		PublishedAt: a.PublishedAt,
		CreatedAt:   a.CreatedAt,
	}
	if includeBody {
		resp.Body = a.Body
	}
	return resp
}

// ListPublished serves the public news feed.
func (h *ArticleHandler) ListPublished(c echo.Context) error {
	limit, offset := pagination(c)

	var categoryID *uuid.UUID
	if raw := c.QueryParam("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperrors.BadRequest("invalid category id")
		}
		categoryID = &id
	}

	articles, err := h.articles.ListPublished(c.Request().Context(), categoryID, limit, offset)
	if err != nil {
		return err
	}

	out := make([]ArticleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, toArticleResponse(a, false))
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ArticleHandler) GetBySlug(c echo.Context) error {
	a, err := h.articles.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}

	if !a.Published {
		// Drafts are only visible through the editor surface.
		return apperrors.NotFound("article not found")
	}

	return c.JSON(http.StatusOK, toArticleResponse(a, true))
}

type CreateArticleRequest struct {
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Summary    string `json:"summary"`
	Body       string `json:"body"`
	CategoryID string `json:"category_id"`
	ImageKey   string `json:"image_key"`
}

func (h *ArticleHandler) Create(c echo.Context) error {
	var req CreateArticleRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest("invalid request body")
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Slug = strings.TrimSpace(strings.ToLower(req.Slug))
	if req.Title == "" || req.Slug == "" {
		return apperrors.BadRequest("title and slug are required")
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return apperrors.BadRequest("invalid category id")
	}

	authorID, err := identityFromContext(c)
	if err != nil {
		return err
	}

	a, err := h.articles.Create(c.Request().Context(), article.CreateArticleInput{
		Title:      req.Title,
		Slug:       req.Slug,
		Summary:    req.Summary,
		Body:       req.Body,
		CategoryID: categoryID,
		AuthorID:   authorID,
		ImageKey:   req.ImageKey,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toArticleResponse(a, true))
}

type UpdateArticleRequest struct {
	Title      *string `json:"title"`
	Summary    *string `json:"summary"`
	Body       *string `json:"body"`
	CategoryID *string `json:"category_id"`
	ImageKey   *string `json:"image_key"`
}

func (h *ArticleHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.BadRequest("invalid article id")
	}

	var req UpdateArticleRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest("invalid request body")
	}

	input := article.UpdateArticleInput{
		Title:    req.Title,
		Summary:  req.Summary,
		Body:     req.Body,
		ImageKey: req.ImageKey,
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return apperrors.BadRequest("invalid category id")
		}
		input.CategoryID = &categoryID
	}

	a, err := h.articles.Update(c.Request().Context(), id, input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toArticleResponse(a, true))
}

func (h *ArticleHandler) Publish(c echo.Context) error {
	return h.setPublished(c, true)
}

func (h *ArticleHandler) Unpublish(c echo.Context) error {
	return h.setPublished(c, false)
}

func (h *ArticleHandler) setPublished(c echo.Context, published bool) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.BadRequest("invalid article id")
	}

	if err := h.articles.SetPublished(c.Request().Context(), id, published); err != nil {
		return err
	}

	return okResponse(c)
}

func (h *ArticleHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.BadRequest("invalid article id")
	}

	if err := h.articles.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	return okResponse(c)
}

// Drafts lists the calling editor's own articles including unpublished ones.
func (h *ArticleHandler) Drafts(c echo.Context) error {
	authorID, err := identityFromContext(c)
	if err != nil {
		return err
	}

	limit, offset := pagination(c)
	articles, err := h.articles.ListByAuthor(c.Request().Context(), authorID, limit, offset)
	if err != nil {
		return err
	}

	out := make([]ArticleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, toArticleResponse(a, false))
	}

	return c.JSON(http.StatusOK, out)
}

type UploadURLRequest struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
}

type UploadURLResponse struct {
	URL      string `json:"url"`
	ImageKey string `json:"image_key"`
}

// ImageUploadURL issues a presigned URL so the editor can upload a cover
// image directly to object storage.
func (h *ArticleHandler) ImageUploadURL(c echo.Context) error {
	if h.images == nil {
		return apperrors.BadRequest("image storage is not configured")
	}

	var req UploadURLRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest("invalid request body")
	}

	if !strings.HasPrefix(req.ContentType, "image/") {
		return apperrors.BadRequest("content type must be an image")
	}

	key := "articles/" + uuid.New().String() + "/" + strings.TrimSpace(req.FileName)
	url, err := h.images.PresignedUploadURL(key, req.ContentType)
	if err != nil {
		return apperrors.InternalServer("failed to create upload URL", err)
	}

	return c.JSON(http.StatusOK, UploadURLResponse{URL: url, ImageKey: key})
}

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (h *ArticleHandler) ListCategories(c echo.Context) error {
	categories, err := h.categories.List(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		out = append(out, CategoryResponse{ID: cat.ID.String(), Name: cat.Name, Slug: cat.Slug})
	}

	return c.JSON(http.StatusOK, out)
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (h *ArticleHandler) CreateCategory(c echo.Context) error {
	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest("invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(strings.ToLower(req.Slug))
	if req.Name == "" || req.Slug == "" {
		return apperrors.BadRequest("name and slug are required")
	}

	cat, err := h.categories.Create(c.Request().Context(), req.Name, req.Slug)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, CategoryResponse{ID: cat.ID.String(), Name: cat.Name, Slug: cat.Slug})
}

// identityFromContext returns the subject id the gateway verified.
func identityFromContext(c echo.Context) (uuid.UUID, error) {
	raw, ok := c.Get(gateway.ContextKeyUserID).(string)
	if !ok || raw == "" {
		return uuid.Nil, apperrors.Unauthorized("user not authenticated")
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.Unauthorized("invalid user identity")
	}

	return id, nil
}
