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

const maxCommentLength = 4000

type commentStore interface {
	Create(ctx context.Context, input article.CreateCommentInput) (*article.Comment, error)
	ListByArticle(ctx context.Context, articleID uuid.UUID, limit, offset int) ([]*article.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CommentHandler struct {
	comments commentStore
}

func NewCommentHandler(comments commentStore) *CommentHandler {
	return &CommentHandler{comments: comments}
}

type CommentResponse struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"article_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *CommentHandler) ListByArticle(c echo.Context) error {
	articleID, err := uuid.Parse(c.Param("article_id"))
	if err != nil {
		return apperrors.BadRequest("invalid article id")
	}

	limit, offset := pagination(c)
	comments, err := h.comments.ListByArticle(c.Request().Context(), articleID, limit, offset)
	if err != nil {
		return err
	}

	out := make([]CommentResponse, 0, len(comments))
	for _, cm := range comments {
		out = append(out, CommentResponse{
			ID:        cm.ID.String(),
			ArticleID: cm.ArticleID.String(),
			AuthorID:  cm.AuthorID.String(),
			Body:      cm.Body,
			CreatedAt: cm.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, out)
}

type CreateCommentRequest struct {
	ArticleID string `json:"article_id"`
	Body      string `json:"body"`
}

func (h *CommentHandler) Create(c echo.Context) error {
	var req CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadRequest("invalid request body")
	}

	articleID, err := uuid.Parse(req.ArticleID)
	if err != nil {
		return apperrors.BadRequest("invalid article id")
	}

	req.Body = strings.TrimSpace(req.Body)
	if req.Body == "" || len(req.Body) > maxCommentLength {
		return apperrors.BadRequest("comment body must be between 1 and 4000 characters")
	}

	authorID, err := identityFromContext(c)
	if err != nil {
		return err
	}

	cm, err := h.comments.Create(c.Request().Context(), article.CreateCommentInput{
		ArticleID: articleID,
		AuthorID:  authorID,
		Body:      req.Body,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, CommentResponse{
		ID:        cm.ID.String(),
		ArticleID: cm.ArticleID.String(),
		AuthorID:  cm.AuthorID.String(),
		Body:      cm.Body,
		CreatedAt: cm.CreatedAt,
	})
}

// Delete removes a comment. The route sits on the user surface, so
// editor-level moderation is checked here against the verified role.
func (h *CommentHandler) Delete(c echo.Context) error {
	if !gateway.Authorize(roleFromContext(c), gateway.RoleEditor) {
		return apperrors.Forbidden("comment moderation requires editor role")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.BadRequest("invalid comment id")
	}

	if err := h.comments.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	return okResponse(c)
}

// roleFromContext returns the role the gateway verified.
func roleFromContext(c echo.Context) gateway.Role {
	if role, ok := c.Get(gateway.ContextKeyUserRole).(gateway.Role); ok {
		return role
	}
	return gateway.RoleGuest
}
