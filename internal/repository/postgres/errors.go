package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode = "23505"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"
	errFailedCreateUserFmt           = "failed to create user: %w"
	errFailedGetUserFmt              = "failed to get user: %w"
	errFailedListUsersFmt            = "failed to list users: %w"
	errFailedUpdateUserFmt           = "failed to update user: %w"
	errFailedCreateArticleFmt        = "failed to create article: %w"
	errFailedGetArticleFmt           = "failed to get article: %w"
	errFailedListArticlesFmt         = "failed to list articles: %w"
	errFailedUpdateArticleFmt        = "failed to update article: %w"
	errFailedDeleteArticleFmt        = "failed to delete article: %w"
	errFailedCreateCategoryFmt       = "failed to create category: %w"
	errFailedListCategoriesFmt       = "failed to list categories: %w"
	errFailedCreateCommentFmt        = "failed to create comment: %w"
	errFailedListCommentsFmt         = "failed to list comments: %w"
	errFailedDeleteCommentFmt        = "failed to delete comment: %w"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func errFailedParseDatabaseConfig(err error) error {
	return fmt.Errorf(errFailedParseDatabaseConfigFmt, err)
}

func errFailedCreateConnectionPool(err error) error {
	return fmt.Errorf(errFailedCreateConnectionPoolFmt, err)
}

func errFailedPingDatabase(err error) error {
	return fmt.Errorf(errFailedPingDatabaseFmt, err)
}
