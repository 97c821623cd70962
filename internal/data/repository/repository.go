package repository

import (
	"errors"
	"strings"

	"yamdb/pkg/database"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var (
	// ErrDuplicate is returned when an insert or update violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")

	// ErrNotFound is returned by writes that matched no row.
	ErrNotFound = errors.New("record not found")
)

const uniqueViolation = "23505"

type Repository struct {
	User             UserRepository
	Session          SessionRepository
	ConfirmationCode ConfirmationCodeRepository
	Category         CategoryRepository
	Genre            GenreRepository
	Title            TitleRepository
	Review           ReviewRepository
	Comment          CommentRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:             NewUserRepository(db, log),
		Session:          NewSessionRepository(db, log),
		ConfirmationCode: NewConfirmationCodeRepository(db, log),
		Category:         NewCategoryRepository(db, log),
		Genre:            NewGenreRepository(db, log),
		Title:            NewTitleRepository(db, log),
		Review:           NewReviewRepository(db, log),
		Comment:          NewCommentRepository(db, log),
	}
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike quotes LIKE wildcards so s matches literally. Postgres uses
// backslash as the default LIKE escape character.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
