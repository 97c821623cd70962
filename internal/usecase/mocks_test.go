package usecase

import (
	"context"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/pkg/mailer"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.User, error) {
	args := m.Called(ctx, search, limit, offset)
	users, _ := args.Get(0).([]*entity.User)
	return users, args.Error(1)
}

func (m *mockUserRepo) CountAll(ctx context.Context, search string) (int64, error) {
	args := m.Called(ctx, search)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockSessionRepo struct{ mock.Mock }

func (m *mockSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *mockSessionRepo) FindValidSession(ctx context.Context, token uuid.UUID) (*entity.Session, error) {
	args := m.Called(ctx, token)
	session, _ := args.Get(0).(*entity.Session)
	return session, args.Error(1)
}

func (m *mockSessionRepo) Revoke(ctx context.Context, token uuid.UUID) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockSessionRepo) CleanExpiredSessions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockCodeRepo struct{ mock.Mock }

func (m *mockCodeRepo) Create(ctx context.Context, code *entity.ConfirmationCode) error {
	return m.Called(ctx, code).Error(0)
}

func (m *mockCodeRepo) FindLatestValid(ctx context.Context, userID uuid.UUID) (*entity.ConfirmationCode, error) {
	args := m.Called(ctx, userID)
	code, _ := args.Get(0).(*entity.ConfirmationCode)
	return code, args.Error(1)
}

func (m *mockCodeRepo) MarkAsUsed(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCodeRepo) InvalidateAll(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockCodeRepo) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockCategoryRepo struct{ mock.Mock }

func (m *mockCategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *mockCategoryRepo) FindBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	args := m.Called(ctx, slug)
	category, _ := args.Get(0).(*entity.Category)
	return category, args.Error(1)
}

func (m *mockCategoryRepo) FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.Category, error) {
	args := m.Called(ctx, search, limit, offset)
	categories, _ := args.Get(0).([]*entity.Category)
	return categories, args.Error(1)
}

func (m *mockCategoryRepo) CountAll(ctx context.Context, search string) (int64, error) {
	args := m.Called(ctx, search)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCategoryRepo) DeleteBySlug(ctx context.Context, slug string) error {
	return m.Called(ctx, slug).Error(0)
}

type mockGenreRepo struct{ mock.Mock }

func (m *mockGenreRepo) Create(ctx context.Context, genre *entity.Genre) error {
	return m.Called(ctx, genre).Error(0)
}

func (m *mockGenreRepo) FindBySlug(ctx context.Context, slug string) (*entity.Genre, error) {
	args := m.Called(ctx, slug)
	genre, _ := args.Get(0).(*entity.Genre)
	return genre, args.Error(1)
}

func (m *mockGenreRepo) FindBySlugs(ctx context.Context, slugs []string) ([]*entity.Genre, error) {
	args := m.Called(ctx, slugs)
	genres, _ := args.Get(0).([]*entity.Genre)
	return genres, args.Error(1)
}

func (m *mockGenreRepo) FindByTitleIDs(ctx context.Context, titleIDs []uuid.UUID) (map[uuid.UUID][]*entity.Genre, error) {
	args := m.Called(ctx, titleIDs)
	genres, _ := args.Get(0).(map[uuid.UUID][]*entity.Genre)
	return genres, args.Error(1)
}

func (m *mockGenreRepo) FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.Genre, error) {
	args := m.Called(ctx, search, limit, offset)
	genres, _ := args.Get(0).([]*entity.Genre)
	return genres, args.Error(1)
}

func (m *mockGenreRepo) CountAll(ctx context.Context, search string) (int64, error) {
	args := m.Called(ctx, search)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockGenreRepo) DeleteBySlug(ctx context.Context, slug string) error {
	return m.Called(ctx, slug).Error(0)
}

type mockTitleRepo struct{ mock.Mock }

func (m *mockTitleRepo) Create(ctx context.Context, title *entity.Title, genreIDs []uuid.UUID) error {
	return m.Called(ctx, title, genreIDs).Error(0)
}

func (m *mockTitleRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Title, error) {
	args := m.Called(ctx, id)
	title, _ := args.Get(0).(*entity.Title)
	return title, args.Error(1)
}

func (m *mockTitleRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockTitleRepo) FindAll(ctx context.Context, filter repository.TitleFilter, limit, offset int) ([]*entity.Title, error) {
	args := m.Called(ctx, filter, limit, offset)
	titles, _ := args.Get(0).([]*entity.Title)
	return titles, args.Error(1)
}

func (m *mockTitleRepo) CountAll(ctx context.Context, filter repository.TitleFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTitleRepo) Update(ctx context.Context, title *entity.Title, genreIDs []uuid.UUID) error {
	return m.Called(ctx, title, genreIDs).Error(0)
}

func (m *mockTitleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockReviewRepo struct{ mock.Mock }

func (m *mockReviewRepo) Create(ctx context.Context, review *entity.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *mockReviewRepo) FindByIDAndTitle(ctx context.Context, id, titleID uuid.UUID) (*entity.Review, error) {
	args := m.Called(ctx, id, titleID)
	review, _ := args.Get(0).(*entity.Review)
	return review, args.Error(1)
}

func (m *mockReviewRepo) FindByTitleID(ctx context.Context, titleID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	args := m.Called(ctx, titleID, limit, offset)
	reviews, _ := args.Get(0).([]*entity.Review)
	return reviews, args.Error(1)
}

func (m *mockReviewRepo) FindByAuthorAndTitle(ctx context.Context, authorID, titleID uuid.UUID) (*entity.Review, error) {
	args := m.Called(ctx, authorID, titleID)
	review, _ := args.Get(0).(*entity.Review)
	return review, args.Error(1)
}

func (m *mockReviewRepo) CountByTitleID(ctx context.Context, titleID uuid.UUID) (int64, error) {
	args := m.Called(ctx, titleID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReviewRepo) Update(ctx context.Context, review *entity.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *mockReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockCommentRepo struct{ mock.Mock }

func (m *mockCommentRepo) Create(ctx context.Context, comment *entity.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *mockCommentRepo) FindByIDAndReview(ctx context.Context, id, reviewID uuid.UUID) (*entity.Comment, error) {
	args := m.Called(ctx, id, reviewID)
	comment, _ := args.Get(0).(*entity.Comment)
	return comment, args.Error(1)
}

func (m *mockCommentRepo) FindByReviewID(ctx context.Context, reviewID uuid.UUID, limit, offset int) ([]*entity.Comment, error) {
	args := m.Called(ctx, reviewID, limit, offset)
	comments, _ := args.Get(0).([]*entity.Comment)
	return comments, args.Error(1)
}

func (m *mockCommentRepo) CountByReviewID(ctx context.Context, reviewID uuid.UUID) (int64, error) {
	args := m.Called(ctx, reviewID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCommentRepo) Update(ctx context.Context, comment *entity.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *mockCommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// captureMailer records every message it is asked to send.
type captureMailer struct {
	sent []mailer.Message
	err  error
}

func (c *captureMailer) Send(_ context.Context, msg mailer.Message) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, msg)
	return nil
}

type mocks struct {
	user     *mockUserRepo
	session  *mockSessionRepo
	code     *mockCodeRepo
	category *mockCategoryRepo
	genre    *mockGenreRepo
	title    *mockTitleRepo
	review   *mockReviewRepo
	comment  *mockCommentRepo
}

func newMocks() (*mocks, *repository.Repository) {
	m := &mocks{
		user:     &mockUserRepo{},
		session:  &mockSessionRepo{},
		code:     &mockCodeRepo{},
		category: &mockCategoryRepo{},
		genre:    &mockGenreRepo{},
		title:    &mockTitleRepo{},
		review:   &mockReviewRepo{},
		comment:  &mockCommentRepo{},
	}
	repo := &repository.Repository{
		User:             m.user,
		Session:          m.session,
		ConfirmationCode: m.code,
		Category:         m.category,
		Genre:            m.genre,
		Title:            m.title,
		Review:           m.review,
		Comment:          m.comment,
	}
	return m, repo
}

func (m *mocks) assertExpectations(t mock.TestingT) {
	m.user.AssertExpectations(t)
	m.session.AssertExpectations(t)
	m.code.AssertExpectations(t)
	m.category.AssertExpectations(t)
	m.genre.AssertExpectations(t)
	m.title.AssertExpectations(t)
	m.review.AssertExpectations(t)
	m.comment.AssertExpectations(t)
}
