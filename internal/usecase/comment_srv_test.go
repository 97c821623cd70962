package usecase

import (
	"context"
	"testing"

	"yamdb/internal/data/entity"
	"yamdb/internal/dto/request"
	"yamdb/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCommentCreateRequiresReviewOnTitle(t *testing.T) {
	m, repo := newMocks()
	srv := NewCommentService(repo, zap.NewNop())

	titleID := uuid.New()
	reviewID := uuid.New()
	m.review.On("FindByIDAndTitle", mock.Anything, reviewID, titleID).Return(nil, nil)

	_, err := srv.Create(context.Background(), utils.Actor{UserID: uuid.New(), Role: "user"},
		titleID.String(), reviewID.String(), &request.CommentRequest{Text: "hi"})

	assert.ErrorIs(t, err, ErrNotFound)
	m.comment.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCommentCreate(t *testing.T) {
	m, repo := newMocks()
	srv := NewCommentService(repo, zap.NewNop())

	titleID := uuid.New()
	review := &entity.Review{ID: uuid.New(), TitleID: titleID}
	actor := utils.Actor{UserID: uuid.New(), Role: "user"}

	stored := &entity.Comment{}
	m.review.On("FindByIDAndTitle", mock.Anything, review.ID, titleID).Return(review, nil)
	m.comment.On("Create", mock.Anything, mock.AnythingOfType("*entity.Comment")).
		Run(func(args mock.Arguments) {
			*stored = *args.Get(1).(*entity.Comment)
			stored.AuthorUsername = "bob"
		}).
		Return(nil).Once()
	m.comment.On("FindByIDAndReview", mock.Anything, mock.AnythingOfType("uuid.UUID"), review.ID).Return(stored, nil)

	resp, err := srv.Create(context.Background(), actor, titleID.String(), review.ID.String(), &request.CommentRequest{Text: "agreed"})
	require.NoError(t, err)

	assert.Equal(t, "agreed", resp.Text)
	assert.Equal(t, "bob", resp.Author)
	assert.Equal(t, review.ID, stored.ReviewID)
	m.assertExpectations(t)
}

func TestCommentCreateEmptyText(t *testing.T) {
	m, repo := newMocks()
	srv := NewCommentService(repo, zap.NewNop())

	titleID := uuid.New()
	review := &entity.Review{ID: uuid.New(), TitleID: titleID}
	m.review.On("FindByIDAndTitle", mock.Anything, review.ID, titleID).Return(review, nil)

	_, err := srv.Create(context.Background(), utils.Actor{UserID: uuid.New()}, titleID.String(), review.ID.String(), &request.CommentRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCommentDeletePermissions(t *testing.T) {
	m, repo := newMocks()
	srv := NewCommentService(repo, zap.NewNop())

	titleID := uuid.New()
	review := &entity.Review{ID: uuid.New(), TitleID: titleID}
	comment := &entity.Comment{ID: uuid.New(), ReviewID: review.ID, AuthorID: uuid.New()}

	m.review.On("FindByIDAndTitle", mock.Anything, review.ID, titleID).Return(review, nil)
	m.comment.On("FindByIDAndReview", mock.Anything, comment.ID, review.ID).Return(comment, nil)
	m.comment.On("Delete", mock.Anything, comment.ID).Return(nil).Once()

	stranger := utils.Actor{UserID: uuid.New(), Role: "user"}
	err := srv.Delete(context.Background(), stranger, titleID.String(), review.ID.String(), comment.ID.String())
	assert.ErrorIs(t, err, ErrForbidden)

	moderator := utils.Actor{UserID: uuid.New(), Role: "moderator"}
	err = srv.Delete(context.Background(), moderator, titleID.String(), review.ID.String(), comment.ID.String())
	assert.NoError(t, err)

	m.assertExpectations(t)
}

func TestCommentUpdateByAuthor(t *testing.T) {
	m, repo := newMocks()
	srv := NewCommentService(repo, zap.NewNop())

	titleID := uuid.New()
	review := &entity.Review{ID: uuid.New(), TitleID: titleID}
	author := utils.Actor{UserID: uuid.New(), Role: "user"}
	comment := &entity.Comment{ID: uuid.New(), ReviewID: review.ID, AuthorID: author.UserID, Text: "old"}

	m.review.On("FindByIDAndTitle", mock.Anything, review.ID, titleID).Return(review, nil)
	m.comment.On("FindByIDAndReview", mock.Anything, comment.ID, review.ID).Return(comment, nil)
	m.comment.On("Update", mock.Anything, comment).Return(nil).Once()

	resp, err := srv.Update(context.Background(), author, titleID.String(), review.ID.String(), comment.ID.String(),
		&request.CommentUpdateRequest{Text: strPtr("new")})
	require.NoError(t, err)
	assert.Equal(t, "new", resp.Text)
}
