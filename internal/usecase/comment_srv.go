package usecase

import (
	"context"
	"fmt"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"
	"yamdb/internal/dto/response"
	"yamdb/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CommentService interface {
	List(ctx context.Context, titleID, reviewID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error)
	Get(ctx context.Context, titleID, reviewID, commentID string) (*response.CommentResponse, error)
	Create(ctx context.Context, actor utils.Actor, titleID, reviewID string, req *request.CommentRequest) (*response.CommentResponse, error)
	Update(ctx context.Context, actor utils.Actor, titleID, reviewID, commentID string, req *request.CommentUpdateRequest) (*response.CommentResponse, error)
	Delete(ctx context.Context, actor utils.Actor, titleID, reviewID, commentID string) error
}

type commentService struct {
	repo *repository.Repository // comments and their parent reviews
	log  *zap.Logger
}

func NewCommentService(repo *repository.Repository, log *zap.Logger) CommentService {
	return &commentService{
		repo: repo,
		log:  log.With(zap.String("service", "comment")),
	}
}

// requireReview resolves reviewID, which must belong to titleID.
func (s *commentService) requireReview(ctx context.Context, titleID, reviewID string) (uuid.UUID, error) {
	tid, err := parseID("title", titleID)
	if err != nil {
		return uuid.Nil, err
	}
	rid, err := parseID("review", reviewID)
	if err != nil {
		return uuid.Nil, err
	}

	review, err := s.repo.Review.FindByIDAndTitle(ctx, rid, tid)
	if err != nil {
		return uuid.Nil, fmt.Errorf("get review %s: %w", reviewID, err)
	}
	if review == nil {
		return uuid.Nil, fmt.Errorf("review %s on title %s: %w", reviewID, titleID, ErrNotFound)
	}
	return review.ID, nil
}

func (s *commentService) find(ctx context.Context, titleID, reviewID, commentID string) (*entity.Comment, error) {
	rid, err := s.requireReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	cid, err := parseID("comment", commentID)
	if err != nil {
		return nil, err
	}

	comment, err := s.repo.Comment.FindByIDAndReview(ctx, cid, rid)
	if err != nil {
		return nil, fmt.Errorf("get comment %s: %w", commentID, err)
	}
	if comment == nil {
		return nil, fmt.Errorf("comment %s: %w", commentID, ErrNotFound)
	}
	return comment, nil
}

func (s *commentService) List(ctx context.Context, titleID, reviewID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error) {
	rid, err := s.requireReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	comments, err := s.repo.Comment.FindByReviewID(ctx, rid, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	total, err := s.repo.Comment.CountByReviewID(ctx, rid)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	data := make([]response.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		data = append(data, response.CommentToResponse(comment))
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *commentService) Get(ctx context.Context, titleID, reviewID, commentID string) (*response.CommentResponse, error) {
	comment, err := s.find(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) Create(ctx context.Context, actor utils.Actor, titleID, reviewID string, req *request.CommentRequest) (*response.CommentResponse, error) {
	if actor.UserID == uuid.Nil {
		return nil, fmt.Errorf("create comment: %w", ErrUnauthorized)
	}

	rid, err := s.requireReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := validate(req); err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		ID:       uuid.New(),
		ReviewID: rid,
		AuthorID: actor.UserID,
		Text:     req.Text,
		PubDate:  time.Now(),
	}

	if err := s.repo.Comment.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.log.Info("Comment created",
		zap.String("comment_id", comment.ID.String()),
		zap.String("review_id", reviewID))

	return s.Get(ctx, titleID, reviewID, comment.ID.String())
}

func (s *commentService) Update(ctx context.Context, actor utils.Actor, titleID, reviewID, commentID string, req *request.CommentUpdateRequest) (*response.CommentResponse, error) {
	comment, err := s.find(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if !CanModify(actor, comment.AuthorID) {
		return nil, fmt.Errorf("update comment %s: %w", commentID, ErrForbidden)
	}

	if err := validate(req); err != nil {
		return nil, err
	}

	if req.Text != nil {
		comment.Text = *req.Text
	}

	if err := s.repo.Comment.Update(ctx, comment); err != nil {
		return nil, notFoundOr(err, "comment", commentID)
	}

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) Delete(ctx context.Context, actor utils.Actor, titleID, reviewID, commentID string) error {
	comment, err := s.find(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if !CanModify(actor, comment.AuthorID) {
		return fmt.Errorf("delete comment %s: %w", commentID, ErrForbidden)
	}

	if err := s.repo.Comment.Delete(ctx, comment.ID); err != nil {
		return notFoundOr(err, "comment", commentID)
	}

	s.log.Info("Comment deleted", zap.String("comment_id", commentID))
	return nil
}
