package usecase

import (
	"context"
	"errors"
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

type ReviewService interface {
	List(ctx context.Context, titleID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	Get(ctx context.Context, titleID, reviewID string) (*response.ReviewResponse, error)
	Create(ctx context.Context, actor utils.Actor, titleID string, req *request.ReviewRequest) (*response.ReviewResponse, error)
	Update(ctx context.Context, actor utils.Actor, titleID, reviewID string, req *request.ReviewUpdateRequest) (*response.ReviewResponse, error)
	Delete(ctx context.Context, actor utils.Actor, titleID, reviewID string) error
}

type reviewService struct {
	repo *repository.Repository // reviews and titles
	log  *zap.Logger
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		log:  log.With(zap.String("service", "review")),
	}
}

// ErrReviewExists is returned when an author reviews the same title twice.
var ErrReviewExists = fmt.Errorf("review for this title: %w", ErrAlreadyExists)

func (s *reviewService) requireTitle(ctx context.Context, titleID string) (uuid.UUID, error) {
	id, err := parseID("title", titleID)
	if err != nil {
		return uuid.Nil, err
	}

	exists, err := s.repo.Title.Exists(ctx, id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("check title %s: %w", titleID, err)
	}
	if !exists {
		return uuid.Nil, fmt.Errorf("title %s: %w", titleID, ErrNotFound)
	}
	return id, nil
}

func (s *reviewService) find(ctx context.Context, titleID, reviewID string) (*entity.Review, error) {
	tid, err := s.requireTitle(ctx, titleID)
	if err != nil {
		return nil, err
	}
	rid, err := parseID("review", reviewID)
	if err != nil {
		return nil, err
	}

	review, err := s.repo.Review.FindByIDAndTitle(ctx, rid, tid)
	if err != nil {
		return nil, fmt.Errorf("get review %s: %w", reviewID, err)
	}
	if review == nil {
		return nil, fmt.Errorf("review %s: %w", reviewID, ErrNotFound)
	}
	return review, nil
}

func (s *reviewService) List(ctx context.Context, titleID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	id, err := s.requireTitle(ctx, titleID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.repo.Review.FindByTitleID(ctx, id, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	total, err := s.repo.Review.CountByTitleID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	data := make([]response.ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		data = append(data, response.ReviewToResponse(review))
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID string) (*response.ReviewResponse, error) {
	review, err := s.find(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

// Create adds the actor's review. Each author may review a title once.
func (s *reviewService) Create(ctx context.Context, actor utils.Actor, titleID string, req *request.ReviewRequest) (*response.ReviewResponse, error) {
	if actor.UserID == uuid.Nil {
		return nil, fmt.Errorf("create review: %w", ErrUnauthorized)
	}

	tid, err := s.requireTitle(ctx, titleID)
	if err != nil {
		return nil, err
	}

	if err := validate(req); err != nil {
		return nil, err
	}

	existing, err := s.repo.Review.FindByAuthorAndTitle(ctx, actor.UserID, tid)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	if existing != nil {
		return nil, ErrReviewExists
	}

	review := &entity.Review{
		ID:       uuid.New(),
		TitleID:  tid,
		AuthorID: actor.UserID,
		Text:     req.Text,
		Score:    req.Score,
		PubDate:  time.Now(),
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrReviewExists
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("title_id", titleID),
		zap.Int("score", review.Score))

	return s.Get(ctx, titleID, review.ID.String())
}

func (s *reviewService) Update(ctx context.Context, actor utils.Actor, titleID, reviewID string, req *request.ReviewUpdateRequest) (*response.ReviewResponse, error) {
	review, err := s.find(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if !CanModify(actor, review.AuthorID) {
		return nil, fmt.Errorf("update review %s: %w", reviewID, ErrForbidden)
	}

	if err := validate(req); err != nil {
		return nil, err
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		review.Score = *req.Score
	}

	if err := s.repo.Review.Update(ctx, review); err != nil {
		return nil, notFoundOr(err, "review", reviewID)
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) Delete(ctx context.Context, actor utils.Actor, titleID, reviewID string) error {
	review, err := s.find(ctx, titleID, reviewID)
	if err != nil {
		return err
	}

	if !CanModify(actor, review.AuthorID) {
		return fmt.Errorf("delete review %s: %w", reviewID, ErrForbidden)
	}

	if err := s.repo.Review.Delete(ctx, review.ID); err != nil {
		return notFoundOr(err, "review", reviewID)
	}

	s.log.Info("Review deleted",
		zap.String("review_id", reviewID),
		zap.String("actor_id", actor.UserID.String()))
	return nil
}
