package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"
	"yamdb/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TitleService interface {
	List(ctx context.Context, filter request.TitleFilterRequest, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TitleResponse], error)
	Get(ctx context.Context, titleID string) (*response.TitleResponse, error)
	Create(ctx context.Context, req *request.TitleRequest) (*response.TitleResponse, error)
	Update(ctx context.Context, titleID string, req *request.TitleUpdateRequest) (*response.TitleResponse, error)
	Delete(ctx context.Context, titleID string) error
}

type titleService struct {
	repo *repository.Repository // titles, genres and categories
	log  *zap.Logger
}

func NewTitleService(repo *repository.Repository, log *zap.Logger) TitleService {
	return &titleService{
		repo: repo,
		log:  log.With(zap.String("service", "title")),
	}
}

func (s *titleService) List(ctx context.Context, filter request.TitleFilterRequest, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TitleResponse], error) {
	repoFilter := repository.TitleFilter{
		Name:     filter.Name,
		Year:     filter.Year,
		Genre:    filter.Genre,
		Category: filter.Category,
	}

	titles, err := s.repo.Title.FindAll(ctx, repoFilter, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}

	total, err := s.repo.Title.CountAll(ctx, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}

	if err := s.attachGenres(ctx, titles...); err != nil {
		return nil, err
	}

	data := make([]response.TitleResponse, 0, len(titles))
	for _, title := range titles {
		data = append(data, response.TitleToResponse(title))
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *titleService) attachGenres(ctx context.Context, titles ...*entity.Title) error {
	if len(titles) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(titles))
	for i, title := range titles {
		ids[i] = title.ID
	}

	genres, err := s.repo.Genre.FindByTitleIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load title genres: %w", err)
	}

	for _, title := range titles {
		title.Genres = genres[title.ID]
	}
	return nil
}

func (s *titleService) load(ctx context.Context, id uuid.UUID) (*entity.Title, error) {
	title, err := s.repo.Title.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get title %s: %w", id.String(), err)
	}
	if title == nil {
		return nil, fmt.Errorf("title %s: %w", id.String(), ErrNotFound)
	}

	if err := s.attachGenres(ctx, title); err != nil {
		return nil, err
	}
	return title, nil
}

func (s *titleService) Get(ctx context.Context, titleID string) (*response.TitleResponse, error) {
	id, err := parseID("title", titleID)
	if err != nil {
		return nil, err
	}

	title, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := response.TitleToResponse(title)
	return &resp, nil
}

// resolveGenres maps slugs to genre ids, rejecting unknown slugs.
func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]uuid.UUID, error) {
	unique := make(map[string]struct{}, len(slugs))
	for _, slug := range slugs {
		unique[slug] = struct{}{}
	}
	wanted := make([]string, 0, len(unique))
	for slug := range unique {
		wanted = append(wanted, slug)
	}
	sort.Strings(wanted)

	genres, err := s.repo.Genre.FindBySlugs(ctx, wanted)
	if err != nil {
		return nil, fmt.Errorf("resolve genres: %w", err)
	}

	found := make(map[string]uuid.UUID, len(genres))
	for _, genre := range genres {
		found[genre.Slug] = genre.ID
	}

	var missing []string
	ids := make([]uuid.UUID, 0, len(wanted))
	for _, slug := range wanted {
		id, ok := found[slug]
		if !ok {
			missing = append(missing, slug)
			continue
		}
		ids = append(ids, id)
	}
	if len(missing) > 0 {
		return nil, newValidationError("genre", "Unknown genre: "+strings.Join(missing, ", "))
	}

	return ids, nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug string) (*entity.Category, error) {
	category, err := s.repo.Category.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("resolve category: %w", err)
	}
	if category == nil {
		return nil, newValidationError("category", "Unknown category: "+slug)
	}
	return category, nil
}

func (s *titleService) Create(ctx context.Context, req *request.TitleRequest) (*response.TitleResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	genreIDs, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	title := &entity.Title{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
	}

	if req.Category != nil {
		category, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
	}

	if err := s.repo.Title.Create(ctx, title, genreIDs); err != nil {
		return nil, fmt.Errorf("create title: %w", err)
	}

	s.log.Info("Title created",
		zap.String("title_id", title.ID.String()),
		zap.Int("genres", len(genreIDs)))

	created, err := s.load(ctx, title.ID)
	if err != nil {
		return nil, err
	}

	resp := response.TitleToResponse(created)
	return &resp, nil
}

func (s *titleService) Update(ctx context.Context, titleID string, req *request.TitleUpdateRequest) (*response.TitleResponse, error) {
	id, err := parseID("title", titleID)
	if err != nil {
		return nil, err
	}

	if err := validate(req); err != nil {
		return nil, err
	}

	title, err := s.repo.Title.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get title %s: %w", titleID, err)
	}
	if title == nil {
		return nil, fmt.Errorf("title %s: %w", titleID, ErrNotFound)
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = req.Description
	}
	if req.Category != nil {
		category, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
	}

	// nil keeps the current genres
	var genreIDs []uuid.UUID
	if req.Genre != nil {
		genreIDs, err = s.resolveGenres(ctx, *req.Genre)
		if err != nil {
			return nil, err
		}
	}
	title.UpdatedAt = time.Now()

	if err := s.repo.Title.Update(ctx, title, genreIDs); err != nil {
		return nil, notFoundOr(err, "title", titleID)
	}

	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := response.TitleToResponse(updated)
	return &resp, nil
}

func (s *titleService) Delete(ctx context.Context, titleID string) error {
	id, err := parseID("title", titleID)
	if err != nil {
		return err
	}

	if err := s.repo.Title.Delete(ctx, id); err != nil {
		return notFoundOr(err, "title", titleID)
	}

	s.log.Info("Title deleted", zap.String("title_id", titleID))
	return nil
}
