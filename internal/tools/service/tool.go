package service

import (
	"context"
	"errors"
	"sync"

	toolserrors "toolrent/internal/tools/errors"
	"toolrent/internal/tools/repository"
	"toolrent/internal/tools/validator"
	"toolrent/pkg/config"
	apperrors "toolrent/pkg/errors"
	"toolrent/pkg/model"
	"toolrent/pkg/sanitizer"
)

type ToolService interface {
	Create(ctx context.Context, tool *model.Tool) error
	GetByID(ctx context.Context, id string) (*model.Tool, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Tool, int64, error)
	Search(ctx context.Context, city, category string, limit int, offset int64) ([]*model.Tool, int64, error)
	Update(ctx context.Context, id string, updates *model.ToolUpdate) error
	Delete(ctx context.Context, id string) error
}

type toolService struct {
	repo      repository.ToolRepository
	validator *validator.ToolValidator
	cfg       *config.Config
}

func NewToolService(repo repository.ToolRepository, validator *validator.ToolValidator, cfg *config.Config) ToolService {
	return &toolService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *toolService) Create(ctx context.Context, tool *model.Tool) error {
	s.sanitize(tool)
	if err := s.validate(s.validator.Validate(tool)); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, tool); err != nil {
		s.cfg.Log.Error("Failed to create tool", "error", err)
		return apperrors.Internal("Failed to create tool", err)
	}

	s.cfg.Log.Info("Tool created successfully",
		"id", tool.ID,
		"owner_id", tool.OwnerID,
		"category", tool.Category,
		"city", tool.City,
	)
	return nil
}

func (s *toolService) GetByID(ctx context.Context, id string) (*model.Tool, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Tool ID cannot be empty")
	}

	tool, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(id, "Failed to retrieve tool", err)
	}
	return tool, nil
}

func (s *toolService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Tool, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return s.page(
		func() (int64, error) { return s.repo.Count(ctx) },
		func() ([]*model.Tool, error) { return s.repo.FindAll(ctx, limit, offset) },
	)
}

func (s *toolService) Search(ctx context.Context, city, category string, limit int, offset int64) ([]*model.Tool, int64, error) {
	city = sanitizer.SanitizeCity(city)
	category = sanitizer.SanitizeCategory(category)
	if city == "" && category == "" {
		return nil, 0, apperrors.InvalidInput("At least one of 'city' or 'category' is required")
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return s.page(
		func() (int64, error) { return s.repo.CountSearch(ctx, city, category) },
		func() ([]*model.Tool, error) { return s.repo.Search(ctx, city, category, limit, offset) },
	)
}

func (s *toolService) page(count func() (int64, error), find func() ([]*model.Tool, error)) ([]*model.Tool, int64, error) {
	var total int64
	var tools []*model.Tool
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, errCount = count()
	}()
	go func() {
		defer wg.Done()
		tools, errFind = find()
	}()
	wg.Wait()

	if errCount != nil {
		s.cfg.Log.Error("Failed to count tools", "error", errCount)
		return nil, 0, apperrors.Internal("Failed to count tools", errCount)
	}
	if errFind != nil {
		s.cfg.Log.Error("Failed to list tools", "error", errFind)
		return nil, 0, apperrors.Internal("Failed to retrieve tools", errFind)
	}
	return tools, total, nil
}

func (s *toolService) Update(ctx context.Context, id string, updates *model.ToolUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Tool ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepoError(id, "Failed to check tool existence", err)
	}

	merged := mergeToolUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(s.validator.Validate(merged)); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		return mapRepoError(id, "Failed to update tool", err)
	}

	s.cfg.Log.Info("Tool updated successfully", "id", id)
	return nil
}

func (s *toolService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Tool ID cannot be empty")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(id, "Failed to delete tool", err)
	}

	s.cfg.Log.Info("Tool deleted successfully", "id", id)
	return nil
}

func (s *toolService) sanitize(t *model.Tool) {
	t.OwnerID = sanitizer.NormalizeToken(t.OwnerID)
	t.Name = sanitizer.NormalizeName(t.Name)
	t.Description = sanitizer.TrimAndNormalize(t.Description)
	t.Category = sanitizer.SanitizeCategory(t.Category)
	t.City = sanitizer.SanitizeCity(t.City)
	t.Currency = sanitizer.SanitizeCurrency(t.Currency)
	if phone := sanitizer.NormalizePhone(t.OwnerPhone); phone != "" {
		t.OwnerPhone = phone
	}
}

func (s *toolService) validate(err error) error {
	if err == nil {
		return nil
	}
	s.cfg.Log.Warn("Tool validation failed", "error", err)

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return apperrors.Validation("Tool validation failed", map[string]any{"errors": []validator.ValidationError(fieldErrs)})
	}
	return apperrors.Validation("Tool validation failed", map[string]any{"error": err.Error()})
}

func mergeToolUpdates(existing *model.Tool, updates *model.ToolUpdate) *model.Tool {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Description != nil {
		merged.Description = *updates.Description
	}
	if updates.Category != "" {
		merged.Category = updates.Category
	}
	if updates.City != "" {
		merged.City = updates.City
	}
	if updates.DailyRate != nil {
		merged.DailyRate = *updates.DailyRate
	}
	if updates.Currency != "" {
		merged.Currency = updates.Currency
	}
	if updates.OwnerPhone != "" {
		merged.OwnerPhone = updates.OwnerPhone
	}

	return &merged
}

func mapRepoError(id, message string, err error) error {
	switch {
	case errors.Is(err, toolserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Tool", id)
	case errors.Is(err, toolserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid tool ID format")
	default:
		return apperrors.Internal(message, err)
	}
}
