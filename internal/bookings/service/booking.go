package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"toolrent/internal/availability"
	"toolrent/internal/bookings/cache"
	bookingserrors "toolrent/internal/bookings/errors"
	"toolrent/internal/bookings/events"
	"toolrent/internal/bookings/repository"
	"toolrent/internal/bookings/validator"
	"toolrent/pkg/config"
	apperrors "toolrent/pkg/errors"
	"toolrent/pkg/model"
	"toolrent/pkg/sanitizer"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	Search(ctx context.Context, toolID, userID string, limit int, offset int64) ([]*model.Booking, int64, error)
	Cancel(ctx context.Context, id string) error
	CancelMatching(ctx context.Context, req *model.CancelRequest) error
	CheckAvailability(ctx context.Context, toolID, startDate, endDate string) (*model.AvailabilityResult, error)
	BlockedDates(ctx context.Context, toolID, from, to string) (*model.BlockedDates, error)
}

// ToolLookup reports whether a rentable tool exists.
type ToolLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	tools     ToolLookup
	validator *validator.BookingValidator
	cache     cache.BlockedDatesCache
	publisher events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	tools ToolLookup,
	validator *validator.BookingValidator,
	blockedDates cache.BlockedDatesCache,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	if blockedDates == nil {
		blockedDates = cache.Noop{}
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		tools:     tools,
		validator: validator,
		cache:     blockedDates,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Create admits the booking only if its range intersects no existing booking
// of the same tool. The per-tool lock keeps concurrent admissions for that
// tool from queueing on the transaction; the admission sequence write inside
// the transaction makes them conflict even if the lock has expired.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.sanitize(booking)
	candidate, err := s.validator.Validate(booking)
	if err != nil {
		return s.validationError("Booking validation failed", err)
	}

	if err := s.verifyTool(ctx, booking.ToolID); err != nil {
		return err
	}

	lock, err := s.acquireToolLock(ctx, booking.ToolID)
	if err != nil {
		return err
	}
	defer s.releaseToolLock(ctx, lock)

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := s.repo.AdvanceToolSequence(sessCtx, booking.ToolID); err != nil {
			return apperrors.Internal("Failed to check existing bookings", err)
		}

		existing, err := s.repo.FindByTool(sessCtx, booking.ToolID)
		if err != nil {
			return apperrors.Internal("Failed to check existing bookings", err)
		}

		admission := availability.Admit(candidate, model.Periods(existing))
		switch admission.Decision {
		case availability.Rejected:
			return conflictError(admission.Conflict)
		case availability.InvalidRange:
			return s.validationError("Booking validation failed", bookingserrors.ErrInvalidRange)
		}

		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		if apperrors.AsAppError(err).HTTPStatus >= 500 {
			s.cfg.Log.Error("Failed to create booking", "tool_id", booking.ToolID, "error", err)
		}
		return err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"tool_id", booking.ToolID,
		"start_date", booking.StartDate,
		"end_date", booking.EndDate,
	)
	s.afterWrite(ctx, events.BookingCreated, booking)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(id, "Failed to retrieve booking", err)
	}
	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return s.page(
		func() (int64, error) { return s.repo.Count(ctx) },
		func() ([]*model.Booking, error) { return s.repo.FindAll(ctx, limit, offset) },
		"bookings",
	)
}

func (s *bookingService) Search(ctx context.Context, toolID, userID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	toolID = sanitizer.NormalizeToken(toolID)
	userID = sanitizer.NormalizeToken(userID)
	if toolID == "" && userID == "" {
		return nil, 0, apperrors.InvalidInput("At least one of 'tool_id' or 'user_id' is required")
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	bookings, count, err := s.page(
		func() (int64, error) { return s.repo.CountSearch(ctx, toolID, userID) },
		func() ([]*model.Booking, error) { return s.repo.Search(ctx, toolID, userID, limit, offset) },
		"bookings by search",
	)
	if err != nil {
		return nil, 0, err
	}

	s.cfg.Log.Debug("Booking search completed",
		"tool_id", toolID,
		"user_id", userID,
		"count", len(bookings),
		"total_count", count,
	)
	return bookings, count, nil
}

// page runs count and find concurrently.
func (s *bookingService) page(count func() (int64, error), find func() ([]*model.Booking, error), what string) ([]*model.Booking, int64, error) {
	var total int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, errCount = count()
		if errCount != nil {
			s.cfg.Log.Error("Failed to count "+what, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = find()
		if errFind != nil {
			s.cfg.Log.Error("Failed to list "+what, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return bookings, total, nil
}

// Cancel deletes the booking unconditionally. Its dates are not re-checked.
func (s *bookingService) Cancel(ctx context.Context, id string) error {
	id = sanitizer.NormalizeToken(id)
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return s.lookupError(id, "Failed to cancel booking", err)
	}

	s.cfg.Log.Info("Booking cancelled", "id", id, "tool_id", deleted.ToolID)
	s.afterWrite(ctx, events.BookingCancelled, deleted)
	return nil
}

// CancelMatching deletes one booking whose tool, renter and dates equal req.
func (s *bookingService) CancelMatching(ctx context.Context, req *model.CancelRequest) error {
	req.ToolID = sanitizer.NormalizeToken(req.ToolID)
	req.UserID = sanitizer.NormalizeToken(req.UserID)
	req.StartDate = sanitizer.NormalizeToken(req.StartDate)
	req.EndDate = sanitizer.NormalizeToken(req.EndDate)

	if err := s.validator.ValidateCancel(req); err != nil {
		return s.validationError("Cancellation validation failed", err)
	}

	deleted, err := s.repo.DeleteMatching(ctx, req)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFound("Booking").WithDetails(map[string]any{
				"tool_id":    req.ToolID,
				"start_date": req.StartDate,
				"end_date":   req.EndDate,
			})
		}
		return apperrors.Internal("Failed to cancel booking", err)
	}

	s.cfg.Log.Info("Booking cancelled by match", "id", deleted.ID, "tool_id", deleted.ToolID)
	s.afterWrite(ctx, events.BookingCancelled, deleted)
	return nil
}

// CheckAvailability answers the admission question without writing. The
// answer may be stale by the time a Create follows it.
func (s *bookingService) CheckAvailability(ctx context.Context, toolID, startDate, endDate string) (*model.AvailabilityResult, error) {
	toolID = sanitizer.NormalizeToken(toolID)
	if toolID == "" {
		return nil, apperrors.InvalidInput("'tool_id' is required")
	}
	candidate, err := s.validator.ValidateRange(sanitizer.NormalizeToken(startDate), sanitizer.NormalizeToken(endDate))
	if err != nil {
		return nil, s.validationError("Invalid date range", err)
	}

	existing, err := s.repo.FindByTool(ctx, toolID)
	if err != nil {
		return nil, apperrors.Internal("Failed to check availability", err)
	}

	admission := availability.Admit(candidate, model.Periods(existing))
	return &model.AvailabilityResult{
		ToolID:    toolID,
		StartDate: availability.FormatDate(candidate.Start),
		EndDate:   availability.FormatDate(candidate.End),
		Available: admission.Accepted(),
		Conflict:  admission.Conflict,
	}, nil
}

// BlockedDates returns every booked day of the tool, optionally restricted to
// [from, to]. Either bound may be omitted.
func (s *bookingService) BlockedDates(ctx context.Context, toolID, from, to string) (*model.BlockedDates, error) {
	toolID = sanitizer.NormalizeToken(toolID)
	if toolID == "" {
		return nil, apperrors.InvalidInput("'tool_id' is required")
	}
	from = sanitizer.NormalizeToken(from)
	to = sanitizer.NormalizeToken(to)

	window, windowed, err := parseWindow(from, to)
	if err != nil {
		return nil, s.validationError("Invalid date window", err)
	}

	// The generation is read before the bookings. A write committed after
	// this point moves the tool to a newer generation, so a stale list set
	// here lands under a key nobody reads.
	dates, generation, hit, err := s.cache.Get(ctx, toolID)
	cacheable := err == nil
	if err != nil {
		s.cfg.Log.Warn("Blocked dates cache read failed", "tool_id", toolID, "error", err)
	} else if hit {
		if windowed {
			dates = filterWithin(dates, window)
		}
		return &model.BlockedDates{ToolID: toolID, From: from, To: to, Dates: dates}, nil
	}

	existing, err := s.repo.FindByTool(ctx, toolID)
	if err != nil {
		return nil, apperrors.Internal("Failed to compute blocked dates", err)
	}
	periods := model.Periods(existing)

	all := availability.FormatDates(availability.ExpandToBlockedDates(periods))
	if cacheable {
		if err := s.cache.Set(ctx, toolID, generation, all); err != nil {
			s.cfg.Log.Warn("Blocked dates cache write failed", "tool_id", toolID, "error", err)
		}
	}

	dates = all
	if windowed {
		dates = availability.FormatDates(availability.ExpandWithin(periods, window))
	}
	return &model.BlockedDates{ToolID: toolID, From: from, To: to, Dates: dates}, nil
}

func parseWindow(from, to string) (availability.Range, bool, error) {
	if from == "" && to == "" {
		return availability.Range{}, false, nil
	}

	var window availability.Range
	if from != "" {
		start, err := availability.ParseDate(from)
		if err != nil {
			return window, false, err
		}
		window.Start = start
	}
	if to != "" {
		end, err := availability.ParseDate(to)
		if err != nil {
			return window, false, err
		}
		window.End = end
	} else {
		window.End = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
	}

	if !window.Valid() {
		return window, false, fmt.Errorf("%w: %s > %s", bookingserrors.ErrInvalidRange, from, to)
	}
	return window, true, nil
}

func filterWithin(dates []string, window availability.Range) []string {
	out := make([]string, 0, len(dates))
	for _, text := range dates {
		day, err := availability.ParseDate(text)
		if err != nil {
			continue
		}
		if window.Contains(day) {
			out = append(out, text)
		}
	}
	return out
}

// --- Helpers ---

func (s *bookingService) sanitize(b *model.Booking) {
	b.ToolID = sanitizer.NormalizeToken(b.ToolID)
	b.UserID = sanitizer.NormalizeToken(b.UserID)
	b.StartDate = sanitizer.NormalizeToken(b.StartDate)
	b.EndDate = sanitizer.NormalizeToken(b.EndDate)
}

func (s *bookingService) verifyTool(ctx context.Context, toolID string) error {
	exists, err := s.tools.Exists(ctx, toolID)
	if err != nil {
		return apperrors.Internal("Failed to verify tool", err)
	}
	if !exists {
		return apperrors.NotFoundWithID("Tool", toolID).WithCause(bookingserrors.ErrToolNotFound)
	}
	return nil
}

// acquireToolLock inserts the tool's lock document under a fresh owner
// token. A lock left behind by a crashed request is reclaimed once expired.
func (s *bookingService) acquireToolLock(ctx context.Context, toolID string) (*model.BookingLock, error) {
	lockID := model.BookingLockID(toolID)

	for attempt := 0; attempt < 2; attempt++ {
		now := s.now().UTC()
		lock, err := s.lockRepo.Create(ctx, &model.BookingLock{
			ID:        lockID,
			ToolID:    toolID,
			Owner:     uuid.NewString(),
			ExpiresAt: now.Add(s.cfg.BookingLockTTL),
		})
		if err == nil {
			return lock, nil
		}
		if !errors.Is(err, bookingserrors.ErrLockBusy) {
			return nil, apperrors.Internal("Failed to acquire booking lock", err)
		}

		reclaimed, err := s.lockRepo.DeleteIfExpired(ctx, lockID, now)
		if err != nil {
			return nil, apperrors.Internal("Failed to acquire booking lock", err)
		}
		if !reclaimed {
			break
		}
		s.cfg.Log.Warn("Reclaimed expired booking lock", "lock_id", lockID)
	}

	return nil, apperrors.BookingInProgress().WithCause(bookingserrors.ErrLockBusy)
}

func (s *bookingService) releaseToolLock(ctx context.Context, lock *model.BookingLock) {
	released, err := s.lockRepo.Release(context.WithoutCancel(ctx), lock.ID, lock.Owner)
	if err != nil {
		s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lock.ID, "error", err)
		return
	}
	if !released {
		s.cfg.Log.Warn("Booking lock expired before release", "lock_id", lock.ID)
	}
}

// afterWrite invalidates the cache and publishes the event. Neither failure
// is reported to the caller; the write has already happened.
func (s *bookingService) afterWrite(ctx context.Context, eventType string, booking *model.Booking) {
	ctx = context.WithoutCancel(ctx)

	if err := s.cache.Invalidate(ctx, booking.ToolID); err != nil {
		s.cfg.Log.Warn("Failed to invalidate blocked dates cache", "tool_id", booking.ToolID, "error", err)
	}
	if err := s.publisher.Publish(ctx, eventType, booking); err != nil {
		s.cfg.Log.Error("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

func (s *bookingService) lookupError(id, message string, err error) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	default:
		return apperrors.Internal(message, err)
	}
}

func (s *bookingService) validationError(message string, err error) error {
	s.cfg.Log.Warn(message, "error", err)

	var fieldErrs validator.ValidationErrors
	switch {
	case errors.As(err, &fieldErrs):
		return apperrors.Validation(message, map[string]any{"errors": []validator.ValidationError(fieldErrs)})
	case errors.Is(err, bookingserrors.ErrInvalidRange):
		return apperrors.Validation("Start date must not be after end date", map[string]any{"error": err.Error()})
	case errors.Is(err, bookingserrors.ErrRangeTooLong):
		return apperrors.Validation("Booking range is too long", map[string]any{"error": err.Error()})
	default:
		return apperrors.Validation(message, map[string]any{"error": err.Error()})
	}
}

func conflictError(existing *availability.Period) error {
	var start, end string
	if existing != nil {
		start, end = existing.StartDate, existing.EndDate
	}
	return apperrors.DateConflict(start, end).WithCause(bookingserrors.ErrDateConflict)
}
