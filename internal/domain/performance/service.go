package performance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

type Service struct {
	store   ProfileStore
	timeout time.Duration
	logger  *slog.Logger
}

// NewService wraps store. Every call gets its own deadline of timeout; a
// non-positive timeout leaves the caller's context untouched.
func NewService(store ProfileStore, timeout time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, timeout: timeout, logger: logger.With("component", "performance")}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Service) Directory(ctx context.Context) (Directory, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		s.logger.Error("list employees failed", "err", err)
		return Directory{}, fmt.Errorf("list employees: %w", err)
	}
	if employees == nil {
		employees = []Employee{}
	}
	return buildDirectory(employees), nil
}

// Profile loads the employee and all dependent records. Unknown ids,
// including non-positive ones, return ErrEmployeeNotFound.
func (s *Service) Profile(ctx context.Context, employeeID int64) (Profile, error) {
	if employeeID <= 0 {
		return Profile{}, ErrEmployeeNotFound
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	profile, err := s.store.LoadProfile(ctx, employeeID)
	if errors.Is(err, ErrEmployeeNotFound) {
		return Profile{}, err
	}
	if err != nil {
		s.logger.Error("load profile failed", "employeeId", employeeID, "err", err)
		return Profile{}, fmt.Errorf("load profile %d: %w", employeeID, err)
	}
	fillEmptyCollections(&profile)
	profile.Summary = buildSummary(profile)
	return profile, nil
}

// fillEmptyCollections replaces nil record lists with empty ones so JSON
// encodes them as [] and only a missing appraisal is null.
func fillEmptyCollections(p *Profile) {
	if p.KRAs == nil {
		p.KRAs = []KRA{}
	}
	if p.KPIs == nil {
		p.KPIs = []KPI{}
	}
	if p.Goals == nil {
		p.Goals = []Goal{}
	}
	if p.Feedback == nil {
		p.Feedback = []Feedback{}
	}
}
