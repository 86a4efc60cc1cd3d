package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ShiftQuerySource captures the reads the query executor needs. A nil
// TimeFilter in the options means no time constraint at the source; the
// service applies the default before delegating.
type ShiftQuerySource interface {
	GetShift(ctx context.Context, id string) (Shift, error)
	ListShifts(ctx context.Context, options ShiftQueryOptions) ([]Shift, error)
	ListOpenShifts(ctx context.Context, options ShiftQueryOptions) ([]Shift, error)
}

// QueryService answers read-only shift queries. Open shifts are those with no
// assigned employee, or shifts under a coverage request whose type permits
// pickup. Past shifts are never surfaced unless the caller supplies an
// explicit time filter.
type QueryService struct {
	shifts ShiftQuerySource
	now    func() time.Time
	logger *slog.Logger
}

// NewQueryService wires dependencies for shift queries.
func NewQueryService(shifts ShiftQuerySource, now func() time.Time, logger *slog.Logger) *QueryService {
	if now == nil {
		now = time.Now
	}
	return &QueryService{shifts: shifts, now: now, logger: defaultLogger(logger)}
}

// GetShift fetches a single shift by id.
func (s *QueryService) GetShift(ctx context.Context, id string) (Shift, error) {
	if s == nil || s.shifts == nil {
		return Shift{}, fmt.Errorf("query service not configured")
	}
	shift, err := s.shifts.GetShift(ctx, id)
	if err != nil {
		return Shift{}, mapStoreError(err)
	}
	return shift, nil
}

// GetShifts returns all shifts matching the options. An empty result is not
// an error.
func (s *QueryService) GetShifts(ctx context.Context, options ShiftQueryOptions) ([]Shift, error) {
	if s == nil || s.shifts == nil {
		return nil, fmt.Errorf("query service not configured")
	}
	shifts, err := s.shifts.ListShifts(ctx, s.withDefaultTimeFilter(options))
	if err != nil {
		return nil, mapStoreError(err)
	}
	return shifts, nil
}

// GetOpenShifts returns open shifts matching the options.
func (s *QueryService) GetOpenShifts(ctx context.Context, options ShiftQueryOptions) ([]Shift, error) {
	if s == nil || s.shifts == nil {
		return nil, fmt.Errorf("query service not configured")
	}
	shifts, err := s.shifts.ListOpenShifts(ctx, s.withDefaultTimeFilter(options))
	if err != nil {
		return nil, mapStoreError(err)
	}
	return shifts, nil
}

// GetOpenShiftIDs returns the identifiers of open shifts matching the options.
func (s *QueryService) GetOpenShiftIDs(ctx context.Context, options ShiftQueryOptions) ([]string, error) {
	shifts, err := s.GetOpenShifts(ctx, options)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(shifts))
	for _, shift := range shifts {
		ids = append(ids, shift.ID)
	}
	return ids, nil
}

// withDefaultTimeFilter substitutes "starts at or after now" when the caller
// supplied no time window.
func (s *QueryService) withDefaultTimeFilter(options ShiftQueryOptions) ShiftQueryOptions {
	if options.TimeFilter != nil {
		return options
	}
	options.TimeFilter = &TimeRange{Start: s.now()}
	return options
}
