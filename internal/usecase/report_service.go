package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/panelcentral/backoffice/internal/domain/report"
	"github.com/panelcentral/backoffice/internal/domain/user"
)

const (
	reportWeek           = 7 * 24 * time.Hour
	defaultUpcomingLimit = 20
	defaultActivityLimit = 50
)

// ReportService serves the admin dashboard aggregates. Every operation
// requires an admin principal.
type ReportService struct {
	reports report.Repository

	now func() time.Time
}

func NewReportService(reports report.Repository) *ReportService {
	return &ReportService{
		reports: reports,
		now:     time.Now,
	}
}

// weekWindow returns the trailing seven days ending at now.
func (s *ReportService) weekWindow() (time.Time, time.Time) {
	to := s.now().UTC()
	return to.Add(-reportWeek), to
}

func (s *ReportService) requireAdmin(actor user.Principal) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	return nil
}

func (s *ReportService) TeamStats(ctx context.Context, actor user.Principal) ([]report.MemberActivity, error) {
	ctx, span := startUsecaseSpan(ctx, "ReportService.TeamStats")
	defer span.End()

	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	from, to := s.weekWindow()
	rows, err := s.reports.TeamActivity(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load team activity: %w", err)
	}
	return rows, nil
}

func (s *ReportService) BusinessStats(ctx context.Context, actor user.Principal) ([]report.BusinessStats, error) {
	ctx, span := startUsecaseSpan(ctx, "ReportService.BusinessStats")
	defer span.End()

	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	from, to := s.weekWindow()
	rows, err := s.reports.BusinessStats(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load business stats: %w", err)
	}
	return rows, nil
}

func (s *ReportService) FormatUsage(ctx context.Context, actor user.Principal) ([]report.FormatUsage, error) {
	ctx, span := startUsecaseSpan(ctx, "ReportService.FormatUsage")
	defer span.End()

	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	from, to := s.weekWindow()
	rows, err := s.reports.FormatUsage(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load format usage: %w", err)
	}
	return rows, nil
}

func (s *ReportService) UpcomingContent(ctx context.Context, actor user.Principal, limit int) ([]report.UpcomingContent, error) {
	ctx, span := startUsecaseSpan(ctx, "ReportService.UpcomingContent")
	defer span.End()

	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultUpcomingLimit
	}
	rows, err := s.reports.UpcomingContent(ctx, s.now().UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("load upcoming content: %w", err)
	}
	return rows, nil
}

func (s *ReportService) ContentActivity(ctx context.Context, actor user.Principal, limit int) ([]report.ActivityEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "ReportService.ContentActivity")
	defer span.End()

	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	from, to := s.weekWindow()
	rows, err := s.reports.ContentActivity(ctx, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("load content activity: %w", err)
	}
	return rows, nil
}

// WeeklyReport assembles one digest from the individual aggregates. The
// previous-week total lets the dashboard show week-over-week movement.
func (s *ReportService) WeeklyReport(ctx context.Context, actor user.Principal) (report.WeeklyReport, error) {
	ctx, span := startUsecaseSpan(ctx, "ReportService.WeeklyReport")
	defer span.End()

	if err := s.requireAdmin(actor); err != nil {
		return report.WeeklyReport{}, err
	}

	from, to := s.weekWindow()

	businesses, err := s.reports.BusinessStats(ctx, from, to)
	if err != nil {
		return report.WeeklyReport{}, fmt.Errorf("load business stats: %w", err)
	}
	previous, err := s.reports.BusinessStats(ctx, from.Add(-reportWeek), from)
	if err != nil {
		return report.WeeklyReport{}, fmt.Errorf("load previous business stats: %w", err)
	}
	formats, err := s.reports.FormatUsage(ctx, from, to)
	if err != nil {
		return report.WeeklyReport{}, fmt.Errorf("load format usage: %w", err)
	}
	team, err := s.reports.TeamActivity(ctx, from, to)
	if err != nil {
		return report.WeeklyReport{}, fmt.Errorf("load team activity: %w", err)
	}
	upcoming, err := s.reports.UpcomingContent(ctx, to, defaultUpcomingLimit)
	if err != nil {
		return report.WeeklyReport{}, fmt.Errorf("load upcoming content: %w", err)
	}

	out := report.WeeklyReport{
		WindowStart:    from,
		WindowEnd:      to,
		ByBusiness:     businesses,
		TopFormats:     formats,
		TeamActivity:   team,
		UpcomingSlated: upcoming,
	}
	for _, b := range businesses {
		out.TotalContent += b.Total
	}
	for _, b := range previous {
		out.PreviousTotal += b.Total
	}
	return out, nil
}
