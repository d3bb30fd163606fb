package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/panelcentral/backoffice/internal/domain/report"
	"github.com/panelcentral/backoffice/internal/domain/user"
)

type memReportRepo struct {
	business map[string][]report.BusinessStats // keyed by from in RFC3339
	formats  []report.FormatUsage
	team     []report.MemberActivity
	upcoming []report.UpcomingContent
	activity []report.ActivityEntry

	err error

	lastFrom time.Time
	lastTo   time.Time
}

func (r *memReportRepo) TeamActivity(_ context.Context, from, to time.Time) ([]report.MemberActivity, error) {
	r.lastFrom, r.lastTo = from, to
	return r.team, r.err
}

func (r *memReportRepo) BusinessStats(_ context.Context, from, to time.Time) ([]report.BusinessStats, error) {
	r.lastFrom, r.lastTo = from, to
	if r.err != nil {
		return nil, r.err
	}
	if rows, ok := r.business[from.Format(time.RFC3339)]; ok {
		return rows, nil
	}
	return nil, nil
}

func (r *memReportRepo) FormatUsage(_ context.Context, from, to time.Time) ([]report.FormatUsage, error) {
	r.lastFrom, r.lastTo = from, to
	return r.formats, r.err
}

func (r *memReportRepo) UpcomingContent(_ context.Context, _ time.Time, _ int) ([]report.UpcomingContent, error) {
	return r.upcoming, r.err
}

func (r *memReportRepo) ContentActivity(_ context.Context, from, to time.Time, _ int) ([]report.ActivityEntry, error) {
	r.lastFrom, r.lastTo = from, to
	return r.activity, r.err
}

func newReportService(repo *memReportRepo, at time.Time) *ReportService {
	svc := NewReportService(repo)
	svc.now = func() time.Time { return at }
	return svc
}

func TestReportServiceRequiresAdmin(t *testing.T) {
	t.Parallel()

	svc := newReportService(&memReportRepo{}, time.Now())
	editor := user.Principal{UserID: 5, Role: user.RoleEditor}

	if _, err := svc.TeamStats(context.Background(), editor); !errors.Is(err, ErrForbidden) {
		t.Fatalf("TeamStats err = %v, want ErrForbidden", err)
	}
	if _, err := svc.BusinessStats(context.Background(), editor); !errors.Is(err, ErrForbidden) {
		t.Fatalf("BusinessStats err = %v, want ErrForbidden", err)
	}
	if _, err := svc.WeeklyReport(context.Background(), editor); !errors.Is(err, ErrForbidden) {
		t.Fatalf("WeeklyReport err = %v, want ErrForbidden", err)
	}
}

func TestReportServiceWeekWindow(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := &memReportRepo{}
	svc := newReportService(repo, at)
	admin := user.Principal{UserID: 1, Role: user.RoleAdmin}

	if _, err := svc.FormatUsage(context.Background(), admin); err != nil {
		t.Fatalf("FormatUsage: %v", err)
	}
	if got, want := repo.lastTo, at; !got.Equal(want) {
		t.Fatalf("window end = %v, want %v", got, want)
	}
	if got, want := repo.lastFrom, at.AddDate(0, 0, -7); !got.Equal(want) {
		t.Fatalf("window start = %v, want %v", got, want)
	}
}

func TestReportServiceWeeklyReportTotals(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	from := at.AddDate(0, 0, -7)
	prevFrom := from.AddDate(0, 0, -7)

	repo := &memReportRepo{
		business: map[string][]report.BusinessStats{
			from.Format(time.RFC3339): {
				{Business: "duelazo", Total: 12, Approved: 4},
				{Business: "styly", Total: 5, Drafts: 2},
			},
			prevFrom.Format(time.RFC3339): {
				{Business: "duelazo", Total: 9},
			},
		},
		formats: []report.FormatUsage{{Business: "duelazo", FormatType: "reel", TimesUsed: 7}},
		team:    []report.MemberActivity{{UserID: 2, Name: "Ana", GeneratedContent: 6}},
	}
	svc := newReportService(repo, at)
	admin := user.Principal{UserID: 1, Role: user.RoleAdmin}

	got, err := svc.WeeklyReport(context.Background(), admin)
	if err != nil {
		t.Fatalf("WeeklyReport: %v", err)
	}
	if got.TotalContent != 17 {
		t.Fatalf("TotalContent = %d, want 17", got.TotalContent)
	}
	if got.PreviousTotal != 9 {
		t.Fatalf("PreviousTotal = %d, want 9", got.PreviousTotal)
	}
	if len(got.ByBusiness) != 2 || len(got.TopFormats) != 1 || len(got.TeamActivity) != 1 {
		t.Fatalf("unexpected report shape: %+v", got)
	}
	if !got.WindowStart.Equal(from) || !got.WindowEnd.Equal(at) {
		t.Fatalf("window = [%v, %v), want [%v, %v)", got.WindowStart, got.WindowEnd, from, at)
	}
}

func TestReportServiceRepositoryFailure(t *testing.T) {
	t.Parallel()

	repo := &memReportRepo{err: errors.New("db down")}
	svc := newReportService(repo, time.Now())
	admin := user.Principal{UserID: 1, Role: user.RoleAdmin}

	if _, err := svc.ContentActivity(context.Background(), admin, 0); err == nil {
		t.Fatal("expected error from repository")
	}
	if _, err := svc.WeeklyReport(context.Background(), admin); err == nil {
		t.Fatal("expected error from repository")
	}
}
