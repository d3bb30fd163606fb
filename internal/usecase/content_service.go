package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/panelcentral/backoffice/internal/domain/content"
	"github.com/panelcentral/backoffice/internal/domain/user"
)

// TextGenerator produces copy from a system persona and a user prompt.
type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

type GenerateContentInput struct {
	Actor      user.Principal
	Business   string
	System     string
	Prompt     string
	FormatType string
	Input      map[string]any
}

type ContentHistoryInput struct {
	Actor      user.Principal
	Business   string
	FormatType string
	Status     content.EntryStatus
	Limit      int
	Offset     int
}

type ScheduleContentInput struct {
	Actor    user.Principal
	Business string
	EntryID  int64
	At       time.Time
	Platform string
}

type GenerateIdeasInput struct {
	Actor    user.Principal
	Business string
	System   string
	Prompt   string
	Count    int
}

type ContentService struct {
	repo      content.Repository
	generator TextGenerator
	now       func() time.Time
}

func NewContentService(repo content.Repository, generator TextGenerator) *ContentService {
	return &ContentService{
		repo:      repo,
		generator: generator,
		now:       time.Now,
	}
}

// Generate produces copy for a business surface. When a format type is given
// the result is recorded as a draft history entry; otherwise the text is
// returned without being persisted.
func (s *ContentService) Generate(ctx context.Context, input GenerateContentInput) (content.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "ContentService.Generate")
	defer span.End()

	input.Business = strings.TrimSpace(input.Business)
	input.Prompt = strings.TrimSpace(input.Prompt)
	if input.Business == "" {
		return content.Entry{}, fmt.Errorf("%w: business is required", ErrInvalidInput)
	}
	if input.Prompt == "" {
		return content.Entry{}, fmt.Errorf("%w: prompt is required", ErrInvalidInput)
	}

	text, err := s.generator.Generate(ctx, input.System, input.Prompt)
	if err != nil {
		return content.Entry{}, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	entry := content.Entry{
		UserID:     input.Actor.UserID,
		Business:   input.Business,
		FormatType: strings.TrimSpace(input.FormatType),
		Input:      input.Input,
		OutputText: text,
		Status:     content.EntryStatusDraft,
		CreatedAt:  s.now().UTC(),
	}
	if entry.FormatType == "" {
		return entry, nil
	}

	saved, err := s.repo.CreateEntry(ctx, entry)
	if err != nil {
		return content.Entry{}, fmt.Errorf("save content entry: %w", err)
	}
	return saved, nil
}

func (s *ContentService) History(ctx context.Context, input ContentHistoryInput) ([]content.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "ContentService.History")
	defer span.End()

	if strings.TrimSpace(input.Business) == "" {
		return nil, fmt.Errorf("%w: business is required", ErrInvalidInput)
	}
	limit := input.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	entries, err := s.repo.ListEntries(ctx, content.EntryFilter{
		Business:   input.Business,
		UserID:     input.Actor.UserID,
		FormatType: input.FormatType,
		Status:     input.Status,
		Limit:      limit,
		Offset:     input.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list content history: %w", err)
	}
	return entries, nil
}

func (s *ContentService) GetEntry(ctx context.Context, actor user.Principal, business string, entryID int64) (content.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "ContentService.GetEntry")
	defer span.End()

	entry, err := s.ownedEntry(ctx, actor, business, entryID)
	if err != nil {
		return content.Entry{}, err
	}
	return entry, nil
}

// Approve moves a draft to approved. Admins may approve anyone's entries.
func (s *ContentService) Approve(ctx context.Context, actor user.Principal, business string, entryID int64, notes string) error {
	ctx, span := startUsecaseSpan(ctx, "ContentService.Approve")
	defer span.End()

	if _, err := s.ownedEntry(ctx, actor, business, entryID); err != nil {
		return err
	}
	if err := s.repo.UpdateEntryStatus(ctx, entryID, content.EntryStatusApproved, notes); err != nil {
		return fmt.Errorf("approve content entry: %w", err)
	}
	return nil
}

func (s *ContentService) Schedule(ctx context.Context, input ScheduleContentInput) error {
	ctx, span := startUsecaseSpan(ctx, "ContentService.Schedule")
	defer span.End()

	if input.At.IsZero() {
		return fmt.Errorf("%w: schedule date is required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Platform) == "" {
		return fmt.Errorf("%w: platform is required", ErrInvalidInput)
	}
	if _, err := s.ownedEntry(ctx, input.Actor, input.Business, input.EntryID); err != nil {
		return err
	}
	if err := s.repo.ScheduleEntry(ctx, input.EntryID, input.At.UTC(), input.Platform); err != nil {
		return fmt.Errorf("schedule content entry: %w", err)
	}
	return nil
}

func (s *ContentService) Calendar(ctx context.Context, business string, from, to time.Time) ([]content.CalendarItem, error) {
	ctx, span := startUsecaseSpan(ctx, "ContentService.Calendar")
	defer span.End()

	if strings.TrimSpace(business) == "" {
		return nil, fmt.Errorf("%w: business is required", ErrInvalidInput)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: calendar range end precedes start", ErrInvalidInput)
	}

	items, err := s.repo.ListCalendar(ctx, business, from, to)
	if err != nil {
		return nil, fmt.Errorf("list content calendar: %w", err)
	}
	return items, nil
}

// DeleteEntries removes the caller's own history entries and reports how
// many rows were actually deleted.
func (s *ContentService) DeleteEntries(ctx context.Context, actor user.Principal, business string, ids []int64) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "ContentService.DeleteEntries")
	defer span.End()

	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: at least one entry id is required", ErrInvalidInput)
	}

	deleted, err := s.repo.DeleteEntries(ctx, ids, actor.UserID, business)
	if err != nil {
		return 0, fmt.Errorf("delete content entries: %w", err)
	}
	return deleted, nil
}

func (s *ContentService) CreateIdea(ctx context.Context, business, text, format, seasonRelevance string) (content.Idea, error) {
	ctx, span := startUsecaseSpan(ctx, "ContentService.CreateIdea")
	defer span.End()

	business = strings.TrimSpace(business)
	text = strings.TrimSpace(text)
	if business == "" || text == "" {
		return content.Idea{}, fmt.Errorf("%w: business and idea text are required", ErrInvalidInput)
	}

	idea, err := s.repo.CreateIdea(ctx, content.Idea{
		Business:        business,
		Text:            text,
		Format:          strings.TrimSpace(format),
		Status:          content.IdeaStatusNew,
		SeasonRelevance: strings.TrimSpace(seasonRelevance),
		CreatedAt:       s.now().UTC(),
	})
	if err != nil {
		return content.Idea{}, fmt.Errorf("create idea: %w", err)
	}
	return idea, nil
}

type ideaSeed struct {
	Idea            string `json:"idea"`
	Format          string `json:"format"`
	SeasonRelevance string `json:"season_relevance"`
}

type ideaBatch struct {
	Ideas []ideaSeed `json:"ideas"`
}

// GenerateIdeas asks the model for a weekly batch of content ideas, telling
// it which recent ideas are already taken so it does not repeat them. The
// model answers free text around a JSON object, so the parse slices from the
// first brace to the last.
func (s *ContentService) GenerateIdeas(ctx context.Context, input GenerateIdeasInput) ([]content.Idea, error) {
	ctx, span := startUsecaseSpan(ctx, "ContentService.GenerateIdeas")
	defer span.End()

	input.Business = strings.TrimSpace(input.Business)
	input.Prompt = strings.TrimSpace(input.Prompt)
	if input.Business == "" {
		return nil, fmt.Errorf("%w: business is required", ErrInvalidInput)
	}
	if input.Prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", ErrInvalidInput)
	}

	existing, err := s.repo.ListIdeas(ctx, input.Business, "")
	if err != nil {
		return nil, fmt.Errorf("list existing ideas: %w", err)
	}
	used := make([]string, 0, len(existing))
	for _, idea := range existing {
		used = append(used, fmt.Sprintf("- %s (%s)", idea.Text, idea.Format))
	}
	usedList := "Ninguna"
	if len(used) > 0 {
		usedList = strings.Join(used, "\n")
	}

	prompt := input.Prompt + "\n\nNO repitas estos temas ya usados:\n" + usedList +
		"\n\nResponde SOLO con JSON válido:\n" +
		`{"ideas":[{"idea":"descripción de la idea","format":"formato","season_relevance":"relevancia estacional si aplica o null"}]}`

	text, err := s.generator.Generate(ctx, input.System, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	batch, err := parseIdeaBatch(text)
	if err != nil {
		return nil, err
	}

	limit := input.Count
	if limit <= 0 || limit > 10 {
		limit = 4
	}
	out := make([]content.Idea, 0, limit)
	for _, seed := range batch.Ideas {
		if len(out) >= limit {
			break
		}
		seedText := strings.TrimSpace(seed.Idea)
		if seedText == "" {
			continue
		}
		saved, err := s.repo.CreateIdea(ctx, content.Idea{
			Business:        input.Business,
			Text:            seedText,
			Format:          strings.TrimSpace(seed.Format),
			Status:          content.IdeaStatusNew,
			SeasonRelevance: strings.TrimSpace(seed.SeasonRelevance),
			CreatedAt:       s.now().UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("save generated idea: %w", err)
		}
		out = append(out, saved)
	}
	return out, nil
}

func parseIdeaBatch(text string) (ideaBatch, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return ideaBatch{}, fmt.Errorf("%w: model response carries no JSON object", ErrDependencyUnavailable)
	}

	var batch ideaBatch
	if err := sonic.Unmarshal([]byte(text[start:end+1]), &batch); err != nil {
		return ideaBatch{}, fmt.Errorf("%w: decode idea batch: %v", ErrDependencyUnavailable, err)
	}
	if len(batch.Ideas) == 0 {
		return ideaBatch{}, fmt.Errorf("%w: model returned an empty idea batch", ErrDependencyUnavailable)
	}
	return batch, nil
}

func (s *ContentService) ListIdeas(ctx context.Context, business string, status content.IdeaStatus) ([]content.Idea, error) {
	ctx, span := startUsecaseSpan(ctx, "ContentService.ListIdeas")
	defer span.End()

	if strings.TrimSpace(business) == "" {
		return nil, fmt.Errorf("%w: business is required", ErrInvalidInput)
	}
	ideas, err := s.repo.ListIdeas(ctx, business, status)
	if err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}
	return ideas, nil
}

func (s *ContentService) UseIdea(ctx context.Context, ideaID int64) error {
	ctx, span := startUsecaseSpan(ctx, "ContentService.UseIdea")
	defer span.End()

	if err := s.repo.MarkIdeaUsed(ctx, ideaID, s.now().UTC()); err != nil {
		return fmt.Errorf("mark idea used: %w", err)
	}
	return nil
}

func (s *ContentService) DiscardIdea(ctx context.Context, ideaID int64) error {
	ctx, span := startUsecaseSpan(ctx, "ContentService.DiscardIdea")
	defer span.End()

	if err := s.repo.DiscardIdea(ctx, ideaID); err != nil {
		return fmt.Errorf("discard idea: %w", err)
	}
	return nil
}

func (s *ContentService) ownedEntry(ctx context.Context, actor user.Principal, business string, entryID int64) (content.Entry, error) {
	entry, found, err := s.repo.GetEntry(ctx, entryID)
	if err != nil {
		return content.Entry{}, fmt.Errorf("get content entry: %w", err)
	}
	if !found || entry.Business != business {
		return content.Entry{}, fmt.Errorf("%w: content entry %d", ErrNotFound, entryID)
	}
	if entry.UserID != actor.UserID && !actor.IsAdmin() {
		return content.Entry{}, fmt.Errorf("%w: entry belongs to another user", ErrForbidden)
	}
	return entry, nil
}
