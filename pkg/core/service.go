package core

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"
)

// ServiceConfig wires a Service. Store is required; History may be nil when
// no change log is wanted; Logger may be nil; Now defaults to time.Now.
// A nil History must be an untyped nil: a nil concrete pointer stored in
// the interface would slip past the nil checks and panic on use.
type ServiceConfig struct {
	Store   DocumentStore
	History HistoryLog
	Logger  *slog.Logger
	Now     func() time.Time
}

// Service orchestrates reads and mutations over the agenda document. Every
// mutation is load-mutate-save at whole-operation granularity: a failure
// aborts with nothing persisted. Saves carry the revision observed at load
// time, so a concurrent writer surfaces as ErrConflict instead of a silent
// lost update.
type Service struct {
	store   DocumentStore
	history HistoryLog
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a Service from the given configuration.
func NewService(cfg ServiceConfig) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:   cfg.Store,
		history: cfg.History,
		logger:  cfg.Logger,
		now:     now,
	}
}

// ContentDraft carries the caller-provided fields of a new item. Unset
// fields get defaults; the id and timestamps are always server-generated.
type ContentDraft struct {
	Title      string   `json:"titulo"`
	Type       string   `json:"tipo"`
	Resources  string   `json:"recursos"`
	Status     string   `json:"estado"`
	Pillars    []string `json:"pilares"`
	Comments   string   `json:"comentarios"`
	Attachment string   `json:"adjunto"`
}

// ContentUpdate is an explicit partial update: only non-nil fields are
// applied, each as a whole-field overwrite (the pillar set is replaced
// wholesale, never merged). The id is immutable and not part of the type.
type ContentUpdate struct {
	Title      *string   `json:"titulo"`
	Type       *string   `json:"tipo"`
	Resources  *string   `json:"recursos"`
	Status     *string   `json:"estado"`
	Pillars    *[]string `json:"pilares"`
	Comments   *string   `json:"comentarios"`
	Attachment *string   `json:"adjunto"`
}

// GetDocument returns the whole document and its current revision.
func (s *Service) GetDocument(ctx context.Context) (Document, Revision, error) {
	return s.store.Load(ctx)
}

// GetWeek returns the first week with the given number.
func (s *Service) GetWeek(ctx context.Context, number int) (Week, error) {
	doc, _, err := s.store.Load(ctx)
	if err != nil {
		return Week{}, err
	}
	week := doc.FindWeek(number)
	if week == nil {
		return Week{}, fmt.Errorf("week %d: %w", number, ErrNotFound)
	}
	return *week, nil
}

// GetContent returns the first item with the given id, annotated with its
// owning week's context.
func (s *Service) GetContent(ctx context.Context, id string) (Match, error) {
	doc, _, err := s.store.Load(ctx)
	if err != nil {
		return Match{}, err
	}
	item, week := doc.FindContent(id)
	if item == nil {
		return Match{}, fmt.Errorf("content %s: %w", id, ErrNotFound)
	}
	return Match{
		ContentItem: *item,
		WeekNumber:  week.Number,
		WeekDates:   week.Dates,
		WeekTopic:   week.Topic,
	}, nil
}

// CreateContent appends a new item to the given week and persists the
// document. The generated id has the shape <week>-<unixSeconds>-<100..999>.
func (s *Service) CreateContent(ctx context.Context, weekNumber int, draft ContentDraft, req Requester) (ContentItem, error) {
	var created ContentItem

	err := s.mutate(ctx, ActionContentCreated, req, func(doc *Document) (string, error) {
		week := doc.FindWeek(weekNumber)
		if week == nil {
			return "", fmt.Errorf("week %d: %w", weekNumber, ErrNotFound)
		}

		now := s.now()
		stamp := now.Format(TimeLayout)

		item := ContentItem{
			ID:         fmt.Sprintf("%d-%d-%d", weekNumber, now.Unix(), 100+rand.Intn(900)),
			Title:      draft.Title,
			Type:       draft.Type,
			Resources:  draft.Resources,
			Status:     draft.Status,
			Pillars:    draft.Pillars,
			Comments:   draft.Comments,
			Attachment: draft.Attachment,
			Created:    stamp,
			Modified:   stamp,
		}
		if item.Title == "" {
			item.Title = "Nuevo contenido"
		}
		if item.Pillars == nil {
			item.Pillars = []string{}
		}

		week.Contents = append(week.Contents, item)
		created = item
		return "Contenido creado: " + titleOr(item.Title), nil
	})
	if err != nil {
		return ContentItem{}, err
	}
	return created, nil
}

// UpdateContent applies the non-nil fields of the delta to the item with
// the given id and persists the document.
func (s *Service) UpdateContent(ctx context.Context, id string, delta ContentUpdate, req Requester) (ContentItem, error) {
	var updated ContentItem

	err := s.mutate(ctx, ActionContentUpdated, req, func(doc *Document) (string, error) {
		item, _ := doc.FindContent(id)
		if item == nil {
			return "", fmt.Errorf("content %s: %w", id, ErrNotFound)
		}

		if delta.Title != nil {
			item.Title = *delta.Title
		}
		if delta.Type != nil {
			item.Type = *delta.Type
		}
		if delta.Resources != nil {
			item.Resources = *delta.Resources
		}
		if delta.Status != nil {
			item.Status = *delta.Status
		}
		if delta.Pillars != nil {
			item.Pillars = *delta.Pillars
		}
		if delta.Comments != nil {
			item.Comments = *delta.Comments
		}
		if delta.Attachment != nil {
			item.Attachment = *delta.Attachment
		}
		item.Modified = s.now().Format(TimeLayout)

		updated = *item
		return "Contenido actualizado: " + titleOr(item.Title), nil
	})
	if err != nil {
		return ContentItem{}, err
	}
	return updated, nil
}

// DeleteContent removes the first item with the given id, preserving the
// order of the remaining items, and returns the removed item.
func (s *Service) DeleteContent(ctx context.Context, id string, req Requester) (ContentItem, error) {
	var removed ContentItem

	err := s.mutate(ctx, ActionContentDeleted, req, func(doc *Document) (string, error) {
		for i := range doc.Weeks {
			week := &doc.Weeks[i]
			for j := range week.Contents {
				if week.Contents[j].ID == id {
					removed = week.Contents[j]
					week.Contents = append(week.Contents[:j], week.Contents[j+1:]...)
					return "Contenido eliminado: " + titleOr(removed.Title), nil
				}
			}
		}
		return "", fmt.Errorf("content %s: %w", id, ErrNotFound)
	})
	if err != nil {
		return ContentItem{}, err
	}
	return removed, nil
}

// BulkStatusChange overwrites the status of every item whose id is in ids,
// with a single load and a single save for the whole batch. It returns the
// number of affected items.
func (s *Service) BulkStatusChange(ctx context.Context, status string, ids []string, req Requester) (int, error) {
	if status == "" {
		return 0, fmt.Errorf("status is required: %w", ErrInvalidArgument)
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("id list is empty: %w", ErrInvalidArgument)
	}

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	affected := 0
	err := s.mutate(ctx, ActionBulkStatusChange, req, func(doc *Document) (string, error) {
		stamp := s.now().Format(TimeLayout)
		for i := range doc.Weeks {
			week := &doc.Weeks[i]
			for j := range week.Contents {
				if wanted[week.Contents[j].ID] {
					week.Contents[j].Status = status
					week.Contents[j].Modified = stamp
					affected++
				}
			}
		}
		if affected == 0 {
			return "", fmt.Errorf("no matching contents: %w", ErrNotFound)
		}
		return fmt.Sprintf("Cambio de estado masivo: %d contenidos a '%s'", affected, status), nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// ReplaceDocument persists the given document wholesale. When expected is
// non-empty it must match the current revision (ErrConflict otherwise).
// Only the modification timestamp is re-derived.
func (s *Service) ReplaceDocument(ctx context.Context, doc Document, expected Revision, req Requester) (Revision, error) {
	if doc.Weeks == nil {
		return "", fmt.Errorf("document has no semanas: %w", ErrInvalidArgument)
	}

	rev, err := s.store.Save(ctx, doc, expected)
	if err != nil {
		return "", err
	}
	s.appendHistory(ctx, ActionAgendaUpdated, "Agenda actualizada completa", req)
	return rev, nil
}

// Backup triggers an on-demand snapshot of the current document.
func (s *Service) Backup(ctx context.Context) (string, error) {
	return s.store.Backup(ctx)
}

// Statistics computes the aggregate view over the current document.
func (s *Service) Statistics(ctx context.Context) (Statistics, error) {
	doc, _, err := s.store.Load(ctx)
	if err != nil {
		return Statistics{}, err
	}
	return ComputeStatistics(doc), nil
}

// Report composes statistics, metadata and recommendations.
func (s *Service) Report(ctx context.Context) (Report, error) {
	doc, _, err := s.store.Load(ctx)
	if err != nil {
		return Report{}, err
	}
	return BuildReport(doc, s.now()), nil
}

// Search filters content items by the given criteria.
func (s *Service) Search(ctx context.Context, c Criteria) (FilterResult, error) {
	doc, _, err := s.store.Load(ctx)
	if err != nil {
		return FilterResult{}, err
	}
	return Filter(doc, c), nil
}

// History lists the change log, newest first.
func (s *Service) History(ctx context.Context) ([]HistoryRecord, error) {
	if s.history == nil {
		return []HistoryRecord{}, nil
	}
	return s.history.List(ctx)
}

// mutate runs one load-mutate-save cycle. The callback mutates the document
// in place and returns the history summary. The save carries the revision
// observed at load time.
func (s *Service) mutate(ctx context.Context, action Action, req Requester, fn func(doc *Document) (string, error)) error {
	doc, rev, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	summary, err := fn(&doc)
	if err != nil {
		return err
	}

	if _, err := s.store.Save(ctx, doc, rev); err != nil {
		return err
	}

	s.appendHistory(ctx, action, summary, req)
	return nil
}

// appendHistory records the mutation. Log persistence failure is reported
// but never aborts the mutation that already succeeded.
func (s *Service) appendHistory(ctx context.Context, action Action, summary string, req Requester) {
	if s.history == nil {
		return
	}
	rec := HistoryRecord{
		Timestamp: s.now().Format(TimeLayout),
		Action:    action,
		Summary:   summary,
		IP:        req.IP,
		UserAgent: req.UserAgent,
	}
	if err := s.history.Append(ctx, rec); err != nil && s.logger != nil {
		s.logger.Warn("failed to append history record", "action", action, "error", err)
	}
}

func titleOr(title string) string {
	if title == "" {
		return "Sin título"
	}
	return title
}
