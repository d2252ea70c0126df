package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const defaultEventBuffer = 100

// Service handles the business rules around the notes collection.
type Service struct {
	repo            Repository
	logger          *slog.Logger
	eventBufferSize int

	mu       sync.RWMutex
	watchers map[chan Event]struct{}
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger used by the service.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

// WithEventBuffer sets the per-watcher event buffer. Zero means default (100).
func WithEventBuffer(size int) ServiceOption {
	return func(s *Service) {
		if size > 0 {
			s.eventBufferSize = size
		}
	}
}

// NewService creates a new Service.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:            repo,
		eventBufferSize: defaultEventBuffer,
		watchers:        make(map[chan Event]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// ListNotes reads one page of the collection.
func (s *Service) ListNotes(ctx context.Context, q Query) (FetchResult, error) {
	q = q.Normalize()
	res, err := s.repo.List(ctx, q)
	if err != nil {
		return FetchResult{}, fmt.Errorf("list notes (page %d, search %q): %w", q.Page, q.Search, err)
	}
	if res.TotalPages < 0 {
		res.TotalPages = 0
	}
	return res, nil
}

// CreateNote validates the draft locally and creates the note.
// A draft that fails validation is never sent.
func (s *Service) CreateNote(ctx context.Context, d Draft) (Note, error) {
	if err := ValidateDraft(d); err != nil {
		return Note{}, err
	}

	note, err := s.repo.Create(ctx, d)
	if err != nil {
		return Note{}, fmt.Errorf("create note: %w", err)
	}

	s.logger.Debug("note created", "id", note.ID, "tag", note.Tag)
	s.publish(Event{Type: EventCreate, ID: note.ID, Timestamp: time.Now().Unix()})
	return note, nil
}

// DeleteNote removes a note.
func (s *Service) DeleteNote(ctx context.Context, id NoteID) (Note, error) {
	if id == "" {
		return Note{}, errors.New("note ID cannot be empty")
	}

	note, err := s.repo.Delete(ctx, id)
	if err != nil {
		return Note{}, fmt.Errorf("delete note %s: %w", id, err)
	}
	if note.ID == "" {
		note.ID = id
	}

	s.logger.Debug("note deleted", "id", id)
	s.publish(Event{Type: EventDelete, ID: id, Timestamp: time.Now().Unix()})
	return note, nil
}

// Watch streams mutation events until ctx is done.
// Slow consumers lose events once their buffer is full; the producer never blocks.
func (s *Service) Watch(ctx context.Context) (<-chan Event, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	ch := make(chan Event, s.eventBufferSize)

	s.mu.Lock()
	s.watchers[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.watchers, ch)
		close(ch)
		s.mu.Unlock()
	}()

	return ch, nil
}

func (s *Service) publish(e Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for ch := range s.watchers {
		select {
		case ch <- e:
		default:
			s.logger.Warn("event dropped, watcher buffer full", "type", e.Type, "id", e.ID)
		}
	}
}
