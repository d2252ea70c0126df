package core_test

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/notehub/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockRepository implements core.Repository in memory.
type MockRepository struct {
	notes   map[core.NoteID]core.Note
	nextID  int
	creates int
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		notes: make(map[core.NoteID]core.Note),
	}
}

func (m *MockRepository) List(ctx context.Context, q core.Query) (core.FetchResult, error) {
	var notes []core.Note
	for _, n := range m.notes {
		if q.HasSearch() && !strings.Contains(n.Title, q.Search) {
			continue
		}
		notes = append(notes, n)
	}
	// Sort for deterministic tests
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].ID < notes[j].ID
	})
	return core.FetchResult{Notes: notes, TotalPages: 1}, nil
}

func (m *MockRepository) Create(ctx context.Context, d core.Draft) (core.Note, error) {
	m.creates++
	m.nextID++
	n := core.Note{
		ID:        core.NoteID(strconv.Itoa(m.nextID)),
		Title:     d.Title,
		Content:   d.Content,
		Tag:       d.Tag,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.notes[n.ID] = n
	return n, nil
}

func (m *MockRepository) Delete(ctx context.Context, id core.NoteID) (core.Note, error) {
	n, ok := m.notes[id]
	if !ok {
		return core.Note{}, &core.APIError{Op: "delete", StatusCode: 404, Kind: core.ErrNotFound}
	}
	delete(m.notes, id)
	return n, nil
}

func TestService_CRUD(t *testing.T) {
	repo := NewMockRepository()
	service := core.NewService(repo)
	ctx := context.TODO()

	// 1. Create
	note, err := service.CreateNote(ctx, core.Draft{Title: "Buy milk", Content: "2%", Tag: core.TagShopping})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", note.Title)

	// 2. List
	_, err = service.CreateNote(ctx, core.Draft{Title: "Standup", Tag: core.TagMeeting})
	require.NoError(t, err)
	res, err := service.ListNotes(ctx, core.Query{Page: 1, PageSize: 12})
	require.NoError(t, err)
	assert.Len(t, res.Notes, 2)

	// 3. Search
	res, err = service.ListNotes(ctx, core.Query{Page: 1, PageSize: 12, Search: "  milk "})
	require.NoError(t, err)
	require.Len(t, res.Notes, 1)
	assert.Equal(t, note.ID, res.Notes[0].ID)

	// 4. Delete
	_, err = service.DeleteNote(ctx, note.ID)
	require.NoError(t, err)
	_, err = service.DeleteNote(ctx, note.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestService_CreateNote_InvalidDraftNeverSent(t *testing.T) {
	repo := NewMockRepository()
	service := core.NewService(repo)

	_, err := service.CreateNote(context.TODO(), core.Draft{Title: "ab", Content: "x", Tag: core.TagTodo})

	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, core.ErrValidation)
	_, ok := verr.Field("title")
	assert.True(t, ok)
	assert.Zero(t, repo.creates, "invalid draft must not reach the repository")
}

func TestService_DeleteNote_EmptyID(t *testing.T) {
	service := core.NewService(NewMockRepository())
	_, err := service.DeleteNote(context.TODO(), "")
	if err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestService_Watch(t *testing.T) {
	service := core.NewService(NewMockRepository(), core.WithEventBuffer(4))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := service.Watch(ctx)
	require.NoError(t, err)

	note, err := service.CreateNote(ctx, core.Draft{Title: "Write report", Tag: core.TagWork})
	require.NoError(t, err)
	_, err = service.DeleteNote(ctx, note.ID)
	require.NoError(t, err)

	var got []core.EventType
	timeout := time.After(time.Second)
	for len(got) < 2 {
		select {
		case e := <-events:
			assert.Equal(t, note.ID, e.ID)
			got = append(got, e.Type)
		case <-timeout:
			t.Fatal("timeout waiting for events")
		}
	}
	assert.Equal(t, []core.EventType{core.EventCreate, core.EventDelete}, got)

	cancel()
	assert.Eventually(t, func() bool {
		_, open := <-events
		return !open
	}, time.Second, 10*time.Millisecond)
}

func TestService_Watch_CancelledContext(t *testing.T) {
	service := core.NewService(NewMockRepository())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Watch(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestService_State(t *testing.T) {
	service := core.NewService(NewMockRepository())
	state, ok := service.State().(core.ServiceState)
	require.True(t, ok)
	assert.Equal(t, "repository", state.RepositoryType)
	assert.Equal(t, 100, state.EventBufferSize)
	assert.Equal(t, "service", service.ComponentType())
}
