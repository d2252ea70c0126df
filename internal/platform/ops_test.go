package platform_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notehub/internal/platform"
	"github.com/aretw0/notehub/pkg/adapters/rest"
	"github.com/aretw0/notehub/pkg/core"
)

type stubRepo struct{}

func (stubRepo) List(ctx context.Context, q core.Query) (core.FetchResult, error) {
	return core.FetchResult{Notes: []core.Note{{ID: "1", Title: "stub", Tag: core.TagWork}}, TotalPages: 1}, nil
}

func (stubRepo) Create(ctx context.Context, d core.Draft) (core.Note, error) {
	return core.Note{}, errors.New("read only")
}

func (stubRepo) Delete(ctx context.Context, id core.NoteID) (core.Note, error) {
	return core.Note{}, errors.New("read only")
}

func noEnv(string) string { return "" }

func TestInit(t *testing.T) {
	t.Run("Missing Token Fails Fast", func(t *testing.T) {
		_, _, err := platform.Init(platform.WithWorkDir(t.TempDir()), platform.WithEnv(noEnv))
		if !errors.Is(err, core.ErrConfig) {
			t.Fatalf("expected ErrConfig, got %v", err)
		}
	})

	t.Run("Builds REST Repository", func(t *testing.T) {
		repo, cfg, err := platform.Init(
			platform.WithWorkDir(t.TempDir()),
			platform.WithEnv(func(k string) string {
				if k == platform.EnvToken {
					return "env-token"
				}
				return ""
			}),
			platform.WithSearchParam("q"),
		)
		require.NoError(t, err)

		rr, ok := repo.(*rest.Repository)
		require.True(t, ok, "expected the REST adapter")
		assert.Equal(t, "q", rr.State().(rest.RepositoryState).SearchParam)
		assert.Equal(t, "env-token", cfg.Token)
	})

	t.Run("Options Override File", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "notehub.yml"), []byte("page_size: 6\ndebounce: 1s\n"), 0644); err != nil {
			t.Fatal(err)
		}

		_, cfg, err := platform.Init(
			platform.WithWorkDir(dir),
			platform.WithEnv(noEnv),
			platform.WithToken("opt-token"),
			platform.WithPageSize(20),
		)
		require.NoError(t, err)
		assert.Equal(t, 20, cfg.PageSize)
		assert.Equal(t, time.Second, cfg.Debounce)
		assert.Equal(t, "opt-token", cfg.Token)
	})

	t.Run("Injected Repository Needs No Token", func(t *testing.T) {
		repo, _, err := platform.Init(
			platform.WithRepository(stubRepo{}),
			platform.WithWorkDir(t.TempDir()),
			platform.WithEnv(noEnv),
		)
		require.NoError(t, err)
		assert.IsType(t, stubRepo{}, repo)
	})
}

func TestOpen(t *testing.T) {
	client, err := platform.Open(
		platform.WithRepository(stubRepo{}),
		platform.WithConfig(platform.DefaultConfig()),
		platform.WithPageSize(4),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Controller.Close() })

	assert.Equal(t, 4, client.Config.PageSize)
	require.NoError(t, client.Controller.Start(context.Background()))
	client.Controller.Wait()

	snap := client.Controller.Snapshot()
	assert.Equal(t, 4, snap.PageSize)
	require.Len(t, snap.Notes, 1)
	assert.Equal(t, "stub", snap.Notes[0].Title)
}

func TestNewService(t *testing.T) {
	svc, err := platform.NewService(
		platform.WithRepository(stubRepo{}),
		platform.WithConfig(platform.DefaultConfig()),
		platform.WithEventBuffer(4),
	)
	require.NoError(t, err)
	assert.Equal(t, 4, svc.State().(core.ServiceState).EventBufferSize)
}
