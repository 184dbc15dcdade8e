package store

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLStore {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleDeployment(repo string) *Deployment {
	return &Deployment{
		RepoName:      repo,
		Username:      "alice",
		AppName:       "shop",
		SourceRepoURL: "https://github.com/alice/shop",
		Language:      "node",
		Port:          8080,
		Status:        StatusCreated,
		WebhookStatus: "created",
	}
}

func TestSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleDeployment("alice-shop-deployed")))

	got, err := s.Get(ctx, "alice-shop-deployed")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "shop", got.AppName)
	assert.Equal(t, 8080, got.Port)
	assert.Equal(t, StatusCreated, got.Status)
	assert.Zero(t, got.TriggerCount)
	assert.Nil(t, got.LastTriggeredAt)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSave_UpsertsByRepoName(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleDeployment("alice-shop-deployed")))

	updated := sampleDeployment("alice-shop-deployed")
	updated.Port = 9090
	updated.Status = StatusFailed
	require.NoError(t, s.Save(ctx, updated))

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 9090, items[0].Port)
	assert.Equal(t, StatusFailed, items[0].Status)
}

func TestSave_RequiresRepoName(t *testing.T) {
	s := openTestStore(t)
	assert.Error(t, s.Save(context.Background(), &Deployment{}))
	assert.Error(t, s.Save(context.Background(), nil))
}

func TestGet_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	items, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	for _, repo := range []string{"a-one-deployed", "b-two-deployed", "c-three-deployed"} {
		require.NoError(t, s.Save(ctx, sampleDeployment(repo)))
	}

	items, err = s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestMarkTriggered(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, sampleDeployment("alice-shop-deployed")))

	require.NoError(t, s.MarkTriggered(ctx, "alice-shop-deployed", "https://github.com/alice/shop.git"))
	require.NoError(t, s.MarkTriggered(ctx, "alice-shop-deployed", ""))

	got, err := s.Get(ctx, "alice-shop-deployed")
	require.NoError(t, err)
	assert.Equal(t, StatusImportTriggered, got.Status)
	assert.Equal(t, 2, got.TriggerCount)
	assert.Equal(t, "https://github.com/alice/shop.git", got.SourceRepoURL)
	require.NotNil(t, got.LastTriggeredAt)
}

func TestMarkTriggered_NotFound(t *testing.T) {
	s := openTestStore(t)
	err := s.MarkTriggered(context.Background(), "missing", "https://github.com/alice/shop")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetStatus(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, sampleDeployment("alice-shop-deployed")))

	require.NoError(t, s.SetStatus(ctx, "alice-shop-deployed", StatusFailed))
	got, err := s.Get(ctx, "alice-shop-deployed")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)

	assert.ErrorIs(t, s.SetStatus(ctx, "missing", StatusFailed), ErrNotFound)
}

func TestPing(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Ping(context.Background()))

	require.NoError(t, s.Close())
	assert.Error(t, s.Ping(context.Background()))
}
