package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/service"
	"pagebuilder/internal/storage"
)

func TestPageWatcher_ReloadsOnExternalWrite(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	files, err := storage.NewFileSlots(t.TempDir())
	require.NoError(t, err)

	svc := service.NewPageService(nil, files, nil, nil, service.PageOptions{})
	w := service.NewPageWatcher(svc, files, 50*time.Millisecond, nil)
	require.NoError(t, w.Start(ctx))
	defer w.Close()

	external := service.NewPageService(nil, files, nil, nil, service.PageOptions{})
	external.Add(ctx, component("from-disk", domain.TypeInput))
	require.NoError(t, external.Save(ctx))

	assert.Eventually(t, func() bool {
		cs := svc.Components()
		return len(cs) == 1 && cs[0].ID == "from-disk"
	}, 3*time.Second, 20*time.Millisecond)
}

func TestPageWatcher_IgnoresOtherSlots(t *testing.T) {
	ctx := context.Background()
	files, err := storage.NewFileSlots(t.TempDir())
	require.NoError(t, err)

	svc := service.NewPageService(nil, files, nil, nil, service.PageOptions{})
	w := service.NewPageWatcher(svc, files, 20*time.Millisecond, nil)
	require.NoError(t, w.Start(ctx))

	other := service.NewPageService(nil, files, nil, nil, service.PageOptions{SlotKey: "draft"})
	other.Add(ctx, component("x", domain.TypeInput))
	require.NoError(t, other.Save(ctx))

	time.Sleep(150 * time.Millisecond)
	assert.Empty(t, svc.Components())
	require.NoError(t, w.Close())
}

func TestPageWatcher_CloseWithoutStart(t *testing.T) {
	files, err := storage.NewFileSlots(t.TempDir())
	require.NoError(t, err)
	w := service.NewPageWatcher(service.NewPageService(nil, files, nil, nil, service.PageOptions{}), files, 0, nil)
	assert.NoError(t, w.Close())
}
