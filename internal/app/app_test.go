package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagebuilder/internal/app"
	"pagebuilder/internal/config"
	"pagebuilder/internal/domain"
	"pagebuilder/internal/storage"
)

func testConfig(t *testing.T, driver string) *config.Config {
	t.Helper()
	v, err := config.NewViper("")
	require.NoError(t, err)
	v.Set("storage.driver", driver)
	v.Set("storage.path", t.TempDir()+"/slots")
	v.Set("server.addr", "127.0.0.1:0")
	v.Set("mock.latency_min", "1ms")
	v.Set("mock.latency_max", "2ms")
	cfg, err := config.NewConfigFromViper(v)
	require.NoError(t, err)
	return cfg
}

func TestStorageParams(t *testing.T) {
	p := app.StorageParams(config.StorageConfig{Driver: "postgres", Host: "db", Port: 5432, Database: "pages"})
	assert.Equal(t, storage.DriverPostgres, p.Driver)
	assert.Equal(t, "db", p.Host)
	assert.Equal(t, 5432, p.Port)
	assert.Equal(t, "pages", p.Database)
}

func TestRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, "sqlite")

	first, err := app.New(ctx, cfg, nil, app.Options{})
	require.NoError(t, err)
	_, err = first.Pages().AddFromCatalog(ctx, domain.TypeForm)
	require.NoError(t, err)
	require.NoError(t, first.Pages().Save(ctx))
	require.NoError(t, first.Close())

	second, err := app.New(ctx, cfg, nil, app.Options{})
	require.NoError(t, err)
	defer second.Close()
	second.Restore(ctx)
	require.Len(t, second.Pages().Components(), 1)
	assert.Equal(t, domain.TypeForm, second.Pages().Components()[0].Type)
}

func TestWatchRequiresFileDriver(t *testing.T) {
	cfg := testConfig(t, "sqlite")
	cfg.Storage.Watch = true
	_, err := app.New(context.Background(), cfg, nil, app.Options{Preview: true})
	assert.ErrorIs(t, err, config.ErrWatchNeedsFileDriver)
}

func TestServeStopsOnCancel(t *testing.T) {
	cfg := testConfig(t, "file")
	cfg.Storage.Watch = true

	ctx, cancel := context.WithCancel(context.Background())
	a, err := app.New(ctx, cfg, nil, app.Options{Preview: true})
	require.NoError(t, err)
	defer a.Close()

	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestServeNeedsPreview(t *testing.T) {
	a, err := app.New(context.Background(), testConfig(t, "file"), nil, app.Options{})
	require.NoError(t, err)
	defer a.Close()
	assert.Error(t, a.Serve(context.Background()))
}
