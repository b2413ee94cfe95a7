package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/page"
	"pagebuilder/internal/service"
	"pagebuilder/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// PageService tests
// ─────────────────────────────────────────────────────────────

func newPageService(t *testing.T) (*service.PageService, *service.MockEmitter, domain.SlotStore) {
	t.Helper()
	store, err := storage.New(filepath.Join(t.TempDir(), "pages.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	emitter := &service.MockEmitter{}
	svc := service.NewPageService(page.NewSession(), store, emitter, zap.NewNop(), service.PageOptions{})
	return svc, emitter, store
}

func component(id, typ string, children ...*domain.Component) *domain.Component {
	return &domain.Component{
		ID:         id,
		Type:       typ,
		Props:      map[string]any{},
		Style:      map[string]any{},
		DataSource: domain.DataSource{Type: domain.DataSourceStatic, Params: map[string]any{}},
		Children:   append([]*domain.Component{}, children...),
	}
}

func TestPageService_MutationsEmitChanges(t *testing.T) {
	ctx := context.Background()
	svc, emitter, _ := newPageService(t)

	c, err := svc.AddFromCatalog(ctx, domain.TypeInput)
	require.NoError(t, err)
	svc.Select(ctx, c.ID)

	changed := emitter.Named(service.EventPageChanged)
	require.Len(t, changed, 1)
	assert.Len(t, changed[0].Data, 1)
	assert.Equal(t, c.ID, svc.Selected())

	svc.Remove(ctx, c.ID)
	assert.Empty(t, svc.Components())
	assert.Empty(t, svc.Selected())
	selections := emitter.Named(service.EventSelection)
	assert.Equal(t, "", selections[len(selections)-1].Data)
}

func TestPageService_AddFromCatalogUnknownKind(t *testing.T) {
	svc, emitter, _ := newPageService(t)
	_, err := svc.AddFromCatalog(context.Background(), "carousel")
	assert.Error(t, err)
	assert.Empty(t, emitter.Events())
}

func TestPageService_UpdateUnknownDoesNotEmit(t *testing.T) {
	svc, emitter, _ := newPageService(t)
	assert.False(t, svc.Update(context.Background(), component("ghost", domain.TypeInput)))
	assert.Empty(t, emitter.Events())
}

func TestPageService_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _, store := newPageService(t)

	input := component("in", domain.TypeInput)
	input.Props["fieldName"] = "name"
	input.Props["value"] = "Ann"
	input.Style["width"] = "100%"
	form := component("f", domain.TypeForm, component("row", domain.TypeRow, input))
	table := component("t", domain.TypeTable)
	table.DataSource = domain.DataSource{
		Type: domain.DataSourceRemote, URL: "/api/users", Method: "GET",
		Params: map[string]any{"page": 1.0}, RefreshInterval: 5,
	}
	svc.Add(ctx, form)
	svc.Add(ctx, table)
	require.NoError(t, svc.Save(ctx))

	other := service.NewPageService(page.NewSession(), store, nil, nil, service.PageOptions{})
	cfg, err := other.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, domain.PageVersion, cfg.Version)
	assert.Equal(t, domain.DefaultPageTitle, cfg.Title)
	assert.Equal(t, domain.LayoutFree, cfg.Layout.Type)
	if diff := cmp.Diff(svc.Components(), other.Components()); diff != "" {
		t.Errorf("forest changed across save/load (-saved +loaded):\n%s", diff)
	}
}

func TestPageService_LoadNothingSaved(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newPageService(t)
	svc.Add(ctx, component("keep", domain.TypeInput))

	cfg, err := svc.Load(ctx)
	assert.NoError(t, err)
	assert.Nil(t, cfg)
	assert.Len(t, svc.Components(), 1)
}

func TestPageService_LoadMalformedLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	store, err := storage.New(filepath.Join(t.TempDir(), "pages.db"))
	require.NoError(t, err)
	defer store.Close()

	core, logs := observer.New(zap.InfoLevel)
	svc := service.NewPageService(nil, store, nil, zap.New(core), service.PageOptions{})
	svc.Add(ctx, component("keep", domain.TypeInput))

	for _, doc := range []string{`{not json`, `null`, `[]`} {
		require.NoError(t, store.Put(ctx, domain.PageSlotKey, []byte(doc)))
		cfg, err := svc.Load(ctx)
		assert.NoError(t, err, doc)
		assert.Nil(t, cfg, doc)
		assert.Len(t, svc.Components(), 1, doc)
	}
	assert.Equal(t, 3, logs.FilterMessage("malformed page document").Len())
}

func TestPageService_LoadWithoutComponentsClearsPage(t *testing.T) {
	ctx := context.Background()
	svc, emitter, store := newPageService(t)

	for _, doc := range []string{`{"version":"1.0","title":"t"}`, `{"version":"1.0","components":null}`} {
		svc.Add(ctx, component("a", domain.TypeInput))
		require.NoError(t, store.Put(ctx, domain.PageSlotKey, []byte(doc)))
		cfg, err := svc.Load(ctx)
		require.NoError(t, err, doc)
		require.NotNil(t, cfg, doc)
		assert.Equal(t, "1.0", cfg.Version, doc)
		assert.NotNil(t, svc.Components(), doc)
		assert.Empty(t, svc.Components(), doc)
	}
	assert.NotEmpty(t, emitter.Named(service.EventPageChanged))
}

func TestPageService_LoadSkipsNullRoots(t *testing.T) {
	ctx := context.Background()
	svc, _, store := newPageService(t)

	doc := `{"version":"1.0","components":[null,{"id":"x","type":"input"}]}`
	require.NoError(t, store.Put(ctx, domain.PageSlotKey, []byte(doc)))
	cfg, err := svc.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Len(t, cfg.Components, 1)
	require.Len(t, svc.Components(), 1)

	assert.NotPanics(t, func() {
		assert.True(t, svc.Update(ctx, component("x", domain.TypeButton)))
		assert.True(t, svc.Remove(ctx, "x"))
	})
	assert.Empty(t, svc.Components())
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) { return nil, errors.New("disk gone") }
func (failingStore) Put(context.Context, string, []byte) error   { return errors.New("disk gone") }
func (failingStore) Close() error                                { return nil }

func TestPageService_StorageErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	svc := service.NewPageService(nil, failingStore{}, nil, nil, service.PageOptions{})

	assert.Error(t, svc.Save(ctx))
	_, err := svc.Load(ctx)
	assert.Error(t, err)
}

func TestPageService_NoStore(t *testing.T) {
	svc := service.NewPageService(nil, nil, nil, nil, service.PageOptions{})
	assert.Error(t, svc.Save(context.Background()))
}

func TestPageService_ReloadSkipsOwnWrite(t *testing.T) {
	ctx := context.Background()
	svc, emitter, store := newPageService(t)
	svc.Add(ctx, component("a", domain.TypeInput))
	require.NoError(t, svc.Save(ctx))

	applied, err := svc.Reload(ctx)
	require.NoError(t, err)
	assert.False(t, applied)

	writer := service.NewPageService(nil, store, nil, nil, service.PageOptions{})
	writer.Add(ctx, component("b", domain.TypeButton))
	require.NoError(t, writer.Save(ctx))

	before := len(emitter.Named(service.EventPageChanged))
	applied, err = svc.Reload(ctx)
	require.NoError(t, err)
	assert.True(t, applied)
	require.Len(t, svc.Components(), 1)
	assert.Equal(t, "b", svc.Components()[0].ID)
	assert.Len(t, emitter.Named(service.EventPageChanged), before+1)
}

// blockingStore parks Get until release is closed.
type blockingStore struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingStore) Get(ctx context.Context, _ string) ([]byte, error) {
	b.entered <- struct{}{}
	<-b.release
	return []byte(`{"version":"1.0","components":[]}`), nil
}
func (b *blockingStore) Put(context.Context, string, []byte) error { return nil }
func (b *blockingStore) Close() error                              { return nil }

func TestPageService_ReloadRunsOneAtATime(t *testing.T) {
	ctx := context.Background()
	store := &blockingStore{entered: make(chan struct{}, 1), release: make(chan struct{})}
	svc := service.NewPageService(nil, store, nil, nil, service.PageOptions{})

	done := make(chan bool, 1)
	go func() {
		applied, _ := svc.Reload(ctx)
		done <- applied
	}()
	<-store.entered

	applied, err := svc.Reload(ctx)
	require.NoError(t, err)
	assert.False(t, applied, "overlapping reload is skipped")

	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	svc.Wait(short)
	assert.ErrorIs(t, short.Err(), context.DeadlineExceeded)

	close(store.release)
	svc.Wait(ctx)
	assert.True(t, <-done)
}

func TestPageService_FormData(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newPageService(t)

	field := component("in", domain.TypeInput)
	field.Props["fieldName"] = "email"
	button := component("btn", domain.TypeButton)
	svc.Add(ctx, component("f", domain.TypeForm, field, button))
	svc.Add(ctx, component("loose", domain.TypeButton))

	data, res := svc.FormData("btn")
	assert.Equal(t, page.FormFound, res)
	assert.Equal(t, map[string]any{"email": ""}, data)

	data, res = svc.FormData("f")
	assert.Equal(t, page.FormFound, res)
	assert.Equal(t, map[string]any{"email": ""}, data)

	data, res = svc.FormData("loose")
	assert.Equal(t, page.FormNoEnclosing, res)
	assert.Nil(t, data)

	_, res = svc.FormData("ghost")
	assert.Equal(t, page.FormTargetMissing, res)

	form, res := svc.EnclosingForm("in")
	require.Equal(t, page.FormFound, res)
	assert.Equal(t, "f", form.ID)
}
