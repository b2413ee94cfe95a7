package mock_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/mock"
	"pagebuilder/internal/schedule"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingNotifier struct{ msgs []string }

func (n *recordingNotifier) Notify(_ context.Context, msg string) { n.msgs = append(n.msgs, msg) }

type sourceFunc func(ctx context.Context, req mock.Request) (any, error)

func (f sourceFunc) Fetch(ctx context.Context, req mock.Request) (any, error) { return f(ctx, req) }

func tableRequest(interval int) mock.Request {
	return mock.Request{
		Kind: domain.TypeTable,
		DataSource: domain.DataSource{
			Type:            domain.DataSourceRemote,
			URL:             "/api/users",
			Method:          "GET",
			RefreshInterval: interval,
		},
	}
}

func TestFetcher_DeliversAfterLatency(t *testing.T) {
	clock := schedule.NewManual()
	f := mock.NewFetcher(mock.NewSynthesizer(mock.Options{}), clock, nil, zap.NewNop(), mock.FetcherConfig{})

	var got []any
	f.Fetch(context.Background(), tableRequest(0), func(v any) { got = append(got, v) })

	clock.Advance(mock.LatencyMin - time.Millisecond)
	assert.Empty(t, got)

	clock.Advance(mock.LatencyMax)
	require.Len(t, got, 1)
	assert.IsType(t, []map[string]any{}, got[0])
}

func TestFetcher_FixedLatency(t *testing.T) {
	clock := schedule.NewManual()
	f := mock.NewFetcher(mock.NewSynthesizer(mock.Options{}), clock, nil, nil,
		mock.FetcherConfig{LatencyMin: 500 * time.Millisecond, LatencyMax: 500 * time.Millisecond})

	delivered := false
	f.Fetch(context.Background(), tableRequest(0), func(any) { delivered = true })
	clock.Advance(499 * time.Millisecond)
	assert.False(t, delivered)
	clock.Advance(time.Millisecond)
	assert.True(t, delivered)
}

func TestFetcher_PanicIsRecoveredAndNotified(t *testing.T) {
	clock := schedule.NewManual()
	notifier := &recordingNotifier{}
	core, logs := observer.New(zap.InfoLevel)
	src := sourceFunc(func(context.Context, mock.Request) (any, error) { panic("boom") })
	f := mock.NewFetcher(src, clock, notifier, zap.New(core), mock.FetcherConfig{})

	called := false
	f.Fetch(context.Background(), tableRequest(0), func(any) { called = true })
	assert.NotPanics(t, func() { clock.Advance(time.Second) })

	assert.False(t, called)
	assert.Equal(t, []string{mock.FailureMessage}, notifier.msgs)
	assert.Equal(t, 1, logs.FilterMessage("request failed").Len())
}

func TestFetcher_SourceErrorIsNotified(t *testing.T) {
	clock := schedule.NewManual()
	notifier := &recordingNotifier{}
	src := sourceFunc(func(context.Context, mock.Request) (any, error) { return nil, errors.New("down") })
	f := mock.NewFetcher(src, clock, notifier, nil, mock.FetcherConfig{})

	f.Fetch(context.Background(), tableRequest(0), func(any) { t.Fatal("must not deliver") })
	clock.Advance(time.Second)
	assert.Len(t, notifier.msgs, 1)
}

func TestFetcher_CancelledContextDropsDelivery(t *testing.T) {
	clock := schedule.NewManual()
	f := mock.NewFetcher(mock.NewSynthesizer(mock.Options{}), clock, nil, nil, mock.FetcherConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	called := false
	f.Fetch(ctx, tableRequest(0), func(any) { called = true })
	cancel()
	clock.Advance(time.Second)
	assert.False(t, called)
}

func TestFetcher_LogsRequestAndResponse(t *testing.T) {
	clock := schedule.NewManual()
	core, logs := observer.New(zap.InfoLevel)
	f := mock.NewFetcher(mock.NewSynthesizer(mock.Options{}), clock, nil, zap.New(core), mock.FetcherConfig{})

	f.Fetch(context.Background(), tableRequest(0), nil)
	clock.Advance(time.Second)

	require.Equal(t, 1, logs.FilterMessage("request").Len())
	entry := logs.FilterMessage("request").All()[0]
	assert.Equal(t, "/api/users", entry.ContextMap()["url"])
	assert.Equal(t, 1, logs.FilterMessage("response").Len())
}

func TestFetcher_AwaitReturnsPayload(t *testing.T) {
	sched := schedule.NewCron()
	defer sched.Close()
	f := mock.NewFetcher(mock.NewSynthesizer(mock.Options{}), sched, nil, nil,
		mock.FetcherConfig{LatencyMin: time.Millisecond, LatencyMax: 5 * time.Millisecond})

	data, err := f.Await(context.Background(), mock.Request{Kind: domain.TypeLineChart, DataSource: domain.DataSource{URL: "/api/month"}})
	require.NoError(t, err)
	assert.IsType(t, mock.ChartData{}, data)
}

func TestFetcher_AwaitReturnsFailureWithoutNotifying(t *testing.T) {
	sched := schedule.NewCron()
	defer sched.Close()
	notifier := &recordingNotifier{}
	src := sourceFunc(func(context.Context, mock.Request) (any, error) { return nil, errors.New("down") })
	f := mock.NewFetcher(src, sched, notifier, nil,
		mock.FetcherConfig{LatencyMin: time.Millisecond, LatencyMax: time.Millisecond})

	_, err := f.Await(context.Background(), tableRequest(0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), mock.FailureMessage)
	assert.Empty(t, notifier.msgs)
}

func TestFetcher_AwaitHonoursContext(t *testing.T) {
	clock := schedule.NewManual()
	f := mock.NewFetcher(mock.NewSynthesizer(mock.Options{}), clock, nil, nil, mock.FetcherConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Await(ctx, tableRequest(0))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, clock.Pending())
}
