package cache

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omninews/internal/core"
	"omninews/internal/models"
)

type fakeServer struct {
	mu           sync.Mutex
	subscribed   []models.RssChannel
	recommended  []models.RssChannel
	failNext     error
	channelCalls int
	created      []string
	gate         chan struct{}
}

func (f *fakeServer) Channels(context.Context) ([]models.RssChannel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channelCalls++
	return append([]models.RssChannel(nil), f.subscribed...), nil
}

func (f *fakeServer) wait() error {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeServer) Subscribe(_ context.Context, id int64) error {
	if err := f.wait(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribed = append(f.subscribed, models.RssChannel{ChannelID: id})
	return nil
}

func (f *fakeServer) Unsubscribe(_ context.Context, id int64) error {
	if err := f.wait(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, ch := range f.subscribed {
		if ch.ChannelID == id {
			f.subscribed = append(f.subscribed[:i], f.subscribed[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeServer) CreateChannel(_ context.Context, link string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, link)
	return int64(100 + len(f.created)), nil
}

func (f *fakeServer) RecommendedChannels(context.Context) ([]models.RssChannel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.RssChannel(nil), f.recommended...), nil
}

func channels(ids ...int64) []models.RssChannel {
	out := make([]models.RssChannel, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.RssChannel{ChannelID: id})
	}
	return out
}

func newSubscriptions(t *testing.T, server *fakeServer, prober FeedProber) (*Subscriptions, *Cache) {
	t.Helper()
	c := New(core.NopLogger())
	return NewSubscriptions(c, server, server, prober, core.NopLogger()), c
}

func TestUnsubscribeOptimisticThenKept(t *testing.T) {
	server := &fakeServer{subscribed: channels(1, 2, 3), gate: make(chan struct{})}
	subs, c := newSubscriptions(t, server, nil)
	ctx := context.Background()

	_, err := subs.SubscribedChannels(ctx)
	require.NoError(t, err)

	var resets int
	c.OnInvalidate(KeySubscribedItems, func() { resets++ })

	done := make(chan error)
	go func() { done <- subs.Unsubscribe(ctx, 2) }()

	// Before the server answers the list already has K-1 entries.
	require.Eventually(t, func() bool {
		v, _ := Peek[[]models.RssChannel](c, KeySubscribedChannels)
		return len(v) == 2
	}, time.Second, time.Millisecond)

	close(server.gate)
	require.NoError(t, <-done)

	got, err := subs.SubscribedChannels(ctx)
	require.NoError(t, err)
	assert.Equal(t, channels(1, 3), got)
	assert.Equal(t, 1, resets)
}

func TestUnsubscribeRollsBackExactly(t *testing.T) {
	server := &fakeServer{subscribed: channels(5, 1, 9, 3)}
	subs, _ := newSubscriptions(t, server, nil)
	ctx := context.Background()

	before, err := subs.SubscribedChannels(ctx)
	require.NoError(t, err)

	server.failNext = errors.New("server error")
	err = subs.Unsubscribe(ctx, 9)
	require.Error(t, err)

	after, err := subs.SubscribedChannels(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after, "same channels in the same order")
	assert.Equal(t, 1, server.channelCalls, "rollback does not refetch")
}

func TestSubscribeFromRecommended(t *testing.T) {
	server := &fakeServer{
		subscribed:  channels(1),
		recommended: []models.RssChannel{{ChannelID: 1}, {ChannelID: 7, ChannelTitle: "Seven"}},
	}
	subs, c := newSubscriptions(t, server, nil)
	ctx := context.Background()

	recommended, err := subs.RecommendedChannels(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.RssChannel{{ChannelID: 7, ChannelTitle: "Seven"}}, recommended, "subscribed channels are filtered out")

	require.NoError(t, subs.Subscribe(ctx, 7))

	got, ok := Peek[[]models.RssChannel](c, KeySubscribedChannels)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, "Seven", got[1].ChannelTitle)

	_, fresh := c.fresh(KeyRecommendedChannels)
	assert.False(t, fresh, "recommended channels are invalidated")
}

func TestSubscribeFailureRollsBack(t *testing.T) {
	server := &fakeServer{
		subscribed:  channels(1),
		recommended: channels(7),
	}
	subs, _ := newSubscriptions(t, server, nil)
	ctx := context.Background()

	_, err := subs.RecommendedChannels(ctx)
	require.NoError(t, err)

	server.failNext = errors.New("nope")
	require.Error(t, subs.Subscribe(ctx, 7))

	got, err := subs.SubscribedChannels(ctx)
	require.NoError(t, err)
	assert.Equal(t, channels(1), got)
}

func TestMutationsAreSerialized(t *testing.T) {
	server := &fakeServer{subscribed: channels(1, 2, 3), gate: make(chan struct{})}
	subs, c := newSubscriptions(t, server, nil)
	ctx := context.Background()
	_, err := subs.SubscribedChannels(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, id := range []int64{1, 3} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, subs.Unsubscribe(ctx, id))
		}()
	}

	// Only the first mutation has applied its optimistic state.
	require.Eventually(t, func() bool {
		v, _ := Peek[[]models.RssChannel](c, KeySubscribedChannels)
		return len(v) == 2
	}, time.Second, time.Millisecond)

	close(server.gate)
	wg.Wait()

	got, err := subs.SubscribedChannels(ctx)
	require.NoError(t, err)
	assert.Equal(t, channels(2), got)
}

type stubProber struct{ err error }

func (p stubProber) Probe(context.Context, string) (*FeedInfo, error) {
	return &FeedInfo{}, p.err
}

func TestAddByURL(t *testing.T) {
	server := &fakeServer{}
	subs, _ := newSubscriptions(t, server, stubProber{})
	ctx := context.Background()

	id, err := subs.AddByURL(ctx, "  https://example.com/feed.xml ")
	require.NoError(t, err)
	assert.Equal(t, int64(101), id)
	assert.Equal(t, []string{"https://example.com/feed.xml"}, server.created)

	got, err := subs.SubscribedChannels(ctx)
	require.NoError(t, err)
	assert.True(t, models.ContainsChannel(got, 101))
}

func TestAddByURLValidation(t *testing.T) {
	server := &fakeServer{}
	subs, _ := newSubscriptions(t, server, stubProber{err: core.NewValidationError("bad feed", nil)})
	ctx := context.Background()

	for _, raw := range []string{"", "   ", "ftp://example.com/feed", "not a url", "https://"} {
		_, err := subs.AddByURL(ctx, raw)
		var appErr *core.AppError
		require.ErrorAs(t, err, &appErr, raw)
		assert.Equal(t, core.ErrCodeValidation, appErr.Code, raw)
	}

	_, err := subs.AddByURL(ctx, "https://example.com/broken")
	require.Error(t, err)
	assert.Empty(t, server.created, "nothing is sent for rejected URLs")
}

func TestGofeedProber(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/feed.xml" {
			w.Write([]byte("<html><body>not a feed</body></html>"))
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(`<?xml version="1.0"?>
<rss version="2.0"><channel><title>Example</title><link>https://example.com</link>
<item><title>One</title><link>https://example.com/1</link></item>
</channel></rss>`))
	}))
	defer srv.Close()

	prober := NewGofeedProber(5*time.Second, "test-agent", core.NopLogger())
	ctx := context.Background()

	info, err := prober.Probe(ctx, srv.URL+"/feed.xml")
	require.NoError(t, err)
	assert.Equal(t, "Example", info.Title)
	assert.Equal(t, "rss", info.FeedType)
	assert.Equal(t, 1, info.Items)

	_, err = prober.Probe(ctx, srv.URL+"/page")
	require.Error(t, err)
}
