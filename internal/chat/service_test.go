package chat

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suvai/freshmart-backend/internal/catalog"
	"github.com/suvai/freshmart-backend/internal/locator"
	"github.com/suvai/freshmart-backend/pkg/chatapi"
	"github.com/suvai/freshmart-backend/pkg/enums"
	pkgerrors "github.com/suvai/freshmart-backend/pkg/errors"
	"github.com/suvai/freshmart-backend/pkg/geo"
	"github.com/suvai/freshmart-backend/pkg/localstore"
	"github.com/suvai/freshmart-backend/pkg/logger"
)

type stubBackend struct {
	response    *chatapi.Response
	err         error
	calls       atomic.Int64
	block       chan struct{}
	started     chan struct{}
	startedOnce sync.Once
}

func (b *stubBackend) Send(ctx context.Context, _ chatapi.Request) (*chatapi.Response, error) {
	b.calls.Add(1)
	if b.started != nil {
		b.startedOnce.Do(func() { close(b.started) })
	}
	if b.block != nil {
		select {
		case <-b.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if b.err != nil {
		return nil, b.err
	}
	return b.response, nil
}

func newChatService(t *testing.T, backend backendClient) Service {
	t.Helper()
	return newChatServiceWithStore(t, backend, localstore.NewMemory())
}

func newChatServiceWithStore(t *testing.T, backend backendClient, store localstore.Store) Service {
	t.Helper()
	stores, err := locator.NewService(locator.Default())
	require.NoError(t, err)
	svc, err := NewService(backend, store, catalog.Default(), stores, logger.New(logger.Options{ServiceName: "chat-test"}), 0)
	require.NoError(t, err)
	return svc
}

func TestSessionGeneratesAndPersistsID(t *testing.T) {
	t.Parallel()

	store := localstore.NewMemory()
	svc := newChatServiceWithStore(t, &stubBackend{}, store)
	ctx := context.Background()

	info, err := svc.Session(ctx, "client-1")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^session_\d+_[0-9a-z]{9}$`), info.SessionID)
	assert.Nil(t, info.Location)
	assert.Empty(t, info.History)
	require.Len(t, info.Welcome, 2)
	assert.Len(t, info.Welcome[0].QuickActions, 4)

	// Same client keeps the same id; the blob survives a service restart.
	again, err := svc.Session(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, info.SessionID, again.SessionID)

	restarted := newChatServiceWithStore(t, &stubBackend{}, store)
	after, err := restarted.Session(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, info.SessionID, after.SessionID)
}

func TestSessionsAreIsolatedPerClient(t *testing.T) {
	t.Parallel()

	svc := newChatService(t, &stubBackend{})
	ctx := context.Background()

	first, err := svc.Session(ctx, "client-1")
	require.NoError(t, err)
	second, err := svc.Session(ctx, "client-2")
	require.NoError(t, err)

	assert.NotEqual(t, first.SessionID, second.SessionID)
}

func TestSendMessageRejectsEmptyInput(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{}
	svc := newChatService(t, backend)
	ctx := context.Background()

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := svc.SendMessage(ctx, "client-1", text)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, "input %q", text)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}

	info, err := svc.Session(ctx, "client-1")
	require.NoError(t, err)
	assert.Empty(t, info.History, "rejected messages must not enter history")
	assert.Zero(t, backend.calls.Load())
}

func TestSendMessageLocationStatementSkipsBackend(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{}
	svc := newChatService(t, backend)
	ctx := context.Background()

	reply, err := svc.SendMessage(ctx, "client-1", "Hey, I'm in Brooklyn today")
	require.NoError(t, err)

	assert.Zero(t, backend.calls.Load(), "location statements never reach the backend")
	assert.Equal(t, ReplySourceLocation, reply.Source)
	assert.Equal(t, ReplyTypeStoreLocations, reply.Type)
	assert.Contains(t, reply.Messages[0].Text, "Brooklyn")
	require.NotEmpty(t, reply.Stores)
	// Brooklyn store is closest to the Brooklyn coordinate.
	assert.Equal(t, "SUVAI Brooklyn", reply.Stores[0].Name)

	info, err := svc.Session(ctx, "client-1")
	require.NoError(t, err)
	require.NotNil(t, info.Location)
	assert.InDelta(t, 40.6892, info.Location.Latitude, 1e-9)
	assert.InDelta(t, -73.9442, info.Location.Longitude, 1e-9)
}

func TestSendMessageUnknownAreaFallsBackToNYC(t *testing.T) {
	t.Parallel()

	svc := newChatService(t, &stubBackend{})
	ctx := context.Background()

	reply, err := svc.SendMessage(ctx, "client-1", "I live in Springfield")
	require.NoError(t, err)

	assert.Contains(t, reply.Messages[0].Text, "New York City")
	info, err := svc.Session(ctx, "client-1")
	require.NoError(t, err)
	require.NotNil(t, info.Location)
	assert.InDelta(t, 40.7589, info.Location.Latitude, 1e-9)
	assert.InDelta(t, -73.9851, info.Location.Longitude, 1e-9)
}

func TestSendMessageFirstAreaMentionWins(t *testing.T) {
	t.Parallel()

	svc := newChatService(t, &stubBackend{})

	reply, err := svc.SendMessage(context.Background(), "client-1", "I'm in manhattan but I work in brooklyn")
	require.NoError(t, err)
	assert.Contains(t, reply.Messages[0].Text, "Manhattan")
}

func TestSendMessageRemoteSuccess(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{response: &chatapi.Response{
		Type:    chatapi.ResponseTypeProductSearch,
		Message: "Found 2 products for you",
		Products: []chatapi.ProductResult{
			{Name: "Fresh Apples", Price: 3.99, Category: "fruits"},
			{Name: "Bananas", Price: 2.49, Category: "fruits"},
		},
	}}
	svc := newChatService(t, backend)

	reply, err := svc.SendMessage(context.Background(), "client-1", "find apples")
	require.NoError(t, err)

	assert.Equal(t, ReplySourceRemote, reply.Source)
	assert.Equal(t, ReplyTypeProductSearch, reply.Type)
	require.Len(t, reply.Messages, 1)
	assert.Equal(t, "Found 2 products for you", reply.Messages[0].Text)
	require.Len(t, reply.Products, 2)
	assert.Equal(t, "3.99", reply.Products[0].Price.String())
}

func TestSendMessageBackendFailureFallsBackToProductSearch(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{err: fmt.Errorf("connection refused")}
	svc := newChatService(t, backend)

	reply, err := svc.SendMessage(context.Background(), "client-1", "find fresh apples")
	require.NoError(t, err)

	assert.Equal(t, ReplySourceLocal, reply.Source)
	assert.Equal(t, ReplyTypeProductSearch, reply.Type)
	require.GreaterOrEqual(t, len(reply.Messages), 2)
	assert.Contains(t, reply.Messages[0].Text, "trouble connecting")
	assert.Contains(t, reply.Messages[1].Text, "Fresh Apples")
	require.NotEmpty(t, reply.Products)
	assert.LessOrEqual(t, len(reply.Products), 5)
	assert.LessOrEqual(t, len(reply.Stores), 3)
}

func TestSendMessageFallbackPriorityLocationOverHelp(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{err: fmt.Errorf("down")}
	svc := newChatService(t, backend)

	// "where" is a location keyword and "how" a help keyword; location wins.
	reply, err := svc.SendMessage(context.Background(), "client-1", "where and how do I shop")
	require.NoError(t, err)

	require.NotEmpty(t, reply.Messages)
	assert.Contains(t, reply.Messages[1].Text, "nearby stores")
}

func TestSendMessageFallbackHelp(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{err: fmt.Errorf("down")}
	svc := newChatService(t, backend)

	reply, err := svc.SendMessage(context.Background(), "client-1", "please assist me")
	require.NoError(t, err)

	require.Len(t, reply.Messages, 2)
	assert.Contains(t, reply.Messages[1].Text, "SuvaiBot")
}

func TestSendMessageFallbackDefaultPicksFromFixedSet(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{err: fmt.Errorf("down")}
	svc := newChatService(t, backend)

	reply, err := svc.SendMessage(context.Background(), "client-1", "blah blah")
	require.NoError(t, err)

	require.Len(t, reply.Messages, 3)
	assert.Contains(t, defaultResponses, reply.Messages[1].Text)
	assert.Len(t, reply.Messages[2].QuickActions, 3)
}

func TestSendMessageBusyGuard(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{
		response: &chatapi.Response{Type: chatapi.ResponseTypeText, Message: "ok"},
		block:    make(chan struct{}),
		started:  make(chan struct{}),
	}
	svc := newChatService(t, backend)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := svc.SendMessage(ctx, "client-1", "first message")
		done <- err
	}()

	<-backend.started

	_, err := svc.SendMessage(ctx, "client-1", "second message")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeSessionBusy, typed.Code())

	close(backend.block)
	require.NoError(t, <-done)

	// Busy flag is cleared once processing finishes.
	_, err = svc.SendMessage(ctx, "client-1", "third message")
	require.NoError(t, err)
}

func TestSendMessageRecordsHistory(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{response: &chatapi.Response{Type: chatapi.ResponseTypeText, Message: "hello back"}}
	svc := newChatService(t, backend)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, "client-1", "hello")
	require.NoError(t, err)

	info, err := svc.Session(ctx, "client-1")
	require.NoError(t, err)
	require.Len(t, info.History, 2)
	assert.Equal(t, enums.MessageRoleUser, info.History[0].Role)
	assert.Equal(t, "hello", info.History[0].Text)
	assert.Equal(t, enums.MessageRoleBot, info.History[1].Role)
	assert.Equal(t, "hello back", info.History[1].Text)
}

func TestSetLocation(t *testing.T) {
	t.Parallel()

	svc := newChatService(t, &stubBackend{})
	ctx := context.Background()

	reply, err := svc.SetLocation(ctx, "client-1", geo.Point{Latitude: 40.7, Longitude: -74.0})
	require.NoError(t, err)
	assert.Contains(t, reply.Messages[0].Text, "nearby stores")

	info, err := svc.Session(ctx, "client-1")
	require.NoError(t, err)
	require.NotNil(t, info.Location)
	assert.InDelta(t, 40.7, info.Location.Latitude, 1e-9)
}

func TestSetLocationRejectsBadCoordinates(t *testing.T) {
	t.Parallel()

	svc := newChatService(t, &stubBackend{})

	_, err := svc.SetLocation(context.Background(), "client-1", geo.Point{Latitude: 91, Longitude: 0})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestReportLocationFailureSetsFallbackAndExplains(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code     enums.GeolocationError
		fragment string
	}{
		{enums.GeolocationErrorPermissionDenied, "allow location access"},
		{enums.GeolocationErrorPositionUnavailable, "unavailable"},
		{enums.GeolocationErrorTimeout, "timed out"},
		{enums.GeolocationErrorUnknown, "unknown error"},
	}

	for _, tc := range cases {
		svc := newChatService(t, &stubBackend{})
		ctx := context.Background()

		reply, err := svc.ReportLocationFailure(ctx, "client-1", tc.code)
		require.NoError(t, err, tc.code)
		assert.Contains(t, reply.Messages[0].Text, tc.fragment, tc.code)
		assert.Contains(t, reply.Messages[0].Text, "New York City")

		info, err := svc.Session(ctx, "client-1")
		require.NoError(t, err)
		require.NotNil(t, info.Location)
		assert.InDelta(t, 40.7589, info.Location.Latitude, 1e-9)
	}
}

func TestLocationQueryWithoutLocationOffersChoices(t *testing.T) {
	t.Parallel()

	backend := &stubBackend{err: fmt.Errorf("down")}
	svc := newChatService(t, backend)

	reply, err := svc.SendMessage(context.Background(), "client-1", "where is the nearest store")
	require.NoError(t, err)

	require.Len(t, reply.Messages, 2)
	assert.Len(t, reply.Messages[1].QuickActions, 2)
	assert.Empty(t, reply.Stores)
}
