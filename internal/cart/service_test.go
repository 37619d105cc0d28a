package cart

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suvai/freshmart-backend/internal/catalog"
	pkgerrors "github.com/suvai/freshmart-backend/pkg/errors"
	"github.com/suvai/freshmart-backend/pkg/logger"
)

type stubRepo struct {
	blobs   map[string][]Line
	saveErr error
	saves   int
}

func newStubRepo() *stubRepo {
	return &stubRepo{blobs: map[string][]Line{}}
}

func (s *stubRepo) Load(_ context.Context, sessionID string) ([]Line, error) {
	lines := make([]Line, len(s.blobs[sessionID]))
	copy(lines, s.blobs[sessionID])
	return lines, nil
}

func (s *stubRepo) Save(_ context.Context, sessionID string, lines []Line) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	stored := make([]Line, len(lines))
	copy(stored, lines)
	s.blobs[sessionID] = stored
	return nil
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, catalog.Default(), testLogger(), 0)
	require.NoError(t, err)
	return svc
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cart-test"})
}

func TestNewServiceRequiresDeps(t *testing.T) {
	t.Parallel()

	_, err := NewService(nil, catalog.Default(), testLogger(), 0)
	assert.Error(t, err)

	_, err = NewService(newStubRepo(), nil, testLogger(), 0)
	assert.Error(t, err)

	_, err = NewService(newStubRepo(), catalog.Default(), nil, 0)
	assert.Error(t, err)

	_, err = NewService(newStubRepo(), catalog.Default(), testLogger(), -time.Second)
	assert.Error(t, err)
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubRepo())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s1", 1, 1)
	require.NoError(t, err)

	state, err := svc.AddItem(ctx, "s1", 1, 2)
	require.NoError(t, err)

	require.Len(t, state.Lines, 1)
	assert.Equal(t, 3, state.Lines[0].Quantity)
	assert.True(t, state.Total.Equal(decimal.RequireFromString("11.97")), "got %s", state.Total)
}

func TestAddItemKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubRepo())
	ctx := context.Background()

	for _, id := range []int{13, 2, 7} {
		_, err := svc.AddItem(ctx, "s1", id, 1)
		require.NoError(t, err)
	}
	state, err := svc.AddItem(ctx, "s1", 2, 1)
	require.NoError(t, err)

	gotIDs := make([]int, 0, len(state.Lines))
	for _, line := range state.Lines {
		gotIDs = append(gotIDs, line.ProductID)
	}
	assert.Equal(t, []int{13, 2, 7}, gotIDs)
}

func TestAddItemValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubRepo())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s1", 1, 0)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.AddItem(ctx, "s1", 999, 1)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	_, err = svc.AddItem(ctx, "", 1, 1)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestRemoveItemAbsentIsNoop(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s1", 1, 1)
	require.NoError(t, err)
	savesBefore := repo.saves

	state, err := svc.RemoveItem(ctx, "s1", 999)
	require.NoError(t, err)

	assert.Len(t, state.Lines, 1)
	assert.Equal(t, savesBefore, repo.saves, "no-op removal must not rewrite the blob")
}

func TestUpdateQuantityZeroOrNegativeRemoves(t *testing.T) {
	t.Parallel()

	for _, quantity := range []int{0, -5} {
		svc := newTestService(t, newStubRepo())
		ctx := context.Background()

		_, err := svc.AddItem(ctx, "s1", 1, 2)
		require.NoError(t, err)

		state, err := svc.UpdateQuantity(ctx, "s1", 1, quantity)
		require.NoError(t, err)

		assert.Empty(t, state.Lines, "quantity %d should remove the line", quantity)
		assert.True(t, state.Total.IsZero())
	}
}

func TestUpdateQuantityReplacesAndIgnoresAbsent(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubRepo())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s1", 1, 2)
	require.NoError(t, err)

	state, err := svc.UpdateQuantity(ctx, "s1", 1, 5)
	require.NoError(t, err)
	require.Len(t, state.Lines, 1)
	assert.Equal(t, 5, state.Lines[0].Quantity)

	state, err = svc.UpdateQuantity(ctx, "s1", 999, 5)
	require.NoError(t, err)
	assert.Len(t, state.Lines, 1)
}

func TestTotalSumsAllLines(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubRepo())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s1", 1, 2) // 2 x 3.99
	require.NoError(t, err)
	state, err := svc.AddItem(ctx, "s1", 13, 1) // 1 x 3.49
	require.NoError(t, err)

	assert.True(t, state.Total.Equal(decimal.RequireFromString("11.47")), "got %s", state.Total)
}

func TestCartsAreIsolatedPerSession(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubRepo())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s1", 1, 1)
	require.NoError(t, err)

	other, err := svc.Get(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, other.Lines)
}

func TestClearEmptyCartIsInformational(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	svc := newTestService(t, repo)

	outcome, err := svc.Clear(context.Background(), "s1", true)
	require.NoError(t, err)

	assert.Equal(t, OutcomeNoop, outcome.Status)
	assert.Zero(t, repo.saves)
}

func TestClearRequiresConfirmation(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s1", 1, 2)
	require.NoError(t, err)
	savesBefore := repo.saves

	outcome, err := svc.Clear(ctx, "s1", false)
	require.NoError(t, err)
	assert.Equal(t, OutcomeConfirmationRequired, outcome.Status)
	assert.Equal(t, savesBefore, repo.saves)

	outcome, err = svc.Clear(ctx, "s1", true)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, outcome.Status)
	assert.Empty(t, outcome.Cart.Lines)

	state, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, state.Lines)
}

func TestCheckoutEmptyCartIsInformational(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubRepo())

	outcome, err := svc.Checkout(context.Background(), "s1", true)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoop, outcome.Status)
	assert.Nil(t, outcome.Summary)
}

func TestCheckoutUnconfirmedReturnsSummaryWithoutMutating(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubRepo())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s1", 1, 2) // 2 x 3.99
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "s1", 13, 1) // 1 x 3.49
	require.NoError(t, err)

	outcome, err := svc.Checkout(ctx, "s1", false)
	require.NoError(t, err)

	assert.Equal(t, OutcomeConfirmationRequired, outcome.Status)
	require.NotNil(t, outcome.Summary)
	require.Len(t, outcome.Summary.Lines, 2)
	assert.Equal(t, "Fresh Apples", outcome.Summary.Lines[0].Name)
	assert.True(t, outcome.Summary.Lines[0].LineTotal.Equal(decimal.RequireFromString("7.98")))
	assert.True(t, outcome.Summary.Total.Equal(decimal.RequireFromString("11.47")))

	state, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, state.Lines, 2)
}

func TestCheckoutConfirmedClearsCart(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubRepo())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "s1", 1, 1)
	require.NoError(t, err)

	outcome, err := svc.Checkout(ctx, "s1", true)
	require.NoError(t, err)

	assert.Equal(t, OutcomeCompleted, outcome.Status)
	require.NotNil(t, outcome.Summary)
	assert.Empty(t, outcome.Cart.Lines)

	state, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, state.Lines)
}

func TestCheckoutHonorsContextDuringProcessing(t *testing.T) {
	t.Parallel()

	svc, err := NewService(newStubRepo(), catalog.Default(), testLogger(), time.Minute)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	_, err = svc.AddItem(ctx, "s1", 1, 1)
	require.NoError(t, err)
	cancel()

	_, err = svc.Checkout(ctx, "s1", true)
	require.Error(t, err)

	// The cart survives the interrupted checkout.
	state, err := svc.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, state.Lines, 1)
}
