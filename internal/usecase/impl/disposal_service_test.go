package impl

import (
	"sync"
	"testing"

	"greenhood/internal/domain/entity"
	domainerrors "greenhood/internal/domain/errors"
	"greenhood/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDisposalService_DiscardReserveRecycle(t *testing.T) {
	h := newHarness(t)
	individual := h.registerIndividual(t, "11111111111", "", 0)
	organization := h.registerOrganization(t, "1234567890", "Acme", "Paper")

	item := h.discard(t, individual.ID, "Paper", 10, 2)
	assert.InDelta(t, 20.0, item.Score, 1e-9)
	assert.InDelta(t, 3.0, item.TransportCost, 1e-9)

	available, err := h.dashboard.AvailableItems(h.ctx, entity.AvailableFilter{}, "")
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, entity.StateAvailable, available[0].State())

	reservation, err := h.disposals.Reserve(h.ctx, "1234567890", item.ID)
	require.NoError(t, err)
	assert.Equal(t, organization.ID, reservation.OrganizationID)

	stats, err := h.dashboard.IndividualStats(h.ctx, "11111111111", entity.RangeAllTime)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalCount)
	assert.Equal(t, int64(1), stats.ReservedCount)
	assert.Zero(t, stats.TotalScore)

	require.NoError(t, h.disposals.CompleteRecycling(h.ctx, item.ID))

	stats, err = h.dashboard.IndividualStats(h.ctx, "11111111111", entity.RangeAllTime)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, stats.TotalScore, 1e-9)
	assert.Equal(t, int64(1), stats.RecycledCount)
	assert.Zero(t, stats.ReservedCount)

	orgStats, err := h.dashboard.OrganizationStats(h.ctx, "1234567890", entity.RangeLastMonth)
	require.NoError(t, err)
	assert.Equal(t, int64(1), orgStats.RecycledCount)
	assert.InDelta(t, 10.0, orgStats.RecycledWeight, 1e-9)
	assert.InDelta(t, 20.0, orgStats.TotalScore, 1e-9)

	recycled, err := h.dashboard.RecentRecycled(h.ctx, 5)
	require.NoError(t, err)
	require.Len(t, recycled, 1)
	assert.Equal(t, entity.StateRecycled, recycled[0].State())
	assert.Equal(t, "Acme", recycled[0].OrganizationName)
	assert.NotNil(t, recycled[0].RecycledAt, "the store stamps the completion time")

	assert.Equal(t, []entity.LifecycleEventType{
		entity.EventItemDiscarded,
		entity.EventItemReserved,
		entity.EventItemRecycled,
	}, h.publisher.eventTypes())
}

func TestDisposalService_DiscardValidation(t *testing.T) {
	h := newHarness(t)
	individual := h.registerIndividual(t, "11111111111", "", 0)

	tests := []struct {
		name  string
		input usecase.DiscardInput
		key   string
	}{
		{name: "zero weight", input: usecase.DiscardInput{IndividualID: individual.ID, TypeID: 1, Weight: 0, Volume: 1}, key: domainerrors.KeyInvalidMeasure},
		{name: "negative volume", input: usecase.DiscardInput{IndividualID: individual.ID, TypeID: 1, Weight: 1, Volume: -1}, key: domainerrors.KeyInvalidMeasure},
		{name: "unknown type", input: usecase.DiscardInput{IndividualID: individual.ID, TypeID: 999, Weight: 1, Volume: 1}, key: domainerrors.KeyUnknownDisposalType},
		{name: "unknown owner", input: usecase.DiscardInput{IndividualID: 999, TypeID: 1, Weight: 1, Volume: 1}, key: domainerrors.KeyNotLoggedIn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.disposals.Discard(h.ctx, &tt.input)
			assertFailure(t, err, tt.key)
		})
	}
	assert.Empty(t, h.publisher.eventTypes())
}

func TestDisposalService_StateMachineLegality(t *testing.T) {
	h := newHarness(t)
	individual := h.registerIndividual(t, "11111111111", "", 0)
	other := h.registerIndividual(t, "22222222222", "", 0)
	h.registerOrganization(t, "1234567890", "Acme", "Paper")
	h.registerOrganization(t, "2234567890", "Beta", "Paper")
	item := h.discard(t, individual.ID, "Paper", 1, 1)

	assertFailure(t, h.disposals.CancelReservation(h.ctx, item.ID), domainerrors.KeyCancelFailed)
	assertFailure(t, h.disposals.CompleteRecycling(h.ctx, item.ID), domainerrors.KeyRecycleFailed)

	_, err := h.disposals.Reserve(h.ctx, "0000000000", item.ID)
	assertFailure(t, err, domainerrors.KeyReservationFailed)
	_, err = h.disposals.Reserve(h.ctx, "1234567890", 999)
	assertFailure(t, err, domainerrors.KeyReservationFailed)

	_, err = h.disposals.Reserve(h.ctx, "1234567890", item.ID)
	require.NoError(t, err)
	_, err = h.disposals.Reserve(h.ctx, "2234567890", item.ID)
	assertFailure(t, err, domainerrors.KeyReservationFailed)
	assertFailure(t, h.disposals.DeleteItem(h.ctx, individual.ID, item.ID), domainerrors.KeyDeleteFailed)

	require.NoError(t, h.disposals.CancelReservation(h.ctx, item.ID))
	assertFailure(t, h.disposals.CancelReservation(h.ctx, item.ID), domainerrors.KeyCancelFailed)

	_, err = h.disposals.Reserve(h.ctx, "2234567890", item.ID)
	require.NoError(t, err, "a cancelled item is available again")
	require.NoError(t, h.disposals.CompleteRecycling(h.ctx, item.ID))
	assertFailure(t, h.disposals.CompleteRecycling(h.ctx, item.ID), domainerrors.KeyRecycleFailed)
	assertFailure(t, h.disposals.CancelReservation(h.ctx, item.ID), domainerrors.KeyCancelFailed)
	_, err = h.disposals.Reserve(h.ctx, "1234567890", item.ID)
	assertFailure(t, err, domainerrors.KeyReservationFailed)

	fresh := h.discard(t, individual.ID, "Paper", 1, 1)
	assertFailure(t, h.disposals.DeleteItem(h.ctx, other.ID, fresh.ID), domainerrors.KeyDeleteFailed)
	require.NoError(t, h.disposals.DeleteItem(h.ctx, individual.ID, fresh.ID))

	assert.Equal(t, []entity.LifecycleEventType{
		entity.EventItemDiscarded,
		entity.EventItemReserved,
		entity.EventReservationCancelled,
		entity.EventItemReserved,
		entity.EventItemRecycled,
		entity.EventItemDiscarded,
	}, h.publisher.eventTypes())
}

func TestDisposalService_ConcurrentReservationsHaveOneWinner(t *testing.T) {
	h := newHarness(t)
	individual := h.registerIndividual(t, "11111111111", "", 0)
	item := h.discard(t, individual.ID, "Glass", 3, 3)

	taxIDs := []string{"1000000001", "1000000002", "1000000003", "1000000004", "1000000005"}
	for i, taxID := range taxIDs {
		h.registerOrganization(t, taxID, "Org "+string(rune('A'+i)), "Glass")
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		winners  int
		failures int
	)
	for _, taxID := range taxIDs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.disposals.Reserve(h.ctx, taxID, item.ID)

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners++

				return
			}
			if failure, ok := domainerrors.IsValidationFailure(err); ok && failure.Key == domainerrors.KeyReservationFailed {
				failures++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, len(taxIDs)-1, failures)

	reservations, err := h.dashboard.RecentReservations(h.ctx, 10)
	require.NoError(t, err)
	assert.Len(t, reservations, 1, "losers leave no reservation behind")
}

func TestDisposalService_PublishFailureDoesNotFailWorkflow(t *testing.T) {
	h := newHarness(t)
	individual := h.registerIndividual(t, "11111111111", "", 0)

	h.publisher.ExpectedCalls = nil
	h.publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("sink down"))

	item := h.discard(t, individual.ID, "Metal", 2, 1)
	assert.NotZero(t, item.ID)
	h.publisher.AssertNumberOfCalls(t, "Publish", 1)
}
