package create_booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookati/Bookati-BookingService/internal/domain"
)

func usage(subID uuid.UUID, serviceID uuid.UUID, remaining int, subscribedAt time.Time) *domain.PackageSubscriptionUsage {
	return &domain.PackageSubscriptionUsage{
		SubscriptionID:    subID,
		ServiceID:         serviceID,
		OriginalQuantity:  remaining,
		UsedQuantity:      0,
		RemainingQuantity: remaining,
		SubscribedAt:      subscribedAt,
	}
}

func TestAllocateFromSubscriptions_SingleSubscriptionCoversAll(t *testing.T) {
	subID := uuid.New()
	serviceID := uuid.New()

	allocations := allocateFromSubscriptions([]*domain.PackageSubscriptionUsage{
		usage(subID, serviceID, 10, time.Now()),
	}, 4)

	require.Len(t, allocations, 1)
	assert.Equal(t, subID, allocations[0].SubscriptionID)
	assert.Equal(t, 4, allocations[0].Quantity)
	assert.False(t, allocations[0].Exhausted)
	assert.Equal(t, 4, coveredQuantity(allocations))
}

func TestAllocateFromSubscriptions_OldestSubscriptionDrainsFirst(t *testing.T) {
	serviceID := uuid.New()
	oldSub := uuid.New()
	newSub := uuid.New()

	// Репозиторий отдает строки в порядке subscribed_at ASC
	allocations := allocateFromSubscriptions([]*domain.PackageSubscriptionUsage{
		usage(oldSub, serviceID, 2, time.Now().Add(-48*time.Hour)),
		usage(newSub, serviceID, 5, time.Now()),
	}, 3)

	require.Len(t, allocations, 2)

	assert.Equal(t, oldSub, allocations[0].SubscriptionID)
	assert.Equal(t, 2, allocations[0].Quantity)
	assert.True(t, allocations[0].Exhausted)

	assert.Equal(t, newSub, allocations[1].SubscriptionID)
	assert.Equal(t, 1, allocations[1].Quantity)
	assert.False(t, allocations[1].Exhausted)

	assert.Equal(t, 3, coveredQuantity(allocations))
}

func TestAllocateFromSubscriptions_PartialCoverageLeavesRemainderPaid(t *testing.T) {
	serviceID := uuid.New()
	subID := uuid.New()

	allocations := allocateFromSubscriptions([]*domain.PackageSubscriptionUsage{
		usage(subID, serviceID, 2, time.Now()),
	}, 5)

	require.Len(t, allocations, 1)
	assert.Equal(t, 2, allocations[0].Quantity)
	assert.True(t, allocations[0].Exhausted)

	// 3 места остаются на оплату деньгами
	assert.Equal(t, 2, coveredQuantity(allocations))
}

func TestAllocateFromSubscriptions_ExactDrainMarksExhausted(t *testing.T) {
	serviceID := uuid.New()
	subID := uuid.New()

	allocations := allocateFromSubscriptions([]*domain.PackageSubscriptionUsage{
		usage(subID, serviceID, 3, time.Now()),
	}, 3)

	require.Len(t, allocations, 1)
	assert.Equal(t, 3, allocations[0].Quantity)
	assert.True(t, allocations[0].Exhausted)
}

func TestAllocateFromSubscriptions_NoSubscriptions(t *testing.T) {
	allocations := allocateFromSubscriptions(nil, 4)

	assert.Empty(t, allocations)
	assert.Equal(t, 0, coveredQuantity(allocations))
}

func TestAllocateFromSubscriptions_SkipsDrainedRows(t *testing.T) {
	serviceID := uuid.New()
	drained := uuid.New()
	active := uuid.New()

	allocations := allocateFromSubscriptions([]*domain.PackageSubscriptionUsage{
		usage(drained, serviceID, 0, time.Now().Add(-24*time.Hour)),
		usage(active, serviceID, 4, time.Now()),
	}, 2)

	require.Len(t, allocations, 1)
	assert.Equal(t, active, allocations[0].SubscriptionID)
	assert.Equal(t, 2, allocations[0].Quantity)
}

func TestAllocateFromSubscriptions_StopsWhenRequestCovered(t *testing.T) {
	serviceID := uuid.New()

	allocations := allocateFromSubscriptions([]*domain.PackageSubscriptionUsage{
		usage(uuid.New(), serviceID, 5, time.Now().Add(-2*time.Hour)),
		usage(uuid.New(), serviceID, 5, time.Now()),
	}, 5)

	// Вторая подписка не затрагивается
	require.Len(t, allocations, 1)
	assert.Equal(t, 5, allocations[0].Quantity)
	assert.True(t, allocations[0].Exhausted)
}
