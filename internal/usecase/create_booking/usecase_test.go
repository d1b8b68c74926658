package create_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookati/Bookati-BookingService/internal/domain"
	"github.com/bookati/Bookati-BookingService/internal/infra/queue"
	lockRepo "github.com/bookati/Bookati-BookingService/internal/infra/storage/lock"
	slotRepo "github.com/bookati/Bookati-BookingService/internal/infra/storage/slot"
)

// Фейки в стиле consumer-defined интерфейсов use case

type slotRepoFake struct {
	slot         *domain.Slot
	getErr       error
	decrementErr error

	decrementedBy int
}

func (f *slotRepoFake) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Slot, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.slot, nil
}

func (f *slotRepoFake) DecrementCapacity(ctx context.Context, id uuid.UUID, by int) error {
	if f.decrementErr != nil {
		return f.decrementErr
	}
	f.decrementedBy += by
	return nil
}

type lockRepoFake struct {
	lock      *domain.BookingLock
	getErr    error
	activeSum int

	excludedLockID *uuid.UUID
	deletedLockID  *uuid.UUID
}

func (f *lockRepoFake) GetByID(ctx context.Context, id uuid.UUID) (*domain.BookingLock, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.lock, nil
}

func (f *lockRepoFake) SumActiveBySlot(ctx context.Context, slotID uuid.UUID, now time.Time, excludeLockID *uuid.UUID) (int, error) {
	f.excludedLockID = excludeLockID
	return f.activeSum, nil
}

func (f *lockRepoFake) DeleteByIDAndSession(ctx context.Context, id, sessionID uuid.UUID) error {
	f.deletedLockID = &id
	return nil
}

type bookingRepoFake struct {
	createErr error
	created   *domain.Booking
}

func (f *bookingRepoFake) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	f.created = b
	return b, nil
}

type subRepoFake struct {
	usages []*domain.PackageSubscriptionUsage

	consumed      map[uuid.UUID]int
	exhaustionFor []uuid.UUID
}

func (f *subRepoFake) ListUsageForUpdate(ctx context.Context, customerID, serviceID uuid.UUID) ([]*domain.PackageSubscriptionUsage, error) {
	return f.usages, nil
}

func (f *subRepoFake) ConsumeUsage(ctx context.Context, subscriptionID, serviceID uuid.UUID, qty int) error {
	if f.consumed == nil {
		f.consumed = make(map[uuid.UUID]int)
	}
	f.consumed[subscriptionID] += qty
	return nil
}

func (f *subRepoFake) InsertExhaustionNotification(ctx context.Context, subscriptionID, serviceID uuid.UUID) error {
	f.exhaustionFor = append(f.exhaustionFor, subscriptionID)
	return nil
}

type txManagerFake struct {
	calls int
}

func (f *txManagerFake) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type publisherFake struct {
	routingKeys []string
	events      []interface{}
}

func (f *publisherFake) Publish(ctx context.Context, routingKey string, event interface{}) error {
	f.routingKeys = append(f.routingKeys, routingKey)
	f.events = append(f.events, event)
	return nil
}

type loggerFake struct{}

func (loggerFake) Info(format string, v ...interface{})  {}
func (loggerFake) Warn(format string, v ...interface{})  {}
func (loggerFake) Error(format string, v ...interface{}) {}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

// Окружение теста: слот на 10 мест, 7 свободных

func testEnv() (*slotRepoFake, *lockRepoFake, *bookingRepoFake, *subRepoFake, *txManagerFake, *publisherFake, *UseCase, time.Time) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	slots := &slotRepoFake{slot: &domain.Slot{
		ID:                uuid.New(),
		TenantID:          uuid.New(),
		ServiceID:         uuid.New(),
		StartTime:         now.Add(2 * time.Hour),
		EndTime:           now.Add(3 * time.Hour),
		TotalCapacity:     10,
		RemainingCapacity: 7,
		IsAvailable:       true,
	}}
	locks := &lockRepoFake{}
	bookings := &bookingRepoFake{}
	subs := &subRepoFake{}
	tx := &txManagerFake{}
	pub := &publisherFake{}

	uc := NewUseCase(slots, locks, bookings, subs, tx, pub, loggerFake{})
	uc.timeProvider = fixedTime{now}

	return slots, locks, bookings, subs, tx, pub, uc, now
}

func validRequest(slot *domain.Slot) *Request {
	return &Request{
		TenantID:      slot.TenantID,
		ServiceID:     slot.ServiceID,
		SlotID:        slot.ID,
		CustomerName:  "Анна Смирнова",
		CustomerPhone: "+79001234567",
		VisitorCount:  3,
		AdultCount:    2,
		ChildCount:    1,
		TotalPrice:    4500,
	}
}

func TestExecute_GuestBookingWithoutPackages(t *testing.T) {
	slots, _, bookings, _, _, pub, uc, _ := testEnv()

	resp, err := uc.Execute(context.Background(), validRequest(slots.slot))
	require.NoError(t, err)

	assert.Equal(t, 3, slots.decrementedBy)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, string(domain.PaymentUnpaid), resp.PaymentStatus)
	assert.Equal(t, 0, resp.PackageCoveredQuantity)
	assert.Equal(t, 3, resp.PaidQuantity)
	assert.Nil(t, resp.PackageSubscriptionID)

	require.NotNil(t, bookings.created)
	require.Len(t, pub.routingKeys, 1)
	assert.Equal(t, queue.RoutingKeyBookingCreated, pub.routingKeys[0])
}

func TestExecute_FullPackageCoverageMarksPaid(t *testing.T) {
	slots, _, _, subs, _, pub, uc, _ := testEnv()

	customerID := uuid.New()
	subID := uuid.New()
	subs.usages = []*domain.PackageSubscriptionUsage{{
		SubscriptionID:    subID,
		ServiceID:         slots.slot.ServiceID,
		OriginalQuantity:  3,
		RemainingQuantity: 3,
	}}

	req := validRequest(slots.slot)
	req.CustomerID = &customerID

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 3, resp.PackageCoveredQuantity)
	assert.Equal(t, 0, resp.PaidQuantity)
	assert.Equal(t, string(domain.PaymentPaid), resp.PaymentStatus)
	require.NotNil(t, resp.PackageSubscriptionID)
	assert.Equal(t, subID, *resp.PackageSubscriptionID)

	assert.Equal(t, 3, subs.consumed[subID])

	// Пакет исчерпан: запись в БД и событие
	assert.Equal(t, []uuid.UUID{subID}, subs.exhaustionFor)
	assert.Contains(t, pub.routingKeys, queue.RoutingKeyPackageExhausted)
}

func TestExecute_ExpiredLockRejectedBeforeCapacityChange(t *testing.T) {
	slots, locks, bookings, _, _, pub, uc, now := testEnv()

	sessionID := uuid.New()
	lockID := uuid.New()
	locks.lock = &domain.BookingLock{
		ID:            lockID,
		SlotID:        slots.slot.ID,
		SessionID:     sessionID,
		LockExpiresAt: now.Add(-time.Second),
	}

	req := validRequest(slots.slot)
	req.LockID = &lockID
	req.SessionID = &sessionID

	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrLockExpired)

	assert.Equal(t, 0, slots.decrementedBy)
	assert.Nil(t, bookings.created)
	assert.Empty(t, pub.routingKeys)
}

func TestExecute_ForeignSessionLockRejected(t *testing.T) {
	slots, locks, _, _, _, _, uc, now := testEnv()

	lockID := uuid.New()
	sessionID := uuid.New()
	locks.lock = &domain.BookingLock{
		ID:            lockID,
		SlotID:        slots.slot.ID,
		SessionID:     uuid.New(), // чужая сессия
		LockExpiresAt: now.Add(time.Minute),
	}

	req := validRequest(slots.slot)
	req.LockID = &lockID
	req.SessionID = &sessionID

	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrLockInvalid)
}

func TestExecute_MissingLockRejected(t *testing.T) {
	slots, locks, _, _, _, _, uc, _ := testEnv()

	locks.getErr = lockRepo.ErrLockNotFound

	lockID := uuid.New()
	sessionID := uuid.New()
	req := validRequest(slots.slot)
	req.LockID = &lockID
	req.SessionID = &sessionID

	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrLockInvalid)
}

func TestExecute_OwnLockExcludedFromReservedSum(t *testing.T) {
	slots, locks, _, _, _, _, uc, now := testEnv()

	lockID := uuid.New()
	sessionID := uuid.New()
	locks.lock = &domain.BookingLock{
		ID:               lockID,
		SlotID:           slots.slot.ID,
		SessionID:        sessionID,
		ReservedCapacity: 3,
		LockExpiresAt:    now.Add(time.Minute),
	}

	req := validRequest(slots.slot)
	req.LockID = &lockID
	req.SessionID = &sessionID

	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, locks.excludedLockID)
	assert.Equal(t, lockID, *locks.excludedLockID)
	require.NotNil(t, locks.deletedLockID)
	assert.Equal(t, lockID, *locks.deletedLockID)
}

func TestExecute_ActiveLocksBlockCapacity(t *testing.T) {
	slots, locks, bookings, _, _, _, uc, _ := testEnv()

	// 7 свободных, чужие блокировки держат 5 - для 3 места нет
	locks.activeSum = 5

	_, err := uc.Execute(context.Background(), validRequest(slots.slot))
	require.ErrorIs(t, err, ErrNotEnoughCapacity)

	assert.Equal(t, 0, slots.decrementedBy)
	assert.Nil(t, bookings.created)
}

func TestExecute_GuardedDecrementRaceMapsToCapacityError(t *testing.T) {
	slots, _, _, _, _, _, uc, _ := testEnv()

	slots.decrementErr = slotRepo.ErrCapacityExceeded

	_, err := uc.Execute(context.Background(), validRequest(slots.slot))
	require.ErrorIs(t, err, ErrNotEnoughCapacity)
}

func TestExecute_CreateFailureKeepsEventsUnpublished(t *testing.T) {
	slots, _, bookings, _, tx, pub, uc, _ := testEnv()

	bookings.createErr = errors.New("insert failed")

	_, err := uc.Execute(context.Background(), validRequest(slots.slot))
	require.ErrorIs(t, err, ErrInternal)

	// Транзакция вернула ошибку - никаких пост-коммитных событий
	assert.Equal(t, 1, tx.calls)
	assert.Empty(t, pub.routingKeys)
}

func TestExecute_SlotChecksInsideTransaction(t *testing.T) {
	slots, _, _, _, _, _, uc, _ := testEnv()

	t.Run("slot not found", func(t *testing.T) {
		slots.getErr = slotRepo.ErrSlotNotFound
		_, err := uc.Execute(context.Background(), validRequest(slots.slot))
		require.ErrorIs(t, err, ErrSlotNotFound)
		slots.getErr = nil
	})

	t.Run("tenant mismatch", func(t *testing.T) {
		req := validRequest(slots.slot)
		req.TenantID = uuid.New()
		_, err := uc.Execute(context.Background(), req)
		require.ErrorIs(t, err, ErrTenantMismatch)
	})

	t.Run("service mismatch", func(t *testing.T) {
		req := validRequest(slots.slot)
		req.ServiceID = uuid.New()
		_, err := uc.Execute(context.Background(), req)
		require.ErrorIs(t, err, ErrServiceMismatch)
	})

	t.Run("slot disabled", func(t *testing.T) {
		slots.slot.IsAvailable = false
		_, err := uc.Execute(context.Background(), validRequest(slots.slot))
		require.ErrorIs(t, err, ErrSlotUnavailable)
		slots.slot.IsAvailable = true
	})
}

func TestExecute_ValidationRejectsMismatchedVisitorCount(t *testing.T) {
	slots, _, _, _, tx, _, uc, _ := testEnv()

	req := validRequest(slots.slot)
	req.VisitorCount = 4 // adult=2 + child=1

	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidInput)

	// Валидация отрабатывает до открытия транзакции
	assert.Equal(t, 0, tx.calls)
}

func TestExecute_LockWithoutSessionRejected(t *testing.T) {
	slots, _, _, _, _, _, uc, _ := testEnv()

	lockID := uuid.New()
	req := validRequest(slots.slot)
	req.LockID = &lockID

	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidInput)
}
