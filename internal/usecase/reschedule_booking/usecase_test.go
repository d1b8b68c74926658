package reschedule_booking

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookati/Bookati-BookingService/internal/domain"
	bookingRepo "github.com/bookati/Bookati-BookingService/internal/infra/storage/booking"
	slotRepo "github.com/bookati/Bookati-BookingService/internal/infra/storage/slot"
)

type bookingRepoFake struct {
	booking *domain.Booking
	getErr  error

	updated *bookingRepo.BookingUpdate
}

func (f *bookingRepoFake) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.booking, nil
}

func (f *bookingRepoFake) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	b := *f.booking
	if f.updated != nil && f.updated.SlotID != nil {
		b.SlotID = *f.updated.SlotID
	}
	return &b, nil
}

func (f *bookingRepoFake) Update(ctx context.Context, id uuid.UUID, upd bookingRepo.BookingUpdate) error {
	f.updated = &upd
	return nil
}

type slotRepoFake struct {
	slots map[uuid.UUID]*domain.Slot

	lockOrder    []uuid.UUID
	decremented  map[uuid.UUID]int
	incremented  map[uuid.UUID]int
	decrementErr error
}

func (f *slotRepoFake) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Slot, error) {
	f.lockOrder = append(f.lockOrder, id)
	s, ok := f.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	return s, nil
}

func (f *slotRepoFake) DecrementCapacity(ctx context.Context, id uuid.UUID, by int) error {
	if f.decrementErr != nil {
		return f.decrementErr
	}
	if f.decremented == nil {
		f.decremented = make(map[uuid.UUID]int)
	}
	f.decremented[id] += by
	return nil
}

func (f *slotRepoFake) IncrementCapacity(ctx context.Context, id uuid.UUID, by int) error {
	if f.incremented == nil {
		f.incremented = make(map[uuid.UUID]int)
	}
	f.incremented[id] += by
	return nil
}

type lockRepoFake struct {
	activeSum int
}

func (f *lockRepoFake) SumActiveBySlot(ctx context.Context, slotID uuid.UUID, now time.Time, excludeLockID *uuid.UUID) (int, error) {
	return f.activeSum, nil
}

type txManagerFake struct{}

func (txManagerFake) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type loggerFake struct{}

func (loggerFake) Info(format string, v ...interface{})  {}
func (loggerFake) Warn(format string, v ...interface{})  {}
func (loggerFake) Error(format string, v ...interface{}) {}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type env struct {
	bookings *bookingRepoFake
	slots    *slotRepoFake
	locks    *lockRepoFake
	uc       *UseCase
	now      time.Time

	tenantID  uuid.UUID
	serviceID uuid.UUID
	oldSlot   *domain.Slot
	newSlot   *domain.Slot
}

func newEnv() *env {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	tenantID := uuid.New()
	serviceID := uuid.New()

	oldSlot := &domain.Slot{
		ID:                uuid.New(),
		TenantID:          tenantID,
		ServiceID:         serviceID,
		StartTime:         now.Add(time.Hour),
		EndTime:           now.Add(2 * time.Hour),
		TotalCapacity:     10,
		RemainingCapacity: 4,
		IsAvailable:       true,
	}
	newSlot := &domain.Slot{
		ID:                uuid.New(),
		TenantID:          tenantID,
		ServiceID:         serviceID,
		StartTime:         now.Add(3 * time.Hour),
		EndTime:           now.Add(4 * time.Hour),
		TotalCapacity:     10,
		RemainingCapacity: 5,
		IsAvailable:       true,
	}

	bookings := &bookingRepoFake{booking: &domain.Booking{
		ID:            uuid.New(),
		TenantID:      tenantID,
		ServiceID:     serviceID,
		SlotID:        oldSlot.ID,
		CustomerName:  "Анна Смирнова",
		CustomerPhone: "+79001234567",
		VisitorCount:  3,
		AdultCount:    2,
		ChildCount:    1,
		Status:        domain.StatusConfirmed,
		PaymentStatus: domain.PaymentUnpaid,
	}}

	slots := &slotRepoFake{slots: map[uuid.UUID]*domain.Slot{
		oldSlot.ID: oldSlot,
		newSlot.ID: newSlot,
	}}
	locks := &lockRepoFake{}

	uc := NewUseCase(bookings, slots, locks, txManagerFake{}, loggerFake{})
	uc.timeProvider = fixedTime{now}

	return &env{
		bookings:  bookings,
		slots:     slots,
		locks:     locks,
		uc:        uc,
		now:       now,
		tenantID:  tenantID,
		serviceID: serviceID,
		oldSlot:   oldSlot,
		newSlot:   newSlot,
	}
}

func TestExecute_MoveToNewSlotSwapsCapacityAtomically(t *testing.T) {
	e := newEnv()

	resp, err := e.uc.Execute(context.Background(), &Request{
		BookingID: e.bookings.booking.ID,
		TenantID:  e.tenantID,
		NewSlotID: &e.newSlot.ID,
	})
	require.NoError(t, err)

	assert.True(t, resp.SlotChanged)
	assert.Equal(t, e.newSlot.ID, resp.SlotID)

	// Новый слот списан, старый восстановлен, оба на количество посетителей
	assert.Equal(t, 3, e.slots.decremented[e.newSlot.ID])
	assert.Equal(t, 3, e.slots.incremented[e.oldSlot.ID])

	require.NotNil(t, e.bookings.updated)
	require.NotNil(t, e.bookings.updated.SlotID)
	assert.Equal(t, e.newSlot.ID, *e.bookings.updated.SlotID)
}

func TestExecute_SlotsLockedInAscendingOrder(t *testing.T) {
	e := newEnv()

	_, err := e.uc.Execute(context.Background(), &Request{
		BookingID: e.bookings.booking.ID,
		TenantID:  e.tenantID,
		NewSlotID: &e.newSlot.ID,
	})
	require.NoError(t, err)

	require.Len(t, e.slots.lockOrder, 2)
	first, second := e.slots.lockOrder[0], e.slots.lockOrder[1]
	assert.True(t, bytes.Compare(first[:], second[:]) < 0,
		"slots must be locked in ascending id order to avoid deadlocks")
}

func TestExecute_FailedDecrementLeavesOldSlotUntouched(t *testing.T) {
	e := newEnv()

	e.slots.decrementErr = slotRepo.ErrCapacityExceeded

	_, err := e.uc.Execute(context.Background(), &Request{
		BookingID: e.bookings.booking.ID,
		TenantID:  e.tenantID,
		NewSlotID: &e.newSlot.ID,
	})
	require.ErrorIs(t, err, ErrNotEnoughCapacity)

	// Частичного переноса нет: вместимость старого слота не возвращалась
	assert.Empty(t, e.slots.incremented)
	assert.Nil(t, e.bookings.updated)
}

func TestExecute_ActiveLocksOnNewSlotBlockMove(t *testing.T) {
	e := newEnv()

	// 5 свободных, блокировки держат 3 - для 3 посетителей места нет
	e.locks.activeSum = 3

	_, err := e.uc.Execute(context.Background(), &Request{
		BookingID: e.bookings.booking.ID,
		TenantID:  e.tenantID,
		NewSlotID: &e.newSlot.ID,
	})
	require.ErrorIs(t, err, ErrNotEnoughCapacity)
	assert.Empty(t, e.slots.decremented)
}

func TestExecute_FieldUpdateWithoutSlotChange(t *testing.T) {
	e := newEnv()

	newName := "Мария Иванова"
	resp, err := e.uc.Execute(context.Background(), &Request{
		BookingID:    e.bookings.booking.ID,
		TenantID:     e.tenantID,
		CustomerName: &newName,
	})
	require.NoError(t, err)

	assert.False(t, resp.SlotChanged)
	assert.Empty(t, e.slots.lockOrder)
	assert.Empty(t, e.slots.decremented)
	assert.Empty(t, e.slots.incremented)

	require.NotNil(t, e.bookings.updated)
	require.NotNil(t, e.bookings.updated.CustomerName)
	assert.Equal(t, newName, *e.bookings.updated.CustomerName)
}

func TestExecute_SameSlotIsNotAMove(t *testing.T) {
	e := newEnv()

	resp, err := e.uc.Execute(context.Background(), &Request{
		BookingID: e.bookings.booking.ID,
		TenantID:  e.tenantID,
		NewSlotID: &e.oldSlot.ID,
	})
	require.NoError(t, err)

	assert.False(t, resp.SlotChanged)
	assert.Empty(t, e.slots.decremented)
}

func TestExecute_RejectedMoves(t *testing.T) {
	t.Run("booking not found", func(t *testing.T) {
		e := newEnv()
		e.bookings.getErr = bookingRepo.ErrBookingNotFound

		_, err := e.uc.Execute(context.Background(), &Request{
			BookingID: uuid.New(),
			TenantID:  e.tenantID,
		})
		require.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("foreign tenant", func(t *testing.T) {
		e := newEnv()

		_, err := e.uc.Execute(context.Background(), &Request{
			BookingID: e.bookings.booking.ID,
			TenantID:  uuid.New(),
		})
		require.ErrorIs(t, err, ErrTenantMismatch)
	})

	t.Run("cancelled booking", func(t *testing.T) {
		e := newEnv()
		e.bookings.booking.Status = domain.StatusCancelled

		_, err := e.uc.Execute(context.Background(), &Request{
			BookingID: e.bookings.booking.ID,
			TenantID:  e.tenantID,
		})
		require.ErrorIs(t, err, ErrBookingNotEditable)
	})

	t.Run("checked-in booking cannot move", func(t *testing.T) {
		e := newEnv()
		e.bookings.booking.Status = domain.StatusCheckedIn

		_, err := e.uc.Execute(context.Background(), &Request{
			BookingID: e.bookings.booking.ID,
			TenantID:  e.tenantID,
			NewSlotID: &e.newSlot.ID,
		})
		require.ErrorIs(t, err, ErrBookingNotEditable)
	})

	t.Run("new slot missing", func(t *testing.T) {
		e := newEnv()
		missing := uuid.New()

		_, err := e.uc.Execute(context.Background(), &Request{
			BookingID: e.bookings.booking.ID,
			TenantID:  e.tenantID,
			NewSlotID: &missing,
		})
		require.ErrorIs(t, err, ErrNewSlotNotFound)
	})

	t.Run("new slot in past", func(t *testing.T) {
		e := newEnv()
		e.newSlot.StartTime = e.now.Add(-time.Minute)

		_, err := e.uc.Execute(context.Background(), &Request{
			BookingID: e.bookings.booking.ID,
			TenantID:  e.tenantID,
			NewSlotID: &e.newSlot.ID,
		})
		require.ErrorIs(t, err, ErrNewSlotInPast)
	})

	t.Run("new slot serves another service", func(t *testing.T) {
		e := newEnv()
		e.newSlot.ServiceID = uuid.New()

		_, err := e.uc.Execute(context.Background(), &Request{
			BookingID: e.bookings.booking.ID,
			TenantID:  e.tenantID,
			NewSlotID: &e.newSlot.ID,
		})
		require.ErrorIs(t, err, ErrServiceMismatch)
	})
}
