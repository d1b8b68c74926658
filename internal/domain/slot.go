package domain

import (
	"time"

	"github.com/google/uuid"
)

// Slot represents a fixed-capacity bookable time unit for a service
type Slot struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	ServiceID uuid.UUID

	StartTime time.Time
	EndTime   time.Time

	// RemainingCapacity учитывает только подтвержденные бронирования.
	// Активные блокировки считаются отдельно суммой reserved_capacity.
	// Инвариант: 0 <= RemainingCapacity <= TotalCapacity
	TotalCapacity     int
	RemainingCapacity int

	IsAvailable bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsInPast returns true if the slot has already started
func (s *Slot) IsInPast(now time.Time) bool {
	return !s.StartTime.After(now)
}

// IsBookable returns true if the slot can accept new locks and bookings
func (s *Slot) IsBookable(now time.Time) bool {
	return s.IsAvailable && !s.IsInPast(now)
}

// AvailableFor возвращает true, если с учетом активных блокировок
// в слоте осталось не меньше required мест
func (s *Slot) AvailableFor(required, activeReserved int) bool {
	return s.RemainingCapacity-activeReserved >= required
}

// BookingLock is a short-lived, session-scoped reservation of slot capacity
type BookingLock struct {
	ID               uuid.UUID
	SlotID           uuid.UUID
	SessionID        uuid.UUID
	ReservedCapacity int
	LockExpiresAt    time.Time
	CreatedAt        time.Time
}

// IsExpired returns true if the lock no longer counts against capacity
// Просроченные блокировки никем не удаляются - каждое чтение
// фильтрует их по lock_expires_at (ленивое истечение)
func (l *BookingLock) IsExpired(now time.Time) bool {
	return !l.LockExpiresAt.After(now)
}

// SecondsRemaining returns the number of whole seconds until expiry (>= 0)
func (l *BookingLock) SecondsRemaining(now time.Time) int {
	if l.IsExpired(now) {
		return 0
	}
	return int(l.LockExpiresAt.Sub(now).Seconds())
}

// SlotLockInfo публичная информация об активной блокировке слота
// Отдается в списке блокировок без раскрытия session_id владельца
type SlotLockInfo struct {
	SlotID        uuid.UUID
	LockExpiresAt time.Time
}
