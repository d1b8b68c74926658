package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/bookati/Bookati-BookingService/internal/domain"
)

// ValidateLockResponse результат проверки блокировки
// Проверка не продлевает и не изменяет блокировку
type ValidateLockResponse struct {
	Valid            bool `json:"valid"`
	SecondsRemaining int  `json:"secondsRemaining"`
}

// SlotLockInfo активная блокировка слота без раскрытия владельца
type SlotLockInfo struct {
	SlotID        uuid.UUID `json:"slotId"`
	LockExpiresAt time.Time `json:"lockExpiresAt"`
}

// SlotLocksResponse ответ со списком активных блокировок слотов
type SlotLocksResponse struct {
	Locks []SlotLockInfo `json:"locks"`
}

// FromDomainLockInfos конвертирует список domain моделей в DTO
func FromDomainLockInfos(infos []*domain.SlotLockInfo) *SlotLocksResponse {
	result := &SlotLocksResponse{
		Locks: make([]SlotLockInfo, 0, len(infos)),
	}
	for _, info := range infos {
		result.Locks = append(result.Locks, SlotLockInfo{
			SlotID:        info.SlotID,
			LockExpiresAt: info.LockExpiresAt,
		})
	}
	return result
}
