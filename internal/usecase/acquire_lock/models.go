package acquire_lock

import (
	"time"

	"github.com/google/uuid"
)

// Request модель запроса на блокировку вместимости слота
type Request struct {
	SlotID           uuid.UUID  // ID слота
	SessionID        *uuid.UUID // Сессия клиента (опционально, генерируется при отсутствии)
	ReservedCapacity int        // Сколько мест резервируется
}

// Response модель ответа с созданной блокировкой
type Response struct {
	LockID           uuid.UUID // ID блокировки
	SessionID        uuid.UUID // Сессия-владелец
	ExpiresAt        time.Time // Момент истечения
	ExpiresInSeconds int       // Секунд до истечения
}
