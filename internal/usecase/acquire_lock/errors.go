package acquire_lock

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("acquire_lock: slot not found")

	// ErrSlotUnavailable возвращается, когда слот выключен или уже начался
	ErrSlotUnavailable = errors.New("acquire_lock: slot is unavailable")

	// ErrCapacityUnavailable возвращается, когда свободных мест
	// (с учетом активных блокировок) меньше запрошенного
	ErrCapacityUnavailable = errors.New("acquire_lock: capacity unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("acquire_lock: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("acquire_lock: internal error")
)
