package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	// (в т.ч. visitorCount != adultCount + childCount)
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("create_booking: slot not found")

	// ErrServiceMismatch возвращается, когда слот не относится к указанной услуге
	ErrServiceMismatch = errors.New("create_booking: slot does not belong to service")

	// ErrTenantMismatch возвращается, когда слот принадлежит другому тенанту
	// Наружу отдается 403 без уточнения, существует ли ресурс у другого тенанта
	ErrTenantMismatch = errors.New("create_booking: slot belongs to another tenant")

	// ErrSlotUnavailable возвращается, когда слот выключен или уже начался
	ErrSlotUnavailable = errors.New("create_booking: slot is unavailable")

	// ErrLockInvalid возвращается, когда блокировка не существует,
	// принадлежит другой сессии или другому слоту
	ErrLockInvalid = errors.New("create_booking: lock is invalid")

	// ErrLockExpired возвращается, когда блокировка истекла
	ErrLockExpired = errors.New("create_booking: lock has expired")

	// ErrNotEnoughCapacity возвращается, когда в слоте недостаточно мест
	ErrNotEnoughCapacity = errors.New("create_booking: not enough capacity")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
