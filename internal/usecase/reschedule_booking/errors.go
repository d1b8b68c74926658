package reschedule_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrTenantMismatch возвращается, когда бронирование принадлежит
	// другому тенанту. Наружу отдается 403 без раскрытия существования
	// ресурса у другого тенанта.
	ErrTenantMismatch = errors.New("reschedule_booking: booking belongs to another tenant")

	// ErrBookingNotEditable возвращается, когда статус бронирования
	// не допускает изменений (completed, cancelled)
	ErrBookingNotEditable = errors.New("reschedule_booking: booking cannot be updated")

	// ErrNewSlotNotFound возвращается, когда новый слот не найден
	ErrNewSlotNotFound = errors.New("reschedule_booking: new slot not found")

	// ErrNewSlotInPast возвращается, когда новый слот уже начался
	// или выключен
	ErrNewSlotInPast = errors.New("reschedule_booking: new slot is in the past or unavailable")

	// ErrServiceMismatch возвращается, когда новый слот относится
	// к другой услуге
	ErrServiceMismatch = errors.New("reschedule_booking: new slot belongs to another service")

	// ErrNotEnoughCapacity возвращается, когда в новом слоте
	// недостаточно мест для существующего бронирования
	ErrNotEnoughCapacity = errors.New("reschedule_booking: not enough capacity in new slot")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
