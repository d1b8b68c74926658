package domain

import "time"

// Default configuration values
const (
	DefaultLockDuration         = 120 * time.Second
	MinReservedCapacity         = 1
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxCustomerNameLength       = 200
	MaxCustomerPhoneLength      = 32
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveBookingStatuses список статусов, учитываемых при подсчете
// занятой вместимости слота
var ActiveBookingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCheckedIn,
	StatusCompleted,
}

// ValidBookingStatuses все допустимые статусы бронирования
var ValidBookingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCheckedIn,
	StatusCompleted,
	StatusCancelled,
}

// ValidPaymentStatuses все допустимые статусы оплаты
var ValidPaymentStatuses = []PaymentStatus{
	PaymentUnpaid,
	PaymentAwaitingPayment,
	PaymentPaid,
	PaymentPaidManual,
	PaymentRefunded,
}

// IsValidBookingStatus проверяет, что статус входит в закрытый список
func IsValidBookingStatus(s BookingStatus) bool {
	for _, v := range ValidBookingStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsValidPaymentStatus проверяет, что статус оплаты входит в закрытый список
func IsValidPaymentStatus(s PaymentStatus) bool {
	for _, v := range ValidPaymentStatuses {
		if v == s {
			return true
		}
	}
	return false
}
