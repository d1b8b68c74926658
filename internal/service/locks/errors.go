package locks

import "errors"

var (
	// ErrLockNotFound возвращается, когда блокировка не найдена
	// или принадлежит другой сессии
	ErrLockNotFound = errors.New("lock not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
