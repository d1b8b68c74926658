package packages

import "errors"

var (
	// ErrPackageNotFound возвращается, когда определение пакета не найдено
	ErrPackageNotFound = errors.New("package not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
