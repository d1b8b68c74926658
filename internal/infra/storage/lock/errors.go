package lock

import "errors"

var (
	// ErrLockNotFound возвращается, когда блокировка не найдена
	// или принадлежит другой сессии (существование чужих блокировок
	// наружу не раскрывается)
	ErrLockNotFound = errors.New("lock.repository: lock not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("lock.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("lock.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("lock.repository: failed to scan row")
)
