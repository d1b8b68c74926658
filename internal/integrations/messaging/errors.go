package messaging

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("messaging client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе шлюза
	ErrInvalidResponse = errors.New("messaging client: invalid response")

	// ErrSendFailed возвращается, когда шлюз не смог доставить сообщение
	ErrSendFailed = errors.New("messaging client: send failed")
)
