package auth

import "errors"

var (
	// ErrInvalidToken возвращается при невалидном или просроченном токене
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrUnknownRole возвращается при роли вне закрытого перечня
	ErrUnknownRole = errors.New("auth: unknown role")

	// ErrMissingClaims возвращается, когда в токене нет обязательных полей
	ErrMissingClaims = errors.New("auth: missing required claims")
)
