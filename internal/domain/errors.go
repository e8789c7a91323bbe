package domain

import "errors"

// Базовые виды ошибок. Хендлеры маппят их на HTTP-статусы,
// всё остальное считается 500.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")

	// Партнёрские API недоступны. Эта ошибка никогда не доходит
	// до клиента исходного запроса, только в лог.
	ErrUpstream = errors.New("upstream unavailable")
)
