package client

import (
	"context"
	"sync"
)

// tokenSource - кеш bearer-токена партнёрского API на процесс.
// Токен живёт до первого 401: вызывающий делает Invalidate() и
// следующий Token() логинится заново. Мьютекс, потому что диспатчи
// майлстоунов ходят к партнёрам из разных горутин.
type tokenSource struct {
	mu    sync.Mutex
	token string
	login func(ctx context.Context) (string, error)
}

func newTokenSource(login func(ctx context.Context) (string, error)) *tokenSource {
	return &tokenSource{login: login}
}

func (s *tokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" {
		return s.token, nil
	}
	token, err := s.login(ctx)
	if err != nil {
		return "", err
	}
	s.token = token
	return token, nil
}

func (s *tokenSource) Invalidate() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}
