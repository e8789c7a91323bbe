package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"upbmy/internal/domain"
)

const partnerTimeout = 10 * time.Second

// httpResult - то, что возвращает один поход к партнёру.
type httpResult struct {
	status int
	body   []byte
}

// partnerHTTP - общий слой обоих партнёрских клиентов: таймаут на каждый
// запрос и circuit breaker, чтобы лежащий партнёр не собирал наши горутины.
type partnerHTTP struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[httpResult]
}

func newPartnerHTTP(name, baseURL string) *partnerHTTP {
	settings := gobreaker.Settings{
		Name:    name,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &partnerHTTP{
		baseURL: baseURL,
		client:  &http.Client{Timeout: partnerTimeout},
		breaker: gobreaker.NewCircuitBreaker[httpResult](settings),
	}
}

// do шлёт JSON и читает ответ. Сетевые ошибки и открытый breaker
// заворачиваются в domain.ErrUpstream; не-2xx статусы отдаются как есть,
// решение за вызывающим (401 обрабатывается отдельно).
func (p *partnerHTTP) do(ctx context.Context, method, path, bearer string, payload any) (httpResult, error) {
	res, err := p.breaker.Execute(func() (httpResult, error) {
		var body io.Reader
		if payload != nil {
			data, err := json.Marshal(payload)
			if err != nil {
				return httpResult{}, err
			}
			body = bytes.NewReader(data)
		}

		req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
		if err != nil {
			return httpResult{}, err
		}
		req.Header.Set("Content-Type", "application/json")
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}

		resp, err := p.client.Do(req)
		if err != nil {
			return httpResult{}, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return httpResult{}, err
		}
		return httpResult{status: resp.StatusCode, body: data}, nil
	})
	if err != nil {
		return httpResult{}, fmt.Errorf("%w: %s %s: %v", domain.ErrUpstream, method, path, err)
	}
	return res, nil
}

func (r httpResult) ok() bool {
	return r.status >= 200 && r.status < 300
}
