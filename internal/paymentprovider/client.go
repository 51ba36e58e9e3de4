// Package paymentprovider реализует HTTP-клиент платёжного провайдера:
// создание платёжных сессий, чтение платежей и переводы средств.
//
// Все вызовы проходят через circuit breaker: при серии сетевых отказов
// провайдер временно считается недоступным и запросы отклоняются сразу,
// без обращения к сети.
package paymentprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrUpstreamUnavailable возвращается, когда провайдер недоступен:
// сетевая ошибка, ответ 5xx или открытый circuit breaker.
var ErrUpstreamUnavailable = errors.New("payment provider unavailable")

// Client — клиент HTTP API платёжного провайдера.
type Client struct {
	secretKey  string
	apiURL     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

// NewClient создаёт новый клиент платёжного провайдера.
func NewClient(apiURL, secretKey string) *Client {
	settings := gobreaker.Settings{
		Name:    "paymentprovider",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &Client{
		secretKey:  secretKey,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		breaker:    gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do выполняет запрос под защитой circuit breaker и возвращает тело ответа.
func (c *Client) do(req *http.Request) ([]byte, error) {
	body, err := c.breaker.Execute(func() ([]byte, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: unexpected status %s", ErrUpstreamUnavailable, resp.Status)
		}
		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			return nil, errors.New("unexpected status: " + resp.Status)
		}
		return io.ReadAll(resp.Body)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return body, err
}

// CreateCheckoutSession отправляет запрос на создание платёжной сессии.
func (c *Client) CreateCheckoutSession(ctx context.Context, reqParams CreateCheckoutSessionRequest) (*CreateCheckoutSessionResponse, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/checkout/sessions", reqParams)
	if err != nil {
		return nil, err
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var sessionResp CreateCheckoutSessionResponse
	if err := json.Unmarshal(body, &sessionResp); err != nil {
		return nil, err
	}
	return &sessionResp, nil
}

// GetPaymentIntent возвращает сведения о платеже по его идентификатору.
func (c *Client) GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/payment_intents/"+id, nil)
	if err != nil {
		return nil, err
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var intent PaymentIntent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// CreateTransfer отправляет запрос на перевод средств.
func (c *Client) CreateTransfer(ctx context.Context, reqParams CreateTransferRequest) (*Transfer, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/transfers", reqParams)
	if err != nil {
		return nil, err
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var transfer Transfer
	if err := json.Unmarshal(body, &transfer); err != nil {
		return nil, err
	}
	return &transfer, nil
}
