package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"upbmy/internal/domain"
)

// Сток у товара-курса символический: курс не кончается.
const productStock = 999

// UpbolisClient - клиент маркетплейса UPBolis, где курсы продаются как
// товары. Главная особенность API: цену товара после создания менять
// нельзя, только stock и is_active. Смена цены делается обходным путём -
// деактивировать старый товар и создать новый (RecreateWithPrice).
type UpbolisClient struct {
	http     *partnerHTTP
	username string
	password string
	tokens   *tokenSource
	log      *zap.SugaredLogger
}

// Product - товар в каталоге UPBolis (поля на проводе в snake_case).
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	IsActive    bool    `json:"is_active"`
}

type productPayload struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	IsActive    bool    `json:"is_active"`
}

type productStatePayload struct {
	Stock    int  `json:"stock"`
	IsActive bool `json:"is_active"`
}

func NewUpbolisClient(baseURL, username, password string, log *zap.SugaredLogger) *UpbolisClient {
	c := &UpbolisClient{
		http:     newPartnerHTTP("upbolis", baseURL),
		username: username,
		password: password,
		log:      log,
	}
	c.tokens = newTokenSource(c.authenticate)
	return c
}

func (c *UpbolisClient) authenticate(ctx context.Context) (string, error) {
	res, err := c.http.do(ctx, http.MethodPost, "/auth/login", "", map[string]string{
		"username": c.username,
		"password": c.password,
	})
	if err != nil {
		return "", err
	}
	if !res.ok() {
		return "", fmt.Errorf("%w: upbolis login status %d", domain.ErrUpstream, res.status)
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(res.body, &body); err != nil || body.Token == "" {
		return "", fmt.Errorf("%w: upbolis login: bad token response", domain.ErrUpstream)
	}
	return body.Token, nil
}

// CreateProduct регистрирует курс как товар и возвращает его внешний ID.
func (c *UpbolisClient) CreateProduct(ctx context.Context, name, description string, price float64) (*Product, error) {
	if description == "" {
		description = "Curso educativo de UPBmy"
	}
	payload := productPayload{
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       productStock,
		IsActive:    true,
	}

	res, err := c.doAuthed(ctx, http.MethodPost, "/seller/products", payload)
	if err != nil {
		return nil, err
	}
	if !res.ok() {
		return nil, fmt.Errorf("%w: upbolis create product status %d", domain.ErrUpstream, res.status)
	}

	var product Product
	if err := json.Unmarshal(res.body, &product); err != nil {
		return nil, fmt.Errorf("%w: upbolis create product: %v", domain.ErrUpstream, err)
	}
	return &product, nil
}

// SetProductActive включает/выключает товар. Цена остаётся как была -
// это всё, что UPBolis позволяет обновлять.
func (c *UpbolisClient) SetProductActive(ctx context.Context, productID int64, active bool) error {
	stock := productStock
	if !active {
		stock = 0
	}
	payload := productStatePayload{Stock: stock, IsActive: active}

	res, err := c.doAuthed(ctx, http.MethodPatch, fmt.Sprintf("/seller/products/%d", productID), payload)
	if err != nil {
		return err
	}
	if !res.ok() {
		return fmt.Errorf("%w: upbolis update product %d status %d", domain.ErrUpstream, productID, res.status)
	}
	return nil
}

func (c *UpbolisClient) DeactivateProduct(ctx context.Context, productID int64) error {
	return c.SetProductActive(ctx, productID, false)
}

func (c *UpbolisClient) ActivateProduct(ctx context.Context, productID int64) error {
	return c.SetProductActive(ctx, productID, true)
}

// RecreateWithPrice - обход запрета на смену цены: деактивировать старый
// товар, создать новый с новой ценой, вернуть новый ID.
//
// Два отдельных сетевых вызова без какой-либо транзакционности. Упали
// между шагами - старый товар деактивирован, нового нет; это деградация,
// из которой выходят повторным вызовом. Неудачная деактивация не
// останавливает создание нового товара.
func (c *UpbolisClient) RecreateWithPrice(ctx context.Context, oldProductID *int64, name, description string, newPrice float64) (*Product, error) {
	if oldProductID != nil {
		if err := c.DeactivateProduct(ctx, *oldProductID); err != nil {
			c.log.Warnw("failed to deactivate old upbolis product, creating replacement anyway",
				"productId", *oldProductID, "err", err)
		}
	}
	return c.CreateProduct(ctx, name, description, newPrice)
}

// VerifyConnectivity - проверка доступности для админского эндпоинта.
func (c *UpbolisClient) VerifyConnectivity(ctx context.Context) error {
	c.tokens.Invalidate()
	_, err := c.tokens.Token(ctx)
	return err
}

func (c *UpbolisClient) doAuthed(ctx context.Context, method, path string, payload any) (httpResult, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return httpResult{}, err
	}

	res, err := c.http.do(ctx, method, path, token, payload)
	if err != nil {
		return httpResult{}, err
	}
	if res.status != http.StatusUnauthorized {
		return res, nil
	}

	c.log.Warnw("upbolis token rejected, re-authenticating", "path", path)
	c.tokens.Invalidate()
	token, err = c.tokens.Token(ctx)
	if err != nil {
		return httpResult{}, err
	}
	res, err = c.http.do(ctx, method, path, token, payload)
	if err != nil {
		return httpResult{}, err
	}
	if res.status == http.StatusUnauthorized {
		return httpResult{}, fmt.Errorf("%w: upbolis rejected fresh token", domain.ErrUpstream)
	}
	return res, nil
}
