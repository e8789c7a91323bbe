package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"upbmy/internal/domain"
)

// SnackClient - клиент купонного партнёра Snack. Логинится по
// username/password, кеширует bearer-токен, на 401 делает ровно одну
// повторную аутентификацию и один повтор запроса.
type SnackClient struct {
	http     *partnerHTTP
	username string
	password string
	tokens   *tokenSource
	log      *zap.SugaredLogger
}

// CouponRequest - тело запроса генерации купона.
type CouponRequest struct {
	CourseID   uuid.UUID `json:"courseId"`
	CourseName string    `json:"courseName"`
	TotalViews int64     `json:"totalViews"`
	Threshold  int64     `json:"thresholdViews"`
	Origin     string    `json:"originSystem"`
}

// CouponGrant - что Snack вернул: код, процент скидки, срок годности.
type CouponGrant struct {
	Code            string     `json:"code"`
	DiscountPercent int        `json:"discountPercent"`
	ExpiresAt       *time.Time `json:"expiresAt"`
}

func NewSnackClient(baseURL, username, password string, log *zap.SugaredLogger) *SnackClient {
	c := &SnackClient{
		http:     newPartnerHTTP("snack", baseURL),
		username: username,
		password: password,
		log:      log,
	}
	c.tokens = newTokenSource(c.authenticate)
	return c
}

func (c *SnackClient) authenticate(ctx context.Context) (string, error) {
	res, err := c.http.do(ctx, http.MethodPost, "/auth/login", "", map[string]string{
		"username": c.username,
		"password": c.password,
	})
	if err != nil {
		return "", err
	}
	if !res.ok() {
		return "", fmt.Errorf("%w: snack login status %d", domain.ErrUpstream, res.status)
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(res.body, &body); err != nil || body.Token == "" {
		return "", fmt.Errorf("%w: snack login: bad token response", domain.ErrUpstream)
	}
	return body.Token, nil
}

// RequestCoupon просит у Snack купон за достижение порога. Идемпотентность
// обеспечивает вызывающий (claim + проверка существующего купона), здесь
// только доставка.
func (c *SnackClient) RequestCoupon(ctx context.Context, req CouponRequest) (*CouponGrant, error) {
	req.Origin = "UPBmy"

	res, err := c.postAuthed(ctx, http.MethodPost, "/api/cupones/generar-desde-upbmy", req)
	if err != nil {
		return nil, err
	}
	if !res.ok() {
		return nil, fmt.Errorf("%w: snack coupon status %d", domain.ErrUpstream, res.status)
	}

	var grant CouponGrant
	if err := json.Unmarshal(res.body, &grant); err != nil {
		return nil, fmt.Errorf("%w: snack coupon: %v", domain.ErrUpstream, err)
	}
	if grant.Code == "" {
		return nil, fmt.Errorf("%w: snack returned empty coupon code", domain.ErrUpstream)
	}
	return &grant, nil
}

// NotifyUsed сообщает Snack, что купон применили. Необязательный вызов:
// ошибку логируем и забываем.
func (c *SnackClient) NotifyUsed(ctx context.Context, code string, userID uuid.UUID) error {
	res, err := c.postAuthed(ctx, http.MethodPut, "/api/cupones/"+code+"/marcar-usado", map[string]string{
		"userId": userID.String(),
	})
	if err != nil {
		return err
	}
	if !res.ok() {
		return fmt.Errorf("%w: snack mark-used status %d", domain.ErrUpstream, res.status)
	}
	return nil
}

// postAuthed - запрос с токеном. На 401: invalidate + релогин + один
// повтор. Повторный 401 - финальная ошибка этого вызова.
func (c *SnackClient) postAuthed(ctx context.Context, method, path string, payload any) (httpResult, error) {
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

	c.log.Warnw("snack token rejected, re-authenticating", "path", path)
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
		return httpResult{}, fmt.Errorf("%w: snack rejected fresh token", domain.ErrUpstream)
	}
	return res, nil
}
