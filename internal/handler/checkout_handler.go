package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
)

var errNotAnObject = errors.New("item is not an object")

// POST /create-checkout-session のHTTP
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

// DI
func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

// { items: [ {id, name, price, currency, quantity}, ... ] }
// itemsは配列でなければ空扱い。
type CreateCheckoutSessionRequest struct {
	Items json.RawMessage `json:"items"`
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/create-checkout-session", h.create)
}

// 開発用。本番では登録しない。
func (h *CheckoutHandler) RegisterDevRoutes(e *echo.Echo) {
	e.GET("/checkout-sessions", h.listRecent)
}

func (h *CheckoutHandler) create(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	var req CreateCheckoutSessionRequest
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
		}
	}

	items, err := decodeItems(req.Items)
	if err != nil {
		return writeError(c, usecase.NewHTTPError(http.StatusBadRequest, "invalid item"))
	}

	out, err := h.uc.CreateSession(c.Request().Context(), usecase.CreateSessionInput{
		Items:  items,
		Scheme: c.Scheme(),
		Host:   c.Request().Host,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// GET /checkout-sessions?limit=50
func (h *CheckoutHandler) listRecent(c echo.Context) error {
	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		n, err := cast.ToIntE(v)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = n
	}

	sessions, err := h.uc.RecentSessions(c.Request().Context(), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, sessions)
}

// 配列以外（null・文字列・オブジェクト）は nil。
// 配列の要素がオブジェクトでなければエラー。
func decodeItems(raw json.RawMessage) ([]usecase.RawItem, error) {
	var elems []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &elems) != nil {
		return nil, nil
	}

	items := make([]usecase.RawItem, 0, len(elems))
	for _, el := range elems {
		el = bytes.TrimSpace(el)
		if len(el) == 0 || el[0] != '{' {
			return nil, errNotAnObject
		}
		dec := json.NewDecoder(bytes.NewReader(el))
		dec.UseNumber()

		var it usecase.RawItem
		if err := dec.Decode(&it); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}
