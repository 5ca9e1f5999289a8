package usecase

import (
	"encoding/json"
	"errors"
	"math"
	"strings"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// 決済に渡す金額が決まるので、既定値のルールはここだけで持つ。
//
//	quantity : 無い / null / false / "" / 0 → Quantity
//	           それ以外で正の整数でない → ErrInvalidItem
//	currency : 無い / 空 → Currency（常に小文字）
//	name     : 無い / 空 → ProductName
//	price    : 無い / null / 空 / 解釈できない → 0
//	unit     : round(price × 100)（四捨五入、0から遠い方）。int64を超えたら ErrInvalidItem
type LineItemDefaults struct {
	Quantity    int64
	Currency    string
	ProductName string
}

var DefaultLineItemDefaults = LineItemDefaults{
	Quantity:    1,
	Currency:    "inr",
	ProductName: "Item",
}

var errNotANumber = errors.New("not a number")

var (
	minorUnitsPerMajor = decimal.NewFromInt(100)
	maxInt64           = decimal.NewFromInt(math.MaxInt64)
)

// 型の緩い明細（JSONのまま受け取る）。
// サーバーはクライアントが計算した金額を使わない。
type RawItem struct {
	ID       any `json:"id"`
	Name     any `json:"name"`
	Price    any `json:"price"`
	Currency any `json:"currency"`
	Quantity any `json:"quantity"`
}

// Resolve は1明細に既定値ルールを適用する。
// 数量・価格が負、数量が整数でない、金額がint64を超えるなら ErrInvalidItem。
func (d LineItemDefaults) Resolve(item RawItem) (model.LineItem, error) {
	qty, err := d.resolveQuantity(item.Quantity)
	if err != nil {
		return model.LineItem{}, err
	}

	price := resolvePrice(item.Price)
	if price.IsNegative() {
		return model.LineItem{}, ErrInvalidItem
	}
	unit, err := ToMinorUnits(price)
	if err != nil {
		return model.LineItem{}, err
	}

	li := model.LineItem{
		Quantity:             qty,
		Currency:             d.resolveCurrency(item.Currency),
		ProductName:          d.resolveName(item.Name),
		UnitAmountMinorUnits: unit,
	}
	if _, ok := model.TotalMinorUnits([]model.LineItem{li}); !ok {
		return model.LineItem{}, ErrInvalidItem
	}
	return li, nil
}

// MapItems は明細すべてを変換する。0件なら ErrEmptyCart。
func (d LineItemDefaults) MapItems(items []RawItem) ([]model.LineItem, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	out := make([]model.LineItem, 0, len(items))
	for _, it := range items {
		li, err := d.Resolve(it)
		if err != nil {
			return nil, err
		}
		out = append(out, li)
	}
	if _, ok := model.TotalMinorUnits(out); !ok {
		return nil, ErrInvalidItem
	}
	return out, nil
}

// ToLineItems はカートを決済明細に変換する。
func ToLineItems(cart model.Cart) ([]model.LineItem, error) {
	return DefaultLineItemDefaults.MapItems(RawItemsFromCart(cart))
}

func RawItemsFromCart(cart model.Cart) []RawItem {
	items := make([]RawItem, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		items = append(items, RawItem{
			ID:       l.ID,
			Name:     l.Name,
			Price:    l.Price,
			Currency: l.Currency,
			Quantity: l.Quantity,
		})
	}
	return items
}

// round(price × 100)
func ToMinorUnits(price decimal.Decimal) (int64, error) {
	minor := price.Mul(minorUnitsPerMajor).Round(0)
	if minor.IsNegative() || minor.GreaterThan(maxInt64) {
		return 0, ErrInvalidItem
	}
	return minor.IntPart(), nil
}

func (d LineItemDefaults) resolveQuantity(v any) (int64, error) {
	switch t := v.(type) {
	case nil:
		return d.Quantity, nil
	case bool:
		if !t {
			return d.Quantity, nil
		}
		return 0, ErrInvalidItem
	case string:
		if strings.TrimSpace(t) == "" {
			return d.Quantity, nil
		}
	}

	n, err := toDecimal(v)
	if err != nil || !n.IsInteger() || n.IsNegative() || n.GreaterThan(maxInt64) {
		return 0, ErrInvalidItem
	}
	if n.IsZero() {
		return d.Quantity, nil
	}
	return n.IntPart(), nil
}

func (d LineItemDefaults) resolveCurrency(v any) string {
	s := strings.TrimSpace(cast.ToString(v))
	if s == "" {
		s = d.Currency
	}
	return strings.ToLower(s)
}

func (d LineItemDefaults) resolveName(v any) string {
	s := cast.ToString(v)
	if strings.TrimSpace(s) == "" {
		return d.ProductName
	}
	return s
}

func resolvePrice(v any) decimal.Decimal {
	d, err := toDecimal(v)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case nil:
		return decimal.Zero, nil
	case decimal.Decimal:
		return t, nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.Zero, errNotANumber
		}
		return decimal.NewFromFloat(t), nil
	case json.Number:
		return decimal.NewFromString(t.String())
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(s)
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromString(s)
	}
}
