package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// カートの明細
// 追加時点の名前・価格・画像を保存する。
type CartLine struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	Quantity int64           `json:"quantity"`
	Image    string          `json:"image"`
}

// 価格は文字列ではなく数値で書き出す。
func (l CartLine) MarshalJSON() ([]byte, error) {
	type plain CartLine
	return json.Marshal(struct {
		plain
		Price json.Number `json:"price"`
	}{
		plain: plain(l),
		Price: json.Number(l.Price.String()),
	})
}

// 追加順に並んだ明細。1商品につき1明細。
type Cart struct {
	Lines []CartLine
}

// 商品IDの明細位置（無ければ-1）
func (c *Cart) IndexOf(productID string) int {
	for i := range c.Lines {
		if c.Lines[i].ID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// 明細のコピーを返す。
func (c *Cart) Clone() Cart {
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines}
}

// Σ price × quantity
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Price.Mul(decimal.NewFromInt(l.Quantity)))
	}
	return total
}

// Σ quantity
func (c *Cart) ItemCount() int64 {
	var n int64
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}
