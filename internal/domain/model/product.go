package model

import "github.com/shopspring/decimal"

// 商品フィードの1件。起動時に読み込み、以後は変更しない。
type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Image    string          `json:"image"`
}
