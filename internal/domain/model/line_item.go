package model

import "math"

// 決済プロバイダへ渡す明細。保存はしない。
type LineItem struct {
	Quantity             int64  `json:"quantity"`
	Currency             string `json:"currency"`
	ProductName          string `json:"product_name"`
	UnitAmountMinorUnits int64  `json:"unit_amount"`
}

// 明細の合計（最小通貨単位）。int64を超えたら ok=false。
func TotalMinorUnits(items []LineItem) (total int64, ok bool) {
	for _, it := range items {
		if it.Quantity < 0 || it.UnitAmountMinorUnits < 0 {
			return 0, false
		}
		if it.Quantity != 0 && it.UnitAmountMinorUnits > math.MaxInt64/it.Quantity {
			return 0, false
		}
		line := it.UnitAmountMinorUnits * it.Quantity
		if total > math.MaxInt64-line {
			return 0, false
		}
		total += line
	}
	return total, true
}
