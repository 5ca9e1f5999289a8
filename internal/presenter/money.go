package presenter

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Money は金額をロケールの桁区切りで整形する（小数なし）。
// 例: INR 1,999
type Money struct {
	printer  *message.Printer
	currency string
}

func NewMoney(locale, currency string) *Money {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Money{
		printer:  message.NewPrinter(tag),
		currency: strings.ToUpper(currency),
	}
}

func (m *Money) Format(amount decimal.Decimal) string {
	v := amount.Round(0).InexactFloat64()
	return m.printer.Sprintf("%s %v", m.currency, number.Decimal(v, number.MaxFractionDigits(0)))
}
