package rates

import "github.com/shopspring/decimal"

// BaseCurrency is the fixed reference currency. All monetary values stored on
// the backend are expressed in it.
const BaseCurrency = "EUR"

// Currency describes one supported display currency.
type Currency struct {
	Code        string          `json:"code"`
	Symbol      string          `json:"symbol"`
	DefaultRate decimal.Decimal `json:"defaultRate"`
}

// Currencies is the fixed set of supported display currencies. DefaultRate is
// the static fallback rate adopted whenever the live resolver fails. A rate is
// the EUR value of one unit of the currency, so base amounts are divided by it
// to convert (250 EUR at a USD rate of 0.92 is 271.74 USD).
var Currencies = []Currency{
	{Code: "USD", Symbol: "$", DefaultRate: decimal.RequireFromString("0.92")},
	{Code: "CNY", Symbol: "¥", DefaultRate: decimal.RequireFromString("0.13")},
	{Code: "GBP", Symbol: "£", DefaultRate: decimal.RequireFromString("1.17")},
	{Code: "INR", Symbol: "₹", DefaultRate: decimal.RequireFromString("0.011")},
	{Code: "EUR", Symbol: "€", DefaultRate: decimal.RequireFromString("1.00")},
}

// Lookup returns the currency definition for a code.
func Lookup(code string) (Currency, bool) {
	for _, c := range Currencies {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}
