// Package web embeds the HTML templates rendered by the handlers.
package web

import (
	"embed"
	"html/template"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var files embed.FS

// USD formats an amount as US dollars, e.g. $1,234.50.
func USD(amount decimal.Decimal) string {
	cents := amount.Shift(2).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}

// Funcs are the helpers available to every template.
var Funcs = template.FuncMap{
	"usd": USD,
}

// Templates parses every embedded page.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(files, "templates/*.html")
}
