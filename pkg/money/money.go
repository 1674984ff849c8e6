// Package money formatea importes según el locale configurado (R$ 1.234,56 en pt-BR).
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// símbolos por región; el resto usa "$".
var symbols = map[string]string{
	"BR": "R$",
	"PT": "€",
	"ES": "€",
	"US": "US$",
}

// Formatter formatea importes con separadores del locale.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// New construye un Formatter para el locale dado (p. ej. "pt-BR"). Locale inválido = pt-BR.
func New(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.BrazilianPortuguese
	}
	symbol := "$"
	if region, conf := tag.Region(); conf != language.No {
		if s, ok := symbols[region.String()]; ok {
			symbol = s
		}
	}
	return &Formatter{printer: message.NewPrinter(tag), symbol: symbol}
}

// Format "R$ 1.234,56".
func (f *Formatter) Format(v decimal.Decimal) string {
	return f.symbol + " " + f.Number(v)
}

// Number "1.234,56" (dos decimales, sin símbolo).
func (f *Formatter) Number(v decimal.Decimal) string {
	return f.printer.Sprint(number.Decimal(v.Round(2).InexactFloat64(), number.Scale(2)))
}

// Quantity cantidad con hasta 4 decimales, sin ceros de relleno ("2,5").
func (f *Formatter) Quantity(v decimal.Decimal) string {
	return f.printer.Sprint(number.Decimal(v.Round(4).InexactFloat64(), number.MaxFractionDigits(4)))
}
