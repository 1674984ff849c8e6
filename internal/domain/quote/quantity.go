package quote

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var quantityPrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)`)

// ParseQuantity interpreta la cantidad tecleada por el usuario: acepta coma decimal,
// toma el prefijo numérico más largo ("3 un" = 3) y trata lo no numérico como 0.
// El resultado nunca es negativo.
func ParseQuantity(text string) decimal.Decimal {
	s := strings.TrimSpace(strings.Replace(text, ",", ".", 1))
	m := quantityPrefix.FindString(s)
	if m == "" {
		return decimal.Zero
	}
	neg := strings.HasPrefix(m, "-")
	m = strings.TrimLeft(m, "+-")
	m = strings.TrimSuffix(m, ".")
	if strings.HasPrefix(m, ".") {
		m = "0" + m
	}
	q, err := decimal.NewFromString(m)
	if err != nil || neg {
		return decimal.Zero
	}
	return q
}
