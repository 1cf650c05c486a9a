// Package money formatea montos monetarios para facturas y reportes.
//
// La moneda es fija por configuración (TZS por defecto) y la precisión decimal
// se pasa explícitamente en FormatOptions en cada punto de uso: 2 dígitos en
// facturas y 0 en reportes.
package money

import (
	"math"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultCurrency moneda de facturación (chelín tanzano).
const DefaultCurrency = "TZS"

// DefaultLocale idioma usado para separadores de miles y decimales.
const DefaultLocale = "en"

// FormatOptions configuración explícita del formateador.
type FormatOptions struct {
	Currency          string // código ISO 4217
	Locale            string // BCP 47, ej. "en", "sw"
	MinFractionDigits int
	MaxFractionDigits int
}

// InvoiceOptions precisión usada en vista previa, detalle y PDF de facturas.
func InvoiceOptions() FormatOptions {
	return FormatOptions{Currency: DefaultCurrency, Locale: DefaultLocale, MinFractionDigits: 2, MaxFractionDigits: 2}
}

// ReportOptions precisión usada en reportes (montos enteros).
func ReportOptions() FormatOptions {
	return FormatOptions{Currency: DefaultCurrency, Locale: DefaultLocale, MinFractionDigits: 0, MaxFractionDigits: 0}
}

// Formatter convierte un monto a texto "TZS 1,000,000.00". Sin estado mutable; seguro para uso concurrente.
type Formatter struct {
	code  string
	opts  FormatOptions
	group string // separador de miles del locale
	point string // separador decimal del locale
}

// NewFormatter construye el formateador. Código de moneda inválido o vacío cae a TZS;
// dígitos negativos se tratan como 0 y Max nunca queda por debajo de Min.
func NewFormatter(opts FormatOptions) *Formatter {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(opts.Currency)))
	if err != nil {
		unit = currency.MustParseISO(DefaultCurrency)
	}
	tag, err := language.Parse(strings.TrimSpace(opts.Locale))
	if err != nil {
		tag = language.English
	}
	if opts.MinFractionDigits < 0 {
		opts.MinFractionDigits = 0
	}
	if opts.MaxFractionDigits < opts.MinFractionDigits {
		opts.MaxFractionDigits = opts.MinFractionDigits
	}
	opts.Currency = unit.String()
	opts.Locale = tag.String()
	group, point := separators(message.NewPrinter(tag))
	return &Formatter{
		code:  unit.String(),
		opts:  opts,
		group: group,
		point: point,
	}
}

// separators toma los separadores de miles y decimal del locale formateando 1234567.5.
func separators(p *message.Printer) (group, point string) {
	r := []rune(p.Sprintf("%v", number.Decimal(1234567.5, number.MinFractionDigits(1), number.MaxFractionDigits(1))))
	if len(r) < 4 {
		return ",", "."
	}
	if !unicode.IsDigit(r[1]) {
		group = string(r[1])
	}
	return group, string(r[len(r)-2])
}

// Options devuelve la configuración efectiva (ya normalizada).
func (f *Formatter) Options() FormatOptions { return f.opts }

// Format formatea un monto. Los negativos se muestran tal cual con el signo delante: "-TZS 50,000.00".
// Los dígitos salen del decimal, sin pasar por float64, así que no hay pérdida de precisión.
func (f *Formatter) Format(amount decimal.Decimal) string {
	rounded := amount.Round(int32(f.opts.MaxFractionDigits))
	neg := rounded.IsNegative()
	intPart, frac, _ := strings.Cut(rounded.Abs().StringFixed(int32(f.opts.MaxFractionDigits)), ".")
	for len(frac) > f.opts.MinFractionDigits && strings.HasSuffix(frac, "0") {
		frac = frac[:len(frac)-1]
	}
	value := groupThousands(intPart, f.group)
	if frac != "" {
		value += f.point + frac
	}
	if neg {
		return "-" + f.code + " " + value
	}
	return f.code + " " + value
}

func groupThousands(digits, sep string) string {
	if sep == "" || len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatFloat formatea un float; NaN e Inf se formatean como 0.
func (f *Formatter) FormatFloat(amount float64) string {
	return f.Format(FromFloat(amount))
}

// FromFloat convierte un float a decimal; NaN e Inf se convierten a 0.
func FromFloat(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}
