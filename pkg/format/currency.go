// Package format renders amounts as locale- and currency-tagged strings.
package format

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iwvelando/loan-quote/pkg/validation"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Profile fixes how one (locale, currency) pair is rendered.
type Profile struct {
	Locale            string `json:"locale" yaml:"locale"`
	Code              string `json:"code" yaml:"code"`
	Symbol            string `json:"symbol" yaml:"symbol"`
	SymbolSuffix      bool   `json:"symbolSuffix" yaml:"symbolSuffix"`
	MinFractionDigits int    `json:"minFractionDigits" yaml:"minFractionDigits"`
	MaxFractionDigits int    `json:"maxFractionDigits" yaml:"maxFractionDigits"`
}

// Profiles used across the loan and listing screens.
var profiles = []Profile{
	{Locale: "en-TZ", Code: "TZS", Symbol: "TSh", MinFractionDigits: 0, MaxFractionDigits: 0},
	{Locale: "sw-TZ", Code: "TZS", Symbol: "TSh", MinFractionDigits: 0, MaxFractionDigits: 0},
	{Locale: "en-US", Code: "USD", Symbol: "$", MinFractionDigits: 2, MaxFractionDigits: 2},
	{Locale: "en-KE", Code: "KES", Symbol: "KSh", MinFractionDigits: 2, MaxFractionDigits: 2},
	{Locale: "de-DE", Code: "EUR", Symbol: "€", SymbolSuffix: true, MinFractionDigits: 2, MaxFractionDigits: 2},
}

// Profiles returns a copy of the built-in profiles.
func Profiles() []Profile {
	return append([]Profile(nil), profiles...)
}

// LookupProfile finds a built-in profile for the pair.
func LookupProfile(locale, currencyCode string) (Profile, bool) {
	for _, p := range profiles {
		if strings.EqualFold(p.Locale, locale) && strings.EqualFold(p.Code, currencyCode) {
			return p, true
		}
	}
	return Profile{}, false
}

// ResolveProfile returns the built-in profile for the pair, or derives one
// from CLDR data with the ISO code as symbol.
func ResolveProfile(locale, currencyCode string) (Profile, error) {
	if p, ok := LookupProfile(locale, currencyCode); ok {
		return p, nil
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: locale %q: %v", validation.ErrInvalidInput, locale, err)
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: currency %q: %v", validation.ErrInvalidInput, currencyCode, err)
	}

	scale, _ := currency.Standard.Rounding(unit)
	return Profile{
		Locale:            tag.String(),
		Code:              unit.String(),
		Symbol:            unit.String(),
		MinFractionDigits: scale,
		MaxFractionDigits: scale,
	}, nil
}

// FormatCurrency renders amount for the given locale and ISO 4217 code.
func FormatCurrency(amount float64, locale, currencyCode string) (string, error) {
	if err := validation.Finite("amount", amount); err != nil {
		return "", err
	}
	p, err := ResolveProfile(locale, currencyCode)
	if err != nil {
		return "", err
	}
	return FormatWithProfile(amount, p)
}

// FormatDecimal renders a fixed-point amount with an explicit profile;
// precision beyond float64 is not needed at cent scale.
func FormatDecimal(amount decimal.Decimal, p Profile) (string, error) {
	return FormatWithProfile(amount.InexactFloat64(), p)
}

// FormatWithProfile renders amount using an explicit profile.
func FormatWithProfile(amount float64, p Profile) (string, error) {
	if err := validation.Finite("amount", amount); err != nil {
		return "", err
	}
	if p.MinFractionDigits < 0 || p.MaxFractionDigits < p.MinFractionDigits {
		return "", fmt.Errorf("%w: fraction digits %d..%d", validation.ErrInvalidInput,
			p.MinFractionDigits, p.MaxFractionDigits)
	}
	tag, err := language.Parse(p.Locale)
	if err != nil {
		return "", fmt.Errorf("%w: locale %q: %v", validation.ErrInvalidInput, p.Locale, err)
	}

	printer := message.NewPrinter(tag)
	digits := printer.Sprint(number.Decimal(math.Abs(amount),
		number.MinFractionDigits(p.MinFractionDigits),
		number.MaxFractionDigits(p.MaxFractionDigits),
	))

	sign := ""
	if amount < 0 && strings.ContainsAny(digits, "123456789") {
		sign = "-"
	}

	symbol := p.Symbol
	if symbol == "" {
		symbol = strings.ToUpper(p.Code)
	}

	if p.SymbolSuffix {
		return sign + digits + " " + symbol, nil
	}
	if r, _ := utf8.DecodeLastRuneInString(symbol); unicode.IsLetter(r) {
		return sign + symbol + " " + digits, nil
	}
	return sign + symbol + digits, nil
}
