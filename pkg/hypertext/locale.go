package hypertext

import (
	"strings"
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Locale-aware wrapper values. Both resolve to plain text before the
// context escaping runs, so they are safe in content and in attributes.

// Localized formats a number for a locale (grouping separators, decimal
// mark) when it is rendered.
type Localized struct {
	Locale string
	Value  any
}

func (l Localized) textValue() string {
	tag, err := language.Parse(l.Locale)
	if err != nil {
		tag = language.English
	}
	p := message.NewPrinter(tag)
	return p.Sprintf("%v", number.Decimal(l.Value))
}

// LocalDate formats a time with month and weekday names in the locale's
// language. Layout is a Go reference layout; empty means "2 January 2006".
type LocalDate struct {
	Locale string
	Layout string
	Time   time.Time
}

func (d LocalDate) textValue() string {
	layout := d.Layout
	if layout == "" {
		layout = "2 January 2006"
	}
	return monday.Format(d.Time, layout, mondayLocale(d.Locale))
}

// mondayLocale maps a locale string to a monday.Locale for date
// formatting, with an English fallback.
func mondayLocale(locale string) monday.Locale {
	locale = strings.ToLower(strings.ReplaceAll(locale, "-", "_"))

	localeMap := map[string]monday.Locale{
		"en":    monday.LocaleEnUS,
		"en_us": monday.LocaleEnUS,
		"en_gb": monday.LocaleEnGB,
		"de":    monday.LocaleDeDE,
		"de_de": monday.LocaleDeDE,
		"fr":    monday.LocaleFrFR,
		"fr_fr": monday.LocaleFrFR,
		"fr_ca": monday.LocaleFrCA,
		"es":    monday.LocaleEsES,
		"es_es": monday.LocaleEsES,
		"it":    monday.LocaleItIT,
		"it_it": monday.LocaleItIT,
		"pt":    monday.LocalePtPT,
		"pt_pt": monday.LocalePtPT,
		"pt_br": monday.LocalePtBR,
		"nl":    monday.LocaleNlNL,
		"nl_nl": monday.LocaleNlNL,
		"ru":    monday.LocaleRuRU,
		"ru_ru": monday.LocaleRuRU,
		"pl":    monday.LocalePlPL,
		"pl_pl": monday.LocalePlPL,
		"da":    monday.LocaleDaDK,
		"da_dk": monday.LocaleDaDK,
		"fi":    monday.LocaleFiFI,
		"fi_fi": monday.LocaleFiFI,
		"sv":    monday.LocaleSvSE,
		"sv_se": monday.LocaleSvSE,
		"ja":    monday.LocaleJaJP,
		"ja_jp": monday.LocaleJaJP,
		"zh":    monday.LocaleZhCN,
		"zh_cn": monday.LocaleZhCN,
		"zh_tw": monday.LocaleZhTW,
		"ko":    monday.LocaleKoKR,
		"ko_kr": monday.LocaleKoKR,
		"tr":    monday.LocaleTrTR,
		"tr_tr": monday.LocaleTrTR,
	}

	if loc, ok := localeMap[locale]; ok {
		return loc
	}
	if lang, _, found := strings.Cut(locale, "_"); found {
		if loc, ok := localeMap[lang]; ok {
			return loc
		}
	}
	return monday.LocaleEnUS
}
