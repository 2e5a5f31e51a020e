package amount

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

var ErrUnsupportedLocale = errors.New("unsupported number format")

// Format holds the separators of a locale's number notation.
type Format struct {
	Decimal rune
	Group   rune
}

type separators struct {
	decimal rune
	group   rune
}

var (
	pointComma  = separators{'.', ','}
	commaPoint  = separators{',', '.'}
	commaSpace  = separators{',', '\u00a0'}
	pointQuote  = separators{'.', '\''}
	commaNarrow = separators{',', '\u202f'}
)

// byLanguage covers the base languages bank exports are commonly written in.
var byLanguage = map[string]separators{
	"en": pointComma, "ja": pointComma, "zh": pointComma, "ko": pointComma,
	"he": pointComma, "th": pointComma, "ga": pointComma, "mt": pointComma,
	"de": commaPoint, "es": commaPoint, "it": commaPoint, "nl": commaPoint,
	"da": commaPoint, "id": commaPoint, "tr": commaPoint, "ro": commaPoint,
	"el": commaPoint, "hr": commaPoint, "sl": commaPoint, "sr": commaPoint,
	"pt": commaSpace, "pl": commaSpace, "cs": commaSpace, "sk": commaSpace,
	"ru": commaSpace, "uk": commaSpace, "sv": commaSpace, "nb": commaSpace,
	"fi": commaSpace, "hu": commaSpace, "bg": commaSpace, "lt": commaSpace,
	"lv": commaSpace, "et": commaSpace,
	"fr": commaNarrow,
}

// byRegion overrides byLanguage where a region writes numbers differently.
var byRegion = map[string]separators{
	"de-CH": pointQuote, "de-LI": pointQuote, "it-CH": pointQuote,
	"es-MX": pointComma, "es-US": pointComma,
	"pt-BR": commaPoint,
}

// ParseFormat resolves a BCP 47 tag such as "pt-PT" or "en-US". Locales
// without a known notation are rejected rather than mapped to a default.
func ParseFormat(id string) (Format, error) {
	tag, err := language.Parse(id)
	if err != nil {
		return Format{}, fmt.Errorf("%w %q: %w", ErrUnsupportedLocale, id, err)
	}

	base, conf := tag.Base()
	if conf == language.No {
		return Format{}, fmt.Errorf("%w %q", ErrUnsupportedLocale, id)
	}

	if region, conf := tag.Region(); conf == language.Exact {
		if s, ok := byRegion[base.String()+"-"+region.String()]; ok {
			return Format{Decimal: s.decimal, Group: s.group}, nil
		}
	}

	s, ok := byLanguage[base.String()]
	if !ok {
		return Format{}, fmt.Errorf("%w %q", ErrUnsupportedLocale, id)
	}

	return Format{Decimal: s.decimal, Group: s.group}, nil
}
