package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for grammar issue codes.
// data provides optional values to embed in the message (for example,
// "expected", "key" or "limit").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_type":          "must be {expected}",
		"required":              "must have required property '{key}'",
		"unknown_key":           "must NOT have additional properties ('{key}')",
		"duplicate_key":         "must NOT have duplicate key '{key}'",
		"too_small":             "must be >= {limit}",
		"too_big":               "must be <= {limit}",
		"too_short":             "must NOT have fewer than {limit} {unit}",
		"too_long":              "must NOT have more than {limit} {unit}",
		"pattern":               "must match pattern \"{pattern}\"",
		"invalid_enum":          "must be equal to one of the allowed values: {allowed}",
		"invalid_const":         "must be equal to constant '{expected}'",
		"discriminator_missing": "must have discriminator property '{key}'",
		"discriminator_unknown": "discriminator '{key}' must be one of: {allowed}",
		"parse_error":           "parse error",
	},
	"ja": {
		"invalid_type":          "型が不正です ({expected} が必要です)",
		"required":              "必須プロパティ '{key}' が不足しています",
		"unknown_key":           "未知のキーです ('{key}'): additional properties は許可されていません",
		"duplicate_key":         "キー '{key}' が重複しています",
		"too_small":             "{limit} 以上である必要があります",
		"too_big":               "{limit} 以下である必要があります",
		"too_short":             "短すぎます (最小 {limit})",
		"too_long":              "長すぎます (最大 {limit})",
		"pattern":               "パターン \"{pattern}\" に一致しません",
		"invalid_enum":          "許可された値のいずれかである必要があります: {allowed}",
		"invalid_const":         "定数 '{expected}' と等しい必要があります",
		"discriminator_missing": "判別プロパティ '{key}' が不足しています",
		"discriminator_unknown": "判別プロパティ '{key}' は次のいずれかである必要があります: {allowed}",
		"parse_error":           "解析エラー",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	dict, ok := dictionaries[t.lang]
	if !ok {
		dict = dictionaries["en"]
	}
	tmpl, ok := dict[code]
	if !ok {
		return code
	}
	return expand(tmpl, data)
}

// expand replaces {name} placeholders with values from data. Unknown
// placeholders are left untouched.
func expand(tmpl string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). A nil value restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
