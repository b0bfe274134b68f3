package i18n

import (
	"strings"
	"testing"
)

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("invalid_type", map[string]string{"expected": "integer"}); msg != "must be integer" {
		t.Fatalf("expected english message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("invalid_type", map[string]string{"expected": "integer"}); msg == "must be integer" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_UnknownKeyMentionsAdditionalProperties(t *testing.T) {
	for _, lang := range []string{"en", "ja"} {
		SetLanguage(lang)
		msg := T("unknown_key", map[string]string{"key": "extra"})
		if !strings.Contains(msg, "additional properties") || !strings.Contains(msg, "extra") {
			t.Errorf("%s: unexpected message %q", lang, msg)
		}
	}
	SetLanguage("en")
}

func TestTranslator_UnknownCodeFallsBack(t *testing.T) {
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("expected code echo, got %q", msg)
	}
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return strings.ToUpper(code) }

func TestSetTranslator(t *testing.T) {
	SetTranslator(upper{})
	defer SetTranslator(nil)
	if msg := T("required", nil); msg != "REQUIRED" {
		t.Fatalf("custom translator not used: %q", msg)
	}
}
