// Package i18n holds the embedded UI translations shared by the terminal and
// web front-ends.
package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

type ctxKey struct{}

var (
	bundle    *i18n.Bundle
	supported []language.Tag
)

// Init loads the translation bundle. lang is the fallback for messages a
// requested language does not define.
func Init(lang string) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("parse language %q: %w", lang, err)
	}

	b := i18n.NewBundle(tag)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return fmt.Errorf("read locales dir: %w", err)
	}
	var tags []language.Tag
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return fmt.Errorf("read locale file %s: %w", e.Name(), err)
		}
		mf, err := b.ParseMessageFileBytes(data, e.Name())
		if err != nil {
			return fmt.Errorf("parse locale file %s: %w", e.Name(), err)
		}
		tags = append(tags, mf.Tag)
		slog.Debug("loaded locale file", "file", e.Name(), "messages", len(mf.Messages))
	}

	bundle, supported = b, tags
	return nil
}

// Supported lists the languages with a locale file.
func Supported() []language.Tag {
	return supported
}

// Translator resolves message ids for one preferred language list.
type Translator struct {
	loc *i18n.Localizer
}

// NewTranslator accepts language tags or Accept-Language values in
// preference order. Unknown languages fall back to the Init language.
func NewTranslator(langs ...string) *Translator {
	return &Translator{loc: i18n.NewLocalizer(bundle, langs...)}
}

// T translates a message by ID.
func (t *Translator) T(msgID string) string {
	return t.localize(&i18n.LocalizeConfig{MessageID: msgID})
}

// Td translates a message by ID with template data.
func (t *Translator) Td(msgID string, data map[string]any) string {
	return t.localize(&i18n.LocalizeConfig{MessageID: msgID, TemplateData: data})
}

// Tp translates a pluralized message by ID.
func (t *Translator) Tp(msgID string, count int) string {
	return t.localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
}

func (t *Translator) localize(cfg *i18n.LocalizeConfig) string {
	s, err := t.loc.Localize(cfg)
	if err != nil {
		slog.Warn("missing translation", "id", cfg.MessageID, "error", err)
		return cfg.MessageID
	}
	return s
}

// WithTranslator stores a translator in the context.
func WithTranslator(ctx context.Context, tr *Translator) context.Context {
	return context.WithValue(ctx, ctxKey{}, tr)
}

// FromContext returns the request translator, or one for the Init language.
func FromContext(ctx context.Context) *Translator {
	if tr, ok := ctx.Value(ctxKey{}).(*Translator); ok {
		return tr
	}
	return NewTranslator()
}

// T translates a message by ID using the context translator.
func T(ctx context.Context, msgID string) string {
	return FromContext(ctx).T(msgID)
}

// Td translates a message by ID with template data using the context translator.
func Td(ctx context.Context, msgID string, data map[string]any) string {
	return FromContext(ctx).Td(msgID, data)
}

// Tp translates a pluralized message by ID using the context translator.
func Tp(ctx context.Context, msgID string, count int) string {
	return FromContext(ctx).Tp(msgID, count)
}
