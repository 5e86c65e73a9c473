package service

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io"

	"github.com/dtroode/quidalert-auth/internal/apperrors"
	"github.com/dtroode/quidalert-auth/internal/logger"
	"github.com/dtroode/quidalert-auth/internal/model"
)

//go:embed terms/*.md
var defaultTerms embed.FS

// TermsKey is the object key of the terms document for lang.
func TermsKey(lang model.Language) string {
	return "terms_" + string(lang) + ".md"
}

// Terms serves the terms of service from the document store, falling back
// to the copies built into the binary.
type Terms struct {
	store  model.DocumentStore
	logger *logger.Logger
}

// NewTerms creates a Terms service. store may be nil.
func NewTerms(store model.DocumentStore, logger *logger.Logger) *Terms {
	return &Terms{store: store, logger: logger}
}

// Get returns the document for lang, or the English one when lang has none.
func (t *Terms) Get(ctx context.Context, lang model.Language) ([]byte, error) {
	langs := []model.Language{lang}
	if lang != model.LanguageEN {
		langs = append(langs, model.LanguageEN)
	}

	if t.store != nil {
		for _, l := range langs {
			doc, err := t.download(ctx, TermsKey(l))
			if err == nil {
				return doc, nil
			}
			if !errors.Is(err, model.ErrNotFound) {
				t.logger.WithContext(ctx).Warn("Terms service: document store unavailable, using built-in terms",
					"key", TermsKey(l),
					"error", err.Error())
				break
			}
		}
	}

	for _, l := range langs {
		doc, err := defaultTerms.ReadFile("terms/" + TermsKey(l))
		if err == nil {
			return doc, nil
		}
	}
	return nil, apperrors.NotFound(model.ErrNotFound)
}

func (t *Terms) download(ctx context.Context, key string) ([]byte, error) {
	rc, err := t.store.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	doc, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return doc, nil
}

// Seed uploads the built-in documents that the store does not have yet.
func (t *Terms) Seed(ctx context.Context) error {
	if t.store == nil {
		return nil
	}

	for _, lang := range []model.Language{model.LanguageEN, model.LanguageIT} {
		key := TermsKey(lang)
		exists, err := t.store.Exists(ctx, key)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", key, err)
		}
		if exists {
			continue
		}

		doc, err := defaultTerms.ReadFile("terms/" + key)
		if err != nil {
			return fmt.Errorf("failed to read built-in %s: %w", key, err)
		}
		if err := t.store.Upload(ctx, key, bytes.NewReader(doc)); err != nil {
			return fmt.Errorf("failed to upload %s: %w", key, err)
		}
		t.logger.Info("Terms service: seeded document", "key", key)
	}
	return nil
}
