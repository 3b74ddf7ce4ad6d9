package main

import (
	"context"

	"github.com/yanizio/mise/internal/content"
)

// seedDemo fills an in-memory store for local runs without MySQL.
func seedDemo(ctx context.Context, m *content.MemoryStore) error {
	canon := []content.CanonicalContent{
		{ID: 1, DefaultHandle: "chocolate-cake", DefaultLocale: "en"},
		{ID: 2, DefaultHandle: "lemon-tart", DefaultLocale: "en"},
		{ID: 3, DefaultHandle: "creme-brulee", DefaultLocale: "en"},
	}
	for _, c := range canon {
		if _, err := m.PutCanonical(c); err != nil {
			return err
		}
	}

	trs := []content.Translation{
		{ContentID: 1, Locale: "fr", Handle: "gateau-au-chocolat", Title: "Gâteau au chocolat"},
		{ContentID: 1, Locale: "es", Handle: "pastel-de-chocolate", Title: "Pastel de chocolate"},
		{ContentID: 2, Locale: "fr", Handle: "tarte-au-citron", Title: "Tarte au citron"},
		{ContentID: 2, Locale: "de", Handle: "zitronentarte", Title: "Zitronentarte"},
		{ContentID: 3, Locale: "fr", Handle: "creme-brulee", Title: "Crème brûlée"},
	}
	for _, tr := range trs {
		if _, err := m.InsertTranslation(ctx, tr); err != nil {
			return err
		}
	}
	return nil
}
