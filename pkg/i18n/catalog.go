package i18n

import (
	"context"
	"embed"
)

//go:embed locales/*.yaml
var locales embed.FS

// DefaultCatalog serves the bundled validation messages (en, es).
func DefaultCatalog() TranslationAdapter {
	return NewFSAdapter(NewYAMLParser(), locales, "locales")
}

// MergedAdapter loads each adapter in order and merges their catalogs, so
// later adapters override keys of earlier ones.
type MergedAdapter []TranslationAdapter

func (m MergedAdapter) Load(ctx context.Context) (map[string]map[string]any, error) {
	all := make(map[string]map[string]any)
	for _, adapter := range m {
		if adapter == nil {
			continue
		}
		translations, err := adapter.Load(ctx)
		if err != nil {
			return nil, err
		}
		for lang, messages := range translations {
			if all[lang] == nil {
				all[lang] = make(map[string]any)
			}
			mergeMessages(all[lang], messages)
		}
	}
	return all, nil
}

// mergeMessages deep-merges src into dst so nested groups like
// "validation" combine instead of replacing each other.
func mergeMessages(dst, src map[string]any) {
	for k, v := range src {
		srcMap, srcOK := asStringMap(v)
		dstMap, dstOK := asStringMap(dst[k])
		if srcOK && dstOK {
			merged := make(map[string]any, len(dstMap))
			mergeMessages(merged, dstMap)
			mergeMessages(merged, srcMap)
			dst[k] = merged
			continue
		}
		dst[k] = v
	}
}
