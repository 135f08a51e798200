// Package i18n localizes validation and API messages.
//
// A Translator holds a catalog of nested per-language maps loaded through a
// TranslationAdapter: MapAdapter for in-memory data, FileAdapter for a single
// YAML or JSON file, FSAdapter for a directory in any fs.FS and
// MergedAdapter to layer catalogs. DefaultCatalog bundles English and Spanish
// messages for every built-in validation rule.
//
//	tr, err := i18n.NewTranslator(ctx, i18n.MergedAdapter{
//		i18n.DefaultCatalog(),
//		i18n.NewFSAdapter(i18n.NewYAMLParser(), os.DirFS("locales"), "."),
//	})
//	if err != nil {
//		return err
//	}
//	tr.T("es", "validation.min_length", "min", "3") // "La longitud mínima es 3"
//
// Messages use %{name} placeholders filled from name/value argument pairs.
// Missing keys fall back to the key itself unless WithFallbackToKey(false).
//
// Language negotiation is built on golang.org/x/text/language:
// ParseAcceptLanguage matches an Accept-Language header against the supported
// codes, and Middleware stores the negotiated language in the request
// context for GetLocale and Translator.Tc.
package i18n
