// Package i18n translates message keys into localized text.
//
// Translations live in YAML files, one or more per language, keyed by
// language code at the top level and nested below it:
//
//	en:
//	  notifications:
//	    maintenance:
//	      due:
//	        subject: "Maintenance due for %{machineName}"
//
// Keys are addressed with dots ("notifications.maintenance.due.subject") and
// placeholders use the %{name} form. A missing key falls back to the default
// language and then to the key itself. Requested languages are matched
// against the loaded ones with golang.org/x/text/language, so "de-AT" finds
// "de".
//
//	catalog, err := i18n.LoadFS(ctx, os.DirFS("locales"))
//	if err != nil {
//		return err
//	}
//	tr, err := i18n.NewTranslator(catalog, i18n.WithDefaultLanguage("en"))
//	subject := tr.T("de-AT", "notifications.maintenance.due.subject", "machineName", "CAT 320")
package i18n
