package i18n_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markmed/fleetman/pkg/i18n"
)

func testCatalog() i18n.Catalog {
	return i18n.Catalog{
		"en": {
			"hello": "Hello",
			"notifications": map[string]any{
				"maintenance": map[string]any{
					"due": map[string]any{
						"subject": "Maintenance due: %{machineName}",
						"body":    "%{alarmTitle} is due on %{machineName}.",
					},
				},
			},
		},
		"de": {
			"hello": "Hallo",
			"notifications": map[string]any{
				"maintenance": map[string]any{
					"due": map[string]any{
						"subject": "Wartung fällig: %{machineName}",
					},
				},
			},
		},
	}
}

func TestNewTranslator(t *testing.T) {
	t.Parallel()

	_, err := i18n.NewTranslator(nil)
	assert.ErrorIs(t, err, i18n.ErrNoTranslations)

	_, err = i18n.NewTranslator(testCatalog(), i18n.WithDefaultLanguage("fr"))
	assert.ErrorIs(t, err, i18n.ErrDefaultUnsupported)

	_, err = i18n.NewTranslator(i18n.Catalog{"en": {}, "not a tag!": {}})
	assert.ErrorIs(t, err, i18n.ErrInvalidCatalog)

	tr, err := i18n.NewTranslator(testCatalog())
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "de"}, tr.SupportedLanguages())
	assert.Equal(t, "en", tr.DefaultLanguage())
}

func TestTranslator_T(t *testing.T) {
	t.Parallel()

	tr, err := i18n.NewTranslator(testCatalog())
	require.NoError(t, err)

	tests := []struct {
		name string
		lang string
		key  string
		args []string
		want string
	}{
		{name: "plain", lang: "de", key: "hello", want: "Hallo"},
		{name: "nested with params", lang: "en", key: "notifications.maintenance.due.subject", args: []string{"machineName", "CAT 320"}, want: "Maintenance due: CAT 320"},
		{name: "regional variant matches base", lang: "de-AT", key: "hello", want: "Hallo"},
		{name: "missing key falls back to default language", lang: "de", key: "notifications.maintenance.due.body", args: []string{"alarmTitle", "Oil change", "machineName", "CAT 320"}, want: "Oil change is due on CAT 320."},
		{name: "unknown language uses default", lang: "ja", key: "hello", want: "Hello"},
		{name: "garbage language uses default", lang: "%%", key: "hello", want: "Hello"},
		{name: "unknown key returns key", lang: "en", key: "nope.%{x}", args: []string{"x", "1"}, want: "nope.1"},
		{name: "subtree is not a translation", lang: "en", key: "notifications.maintenance", want: "notifications.maintenance"},
		{name: "missing param left intact", lang: "en", key: "notifications.maintenance.due.subject", want: "Maintenance due: %{machineName}"},
		{name: "odd args ignored", lang: "en", key: "notifications.maintenance.due.subject", args: []string{"machineName"}, want: "Maintenance due: %{machineName}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tr.T(tt.lang, tt.key, tt.args...))
		})
	}
}

func TestTranslator_Has(t *testing.T) {
	t.Parallel()

	tr, err := i18n.NewTranslator(testCatalog())
	require.NoError(t, err)

	assert.True(t, tr.Has("de", "notifications.maintenance.due.subject"))
	assert.True(t, tr.Has("de", "notifications.maintenance.due.body"))
	assert.False(t, tr.Has("en", "missing"))
}

func TestLoadFS(t *testing.T) {
	t.Parallel()

	t.Run("merges files", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{
			"en.yaml":            {Data: []byte("en:\n  hello: Hello\n")},
			"extra/de.yml":       {Data: []byte("de:\n  hello: Hallo\n")},
			"notifications.yaml": {Data: []byte("en:\n  bye: Bye\n")},
			"README.md":          {Data: []byte("# ignored")},
			"empty.yaml":         {Data: nil},
		}

		catalog, err := i18n.LoadFS(context.Background(), fsys)
		require.NoError(t, err)

		tr, err := i18n.NewTranslator(catalog)
		require.NoError(t, err)
		assert.Equal(t, "Hello", tr.T("en", "hello"))
		assert.Equal(t, "Bye", tr.T("en", "bye"))
		assert.Equal(t, "Hallo", tr.T("de", "hello"))
	})

	t.Run("invalid structure", func(t *testing.T) {
		t.Parallel()
		fsys := fstest.MapFS{"bad.yaml": {Data: []byte("en: just a string\n")}}

		_, err := i18n.LoadFS(context.Background(), fsys)
		assert.ErrorIs(t, err, i18n.ErrInvalidCatalog)
	})

	t.Run("no files", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.LoadFS(context.Background(), fstest.MapFS{})
		assert.ErrorIs(t, err, i18n.ErrNoTranslations)
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := i18n.LoadFS(ctx, fstest.MapFS{"en.yaml": {Data: []byte("en:\n  a: b\n")}})
		assert.ErrorIs(t, err, i18n.ErrLoadingCancelled)
	})
}
