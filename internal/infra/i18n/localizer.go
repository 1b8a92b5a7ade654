// Package i18n resolves message keys against an embedded two-language catalog.
package i18n

import (
	_ "embed"
	"encoding/csv"
	"io"
	"strings"

	"greenhood/config"
	"greenhood/internal/domain/service"
	"greenhood/internal/errors"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

//go:embed messages.csv
var messagesCSV string

// Column order of messages.csv after the key.
var languages = []language.Tag{language.Turkish, language.English}

// DisposalTypeKey returns the catalog key of a disposal type name.
func DisposalTypeKey(typeName string) string {
	return "disposaltype" + strings.ToLower(typeName)
}

// catalogLocalizer implements service.Localizer on an x/text catalog.
type catalogLocalizer struct {
	printer *message.Printer
	known   map[string]struct{}
}

// NewLocalizer builds the localizer for the configured language.
func NewLocalizer(cfg *config.Config) (service.Localizer, error) {
	lang := "tr"
	if cfg != nil && cfg.Localization != nil && cfg.Localization.Language != "" {
		lang = cfg.Localization.Language
	}

	return NewLocalizerFor(lang, strings.NewReader(messagesCSV))
}

// NewLocalizerFor builds a localizer for lang from a "key;tr;en" table.
func NewLocalizerFor(lang string, table io.Reader) (service.Localizer, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, errors.Wrapf(err, "unsupported language %q", lang)
	}
	matcher := language.NewMatcher(languages)
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return nil, errors.Errorf("unsupported language %q", lang)
	}

	builder := catalog.NewBuilder(catalog.Fallback(languages[0]))
	known, err := load(builder, table)
	if err != nil {
		return nil, err
	}

	return &catalogLocalizer{
		printer: message.NewPrinter(languages[index], message.Catalog(builder)),
		known:   known,
	}, nil
}

func load(builder *catalog.Builder, table io.Reader) (map[string]struct{}, error) {
	reader := csv.NewReader(table)
	reader.Comma = ';'
	reader.Comment = '#'
	reader.FieldsPerRecord = len(languages) + 1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse message catalog")
	}

	known := make(map[string]struct{}, len(records))
	for i, record := range records {
		key := strings.TrimSpace(strings.TrimPrefix(record[0], "\ufeff"))
		if i == 0 && strings.EqualFold(key, "key") {
			continue
		}
		for col, tag := range languages {
			if err := builder.SetString(tag, key, record[col+1]); err != nil {
				return nil, errors.Wrapf(err, "failed to add message %q", key)
			}
		}
		known[key] = struct{}{}
	}

	return known, nil
}

// Get renders key with args. Unknown keys render as the key itself.
func (l *catalogLocalizer) Get(key string, args ...any) string {
	if _, ok := l.known[key]; !ok {
		return key
	}

	return l.printer.Sprintf(key, args...)
}
