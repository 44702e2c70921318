package i18n

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed data/translations.yaml
var defaultTranslations []byte

// Translator resolves UI strings for a language.
type Translator interface {
	Translate(key, language string) string
}

// Dictionary maps language code to key to translated string.
type Dictionary map[string]map[string]string

// ParseDictionary decodes a YAML document of language -> key -> string.
func ParseDictionary(data []byte) (Dictionary, error) {
	var d Dictionary
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse translations: %w", err)
	}
	if d == nil {
		d = Dictionary{}
	}
	return d, nil
}

// DefaultDictionary returns the embedded English and Hindi strings.
func DefaultDictionary() Dictionary {
	d, err := ParseDictionary(defaultTranslations)
	if err != nil {
		panic(err)
	}
	return d
}

// Translate returns the string for key in language, then in English, then key itself.
func (d Dictionary) Translate(key, language string) string {
	if s, ok := d[language][key]; ok && s != "" {
		return s
	}
	if s, ok := d[DefaultLanguage][key]; ok && s != "" {
		return s
	}
	return key
}

// Keys returns the English keys in sorted order.
func (d Dictionary) Keys() []string {
	keys := make([]string, 0, len(d[DefaultLanguage]))
	for k := range d[DefaultLanguage] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
