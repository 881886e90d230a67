// Package parsing extracts hiring requirements from free text using a fixed skill vocabulary.
package parsing

import (
	_ "embed"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed vocabulary.yaml
var defaultVocabularyYAML []byte

// Term is a canonical name and the surface forms that map onto it.
type Term struct {
	Name     string   `yaml:"name"`
	Variants []string `yaml:"variants"`
}

// Vocabulary holds the skills, keywords and locations the extractor recognises.
type Vocabulary struct {
	Skills    []Term   `yaml:"skills"`
	Keywords  []string `yaml:"keywords"`
	Locations []Term   `yaml:"locations"`

	// variant (lower-case) -> canonical skill name
	skillIndex map[string]string
}

// LoadVocabulary parses a vocabulary YAML document.
func LoadVocabulary(data []byte) (*Vocabulary, error) {
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, &VocabularyError{Message: "invalid YAML", Cause: err}
	}

	v.skillIndex = make(map[string]string)
	for i, term := range v.Skills {
		name := strings.ToLower(strings.TrimSpace(term.Name))
		if name == "" {
			return nil, &VocabularyError{Message: "skill entry has empty name", Index: i}
		}
		v.Skills[i].Name = name
		v.skillIndex[name] = name
		for j, variant := range term.Variants {
			variant = strings.ToLower(strings.TrimSpace(variant))
			v.Skills[i].Variants[j] = variant
			if variant != "" {
				v.skillIndex[variant] = name
			}
		}
	}

	for i, kw := range v.Keywords {
		v.Keywords[i] = strings.ToLower(strings.TrimSpace(kw))
	}

	for i, term := range v.Locations {
		if strings.TrimSpace(term.Name) == "" {
			return nil, &VocabularyError{Message: "location entry has empty name", Index: i}
		}
		for j, variant := range term.Variants {
			v.Locations[i].Variants[j] = strings.ToLower(strings.TrimSpace(variant))
		}
	}

	return &v, nil
}

var (
	defaultOnce sync.Once
	defaultVoc  *Vocabulary
)

// DefaultVocabulary returns the embedded vocabulary. It panics if the
// embedded document is malformed, which is a build defect.
func DefaultVocabulary() *Vocabulary {
	defaultOnce.Do(func() {
		v, err := LoadVocabulary(defaultVocabularyYAML)
		if err != nil {
			panic(err)
		}
		defaultVoc = v
	})
	return defaultVoc
}
