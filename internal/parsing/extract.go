package parsing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/hiring-agent/internal/types"
)

// yearsPatterns are tried in order against lower-cased text; the first
// pattern with a match wins.
var yearsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\+?\s*years?\s*(?:of\s*)?experience`),
	regexp.MustCompile(`(\d+)\+?\s*years?\s*in\s*\w+`),
	regexp.MustCompile(`experience:\s*(\d+)\+?`),
}

// Requirements is everything the extractor can infer from a block of text.
type Requirements struct {
	Keywords        []string              `json:"keywords"`
	Skills          []string              `json:"skills"`
	YearsExperience float64               `json:"years_experience"`
	ExperienceLevel types.ExperienceLevel `json:"experience_level"`
	LocationHints   []string              `json:"location_hints"`
}

// AnalyzeText runs every extractor over text.
func AnalyzeText(text string) Requirements {
	return DefaultVocabulary().AnalyzeText(text)
}

// AnalyzeText runs every extractor over text using this vocabulary.
func (v *Vocabulary) AnalyzeText(text string) Requirements {
	return Requirements{
		Keywords:        v.ExtractKeywords(text),
		Skills:          v.ExtractSkills(text),
		YearsExperience: ExtractYearsExperience(text),
		ExperienceLevel: InferExperienceLevel(text),
		LocationHints:   v.ExtractLocationHints(text),
	}
}

// ExtractSkills returns the canonical skills mentioned in text.
func ExtractSkills(text string) []string {
	return DefaultVocabulary().ExtractSkills(text)
}

// ExtractSkills returns the canonical skills whose name or any variant occurs
// in text, in vocabulary order and without duplicates.
func (v *Vocabulary) ExtractSkills(text string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0)
	for _, term := range v.Skills {
		if containsAny(lower, term.Name, term.Variants) {
			found = append(found, term.Name)
		}
	}
	return found
}

// ExtractKeywords returns the search keywords mentioned in text.
func ExtractKeywords(text string) []string {
	return DefaultVocabulary().ExtractKeywords(text)
}

// ExtractKeywords returns the search keywords occurring in text, in vocabulary order.
func (v *Vocabulary) ExtractKeywords(text string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0)
	for _, kw := range v.Keywords {
		if kw != "" && strings.Contains(lower, kw) {
			found = append(found, kw)
		}
	}
	return found
}

// ExtractLocationHints returns the display names of locations mentioned in text.
func ExtractLocationHints(text string) []string {
	return DefaultVocabulary().ExtractLocationHints(text)
}

// ExtractLocationHints returns location display names whose variants occur in text.
func (v *Vocabulary) ExtractLocationHints(text string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0)
	for _, term := range v.Locations {
		if containsAny(lower, "", term.Variants) {
			found = append(found, term.Name)
		}
	}
	return found
}

// InferExperienceLevel maps seniority words in text onto an experience level.
func InferExperienceLevel(text string) types.ExperienceLevel {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "senior") || strings.Contains(lower, "lead"):
		return types.ExperienceLevelSenior
	case strings.Contains(lower, "junior") || strings.Contains(lower, "entry"):
		return types.ExperienceLevelJunior
	default:
		return types.ExperienceLevelMid
	}
}

// ExtractYearsExperience returns the first "N years experience" style number
// found in text, or 0 when there is none.
func ExtractYearsExperience(text string) float64 {
	lower := strings.ToLower(text)
	for _, pattern := range yearsPatterns {
		match := pattern.FindStringSubmatch(lower)
		if match == nil {
			continue
		}
		years, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		return years
	}
	return 0
}

// shortTermLen is the longest term matched only as a whole word. Shorter
// forms like "py", "ai" or "git" occur inside too many unrelated words.
const shortTermLen = 3

func containsAny(lower, name string, variants []string) bool {
	if name != "" && containsTerm(lower, name) {
		return true
	}
	for _, variant := range variants {
		if variant != "" && containsTerm(lower, variant) {
			return true
		}
	}
	return false
}

// containsTerm reports whether term occurs in lower. Terms of up to
// shortTermLen bytes must be bounded by non-alphanumeric characters.
func containsTerm(lower, term string) bool {
	if len(term) > shortTermLen {
		return strings.Contains(lower, term)
	}
	for offset := 0; offset < len(lower); {
		i := strings.Index(lower[offset:], term)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(term)
		if !isWordByte(lower, start-1) && !isWordByte(lower, end) {
			return true
		}
		offset = start + 1
	}
	return false
}

func isWordByte(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	c := s[i]
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_'
}
