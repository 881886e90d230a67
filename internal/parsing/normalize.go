package parsing

import "strings"

// NormalizeSkillName normalizes a skill name to its canonical form.
// Known variants map to their canonical name; anything else is trimmed and lower-cased.
func NormalizeSkillName(skillName string) string {
	return DefaultVocabulary().NormalizeSkillName(skillName)
}

// NormalizeSkillName normalizes a skill name against this vocabulary.
func (v *Vocabulary) NormalizeSkillName(skillName string) string {
	normalized := strings.ToLower(strings.TrimSpace(skillName))
	if normalized == "" {
		return ""
	}
	if canonical, ok := v.skillIndex[normalized]; ok {
		return canonical
	}
	return normalized
}

// NormalizeSkills normalizes and deduplicates a skill list, keeping first-seen order.
func NormalizeSkills(skills []string) []string {
	result := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, skill := range skills {
		normalized := NormalizeSkillName(skill)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		result = append(result, normalized)
	}
	return result
}
