package pipeline

import (
	"fmt"
	"strings"

	"github.com/jonathan/hiring-agent/internal/types"
)

const maxCitedSkills = 3

// OutreachMessage builds the personalised first-contact message for a candidate.
func OutreachMessage(candidate types.RankedCandidate, goalTitle string) string {
	name := strings.TrimSpace(candidate.Name)
	if name == "" {
		name = "there"
	}

	skills := "your technical skills"
	matched := candidate.Explanation.MatchedSkills
	if len(matched) > maxCitedSkills {
		matched = matched[:maxCitedSkills]
	}
	if len(matched) > 0 {
		skills = strings.Join(matched, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	fmt.Fprintf(&b, "Your background caught our attention, in particular your experience with %s.\n\n", skills)
	fmt.Fprintf(&b, "We're looking for a %s and think you could be a strong fit for the team. ", goalTitle)
	b.WriteString("Would you be open to a short conversation about the role?\n\n")
	b.WriteString("Best regards,\nAI Hiring Agent")
	return b.String()
}
