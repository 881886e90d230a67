package llm

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/hiring-agent/internal/prompts"
	"github.com/jonathan/hiring-agent/internal/types"
)

const (
	maxPromptSkills  = 3
	maxMessageLength = 1500
)

// OutreachWriter drafts outreach messages with a generative model.
type OutreachWriter struct {
	client Client
	tier   ModelTier
}

// NewOutreachWriter creates a writer that drafts with the lite tier.
func NewOutreachWriter(client Client) *OutreachWriter {
	return &OutreachWriter{client: client, tier: TierLite}
}

// WriteOutreach drafts a first-contact message for candidate about goalTitle.
func (w *OutreachWriter) WriteOutreach(ctx context.Context, candidate types.RankedCandidate, goalTitle string) (string, error) {
	template, err := prompts.Get(prompts.OutreachFile, prompts.KeyOutreachMessage)
	if err != nil {
		return "", err
	}

	skills := candidate.Explanation.MatchedSkills
	if len(skills) > maxPromptSkills {
		skills = skills[:maxPromptSkills]
	}
	matched := "none listed"
	if len(skills) > 0 {
		matched = strings.Join(skills, ", ")
	}
	name := strings.TrimSpace(candidate.Name)
	if name == "" {
		name = "there"
	}

	prompt := prompts.Format(template, map[string]string{
		"GoalTitle":     goalTitle,
		"Name":          name,
		"MatchedSkills": matched,
		"Years":         strconv.FormatFloat(candidate.TotalYearsExperience, 'f', -1, 64),
	})

	text, err := w.client.GenerateContent(ctx, prompt, w.tier)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("model returned an empty message")
	}
	if utf8.RuneCountInString(text) > maxMessageLength {
		return "", fmt.Errorf("model returned a %d character message", utf8.RuneCountInString(text))
	}
	return text, nil
}
