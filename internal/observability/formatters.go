// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/hiring-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

func joinList(items []string, width int) string {
	if len(items) == 0 {
		return "-"
	}
	return truncate(strings.Join(items, ", "), width)
}

// PrintStrategy outputs a human-readable summary of a search strategy.
func (p *Printer) PrintStrategy(strategy *types.SearchStrategy) {
	if strategy == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source:     %s\n", strategy.Source))
	if strategy.SourceJobID != nil {
		sb.WriteString(fmt.Sprintf("Job:        %s\n", strategy.SourceJobID))
	}
	sb.WriteString(fmt.Sprintf("Level:      %s\n", strategy.ExperienceLevel))
	sb.WriteString(fmt.Sprintf("Min years:  %g\n", strategy.MinExperience))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Required:   %s\n", joinList(strategy.RequiredSkills, 40)))
	sb.WriteString(fmt.Sprintf("Optional:   %s\n", joinList(strategy.OptionalSkills, 40)))
	sb.WriteString(fmt.Sprintf("Keywords:   %s\n", joinList(strategy.Keywords, 40)))
	sb.WriteString(fmt.Sprintf("Locations:  %s", joinList(strategy.LocationHints, 40)))

	p.printBox("SEARCH STRATEGY", sb.String())
}

// PrintRankedCandidates outputs the top ranked candidates with their score breakdown.
func (p *Printer) PrintRankedCandidates(candidates []types.RankedCandidate) {
	if len(candidates) == 0 {
		p.printBox("RANKED CANDIDATES", "No candidates matched")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total candidates ranked: %d\n\n", len(candidates)))

	count := min(len(candidates), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := candidates[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, c.Name))
		sb.WriteString(fmt.Sprintf("    Score: %.2f (sim %.2f, skills %.2f, exp %.2f)\n",
			c.FinalScore, c.SimilarityScore, c.SkillOverlapScore, c.ExperienceScore))
		if len(c.Explanation.MatchedSkills) > 0 {
			sb.WriteString(fmt.Sprintf("    Matched: %s\n", joinList(c.Explanation.MatchedSkills, 40)))
		}
		if len(c.Explanation.MissingSkills) > 0 {
			sb.WriteString(fmt.Sprintf("    Missing: %s\n", joinList(c.Explanation.MissingSkills, 40)))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(candidates) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more candidates", len(candidates)-maxItemsToShow))
	}

	p.printBox("RANKED CANDIDATES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintGoal outputs a goal's attributes.
func (p *Printer) PrintGoal(goal *types.Goal) {
	if goal == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:        %s\n", goal.ID))
	sb.WriteString(fmt.Sprintf("Title:     %s\n", goal.Title))
	sb.WriteString(fmt.Sprintf("Positions: %d\n", goal.TargetPositions))
	sb.WriteString(fmt.Sprintf("Priority:  %s\n", goal.Priority))
	sb.WriteString(fmt.Sprintf("Status:    %s\n", goal.Status))
	sb.WriteString(fmt.Sprintf("Deadline:  %s", goal.Deadline.Format("2006-01-02")))

	p.printBox("HIRING GOAL", sb.String())
}

// PrintActions outputs a goal's action log, one line per action.
func (p *Printer) PrintActions(actions []types.AgentAction) {
	if len(actions) == 0 {
		p.printBox("ACTION LOG", "No actions recorded")
		return
	}

	var sb strings.Builder
	for i, a := range actions {
		sb.WriteString(fmt.Sprintf("%s  %-20s %s", a.CreatedAt.Format("15:04:05"), a.Type, summarizeResult(a.Result)))
		if i < len(actions)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("ACTION LOG", sb.String())
}

func summarizeResult(result types.ActionResult) string {
	switch r := result.(type) {
	case types.AnalyzeRequirementsResult:
		return fmt.Sprintf("%d skills", len(r.Strategy.RequiredSkills))
	case types.SearchCandidatesResult:
		return fmt.Sprintf("%d found (%s)", r.Count, r.Mode)
	case types.RankCandidatesResult:
		return fmt.Sprintf("top %d of %d (%s)", len(r.Top), r.Considered, r.Path)
	case types.SendOutreachResult:
		return r.CandidateName
	case types.ScheduleFollowUpResult:
		return r.ScheduledTime.Format("2006-01-02 15:04")
	}
	return ""
}
