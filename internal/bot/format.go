package bot

import (
	"fmt"
	"strings"

	"github.com/renohub/core/internal/domain"
	"github.com/renohub/core/internal/service/report"
)

// These formatters render report package output as plain text, fit for
// both Telegram and WhatsApp (the adapters own any platform markup).

func formatBudget(s domain.ProjectBudgetSummary) string {
	var b strings.Builder
	if s.TotalBudget != nil {
		fmt.Fprintf(&b, "Spent %.0f of %.0f (%s).\n", s.TotalSpent, *s.TotalBudget, s.Health)
	} else {
		fmt.Fprintf(&b, "Spent %.0f so far. No total budget set.\n", s.TotalSpent)
	}
	fmt.Fprintf(&b, "Work %.0f · Materials %.0f · Prepaid %.0f", s.TotalWork, s.TotalMaterial, s.TotalPrepaid)
	return b.String()
}

func formatStatus(r report.StatusReport) string {
	if len(r.Lines) == 0 {
		return "No stages yet."
	}
	var b strings.Builder
	for _, line := range r.Lines {
		marker := " "
		if line.Overdue {
			marker = "!"
		}
		fmt.Fprintf(&b, "%s %s — %s\n", marker, line.Stage.Name, line.Stage.Status)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatNextStage(r report.NextStageReport) string {
	if r.Current == nil {
		return "No stage is currently in progress."
	}
	if r.Next == nil {
		return fmt.Sprintf("Current stage: %s. It's the last one planned.", r.Current.Name)
	}
	return fmt.Sprintf("Current stage: %s. Next up: %s.", r.Current.Name, r.Next.Name)
}

func formatDeadlines(r report.DeadlineReport) string {
	if len(r.Overdue) == 0 && len(r.Approaching) == 0 {
		return "No deadlines in the next two weeks."
	}
	var b strings.Builder
	for _, s := range r.Overdue {
		fmt.Fprintf(&b, "Overdue: %s\n", s.Name)
	}
	for _, s := range r.Approaching {
		fmt.Fprintf(&b, "Upcoming: %s\n", s.Name)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatWeekly(r report.WeeklyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Completed this week: %d\n", len(r.CompletedThisWeek))
	fmt.Fprintf(&b, "In progress: %d\n", len(r.Current))
	fmt.Fprintf(&b, "Overdue: %d\n", len(r.Overdue))
	fmt.Fprintf(&b, "Upcoming: %d\n", len(r.Upcoming))
	b.WriteString(formatBudget(r.Budget))
	return b.String()
}
