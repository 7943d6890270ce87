package rag

import (
	"fmt"
	"strings"
	"time"

	"github.com/renohub/core/internal/domain"
	"github.com/renohub/core/internal/service/report"
)

// BuildProjectContext renders a project's header, current pipeline status,
// and budget health into the structured block every Ask answer and chat
// reply is grounded against, ahead of whatever hybrid search or the
// sliding chat window surfaces on its own.
func BuildProjectContext(proj domain.Project, stages []domain.Stage, summary domain.ProjectBudgetSummary, now time.Time) string {
	var b strings.Builder
	b.WriteString("Project: " + proj.Name + "\n")
	if proj.Address != nil {
		fmt.Fprintf(&b, "Address: %s\n", *proj.Address)
	}
	if proj.AreaSqm != nil {
		fmt.Fprintf(&b, "Area: %.0f m²\n", *proj.AreaSqm)
	}
	fmt.Fprintf(&b, "Renovation type: %s\n", proj.RenovationType)

	next := report.BuildNextStage(proj.ID, stages)
	switch {
	case next.Current == nil:
		b.WriteString("Pipeline: not launched yet.\n")
	case next.Next == nil:
		fmt.Fprintf(&b, "Pipeline: %q is in progress, the last stage planned.\n", next.Current.Name)
	default:
		fmt.Fprintf(&b, "Pipeline: %q is in progress, next up is %q.\n", next.Current.Name, next.Next.Name)
	}

	status := report.BuildStatus(proj.ID, stages, now)
	var overdue []string
	for _, line := range status.Lines {
		if line.Overdue {
			overdue = append(overdue, line.Stage.Name)
		}
	}
	if len(overdue) > 0 {
		b.WriteString("Overdue: " + strings.Join(overdue, ", ") + "\n")
	}

	if summary.TotalBudget != nil {
		fmt.Fprintf(&b, "Budget: spent %.0f of %.0f (%s).\n", summary.TotalSpent, *summary.TotalBudget, summary.Health)
	} else {
		fmt.Fprintf(&b, "Budget: spent %.0f so far, no total set.\n", summary.TotalSpent)
	}

	return strings.TrimRight(b.String(), "\n")
}
