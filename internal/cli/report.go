package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MaMo-Cyber/App-Cost-sub000/internal/evm"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/services"
)

// RenderReport renders the EVM report of a project for the terminal. The
// timeline is optional.
func RenderReport(summary *services.ProjectSummary, timeline *services.TimelineResponse) string {
	var b strings.Builder

	name := "Project"
	if summary.Project != nil {
		name = summary.Project.Name
	}
	b.WriteString(RenderTitle(name + " - Cost Report"))
	b.WriteString("\n\n")

	m := summary.EVMMetrics
	b.WriteString(RenderTable(Table{
		Title:   "Earned Value",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Budget at Completion", FormatAmount(m.BAC)},
			{"Planned Value", FormatAmount(m.PV)},
			{"Earned Value", FormatAmount(m.EV)},
			{"Actual Cost", FormatAmount(m.AC)},
			{"---"},
			{"Cost Variance", FormatAmount(m.CV)},
			{"Schedule Variance", FormatAmount(m.SV)},
			{"CPI", FormatIndex(m.CPI)},
			{"SPI", FormatIndex(m.SPI)},
			{"---"},
			{"Estimate at Completion", FormatAmount(m.EAC)},
			{"Estimate to Complete", FormatAmount(m.ETC)},
			{"Variance at Completion", FormatAmount(m.VAC)},
			{"EAC incl. Obligations", FormatAmount(m.EACAdjusted)},
		},
	}))
	b.WriteString("\n")

	b.WriteString(RenderTable(Table{
		Title:   "Status",
		Headers: []string{"Indicator", "Value"},
		Rows: [][]string{
			{"Project", humanize(string(summary.StatusIndicator))},
			{"Cost", humanize(string(m.CostStatus))},
			{"Cost incl. Obligations", humanize(string(m.CostStatusAdjusted))},
			{"Schedule", humanize(string(m.ScheduleStatus))},
			{"Complete", FormatPercent(m.PercentComplete)},
			{"Budget Utilization", FormatPercent(summary.BudgetUtilization)},
			{"Outstanding", FormatAmount(summary.TotalOutstanding.InexactFloat64())},
		},
	}))

	if m.BudgetBreachRisk {
		b.WriteString("  ")
		b.WriteString(badStyle.Render(fmt.Sprintf("Budget breach risk (%s severity)", m.BreachSeverity)))
		b.WriteString("\n")
	}

	if len(summary.PhasesSummary) > 0 {
		b.WriteString("\n")
		rows := make([][]string, 0, len(summary.PhasesSummary))
		for _, p := range summary.PhasesSummary {
			rows = append(rows, []string{
				p.Name,
				FormatAmount(p.BudgetAllocated.InexactFloat64()),
				FormatAmount(p.AmountSpent.InexactFloat64()),
				FormatPercent(p.UtilizationPercentage),
				humanize(string(p.Status)),
			})
		}
		b.WriteString(RenderTable(Table{
			Title:   "Phases",
			Headers: []string{"Phase", "Budget", "Spent", "Used", "Status"},
			Rows:    rows,
		}))
	}

	if len(summary.CostBreakdown) > 0 {
		b.WriteString("\n")
		names := make([]string, 0, len(summary.CostBreakdown))
		for n := range summary.CostBreakdown {
			names = append(names, n)
		}
		sort.Strings(names)
		rows := make([][]string, 0, len(names))
		for _, n := range names {
			rows = append(rows, []string{n, FormatAmount(summary.CostBreakdown[n].InexactFloat64())})
		}
		b.WriteString(RenderTable(Table{
			Title:   "Costs by Category",
			Headers: []string{"Category", "Amount"},
			Rows:    rows,
		}))
	}

	if timeline != nil {
		b.WriteString("\n")
		b.WriteString(renderForecast(&timeline.Timeline))
	}

	return b.String()
}

func renderForecast(t *evm.Timeline) string {
	var b strings.Builder

	p := t.CompletionPrediction
	b.WriteString(RenderTable(Table{
		Title:   "Forecast",
		Headers: []string{"Measure", "Value"},
		Rows: [][]string{
			{"Months Remaining", fmt.Sprintf("%d", p.MonthsRemaining)},
			{"Projected Completion Cost", FormatAmount(p.ProjectedCompletionCost)},
			{"Cost Efficiency", humanize(string(p.CostEfficiency))},
			{"Projected Overrun", FormatPercent(p.ProjectedOverrunPct)},
		},
	}))

	if len(t.Points) > 0 {
		eacs := make([]float64, 0, len(t.Points))
		for _, pt := range t.Points {
			eacs = append(eacs, pt.EAC)
		}
		b.WriteString(fmt.Sprintf("  %s %s  %s\n",
			mutedStyle.Render("EAC trend"),
			RenderSparkline(eacs),
			dimStyle.Render(t.Points[0].Month+" .. "+t.Points[len(t.Points)-1].Month)))
	}

	if o := t.OverrunPoint; o != nil {
		label := "Budget exceeded"
		if o.IsPrediction {
			label = "Projected overrun"
		}
		b.WriteString("  ")
		b.WriteString(warnStyle.Render(fmt.Sprintf("%s in %s by %s", label, o.Month, FormatAmount(o.AmountExceeded))))
		b.WriteString("\n")
	} else {
		b.WriteString("  ")
		b.WriteString(goodStyle.Render("No overrun projected"))
		b.WriteString("\n")
	}

	if d := t.CostTrendDeterioration; d != nil {
		b.WriteString("  ")
		b.WriteString(warnStyle.Render(fmt.Sprintf("CPI fell %.3f from %s to %s (%s)", d.Decline, d.FromMonth, d.ToMonth, d.Severity)))
		b.WriteString("\n")
	}

	return b.String()
}
