package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/easybake/pkg/domain"
	"github.com/aretw0/easybake/pkg/runner"
)

// ReportMarkdown formats a run report, followed by the ledgers if stock is not nil.
// Tasks are listed in completion order.
func ReportMarkdown(rep *runner.Report, stock map[domain.ResourceClass]domain.Ledger) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Run %s\n\n", rep.RunID)
	fmt.Fprintf(&sb, "- **Status:** %s\n", rep.Status)
	if rep.Decision != "" {
		fmt.Fprintf(&sb, "- **Decision:** %s\n", rep.Decision)
	}
	fmt.Fprintf(&sb, "- **Duration:** %s\n\n", rep.Duration().Round(time.Millisecond))

	sb.WriteString("## Tasks\n\n")
	sb.WriteString("| Task | State | Attempts | Error |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, id := range rep.Order {
		t := rep.Tasks[id]
		fmt.Fprintf(&sb, "| %s | %s | %d | %s |\n", id, t.State, t.Attempts, escape(t.Error))
	}

	for _, class := range domain.ResourceClasses {
		ledger, ok := stock[class]
		if !ok {
			continue
		}
		sb.WriteString("\n")
		sb.WriteString(LedgerMarkdown(class, ledger))
	}
	return sb.String()
}

// LedgerMarkdown formats one ledger as a table sorted by item.
func LedgerMarkdown(class domain.ResourceClass, ledger domain.Ledger) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", titles[class])
	if len(ledger) == 0 {
		sb.WriteString("_empty_\n")
		return sb.String()
	}
	sb.WriteString("| Item | Quantity |\n")
	sb.WriteString("|---|---|\n")
	for _, item := range ledger.Items() {
		fmt.Fprintf(&sb, "| %s | %d |\n", item, ledger[item])
	}
	return sb.String()
}

var titles = map[domain.ResourceClass]string{
	domain.Ingredients: "Pantry",
	domain.Cookware:    "Cabinets",
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
