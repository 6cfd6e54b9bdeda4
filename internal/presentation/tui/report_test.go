package tui

import (
	"bytes"
	"testing"
	"time"

	"github.com/aretw0/easybake/pkg/domain"
	"github.com/aretw0/easybake/pkg/runner"
	"github.com/stretchr/testify/assert"
)

func TestReportMarkdown(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rep := &runner.Report{
		RunID:    "run-1",
		Status:   runner.StatusFailed,
		Decision: "bake",
		Started:  start,
		Finished: start.Add(1500 * time.Millisecond),
		Order:    []domain.TaskID{"get_ingredients", "bake_cake"},
		Tasks: map[domain.TaskID]*runner.TaskReport{
			"get_ingredients": {State: runner.StateSuccess, Attempts: 1},
			"bake_cake":       {State: runner.StateFailed, Attempts: 2, Error: "a | b"},
		},
	}
	stock := map[domain.ResourceClass]domain.Ledger{
		domain.Ingredients: {"flour": 2, "eggs": 1},
		domain.Cookware:    {},
	}

	want := "# Run run-1\n\n" +
		"- **Status:** failed\n" +
		"- **Decision:** bake\n" +
		"- **Duration:** 1.5s\n\n" +
		"## Tasks\n\n" +
		"| Task | State | Attempts | Error |\n" +
		"|---|---|---|---|\n" +
		"| get_ingredients | success | 1 |  |\n" +
		"| bake_cake | failed | 2 | a \\| b |\n" +
		"\n## Pantry\n\n" +
		"| Item | Quantity |\n" +
		"|---|---|\n" +
		"| eggs | 1 |\n" +
		"| flour | 2 |\n" +
		"\n## Cabinets\n\n" +
		"_empty_\n"

	assert.Equal(t, want, ReportMarkdown(rep, stock))
}

func TestWrite_NotATerminal(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, Write(&buf, "# Title\n"))
	assert.Equal(t, "# Title\n", buf.String())
	assert.False(t, IsTerminal(&buf))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|___/")
}
