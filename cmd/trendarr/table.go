package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/amaumene/trendarr/internal/models"
)

// renderSummary prints the per-item table followed by the outcome counts
func renderSummary(summary *models.RunSummary, colorize bool) string {
	var b strings.Builder

	title := fmt.Sprintf("Run %s", summary.RunID)
	if summary.DryRun {
		title += " (dry run)"
	}
	b.WriteString(title)
	b.WriteString("\n")

	if len(summary.Items) > 0 {
		items := newTableWriter(colorize)
		items.AppendHeader(table.Row{"Type", "Title", "Outcome", "Tier", "Score", "Detail"})
		for _, item := range summary.Items {
			score := ""
			if item.Tier != "" && item.Tier != models.TierNone {
				score = fmt.Sprintf("%.2f", item.Score)
			}
			items.AppendRow(table.Row{
				item.MediaType,
				item.Title,
				outcomeCell(item.Outcome, colorize),
				item.Tier,
				score,
				itemDetail(item),
			})
		}
		items.SetColumnConfigs([]table.ColumnConfig{
			{Number: 5, Align: text.AlignRight},
			{Number: 6, WidthMax: 60},
		})
		b.WriteString(items.Render())
		b.WriteString("\n")
	}

	counts := newTableWriter(colorize)
	counts.AppendHeader(table.Row{"Type", "Added", "Skipped", "Unresolved", "Failed"})
	for _, mediaType := range []models.MediaType{models.MediaTypeMovie, models.MediaTypeShow} {
		byOutcome, ok := summary.Counts[mediaType]
		if !ok {
			continue
		}
		var added, skipped, failed int
		for outcome, n := range byOutcome {
			switch {
			case outcome == models.OutcomeAdded || outcome == models.OutcomeWouldAdd:
				added += n
			case outcome.IsSkip():
				skipped += n
			case outcome.IsFailure():
				failed += n
			}
		}
		counts.AppendRow(table.Row{mediaType, added, skipped, byOutcome[models.OutcomeUnresolved], failed})
	}
	counts.AppendFooter(table.Row{"Total", summary.Added(), summary.Skipped(), summary.Unresolved(), summary.Failed()})
	b.WriteString(counts.Render())

	if summary.Error != "" {
		b.WriteString("\nRun aborted: ")
		b.WriteString(summary.Error)
	}

	return b.String()
}

func newTableWriter(colorize bool) table.Writer {
	tw := table.NewWriter()
	if colorize {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleLight)
	}
	tw.Style().Format.Footer = text.FormatDefault
	return tw
}

func outcomeCell(outcome models.Outcome, colorize bool) string {
	if !colorize {
		return string(outcome)
	}
	switch {
	case outcome == models.OutcomeAdded || outcome == models.OutcomeWouldAdd:
		return text.FgGreen.Sprint(outcome)
	case outcome.IsFailure():
		return text.FgRed.Sprint(outcome)
	case outcome == models.OutcomeUnresolved:
		return text.FgYellow.Sprint(outcome)
	default:
		return text.FgHiBlack.Sprint(outcome)
	}
}

func itemDetail(item models.ItemReport) string {
	switch {
	case item.Error != "":
		return item.Step + ": " + item.Error
	case item.Reason != "":
		return item.Reason
	case item.Candidate != "":
		return "candidate " + item.Candidate
	default:
		return ""
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
