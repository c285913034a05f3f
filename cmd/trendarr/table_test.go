package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/amaumene/trendarr/internal/models"
)

func TestRenderSummary(t *testing.T) {
	summary := models.NewRunSummary("run-1", time.Now(), true)
	summary.Record(models.ItemReport{
		MediaType: models.MediaTypeMovie, Title: "Nope", Outcome: models.OutcomeWouldAdd,
		Tier: models.TierExactID, Score: 1, Candidate: "plex-9",
	})
	summary.Record(models.ItemReport{
		MediaType: models.MediaTypeShow, Title: "Old Show", Outcome: models.OutcomeIneligible, Reason: "released 2019-01-01",
	})
	summary.Record(models.ItemReport{
		MediaType: models.MediaTypeShow, Title: "Broken", Outcome: models.OutcomeLookupFailed, Step: "search", Error: "timeout",
	})

	out := renderSummary(summary, false)

	assert.Contains(t, out, "Run run-1 (dry run)")
	assert.Contains(t, out, "Nope")
	assert.Contains(t, out, "would_add")
	assert.Contains(t, out, "1.00")
	assert.Contains(t, out, "released 2019-01-01")
	assert.Contains(t, out, "search: timeout")
	assert.Contains(t, out, "Total")
	assert.NotContains(t, out, "TOTAL")
	assert.False(t, strings.Contains(out, "\x1b["), "expected no ANSI escapes")
}

func TestRenderSummary_Aborted(t *testing.T) {
	summary := models.NewRunSummary("run-2", time.Now(), false)
	summary.Error = "failed to list trending movies: unauthorized"

	out := renderSummary(summary, false)

	assert.Contains(t, out, "Run aborted: failed to list trending movies")
}

func TestShouldColorize_NonFile(t *testing.T) {
	assert.False(t, shouldColorize(&bytes.Buffer{}))
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	assert.NoError(t, cmd.Execute())
	assert.Equal(t, "trendarr dev\n", out.String())
}
