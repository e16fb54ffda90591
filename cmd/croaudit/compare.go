package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/liftlens/croaudit/internal/compile"
	"github.com/liftlens/croaudit/internal/config"
	"github.com/liftlens/croaudit/internal/database"
	"github.com/liftlens/croaudit/internal/model"
)

// Constants for score direction and summary messages.
const (
	scoreDirectionImproved  = "improved"
	scoreDirectionWorsened  = "worsened"
	scoreDirectionUnchanged = "unchanged"
	noFindingsMessage       = "No findings"
)

// NewCompareCmd creates the compare command.
// This command compares audit results with historical data stored in the
// database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [site-url]",
		Short: "Compare audit results with historical data",
		Long: `Compare displays differences between the current and previous audits of a site.

This command retrieves historical audit data from the database and shows:
- New findings that appeared since the last audit
- Resolved findings that are no longer present
- Page score and overall score changes

The comparison requires at least two saved audits for the specified site.
Use 'croaudit compile' to compile audit records and save results.

Examples:
  # Compare the latest two audits of a site
  croaudit compare https://shop.example.com

  # List all audit history for a site
  croaudit compare --list https://shop.example.com

  # Compare with a specific historical audit by ID
  croaudit compare --with-audit-id 5 https://shop.example.com

  # Compare with the first audit since a date
  croaudit compare --since 2026-01-01 https://shop.example.com

  # Output comparison in JSON format
  croaudit compare --json https://shop.example.com

  # List all audited sites in the database
  croaudit compare --list-sites`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List audit history for the specified site")
	cmd.Flags().BoolP("list-sites", "L", false,
		"List all audited sites in the database")

	// Comparison target flags
	cmd.Flags().Int64P("with-audit-id", "i", 0,
		"Compare with a specific audit by ID (use --list to see available IDs)")
	cmd.Flags().StringP("since", "s", "",
		"Compare with the first audit after this date (format: YYYY-MM-DD)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	listSites, err := cmd.Flags().GetBool("list-sites")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database so a usage error
	// never contends for the database lock.
	var siteURL string
	if !listSites {
		if len(args) == 0 {
			return errors.New("site URL is required (use --list-sites to see available sites)")
		}
		siteURL = strings.TrimSpace(args[0])
	}

	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if listSites {
		return listAuditedSites(ctx, db)
	}

	listHistory, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listHistory {
		return listAuditHistory(ctx, db, siteURL)
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	withAuditID, err := cmd.Flags().GetInt64("with-audit-id")
	if err != nil {
		return err
	}
	sinceDate, err := cmd.Flags().GetString("since")
	if err != nil {
		return err
	}

	return runComparison(ctx, db, siteURL, withAuditID, sinceDate, jsonOutput, markdownOutput)
}

// listAuditedSites lists all sites that have audit records in the database.
func listAuditedSites(ctx context.Context, db *database.AuditDB) error {
	sites, err := db.ListSites(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sites: %w", err)
	}

	if len(sites) == 0 {
		fmt.Println("No audited sites found in the database.")
		fmt.Println("\nUse 'croaudit compile <record.json>' to compile and save an audit.")
		return nil
	}

	fmt.Printf("Audited sites (%d):\n\n", len(sites))
	for _, site := range sites {
		fmt.Printf("  • %s\n", site)
	}
	fmt.Println("\nUse 'croaudit compare --list <site-url>' to see audit history for a site.")

	return nil
}

// listAuditHistory lists all audit records for a specific site.
func listAuditHistory(ctx context.Context, db *database.AuditDB, siteURL string) error {
	history, err := db.GetAuditHistory(ctx, siteURL)
	if err != nil {
		return fmt.Errorf("failed to get audit history: %w", err)
	}

	if len(history) == 0 {
		fmt.Printf("No audit history found for %s\n", siteURL)
		fmt.Println("\nUse 'croaudit compile' to compile an audit of this site.")
		return nil
	}

	fmt.Printf("Audit history for %s (%d audits):\n\n", siteURL, len(history))
	fmt.Printf("  %-6s  %-20s  %-8s  %s\n", "ID", "Saved", "Score", "Priority Summary")
	fmt.Println("  " + strings.Repeat("-", 64))

	for _, meta := range history {
		score := "N/A"
		if meta.OverallDefined {
			score = fmt.Sprintf("%.1f", meta.OverallScore)
		}
		fmt.Printf("  %-6d  %-20s  %-8s  %s\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			score,
			formatPrioritySummary(meta.PrioritySummary),
		)
	}

	fmt.Println("\nUse 'croaudit compare <site-url>' to compare the latest two audits.")
	fmt.Println("Use 'croaudit compare --with-audit-id <id> <site-url>' to compare with a specific audit.")

	return nil
}

// formatPrioritySummary formats the priority count map for display.
func formatPrioritySummary(summary map[string]int) string {
	if summary == nil {
		return "N/A"
	}

	var parts []string
	for _, p := range model.AllPriorities {
		if v := summary[p.String()]; v > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", p.String(), v))
		}
	}

	if len(parts) == 0 {
		return noFindingsMessage
	}
	return strings.Join(parts, " ")
}

// runComparison performs the actual comparison between audit records.
func runComparison(ctx context.Context, db *database.AuditDB, siteURL string, withAuditID int64, sinceDate string, jsonOutput, markdownOutput bool) error {
	current, err := db.GetLatestAudit(ctx, siteURL)
	if err != nil {
		return fmt.Errorf("failed to get latest audit: %w", err)
	}
	if current == nil {
		return fmt.Errorf("no audit history found for %s", siteURL)
	}

	var previous *model.AuditReport

	switch {
	case withAuditID > 0:
		previous, err = db.GetAuditByID(ctx, withAuditID)
		if err != nil {
			return fmt.Errorf("failed to get audit with ID %d: %w", withAuditID, err)
		}
		if previous == nil {
			return fmt.Errorf("audit with ID %d not found", withAuditID)
		}
		if previous.SiteURL != siteURL {
			return fmt.Errorf("audit ID %d belongs to %s, not %s", withAuditID, previous.SiteURL, siteURL)
		}

	case sinceDate != "":
		parsed, err := time.Parse("2006-01-02", sinceDate)
		if err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}

		history, err := db.GetAuditHistory(ctx, siteURL)
		if err != nil {
			return fmt.Errorf("failed to get audit history: %w", err)
		}

		// History is newest first; walk backwards to find the oldest
		// audit at or after the date.
		var baselineID int64
		for i := len(history) - 1; i >= 0; i-- {
			if !history[i].Timestamp.Before(parsed) {
				baselineID = history[i].ID
				break
			}
		}
		if baselineID == 0 {
			return fmt.Errorf("no audits found since %s", sinceDate)
		}
		if baselineID == history[0].ID {
			return fmt.Errorf("only one audit found since %s; at least 2 audits are required for comparison", sinceDate)
		}

		previous, err = db.GetAuditByID(ctx, baselineID)
		if err != nil || previous == nil {
			return fmt.Errorf("failed to get audit with ID %d: %w", baselineID, err)
		}

	default:
		previous, err = db.GetPreviousAudit(ctx, siteURL)
		if err != nil {
			return fmt.Errorf("failed to get previous audit: %w", err)
		}
		if previous == nil {
			return fmt.Errorf("at least 2 audits are required for comparison (found 1)")
		}
	}

	comparison := compareAudits(previous, current)

	if jsonOutput {
		return outputComparisonJSON(comparison)
	}
	if markdownOutput {
		return outputComparisonMarkdown(comparison)
	}
	return outputComparisonText(comparison)
}

// ComparisonResult holds the result of comparing two audit records.
type ComparisonResult struct {
	// SiteURL is the audited storefront address.
	SiteURL string `json:"site_url"`

	// PreviousAudit contains summary numbers for the baseline audit.
	PreviousAudit AuditSummary `json:"previous_audit"`

	// CurrentAudit contains summary numbers for the latest audit.
	CurrentAudit AuditSummary `json:"current_audit"`

	// NewFindings are findings present now but not in the baseline.
	NewFindings []compile.PlacedFinding `json:"new_findings,omitempty"`

	// ResolvedFindings are baseline findings no longer present.
	ResolvedFindings []compile.PlacedFinding `json:"resolved_findings,omitempty"`

	// UnchangedCount is the number of findings present in both audits.
	UnchangedCount int `json:"unchanged_count"`

	// PageChanges holds per-page score movement in discovery order.
	PageChanges []PageScoreChange `json:"page_changes,omitempty"`

	// ScoreChange describes the overall score movement.
	ScoreChange ScoreChange `json:"score_change"`
}

// AuditSummary contains summary numbers about one audit for comparison
// display.
type AuditSummary struct {
	// AuditDate is the recorded audit date, empty when unknown.
	AuditDate string `json:"audit_date,omitempty"`

	// OverallScore is the site score. Only meaningful when OverallDefined.
	OverallScore float64 `json:"overall_score"`

	// OverallDefined is false when the audit had no findings.
	OverallDefined bool `json:"overall_defined"`

	// TotalFindings is the number of findings across all pages.
	TotalFindings int `json:"total_findings"`

	// PriorityCounts maps tier names to finding counts.
	PriorityCounts map[string]int `json:"priority_counts"`
}

// PageScoreChange describes how one page's score moved between audits.
type PageScoreChange struct {
	// PageType identifies the page.
	PageType model.PageType `json:"page_type"`

	// Previous is the baseline page score. Only meaningful when
	// PreviousDefined.
	Previous float64 `json:"previous"`

	// PreviousDefined is false when the page had no findings or did not
	// appear in the baseline audit.
	PreviousDefined bool `json:"previous_defined"`

	// Current is the latest page score. Only meaningful when
	// CurrentDefined.
	Current float64 `json:"current"`

	// CurrentDefined is false when the page has no findings or no longer
	// appears.
	CurrentDefined bool `json:"current_defined"`
}

// Delta returns the score movement. Zero unless both scores are defined.
func (pc *PageScoreChange) Delta() float64 {
	if !pc.PreviousDefined || !pc.CurrentDefined {
		return 0
	}
	return pc.Current - pc.Previous
}

// ScoreChange describes the overall score movement between audits.
type ScoreChange struct {
	// Direction is "improved", "worsened", or "unchanged".
	// Higher scores are better, so an increased score is an improvement.
	Direction string `json:"direction"`

	// Delta is the overall score movement. Zero unless both audits have
	// a defined overall score.
	Delta float64 `json:"delta"`
}

// compareAudits compares two audit records and generates a comparison
// result.
func compareAudits(previous, current *model.AuditReport) *ComparisonResult {
	result := &ComparisonResult{
		SiteURL:       current.SiteURL,
		PreviousAudit: buildAuditSummary(previous),
		CurrentAudit:  buildAuditSummary(current),
	}

	previousFindings := placedFindingMap(previous)
	currentFindings := placedFindingMap(current)

	// New findings appear in the current audit only. Walk pages in
	// discovery order so output ordering is stable.
	for _, pf := range placedFindings(current) {
		if _, exists := previousFindings[placedKey(pf)]; !exists {
			result.NewFindings = append(result.NewFindings, pf)
		}
	}

	for _, pf := range placedFindings(previous) {
		if _, exists := currentFindings[placedKey(pf)]; !exists {
			result.ResolvedFindings = append(result.ResolvedFindings, pf)
		} else {
			result.UnchangedCount++
		}
	}

	result.PageChanges = comparePageScores(previous, current)
	result.ScoreChange = calculateScoreChange(result.PreviousAudit, result.CurrentAudit)

	return result
}

// buildAuditSummary extracts the comparison summary from one audit record.
func buildAuditSummary(r *model.AuditReport) AuditSummary {
	summary := AuditSummary{
		TotalFindings:  r.TotalFindings(),
		PriorityCounts: make(map[string]int),
	}
	if !r.AuditDate.IsZero() {
		summary.AuditDate = r.AuditDate.Format("2006-01-02")
	}
	summary.OverallScore, summary.OverallDefined = r.OverallScore()

	for i := range r.Pages {
		for _, f := range r.Pages[i].Findings {
			summary.PriorityCounts[f.Priority.String()]++
		}
	}
	return summary
}

// placedFindings flattens a record's findings with their page context.
func placedFindings(r *model.AuditReport) []compile.PlacedFinding {
	var placed []compile.PlacedFinding
	for i := range r.Pages {
		page := &r.Pages[i]
		for _, f := range page.Findings {
			placed = append(placed, compile.PlacedFinding{Finding: f, PageType: page.PageType})
		}
	}
	return placed
}

// placedFindingMap indexes a record's findings by their comparison key.
func placedFindingMap(r *model.AuditReport) map[string]compile.PlacedFinding {
	m := make(map[string]compile.PlacedFinding)
	for _, pf := range placedFindings(r) {
		m[placedKey(pf)] = pf
	}
	return m
}

// placedKey generates the comparison key for a finding. A finding is the
// same finding across audits when it concerns the same criterion on the
// same page.
func placedKey(pf compile.PlacedFinding) string {
	return pf.PageType.String() + "|" + pf.Finding.CriterionID
}

// comparePageScores computes per-page score movement across the union of
// page types, in discovery order.
func comparePageScores(previous, current *model.AuditReport) []PageScoreChange {
	type pageScore struct {
		score   float64
		defined bool
		present bool
	}

	scores := func(r *model.AuditReport) map[model.PageType]pageScore {
		m := make(map[model.PageType]pageScore)
		for i := range r.Pages {
			page := &r.Pages[i]
			s, ok := page.Score()
			m[page.PageType] = pageScore{score: s, defined: ok, present: true}
		}
		return m
	}

	prev := scores(previous)
	curr := scores(current)

	var changes []PageScoreChange
	for _, pt := range model.AllPageTypes {
		p, pOK := prev[pt]
		c, cOK := curr[pt]
		if !pOK && !cOK {
			continue
		}
		changes = append(changes, PageScoreChange{
			PageType:        pt,
			Previous:        p.score,
			PreviousDefined: p.present && p.defined,
			Current:         c.score,
			CurrentDefined:  c.present && c.defined,
		})
	}
	return changes
}

// calculateScoreChange determines the overall direction of movement.
// When either audit lacks an overall score, the urgent finding counts
// decide: fewer P0/P1 findings is an improvement.
func calculateScoreChange(previous, current AuditSummary) ScoreChange {
	var change ScoreChange

	if previous.OverallDefined && current.OverallDefined {
		change.Delta = current.OverallScore - previous.OverallScore
		switch {
		case change.Delta > 0:
			change.Direction = scoreDirectionImproved
		case change.Delta < 0:
			change.Direction = scoreDirectionWorsened
		default:
			change.Direction = scoreDirectionUnchanged
		}
		return change
	}

	previousUrgent := previous.PriorityCounts["P0"]*2 + previous.PriorityCounts["P1"]
	currentUrgent := current.PriorityCounts["P0"]*2 + current.PriorityCounts["P1"]
	switch {
	case currentUrgent < previousUrgent:
		change.Direction = scoreDirectionImproved
	case currentUrgent > previousUrgent:
		change.Direction = scoreDirectionWorsened
	default:
		change.Direction = scoreDirectionUnchanged
	}
	return change
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(result *ComparisonResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(result *ComparisonResult) error {
	fmt.Printf("# Audit Comparison: %s\n\n", result.SiteURL)

	fmt.Println("## Summary")
	fmt.Printf("\n**Trend:** %s\n\n", formatScoreDirection(result.ScoreChange))

	fmt.Println("| Metric | Previous | Current | Change |")
	fmt.Println("|--------|----------|---------|--------|")
	fmt.Printf("| Audit date | %s | %s | - |\n",
		orNA(result.PreviousAudit.AuditDate), orNA(result.CurrentAudit.AuditDate))
	fmt.Printf("| Overall score | %s | %s | %s |\n",
		formatScore(result.PreviousAudit.OverallScore, result.PreviousAudit.OverallDefined),
		formatScore(result.CurrentAudit.OverallScore, result.CurrentAudit.OverallDefined),
		formatScoreDelta(result.ScoreChange.Delta))
	for _, p := range model.AllPriorities {
		name := p.String()
		fmt.Printf("| %s | %d | %d | %s |\n", name,
			result.PreviousAudit.PriorityCounts[name],
			result.CurrentAudit.PriorityCounts[name],
			formatDelta(result.CurrentAudit.PriorityCounts[name]-result.PreviousAudit.PriorityCounts[name]))
	}
	fmt.Printf("| **Total findings** | **%d** | **%d** | **%s** |\n",
		result.PreviousAudit.TotalFindings,
		result.CurrentAudit.TotalFindings,
		formatDelta(result.CurrentAudit.TotalFindings-result.PreviousAudit.TotalFindings))

	if len(result.PageChanges) > 0 {
		fmt.Println("\n## Page Scores")
		fmt.Println("\n| Page | Previous | Current | Change |")
		fmt.Println("|------|----------|---------|--------|")
		for _, pc := range result.PageChanges {
			fmt.Printf("| %s | %s | %s | %s |\n",
				pc.PageType.Label(),
				formatScore(pc.Previous, pc.PreviousDefined),
				formatScore(pc.Current, pc.CurrentDefined),
				formatScoreDelta(pc.Delta()))
		}
	}

	if len(result.NewFindings) > 0 {
		fmt.Printf("\n## New Findings (%d)\n\n", len(result.NewFindings))
		for _, pf := range result.NewFindings {
			fmt.Printf("- **[%s]** %s on %s: %s\n",
				pf.Finding.Priority.String(), pf.Finding.CriterionID,
				pf.PageType.Label(), pf.Finding.Issue)
		}
	}

	if len(result.ResolvedFindings) > 0 {
		fmt.Printf("\n## Resolved Findings (%d)\n\n", len(result.ResolvedFindings))
		for _, pf := range result.ResolvedFindings {
			fmt.Printf("- ~~**[%s]** %s on %s: %s~~\n",
				pf.Finding.Priority.String(), pf.Finding.CriterionID,
				pf.PageType.Label(), pf.Finding.Issue)
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Printf("\n---\n\n*%d findings unchanged*\n", result.UnchangedCount)
	}

	return nil
}

// outputComparisonText outputs the comparison result in human-readable
// text format.
func outputComparisonText(result *ComparisonResult) error {
	fmt.Printf("Audit Comparison: %s\n", result.SiteURL)
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\nTrend: %s\n", formatScoreDirection(result.ScoreChange))

	fmt.Printf("\nPrevious audit: %s\n", orNA(result.PreviousAudit.AuditDate))
	fmt.Printf("Current audit:  %s\n", orNA(result.CurrentAudit.AuditDate))

	fmt.Println("\nFindings Summary:")
	fmt.Printf("  %-10s  %-10s  %-10s  %-10s\n", "Metric", "Previous", "Current", "Change")
	fmt.Println("  " + strings.Repeat("-", 45))
	fmt.Printf("  %-10s  %-10s  %-10s  %-10s\n", "Overall",
		formatScore(result.PreviousAudit.OverallScore, result.PreviousAudit.OverallDefined),
		formatScore(result.CurrentAudit.OverallScore, result.CurrentAudit.OverallDefined),
		formatScoreDelta(result.ScoreChange.Delta))
	for _, p := range model.AllPriorities {
		name := p.String()
		fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", name,
			result.PreviousAudit.PriorityCounts[name],
			result.CurrentAudit.PriorityCounts[name],
			formatDelta(result.CurrentAudit.PriorityCounts[name]-result.PreviousAudit.PriorityCounts[name]))
	}
	fmt.Println("  " + strings.Repeat("-", 45))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Total",
		result.PreviousAudit.TotalFindings, result.CurrentAudit.TotalFindings,
		formatDelta(result.CurrentAudit.TotalFindings-result.PreviousAudit.TotalFindings))

	if len(result.PageChanges) > 0 {
		fmt.Println("\nPage Scores:")
		for _, pc := range result.PageChanges {
			fmt.Printf("  %-12s  %s -> %s  %s\n",
				pc.PageType.Label(),
				formatScore(pc.Previous, pc.PreviousDefined),
				formatScore(pc.Current, pc.CurrentDefined),
				formatScoreDelta(pc.Delta()))
		}
	}

	if len(result.NewFindings) > 0 {
		fmt.Printf("\nNew Findings (%d):\n", len(result.NewFindings))
		for _, pf := range result.NewFindings {
			fmt.Printf("  [+] [%s] %s on %s: %s\n",
				pf.Finding.Priority.String(), pf.Finding.CriterionID,
				pf.PageType.Label(), pf.Finding.Issue)
		}
	}

	if len(result.ResolvedFindings) > 0 {
		fmt.Printf("\nResolved Findings (%d):\n", len(result.ResolvedFindings))
		for _, pf := range result.ResolvedFindings {
			fmt.Printf("  [-] [%s] %s on %s: %s\n",
				pf.Finding.Priority.String(), pf.Finding.CriterionID,
				pf.PageType.Label(), pf.Finding.Issue)
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Printf("\nUnchanged: %d findings\n", result.UnchangedCount)
	}

	return nil
}

// formatScoreDirection formats the score change for display.
func formatScoreDirection(change ScoreChange) string {
	switch change.Direction {
	case scoreDirectionImproved:
		return "IMPROVED (score increased)"
	case scoreDirectionWorsened:
		return "WORSENED (score decreased)"
	default:
		return "UNCHANGED"
	}
}

// formatScore formats a possibly undefined score.
func formatScore(score float64, defined bool) string {
	if !defined {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", score)
}

// formatScoreDelta formats a score movement with sign.
func formatScoreDelta(delta float64) string {
	if delta > 0 {
		return fmt.Sprintf("+%.1f", delta)
	}
	if delta < 0 {
		return fmt.Sprintf("%.1f", delta)
	}
	return "0"
}

// formatDelta formats a count delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	if delta < 0 {
		return strconv.Itoa(delta)
	}
	return "0"
}

// orNA substitutes N/A for an empty value.
func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
