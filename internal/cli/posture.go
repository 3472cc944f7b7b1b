package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jasonachkar/secure-api-gateway-sub000/internal/models"
	"github.com/jasonachkar/secure-api-gateway-sub000/pkg/output"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Incident statistics",
	Long:  "Show aggregate incident counts, timings, and daily trends",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := apiClient(cmd).GetStatistics()
		if err != nil {
			return fmt.Errorf("failed to get statistics: %w", err)
		}

		outputFormat, _ := cmd.Flags().GetString("output")
		if outputFormat == "json" {
			return output.JSON(stats)
		}

		output.Info("Total Incidents: %d", stats.TotalIncidents)
		output.Info("Open: %d", stats.OpenIncidents)
		output.Info("Resolved: %d", stats.ResolvedIncidents)
		output.Info("Avg Response Time: %.0fms", stats.AverageResponseTime)
		output.Info("Avg Resolution Time: %.0fms", stats.AverageResolutionTime)

		printBreakdown("By Severity", stats.BySeverity)
		printBreakdown("By Type", stats.ByType)
		printBreakdown("By Status", stats.ByStatus)

		if len(stats.RecentTrends) > 0 {
			output.Info("\nRecent Trends:")
			table := output.NewTable([]string{"Date", "Opened", "Resolved"})
			for _, trend := range stats.RecentTrends {
				table.AddRow([]string{
					trend.Date,
					strconv.Itoa(trend.Opened),
					strconv.Itoa(trend.Resolved),
				})
			}
			table.Render()
		}
		return nil
	},
}

var postureCmd = &cobra.Command{
	Use:   "posture",
	Short: "Security posture",
	Long:  "Show the current weighted security posture score and factors",
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshot, err := apiClient(cmd).GetPosture()
		if err != nil {
			return fmt.Errorf("failed to get posture: %w", err)
		}

		outputFormat, _ := cmd.Flags().GetString("output")
		if outputFormat == "json" {
			return output.JSON(snapshot)
		}

		output.Info("Overall Score: %d (grade %s)", snapshot.OverallScore, snapshot.Grade)
		output.Info("Computed: %s", snapshot.LastUpdated.Format("2006-01-02 15:04:05"))

		table := output.NewTable([]string{"Factor", "Score", "Status"})
		addFactor := func(name string, f models.PostureFactor) {
			table.AddRow([]string{name, strconv.Itoa(f.Score), string(f.Status)})
		}
		addFactor("Authentication", snapshot.Factors.Authentication)
		addFactor("Threat Intelligence", snapshot.Factors.ThreatIntelligence)
		addFactor("Rate Limiting", snapshot.Factors.RateLimiting)
		addFactor("Audit Logging", snapshot.Factors.AuditLogging)
		addFactor("Incident Response", snapshot.Factors.IncidentResponse)
		table.Render()

		if len(snapshot.Recommendations) > 0 {
			output.Info("\nRecommendations:")
			for _, rec := range snapshot.Recommendations {
				output.Warn("%s", rec)
			}
		}
		return nil
	},
}

var complianceCmd = &cobra.Command{
	Use:   "compliance",
	Short: "Compliance framework coverage",
	Long:  "Show NIST 800-53, OWASP API Top 10, PCI DSS, and GDPR coverage",
	RunE: func(cmd *cobra.Command, args []string) error {
		compliance, err := apiClient(cmd).GetComplianceMetrics()
		if err != nil {
			return fmt.Errorf("failed to get compliance metrics: %w", err)
		}

		outputFormat, _ := cmd.Flags().GetString("output")
		if outputFormat == "json" {
			return output.JSON(compliance)
		}

		output.Info("NIST 800-53: %d", compliance.NIST.Score)
		printControls(compliance.NIST.Controls)
		output.Info("\nOWASP API Top 10: %d", compliance.OWASP.Score)
		printControls(compliance.OWASP.Risks)
		output.Info("\nPCI DSS: %d", compliance.PCI.Score)
		printControls(compliance.PCI.Requirements)
		output.Info("\nGDPR: %d", compliance.GDPR.Score)
		printControls(compliance.GDPR.Principles)
		return nil
	},
}

func printControls(controls []models.ComplianceControl) {
	table := output.NewTable([]string{"ID", "Name", "Status"})
	for _, ctrl := range controls {
		table.AddRow([]string{ctrl.ID, ctrl.Name, ctrl.Status})
	}
	table.Render()
}

func printBreakdown[K ~string](title string, counts map[K]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	output.Info("\n%s:", title)
	for _, k := range keys {
		output.Info("  %s: %d", k, counts[K(k)])
	}
}

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(postureCmd)
	rootCmd.AddCommand(complianceCmd)
}
