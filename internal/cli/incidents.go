package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jasonachkar/secure-api-gateway-sub000/internal/models"
	"github.com/jasonachkar/secure-api-gateway-sub000/pkg/output"
)

var incidentsCmd = &cobra.Command{
	Use:   "incidents",
	Short: "Incident management",
	Long:  "Create, inspect, and progress security incidents",
}

var incidentsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List incidents",
	Long:    "List incidents in descending creation order",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		severity, _ := cmd.Flags().GetString("severity")
		incType, _ := cmd.Flags().GetString("type")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		incidents, err := apiClient(cmd).ListIncidents(status, severity, incType, limit, offset)
		if err != nil {
			return fmt.Errorf("failed to list incidents: %w", err)
		}

		outputFormat, _ := cmd.Flags().GetString("output")
		if outputFormat == "json" {
			return output.JSON(incidents)
		}

		if len(incidents) == 0 {
			output.Info("No incidents found")
			return nil
		}

		table := output.NewTable([]string{"ID", "Title", "Type", "Severity", "Status", "Assigned", "Created"})
		for _, inc := range incidents {
			assigned := ""
			if inc.AssignedTo != nil {
				assigned = *inc.AssignedTo
			}
			table.AddRow([]string{
				inc.ID,
				inc.Title,
				string(inc.Type),
				string(inc.Severity),
				string(inc.Status),
				assigned,
				inc.CreatedAt.Format("2006-01-02 15:04"),
			})
		}
		table.Render()
		return nil
	},
}

var incidentsGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Get incident details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inc, err := apiClient(cmd).GetIncident(args[0])
		if err != nil {
			return fmt.Errorf("failed to get incident: %w", err)
		}

		outputFormat, _ := cmd.Flags().GetString("output")
		if outputFormat == "json" {
			return output.JSON(inc)
		}

		printIncident(inc)
		return nil
	},
}

var incidentsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new incident",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		description, _ := cmd.Flags().GetString("description")
		incType, _ := cmd.Flags().GetString("type")
		severity, _ := cmd.Flags().GetString("severity")
		tags, _ := cmd.Flags().GetStringSlice("tag")

		req := &models.CreateIncidentRequest{
			Title:       title,
			Description: description,
			Type:        models.IncidentType(incType),
			Severity:    models.Severity(severity),
			Tags:        tags,
		}

		inc, err := apiClient(cmd).CreateIncident(req)
		if err != nil {
			return fmt.Errorf("failed to create incident: %w", err)
		}

		output.Success("Incident created: %s", inc.Title)
		output.Info("ID: %s", inc.ID)
		output.Info("Status: %s", inc.Status)
		return nil
	},
}

var incidentsStatusCmd = &cobra.Command{
	Use:   "status [id] [status]",
	Short: "Transition an incident's status",
	Long:  "Set an incident's status (open, investigating, contained, resolved, closed)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		inc, err := apiClient(cmd).UpdateStatus(args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}

		output.Success("Incident %s is now %s", inc.ID, inc.Status)
		if inc.ResolutionTime != nil {
			output.Info("Resolution time: %dms", *inc.ResolutionTime)
		}
		return nil
	},
}

var incidentsAssignCmd = &cobra.Command{
	Use:   "assign [id] [assignee]",
	Short: "Assign an incident to a responder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		inc, err := apiClient(cmd).Assign(args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to assign incident: %w", err)
		}

		output.Success("Incident %s assigned to %s", inc.ID, args[1])
		if inc.ResponseTime != nil {
			output.Info("Response time: %dms", *inc.ResponseTime)
		}
		return nil
	},
}

var incidentsNoteCmd = &cobra.Command{
	Use:   "note [id] [content]",
	Short: "Add a note to an incident",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		inc, err := apiClient(cmd).AddNote(args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to add note: %w", err)
		}

		output.Success("Note added to incident %s (%d notes)", inc.ID, len(inc.Notes))
		return nil
	},
}

func printIncident(inc *models.Incident) {
	output.Info("Incident ID: %s", inc.ID)
	output.Info("Title: %s", inc.Title)
	output.Info("Type: %s", inc.Type)
	output.Info("Severity: %s", inc.Severity)
	output.Info("Status: %s", inc.Status)
	output.Info("Reported By: %s", inc.ReportedBy)
	output.Info("Created: %s", inc.CreatedAt.Format("2006-01-02 15:04:05"))
	output.Info("Updated: %s", inc.UpdatedAt.Format("2006-01-02 15:04:05"))

	if inc.Description != "" {
		output.Info("Description: %s", inc.Description)
	}
	if inc.AssignedTo != nil {
		output.Info("Assigned To: %s", *inc.AssignedTo)
	}
	if inc.ResponseTime != nil {
		output.Info("Response Time: %dms", *inc.ResponseTime)
	}
	if inc.ResolvedAt != nil {
		output.Info("Resolved: %s", inc.ResolvedAt.Format("2006-01-02 15:04:05"))
	}
	if inc.ResolutionTime != nil {
		output.Info("Resolution Time: %dms", *inc.ResolutionTime)
	}
	if len(inc.AffectedIPs) > 0 {
		output.Info("Affected IPs: %v", inc.AffectedIPs)
	}
	if len(inc.AffectedUsers) > 0 {
		output.Info("Affected Users: %v", inc.AffectedUsers)
	}
	if len(inc.Tags) > 0 {
		output.Info("Tags: %v", inc.Tags)
	}

	if len(inc.Notes) > 0 {
		output.Info("\nTimeline:")
		for _, note := range inc.Notes {
			output.Info("  [%s] %s: %s", note.Timestamp.Format("2006-01-02 15:04"), note.Author, note.Content)
		}
	}
}

func init() {
	rootCmd.AddCommand(incidentsCmd)
	incidentsCmd.AddCommand(incidentsListCmd)
	incidentsCmd.AddCommand(incidentsGetCmd)
	incidentsCmd.AddCommand(incidentsCreateCmd)
	incidentsCmd.AddCommand(incidentsStatusCmd)
	incidentsCmd.AddCommand(incidentsAssignCmd)
	incidentsCmd.AddCommand(incidentsNoteCmd)

	incidentsListCmd.Flags().String("status", "", "Filter by status")
	incidentsListCmd.Flags().StringP("severity", "s", "", "Filter by severity")
	incidentsListCmd.Flags().StringP("type", "t", "", "Filter by incident type")
	incidentsListCmd.Flags().IntP("limit", "l", 50, "Maximum results")
	incidentsListCmd.Flags().Int("offset", 0, "Results offset")

	incidentsCreateCmd.Flags().String("title", "", "Incident title")
	incidentsCreateCmd.Flags().StringP("description", "d", "", "Incident description")
	incidentsCreateCmd.Flags().StringP("type", "t", "other", "Incident type")
	incidentsCreateCmd.Flags().StringP("severity", "s", "medium", "Severity (low, medium, high, critical)")
	incidentsCreateCmd.Flags().StringSlice("tag", nil, "Tags (repeatable)")
	if err := incidentsCreateCmd.MarkFlagRequired("title"); err != nil {
		panic(fmt.Sprintf("failed to mark title as required: %v", err))
	}
}
