package cli

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/cobra"

	"github.com/jasonachkar/secure-api-gateway-sub000/internal/models"
	"github.com/jasonachkar/secure-api-gateway-sub000/pkg/output"
)

var seedTypes = []models.IncidentType{
	models.TypeBruteForce,
	models.TypeCredentialStuffing,
	models.TypeRateLimitAbuse,
	models.TypeAccountLockout,
	models.TypeSuspiciousActivity,
	models.TypeUnauthorizedAccess,
	models.TypeOther,
}

var seedSeverities = []models.Severity{
	models.SeverityLow,
	models.SeverityMedium,
	models.SeverityHigh,
	models.SeverityCritical,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed fake incidents",
	Long:  "Generate realistic fake incidents for development and demos",
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		seed, _ := cmd.Flags().GetInt64("seed")

		faker := gofakeit.New(seed)
		api := apiClient(cmd)

		created := 0
		for i := 0; i < count; i++ {
			incType := seedTypes[faker.IntRange(0, len(seedTypes)-1)]
			req := &models.CreateIncidentRequest{
				Title:       fmt.Sprintf("%s targeting %s", incType, faker.DomainName()),
				Description: faker.Sentence(12),
				Type:        incType,
				Severity:    seedSeverities[faker.IntRange(0, len(seedSeverities)-1)],
				AffectedIPs: []string{faker.IPv4Address()},
				AffectedUsers: []string{
					faker.Username(),
				},
				Tags: []string{"seeded"},
			}

			if _, err := api.CreateIncident(req); err != nil {
				output.Error("failed to create incident %d: %v", i+1, err)
				continue
			}
			created++
		}

		output.Success("Created %d of %d incidents", created, count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().IntP("count", "n", 20, "Number of incidents to create")
	seedCmd.Flags().Int64("seed", 0, "Random seed (0 for non-deterministic)")
}
