package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tidepool-org/careprofiles/profiles"
	"github.com/tidepool-org/careprofiles/profiles/report"
)

var exportParams = struct {
	OwnerId string
	Output  string
}{}

var exportCmd = &cobra.Command{
	Use:   "export {ownerId}",
	Args:  cobra.ExactArgs(1),
	Short: "Export the profiles of a caregiver to a spreadsheet",
	Long:  "The export command writes the saved profiles and medicines of a caregiver to an xlsx file",
	RunE: func(cmd *cobra.Command, args []string) error {
		exportParams.OwnerId = args[0]
		return Run(exportProfiles)
	},
}

func exportProfiles(service profiles.Service) error {
	list, err := service.ListByOwner(context.Background(), exportParams.OwnerId)
	if err != nil {
		return err
	}

	file, err := report.NewReport(exportParams.OwnerId, list).Generate()
	if err != nil {
		return err
	}
	if err := file.Save(exportParams.Output); err != nil {
		return fmt.Errorf("unable to save report: %w", err)
	}

	fmt.Printf("Exported %v profiles to %s\n", len(list), exportParams.Output)
	return nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportParams.Output, "output", "o", "profiles.xlsx", "Output file")
	rootCmd.AddCommand(exportCmd)
}
