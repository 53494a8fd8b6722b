package command

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tidepool-org/careprofiles/auth"
	"github.com/tidepool-org/careprofiles/profiles"
	"github.com/tidepool-org/careprofiles/viewer"
)

var listParams = struct {
	OwnerId string
}{}

var listCmd = &cobra.Command{
	Use:   "list {ownerId}",
	Args:  cobra.ExactArgs(1),
	Short: "List the profiles of a caregiver",
	Long:  "The list command prints the saved profiles of a caregiver, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		listParams.OwnerId = args[0]
		return Run(listProfiles)
	},
}

func listProfiles(service profiles.Service, logger *zap.SugaredLogger) error {
	identity := &auth.Identity{SubjectId: listParams.OwnerId, ServerAccess: true}
	v := viewer.New(auth.NewSession(identity), service, logger)

	// The errored state is rendered, the error itself is only used for the exit code
	err := v.Activate(context.Background())
	if renderErr := viewer.Render(os.Stdout, v.View()); renderErr != nil {
		return renderErr
	}
	return err
}

func init() {
	rootCmd.AddCommand(listCmd)
}
