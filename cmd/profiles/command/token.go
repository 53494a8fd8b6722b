package command

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tidepool-org/careprofiles/auth"
)

var tokenParams = struct {
	SubjectId    string
	ServerAccess bool
	TTL          time.Duration
}{}

var tokenCmd = &cobra.Command{
	Use:   "token {subjectId}",
	Args:  cobra.ExactArgs(1),
	Short: "Issue a session token",
	Long:  "The token command signs a session token with the configured secret, e.g. for local testing",
	RunE: func(cmd *cobra.Command, args []string) error {
		tokenParams.SubjectId = args[0]
		return Run(issueToken)
	},
}

func issueToken(cfg *auth.Config) error {
	token, err := auth.SignToken([]byte(cfg.TokenSecret), cfg.TokenIssuer, auth.Identity{
		SubjectId:    tokenParams.SubjectId,
		ServerAccess: tokenParams.ServerAccess,
	}, tokenParams.TTL)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}

func init() {
	tokenCmd.Flags().BoolVar(&tokenParams.ServerAccess, "server", false, "Issue a token for a service")
	tokenCmd.Flags().DurationVar(&tokenParams.TTL, "ttl", time.Hour, "Token lifetime")
	rootCmd.AddCommand(tokenCmd)
}
