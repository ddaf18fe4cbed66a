package cmd

import (
	"github.com/asaanloyalty/go-asaanauth/pkg/signin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh/terminal"
	"os"
)

var (
	forceLogin bool
	pasteToken bool
)

func init() {
	loginCmd.Flags().BoolVar(&forceLogin, "force-login", false,
		"Authorize again, even if the stored token is valid")
	loginCmd.Flags().BoolVar(&pasteToken, "token", false,
		"Enter an access token instead of authorizing in the browser")

	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:       "login google|facebook",
	Short:     "Sign in and show the profile of the signed in user",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{signin.GoogleProviderName, signin.FacebookProviderName},
	RunE: func(cmd *cobra.Command, args []string) error {
		var authorizer signin.Authorizer = &signin.BrowserAuthorizer{Timeout: settings.AuthorizeTimeout}

		if pasteToken {
			log.Info("Enter access token:")
			token, err := terminal.ReadPassword(int(os.Stdin.Fd()))
			if err != nil {
				return err
			}
			authorizer = &signin.StaticAuthorizer{AccessToken: string(token)}
			// A pasted token replaces the stored one
			forceLogin = true
		}

		p, err := createSession(authorizer).Login(cmd.Context(), args[0], forceLogin)
		if err != nil {
			return err
		}
		return printYAML(p.Summary())
	},
}

func createSession(authorizer signin.Authorizer) *signin.Session {
	return signin.CreateSession(authorizer,
		signin.CreateGoogleProvider(settings.Google),
		signin.CreateFacebookProvider(settings.Facebook),
	)
}
