package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/profilecache/internal/application/dto"
	"github.com/reglet-dev/profilecache/internal/infrastructure/container"
)

// createOptions holds the flags of the create command.
type createOptions struct {
	CommonOptions
	LastLogin   string
	Interactive bool
}

func init() {
	rootCmd.AddCommand(newCreateCmd())
}

func newCreateCmd() *cobra.Command {
	opts := createOptions{CommonOptions: DefaultCommonOptions()}

	cmd := &cobra.Command{
		Use:   "create [username] [email]",
		Short: "Create a validated profile",
		Long: `Create a profile after validating the username, email and optional last
login. With --interactive, missing values are asked for on the terminal.`,
		Example: `  profilectl create johndoe john@example.com
  profilectl create johndoe john@example.com --last-login 2024-01-02T03:04:05Z --format json
  profilectl create -i`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.ValidateFlags(); err != nil {
				return err
			}
			c, err := newContainer(opts.CommonOptions)
			if err != nil {
				return err
			}
			return runCreate(cmd.OutOrStdout(), c, args, opts)
		},
	}

	opts.RegisterFlags(cmd)
	cmd.Flags().StringVar(&opts.LastLogin, "last-login", "", "Last login time (RFC3339)")
	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "Prompt for missing values")

	return cmd
}

// runCreate creates one profile and prints it.
func runCreate(w io.Writer, c *container.Container, args []string, opts createOptions) error {
	seed := dto.ProfileSeed{}
	if len(args) > 0 {
		seed.Username = args[0]
	}
	if len(args) > 1 {
		seed.Email = args[1]
	}
	if opts.LastLogin != "" {
		at, err := time.Parse(time.RFC3339, opts.LastLogin)
		if err != nil {
			return fmt.Errorf("--last-login must be RFC3339: %w", err)
		}
		seed.LastLogin = &at
	}

	var missing []string
	if seed.Username == "" {
		missing = append(missing, "username")
	}
	if seed.Email == "" {
		missing = append(missing, "email")
	}

	prompter := c.Prompter()
	if opts.Interactive {
		if !prompter.IsInteractive() {
			return prompter.NonInteractiveError(missing)
		}
		if err := prompter.PromptProfile(&seed); err != nil {
			return err
		}
	} else if len(missing) > 0 {
		return prompter.NonInteractiveError(missing)
	}

	manager := c.ProfileManager()
	profile, err := manager.CreateProfile(seed.Username, seed.Email, seed.LastLogin)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	// The returned instance is what the cache hands back while we hold it.
	cached, err := manager.FindProfile(profile.Username())
	if err != nil {
		return err
	}

	formatter, err := c.Formatters().Create(opts.Format, w)
	if err != nil {
		return err
	}
	return formatter.FormatProfiles([]dto.ProfileView{dto.NewProfileView(cached)})
}
