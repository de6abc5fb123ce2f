package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"awesometts/internal/cli/scheme/colours"
	"awesometts/internal/config"
	"awesometts/internal/installer"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func main() {
	if err := config.Load(); err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())

	// Cancel instead of exiting so the configuration backup is restored
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go watchInterrupt(sigChan, cancel, signal.Stop)

	var opts installer.Options

	rootCmd := &cobra.Command{
		Use:   "awesometts-installer",
		Short: "Install the AwesomeTTS add-on into an addons directory",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts = config.Installer()
			if source, _ := cmd.Flags().GetString("source"); source != "" {
				opts.Source = source
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringP("source", "s", "", "Directory holding the add-on files (default from config)")

	// Install command
	installCmd := &cobra.Command{
		Use:   "install <addons-directory>",
		Short: "Install or upgrade the add-on",
		Long: `Copy the add-on into the given addons directory, replacing any previous
installation. An existing configuration file is kept as it was.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := installer.New(afero.NewOsFs(), opts).Install(cmd.Context(), firstArg(args))
			if err != nil {
				return err
			}

			colours.Success.Printf("✅ Installed %s\n", result)
			if result.ConfigPreserved {
				colours.Info.Print("💾 Kept configuration ")
				colours.Path.Println(opts.ConfigFile)
			}
			return nil
		},
	}

	// Uninstall command
	uninstallCmd := &cobra.Command{
		Use:   "uninstall <addons-directory>",
		Short: "Remove the add-on",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			purge, _ := cmd.Flags().GetBool("purge")

			result, err := installer.New(afero.NewOsFs(), opts).Uninstall(cmd.Context(), firstArg(args), purge)
			if err != nil {
				return err
			}

			colours.Success.Printf("✅ Removed %d entries from ", len(result.Removed))
			colours.Path.Println(result.Target)
			if result.ConfigPreserved {
				colours.Info.Println("💾 Configuration left in place, use --purge to delete it")
			}
			return nil
		},
	}
	uninstallCmd.Flags().Bool("purge", false, "Also delete the configuration file")

	rootCmd.AddCommand(installCmd, uninstallCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		colours.Fail("%v", err)
		os.Exit(1)
	}
}

// watchInterrupt cancels on the first signal, then hands signals back to
// the runtime so a second one terminates the process.
func watchInterrupt(sigChan chan os.Signal, cancel context.CancelFunc, release func(chan<- os.Signal)) {
	<-sigChan
	colours.Warning.Fprintln(colours.Stderr, "⚠️  Interrupted, restoring configuration...")
	cancel()
	release(sigChan)
}

// firstArg lets the installer report a missing target itself.
func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
