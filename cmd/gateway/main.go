package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"awesometts/internal/cli/scheme/colours"
	"awesometts/internal/config"
	"awesometts/internal/gateway"
	"awesometts/internal/speech"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := config.Load(); err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gw := gateway.New(
		func(ctx context.Context) (speech.Engine, error) {
			return speech.NewEngine(ctx, config.Speech())
		},
		gateway.WithVoiceListMarker(config.VoiceListMarker()),
		gateway.WithVerifyOutput(config.VerifyOutput()),
	)

	rootCmd := newRootCmd(gw)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		colours.Fail("%v", err)
		os.Exit(1)
	}
}

func newRootCmd(gw *gateway.Gateway) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "awesometts-gateway",
		Short: "Bridge between the AwesomeTTS add-on and the platform speech engine",
		Long: `awesometts-gateway is invoked by the add-on host to list the voices the
platform speech engine offers and to render phrases to WAV files.

Voices and phrases are passed as hex-encoded UTF-16 code units, four hex
digits per unit, so "0041" is "A".`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		// A bare invocation is a usage error, not a request for help
		RunE: func(cmd *cobra.Command, args []string) error {
			return gw.Run(cmd.Context(), args)
		},
	}

	// Voice list command
	voiceListCmd := &cobra.Command{
		Use:   gateway.CommandVoiceList,
		Short: "Print the installed voices",
		Long:  "Print a marker line followed by one installed voice name per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return gw.Execute(cmd.Context(), gateway.VoiceList{})
		},
	}

	// Speech output command. Flag parsing is off so negative rates stay positional.
	speechOutputCmd := &cobra.Command{
		Use:                "speech-output <file.wav> <rate> <volume> <hex-voice> <hex-phrase>",
		Short:              "Render one phrase to a WAV file",
		Long:               "Render a phrase to a WAV file. Rate runs from -10 to 10, volume from 1 to 100.",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := gateway.ParseSpeechOutput(args)
			if err != nil {
				return err
			}
			return gw.Execute(cmd.Context(), c)
		},
	}

	// Engines command
	enginesCmd := &cobra.Command{
		Use:   "engines",
		Short: "List speech engines usable on this host",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, e := range speech.AvailableEngines() {
				fmt.Fprintln(cmd.OutOrStdout(), e)
			}
		},
	}

	rootCmd.AddCommand(voiceListCmd, speechOutputCmd, enginesCmd)

	return rootCmd
}
