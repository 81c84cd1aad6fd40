package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pryce-dev/vantage/pkg/config"
	"github.com/pryce-dev/vantage/pkg/headless"
	"github.com/pryce-dev/vantage/pkg/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "vantage",
	Short: "Conversational analytics client",
	Long:  `Talk to your data: vantage streams questions to the analytics assistant and renders the answers, reports included, in your terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := viper.GetString("prompt")
		if prompt == "" {
			return cmd.Help()
		}
		return runPrompt(prompt)
	},
}

func runPrompt(prompt string) error {
	session, err := buildSession()
	if err != nil {
		return err
	}
	defer session.Close()

	timeout := viper.GetDuration("wait_timeout")
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return headless.RunHeadless(ctx, headless.Deps{
		Client: session.Client,
		Store:  session.Store,
	}, prompt)
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is .vantage/settings.yaml)")

	rootCmd.PersistentFlags().StringP("server", "s", "", "service base URL")
	viper.BindPFlag("server.url", rootCmd.PersistentFlags().Lookup("server"))

	rootCmd.PersistentFlags().StringP("token", "t", "", "bearer token")
	viper.BindPFlag("auth.token", rootCmd.PersistentFlags().Lookup("token"))

	rootCmd.PersistentFlags().StringP("log-level", "l", "", "log level")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.Flags().StringP("prompt", "p", "", "execute a single prompt and exit")
	viper.BindPFlag("prompt", rootCmd.Flags().Lookup("prompt"))

	rootCmd.Flags().Int64("conversation", 0, "continue an existing conversation by id")
	viper.BindPFlag("conversation", rootCmd.Flags().Lookup("conversation"))

	rootCmd.Flags().Duration("wait-timeout", 2*time.Minute, "how long to wait for a complete response")
	viper.BindPFlag("wait_timeout", rootCmd.Flags().Lookup("wait-timeout"))
}

func initConfig() {
	if _, err := config.Load(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
}
