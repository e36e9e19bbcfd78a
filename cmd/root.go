package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rancher/grafana2moira/cmd/grafana"
	"github.com/rancher/grafana2moira/cmd/groups"
	"github.com/rancher/grafana2moira/internal/logging"
	"github.com/rancher/grafana2moira/internal/util"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const cliName = "grafana2moira"

var (
	// Version represents the current version of the tool
	Version = "v0.0.0-dev"
	// GitCommit represents the latest commit when building this tool
	GitCommit = "HEAD"
	// Date represents the build timestamp
	Date = "now"
)

var (
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   cliName,
	Short: "Export Grafana dashboard alerts as Moira triggers",
	Long: `A CLI tool converting the legacy alert rules of a Grafana dashboard's panels
into Moira trigger sets (Graphite targets + expression).

The dashboard is read from the Grafana HTTP API, or from a Kubernetes ConfigMap
provisioned for the Grafana dashboard sidecar. Helper commands live under the
'grafana:' prefix.`,
	Version:       fmt.Sprintf("%s (%s) Built at %s", Version, GitCommit, Date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logging.Configure(cmd)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logging.Log.Error(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/."+cliName+".yaml)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "Set the logging level (debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringP("api", "a", "", "Grafana API url, example: https://grafana.site.com/grafana/api")
	rootCmd.PersistentFlags().StringP("token", "t", "", "Grafana API token, sent as a Bearer token")

	// Viper config
	viper.SetEnvPrefix("G2M")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
	err := viper.BindEnv("log-level", logging.EnvLogLevel)
	if err != nil {
		logging.Log.Error(err)
		return
	}

	for _, name := range []string{"log-level", "api", "token"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			logging.Log.Error(err)
			return
		}
	}

	// Init groups then load commands that depend on groups
	rootCmd.AddGroup(&groups.GrafanaGroup)
	grafana.RegisterGrafanaSubcommands(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		if !util.IsFile(cfgFile) {
			logging.Log.Warnf("Config file %s does not exist", cfgFile)
		}
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".grafana2moira" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName("." + cliName)
	}

	if err := viper.ReadInConfig(); err == nil {
		logging.Log.Debugf("Using config file: %s", viper.ConfigFileUsed())
	}
}
