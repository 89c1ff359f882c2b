package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pipeboard/pipeboard/internal/cmd/config"
	appconfig "github.com/pipeboard/pipeboard/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "pipeboard",
	Short: "Terminal Kanban board for a sales pipeline",
	Long: `Pipeboard shows the deals of a sales pipeline as a Kanban board in the
terminal: one column per stage, live KPIs, optimistic drag-and-drop stage
moves and a notification badge.

Run 'pipeboard serve' for a local system of record with demo data, then
'pipeboard board' to open the board against it.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/pipeboard/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	config.Register(rootCmd)
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	appconfig.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(appconfig.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("PIPEBOARD")
	// PIPEBOARD_VIEWER_ROLE overrides viewer.role
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
