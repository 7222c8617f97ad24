package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"lgremote/cmd/cli"
	"lgremote/internal"
	"lgremote/internal/lgtv"
)

var (
	remoteConfigPath string
	remoteDeviceID   string
)

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Interactive terminal remote for an LG TV",
	Long: `Opens a terminal UI that pairs with a TV and turns the keyboard into its
remote control. Host and pairing key are pre-filled from the tv flags or
LGREMOTE_HOST and LGREMOTE_PAIRING_KEY.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// The form validates the host itself, so an empty one is fine here
		config := lgtv.Config{
			Hostname:        viper.GetString("host"),
			Port:            viper.GetInt("port"),
			PairingKey:      viper.GetString("pairing-key"),
			LocalPort:       viper.GetInt("local-port"),
			Timeout:         viper.GetDuration("timeout"),
			StrictResponses: viper.GetBool("strict"),
		}
		options := internal.NewModeOptions(
			internal.WithDebug(verbose),
			internal.WithTest(viper.GetBool("test")),
		)
		return cli.StartTUI(config, options, remoteConfigPath, remoteDeviceID)
	},
}

func init() {
	// Same flag objects as the tv command, so the viper bindings apply
	remoteCmd.Flags().AddFlagSet(tvCmd.PersistentFlags())
	remoteCmd.Flags().StringVarP(&remoteConfigPath, "config", "c", "", "hub configuration to save the paired TV to (ctrl+s)")
	remoteCmd.Flags().StringVar(&remoteDeviceID, "device-id", "living_room_tv", "device ID used when saving")
	rootCmd.AddCommand(remoteCmd)
}
