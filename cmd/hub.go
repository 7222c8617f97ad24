package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"lgremote/internal"
	hubconfig "lgremote/internal/cli"
	"lgremote/internal/hub"
	"lgremote/internal/logger"
)

var (
	hubConfigPath   string
	hubDebugFlag    bool
	hubTestFlag     bool
	hubTokenSubject string
)

var hubCmd = &cobra.Command{
	Use:   "hub",
	Short: "Start the lgremote hub daemon",
	Long: `The hub manages the TVs listed in its configuration file. Each TV is paired
in the background when the hub starts, and an HTTP API exposes pairing status,
key presses and pairing key updates.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.SetSilentMode(false)
		if hubDebugFlag {
			logger.SetLevel(logger.LOG_DEBUG)
		} else {
			logger.SetLevel(logger.LOG_INFO)
		}

		log := logger.New()
		log.Info().
			Str("config_path", hubConfigPath).
			Bool("debug", hubDebugFlag).
			Bool("test", hubTestFlag).
			Msg("Starting lgremote hub")

		if _, err := os.Stat(hubConfigPath); os.IsNotExist(err) {
			if err := hub.SaveConfig(hub.NewDefaultConfig(), hubConfigPath); err != nil {
				log.Error().Err(err).Msg("Failed to create default config file")
				return fmt.Errorf("failed to create default config file: %w", err)
			}
			log.Info().
				Str("config_path", hubConfigPath).
				Msg("Created default configuration file. Please edit it with your settings.")
			return nil
		}

		options := internal.NewModeOptions(internal.WithDebug(hubDebugFlag), internal.WithTest(hubTestFlag))
		daemon, err := hub.NewDaemon(hubConfigPath, options)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create hub daemon")
			return fmt.Errorf("failed to create hub daemon: %w", err)
		}

		if err := daemon.Start(); err != nil {
			log.Error().Err(err).Msg("Hub daemon stopped with error")
			return fmt.Errorf("hub daemon error: %w", err)
		}
		return nil
	},
}

var hubConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage hub configuration",
	Long:  `Generate or validate hub configuration files.`,
}

var hubConfigGenerateCmd = &cobra.Command{
	Use:   "generate [config-file]",
	Short: "Generate default configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := hubConfigPath
		if len(args) > 0 {
			configPath = args[0]
		}

		if err := hub.SaveConfig(hub.NewDefaultConfig(), configPath); err != nil {
			return fmt.Errorf("failed to save default config: %w", err)
		}

		cmd.Printf("Default configuration saved to: %s\n", configPath)
		cmd.Println("Edit the TV hostnames, then start the hub and read the pairing key off the screen.")
		return nil
	},
}

var hubConfigValidateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := hubConfigPath
		if len(args) > 0 {
			configPath = args[0]
		}

		config, err := hub.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}

		cmd.Printf("Configuration file is valid: %s\n", configPath)
		cmd.Printf("API listen address: %s\n", config.API.Listen)
		cmd.Printf("Configured devices: %d\n", len(config.Devices))
		for _, device := range config.Devices {
			paired := "no pairing key"
			if device.PairingKey != "" {
				paired = "pairing key set"
			}
			lgtvConfig := device.LGTV()
			if err := lgtvConfig.Validate(); err != nil {
				paired = err.Error()
			}
			cmd.Printf("  - %s at %s (%s)\n", device.ID, device.Hostname, paired)
		}
		return nil
	},
}

var (
	deviceHostname   string
	devicePort       int
	devicePairingKey string
	deviceLocalPort  int
	deviceModel      string
)

var hubDeviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Manage the TVs in the hub configuration",
	Long: `List, add and remove TVs, or store a pairing key. A running hub picks the
changes up on SIGHUP.`,
}

var hubDeviceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured TVs",
	RunE: func(cmd *cobra.Command, args []string) error {
		devices, err := hubconfig.NewConfigManager(hubConfigPath).ListDevices()
		if err != nil {
			return err
		}
		if len(devices) == 0 {
			cmd.Println("No TVs configured.")
			return nil
		}
		for _, device := range devices {
			paired := "no pairing key"
			if device.PairingKey != "" {
				paired = "pairing key set"
			}
			cmd.Printf("%s\t%s\t%s\n", device.ID, device.LGTV().Hostname, paired)
		}
		return nil
	},
}

var hubDeviceAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Add a TV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager := hubconfig.NewConfigManager(hubConfigPath)
		device := manager.CreateDeviceTemplate(args[0], deviceHostname)
		device.Port = devicePort
		device.PairingKey = devicePairingKey
		device.LocalPort = deviceLocalPort
		if deviceModel != "" {
			device.Model = deviceModel
		}

		if err := manager.AddDevice(device); err != nil {
			return err
		}
		cmd.Printf("Added %s (%s) to %s\n", device.ID, device.Hostname, hubConfigPath)
		return nil
	},
}

var hubDeviceRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a TV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager := hubconfig.NewConfigManager(hubConfigPath)
		if err := manager.BackupConfig(); err != nil {
			return err
		}
		if err := manager.RemoveDevice(args[0]); err != nil {
			return err
		}
		cmd.Printf("Removed %s, previous configuration kept in %s.backup\n", args[0], hubConfigPath)
		return nil
	},
}

var hubDeviceRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the TV list saved by the last remove",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := hubconfig.NewConfigManager(hubConfigPath).RestoreFromBackup(); err != nil {
			return err
		}
		cmd.Printf("Restored %s from %s.backup\n", hubConfigPath, hubConfigPath)
		return nil
	},
}

var hubDevicePairingKeyCmd = &cobra.Command{
	Use:   "set-key <id> <pairing-key>",
	Short: "Store the pairing key shown on a TV",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := hubconfig.NewConfigManager(hubConfigPath).SetPairingKey(args[0], args[1]); err != nil {
			return err
		}
		cmd.Printf("Pairing key stored for %s\n", args[0])
		return nil
	},
}

var hubTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the hub API",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := hub.LoadConfig(hubConfigPath)
		if err != nil {
			return err
		}
		if config.API.Secret == "" {
			return fmt.Errorf("api.secret is not set in %s, the API runs without auth", hubConfigPath)
		}

		token, err := hub.NewTokenService(config.API.Secret, config.Hub.ID, config.API.TokenTTL).
			GenerateToken(hubTokenSubject)
		if err != nil {
			return fmt.Errorf("failed to sign token: %w", err)
		}
		cmd.Println(token)
		return nil
	},
}

func init() {
	hubCmd.PersistentFlags().StringVarP(&hubConfigPath, "config", "c", "hub.yml", "Path to hub configuration file")
	hubCmd.Flags().BoolVarP(&hubDebugFlag, "debug", "d", false, "Enable debug logging")
	hubCmd.Flags().BoolVar(&hubTestFlag, "test", false, "Enable test mode (simulate TV responses)")
	hubTokenCmd.Flags().StringVar(&hubTokenSubject, "subject", "lgremote-cli", "Client name stored in the token")

	addFlags := hubDeviceAddCmd.Flags()
	addFlags.StringVarP(&deviceHostname, "host", "H", "", "TV hostname or IP address")
	addFlags.IntVarP(&devicePort, "port", "p", 80, "TV UDAP port")
	addFlags.StringVarP(&devicePairingKey, "pairing-key", "k", "", "pairing key shown on the TV")
	addFlags.IntVar(&deviceLocalPort, "local-port", 0, "local port announced when pairing")
	addFlags.StringVar(&deviceModel, "model", "", "model name shown in the API")

	hubDeviceCmd.AddCommand(hubDeviceListCmd)
	hubDeviceCmd.AddCommand(hubDeviceAddCmd)
	hubDeviceCmd.AddCommand(hubDeviceRemoveCmd)
	hubDeviceCmd.AddCommand(hubDeviceRestoreCmd)
	hubDeviceCmd.AddCommand(hubDevicePairingKeyCmd)

	hubCmd.AddCommand(hubDeviceCmd)
	hubCmd.AddCommand(hubConfigCmd)
	hubCmd.AddCommand(hubTokenCmd)
	hubConfigCmd.AddCommand(hubConfigGenerateCmd)
	hubConfigCmd.AddCommand(hubConfigValidateCmd)

	rootCmd.AddCommand(hubCmd)
}
