package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"lgremote/internal"
	"lgremote/internal/lgtv"
	"lgremote/internal/logger"
)

var (
	keyNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true).Width(18)
	keyCodeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B")).Width(6).Align(lipgloss.Right)
	keyDescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4")).PaddingLeft(2)
)

var tvCmd = &cobra.Command{
	Use:   "tv",
	Short: "Control an LG TV directly",
	Long: `Pair with an LG TV and send remote control keys over UDAP/2.0.
Flags can also be set from the environment, e.g. LGREMOTE_HOST and
LGREMOTE_PAIRING_KEY.`,
}

var tvConnectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Run one pairing handshake step",
	Long: `Without a pairing key the TV is asked to display one; with a key the key
is submitted. Prints the resulting pairing status.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, options, err := tvConfig()
		if err != nil {
			return err
		}

		conn := lgtv.NewConnection(config, options)
		status := conn.Connect(cmd.Context())

		log.Info().
			Str("host", config.Hostname).
			Stringer("status", status).
			Msg("Handshake finished")
		cmd.Println(status.String())
		if status == lgtv.StatusNotPaired {
			return fmt.Errorf("TV at %s did not accept the pairing request", config.Hostname)
		}
		return nil
	},
}

var tvPairCmd = &cobra.Command{
	Use:   "pair",
	Short: "Interactively pair with a TV",
	Long: `Asks the TV to display its pairing key, reads the key from stdin and
submits it. Prints the key so it can be stored in the hub configuration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, options, err := tvConfig()
		if err != nil {
			return err
		}

		if !config.HasPairingKey() {
			status := lgtv.NewConnection(config, options).Connect(cmd.Context())
			if status != lgtv.StatusWaitingForPairingKey {
				return fmt.Errorf("TV at %s did not show a pairing key (%s)", config.Hostname, status)
			}

			cmd.Print("Enter the pairing key shown on the TV: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read pairing key: %w", err)
			}
			config.PairingKey = strings.TrimSpace(line)
		}

		status := lgtv.NewConnection(config, options).Connect(cmd.Context())
		if status != lgtv.StatusPaired {
			return fmt.Errorf("pairing with %s failed (%s)", config.Hostname, status)
		}

		cmd.Printf("Paired with %s. Pairing key: %s\n", config.Hostname, config.PairingKey)
		return nil
	},
}

var tvKeyCmd = &cobra.Command{
	Use:   "key [name...]",
	Short: "Send remote control keys",
	Long: `Pairs with the TV using the configured key and presses each named key in
order. Unknown names are skipped. Run "lgremote tv keys" for the list.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, options, err := tvConfig()
		if err != nil {
			return err
		}
		if !config.HasPairingKey() {
			return fmt.Errorf("a pairing key is required to send keys, run 'lgremote tv pair' first")
		}

		conn := lgtv.NewConnection(config, options)
		if status := conn.Connect(cmd.Context()); status != lgtv.StatusPaired {
			return fmt.Errorf("pairing with %s failed (%s)", config.Hostname, status)
		}

		for _, name := range args {
			key, ok := lgtv.LookupKey(strings.ToUpper(name))
			if !ok {
				log.Warn().Str("key", name).Msg("No matching LG key found, skipping")
				cmd.PrintErrf("unknown key: %s\n", name)
				continue
			}
			if !conn.SendKey(cmd.Context(), key) {
				return fmt.Errorf("could not send key %s to TV", key.Name)
			}
			log.Info().Str("key", key.Name).Int("code", key.Code).Msg("Key sent")
		}
		return nil
	},
}

var keysJSON bool

var tvKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the known remote control keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := lgtv.Keys()
		if keysJSON {
			data, err := json.MarshalIndent(keys, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(data))
			return nil
		}

		for _, key := range keys {
			cmd.Println(lipgloss.JoinHorizontal(lipgloss.Top,
				keyNameStyle.Render(key.Name),
				keyCodeStyle.Render(fmt.Sprintf("%d", key.Code)),
				keyDescStyle.Render(key.Description),
			))
		}
		return nil
	},
}

var discoverTimeout time.Duration

var tvDiscoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find LG TVs on the local network",
	RunE: func(cmd *cobra.Command, args []string) error {
		found, err := lgtv.Discover(cmd.Context(), discoverTimeout)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			cmd.Println("No TVs answered.")
			return nil
		}
		for _, tv := range found {
			cmd.Printf("%s\t%s\n", tv.Address, strings.TrimSpace(tv.Reply))
		}
		return nil
	},
}

var simulateListen string

var tvSimulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Serve a simulated UDAP TV for development",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.SetSilentMode(false)
		if verbose {
			logger.SetLevel(logger.LOG_DEBUG)
		}

		pairingKey := viper.GetString("pairing-key")
		if pairingKey == "" {
			pairingKey = "123456"
		}

		server := &http.Server{
			Addr:    simulateListen,
			Handler: lgtv.NewSimulator(pairingKey),
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()

		log.Info().
			Str("listen", simulateListen).
			Str("pairing_key", pairingKey).
			Msg("Simulated TV listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}

// tvConfig builds the TV configuration from flags and LGREMOTE_* variables
func tvConfig() (lgtv.Config, *internal.FnModeOptions, error) {
	config := lgtv.Config{
		Hostname:        viper.GetString("host"),
		Port:            viper.GetInt("port"),
		PairingKey:      viper.GetString("pairing-key"),
		LocalPort:       viper.GetInt("local-port"),
		Timeout:         viper.GetDuration("timeout"),
		StrictResponses: viper.GetBool("strict"),
	}
	if err := config.Validate(); err != nil {
		return config, nil, fmt.Errorf("invalid TV configuration: %w", err)
	}

	options := internal.NewModeOptions(
		internal.WithDebug(verbose),
		internal.WithTest(viper.GetBool("test")),
	)
	return config, options, nil
}

func init() {
	flags := tvCmd.PersistentFlags()
	flags.StringP("host", "H", "", "TV hostname or IP address")
	flags.IntP("port", "p", lgtv.DefaultPort, "TV UDAP port")
	flags.StringP("pairing-key", "k", "", "pairing key shown on the TV")
	flags.Int("local-port", 0, "local port announced when pairing")
	flags.Duration("timeout", lgtv.DefaultTimeout, "per request timeout")
	flags.Bool("strict", false, "treat non-2xx responses from the TV as failures")
	flags.Bool("test", false, "simulate the TV instead of sending HTTP requests")
	for _, name := range []string{"host", "port", "pairing-key", "local-port", "timeout", "strict", "test"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	tvKeyCmd.ValidArgs = lgtv.KeyNames()

	tvKeysCmd.Flags().BoolVar(&keysJSON, "json", false, "print the catalog as JSON")
	tvDiscoverCmd.Flags().DurationVar(&discoverTimeout, "wait", 3*time.Second, "how long to wait for answers")
	tvSimulateCmd.Flags().StringVar(&simulateListen, "listen", ":8080", "address to serve the simulated TV on")

	tvCmd.AddCommand(tvConnectCmd)
	tvCmd.AddCommand(tvPairCmd)
	tvCmd.AddCommand(tvKeyCmd)
	tvCmd.AddCommand(tvKeysCmd)
	tvCmd.AddCommand(tvDiscoverCmd)
	tvCmd.AddCommand(tvSimulateCmd)

	rootCmd.AddCommand(tvCmd)
}
