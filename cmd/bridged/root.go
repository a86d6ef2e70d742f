package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"pkg.sigmaverse.dev/bridge/config"
	bridgelog "pkg.sigmaverse.dev/bridge/log"
)

const configFlag = "config"

// NewRootCmd creates the bridged root command. Every flag can also be set with a BRIDGE_ environment variable or
// in the config file.
func NewRootCmd() *cobra.Command {
	v := config.New()
	cfg := new(config.Config)

	rootCmd := &cobra.Command{
		Use:           "bridged",
		Short:         "Sigmaverse game bridge",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			configFile, err := cmd.Flags().GetString(configFlag)
			if err != nil {
				return err
			}
			loaded, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			*cfg = loaded
			_, err = bridgelog.Setup(cfg.LogLevel, cfg.LogPretty)
			return err
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String(configFlag, "", "path to a config file (toml, yaml or json)")
	flags.String("node-url", "", "chain gateway HTTP endpoint")
	flags.String("program-id", "", "hex actor id of the Sigmaverse program")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.Bool("log-pretty", false, "human readable log output")
	bindFlags(v, flags, "node-url", "program-id", "log-level", "log-pretty")

	rootCmd.AddCommand(newStartCmd(v, cfg), newQueryCmd(cfg))
	return rootCmd
}

// bindFlags binds flag names to the matching snake_case config keys.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, names ...string) {
	for _, name := range names {
		key := flagKey(name)
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func flagKey(name string) string {
	out := []byte(name)
	for i, c := range out {
		if c == '-' {
			out[i] = '_'
		}
	}
	return string(out)
}
