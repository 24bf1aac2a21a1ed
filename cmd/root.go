package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/beanboi7/chyp8/emu/config"
)

var cfgFile string

// conf is filled in before any subcommand runs.
var conf config.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chyp8 [command]",
	Short: "Chip-8 emulator using Go",
	Long: "A Chip-8 emulator written from scratch that mimics the functionalities of a Chip-8, " +
		"an interpreted language originally written for the COSMAC VIP / Telmac 8 bit systems.\n\n" +
		"Settings come from flags, CHYP8_* environment variables and $HOME/.chyp8.yaml.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	cobra.OnInitialize(initConfig)

	d := config.Default()
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.chyp8.yaml)")
	flags.IntP(config.KeyRefresh, "r", d.Refresh, "display refresh rate in Hz")
	flags.Int(config.KeyCycles, d.Cycles, "instructions executed per refresh")
	flags.Int(config.KeyStack, d.Stack, "call stack depth (1-256)")
	flags.Int(config.KeyScale, d.Scale, "window pixels per display pixel")
	flags.Int64(config.KeySeed, d.Seed, "random seed, 0 seeds from the clock")
	flags.String(config.KeyKeys, d.Keys, "16 keyboard keys for machine keys 0-F")
	flags.String(config.KeyLit, d.Lit, "colour of lit pixels")
	flags.String(config.KeyUnlit, d.Unlit, "colour of unlit pixels")
	flags.Float64(config.KeyVolume, d.Volume, "buzzer volume, negative is quieter")
	flags.Bool(config.KeyMute, d.Mute, "disable sound")
	flags.Float64(config.KeyTone, d.Tone, "buzzer frequency in Hz")
	flags.String(config.KeySound, d.Sound, "mp3, wav, flac or ogg file to loop as the buzzer")
	flags.String(config.KeyScreenshots, d.Screenshots, "directory for screenshots")
	flags.String(config.KeyLogLevel, d.LogLevel, "log level: debug, info, warn or error")

	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name != "config" {
			cobra.CheckErr(viper.BindPFlag(f.Name, f))
		}
	})

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(termCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".chyp8" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".chyp8")
	}

	viper.SetEnvPrefix("CHYP8")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
		cobra.CheckErr(err)
	}
}

// loadConfig validates the merged settings and installs the logger.
func loadConfig(cmd *cobra.Command, args []string) error {
	config.SetDefaults(viper.GetViper())

	c, err := config.Load(viper.GetViper())
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	level, err := c.Level()
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	conf = c
	return nil
}
