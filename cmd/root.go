package cmd

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ccshell/ccsh/core"
	"github.com/ccshell/ccsh/core/config"
)

var (
	cfgPath     string
	commandLine string
)

// loadConfig reads the configured directory, falling back to the embedded
// defaults when nothing has been initialized yet.
func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	if err != nil {
		return nil, err
	}

	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return configuration, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ccsh [script]",
	Short: "A small interactive shell.",
	Long: `An interactive command interpreter with aliases, globbing, I/O
redirection and background job control.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		shell := core.NewShell(configuration)

		// One-shot mode: run a single line and report its status.
		if commandLine != "" {
			shell.ExecuteLine(commandLine)
			if ret := shell.LastRet(); ret != 0 {
				os.Exit(ret)
			}
			return nil
		}

		// Script mode: source the file through the interactive path.
		if len(args) == 1 {
			fd, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer fd.Close()
			return shell.Source(fd)
		}

		if ret := shell.Run(); ret != 0 {
			os.Exit(ret)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func defaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(base, "ccsh")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath(), "config path")
	rootCmd.Flags().StringVarP(&commandLine, "command", "c", "", "run a single command line and exit")
}
