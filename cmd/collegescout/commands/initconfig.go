package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/collegescout/internal/config"
)

var initConfigCmd = &cobra.Command{
	Use:   "init-config [path]",
	Short: "Write a sample configuration file",
	Long: `Write the default configuration as YAML, ready for editing.

The file is written to ./.collegescout.yaml unless a path is given. An
existing file is only replaced with --force.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInitConfig,
}

func init() {
	rootCmd.AddCommand(initConfigCmd)
	initConfigCmd.Flags().Bool("force", false, "overwrite an existing file")
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	path := config.FileName + ".yaml"
	if len(args) == 1 {
		path = args[0]
	}

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("check %s: %w", path, err)
	}

	if err := config.WriteSample(path); err != nil {
		return err
	}
	logInfo("Wrote sample configuration to %s", path)
	return nil
}
