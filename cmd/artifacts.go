package cmd

import (
	"fmt"
	"os"
	"strings"

	"painpredict/db"
	"painpredict/ml"

	"github.com/spf13/cobra"
)

var artifactsCmd = &cobra.Command{
	Use:   "artifacts",
	Short: "Manage model artifacts stored in SQLite",
}

var artifactsImportCmd = &cobra.Command{
	Use:   "import <model-id> <file>",
	Short: "Validate an artifact file and store it as the next revision",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		payload, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		store, err := db.Open(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("open artifact store: %w", err)
		}
		defer store.Close()

		info, err := store.Put(ml.ModelID(args[0]), payload)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stored %s revision %d (%d bytes)\n", info.ModelID, info.Version, info.Size)
		return nil
	},
}

var artifactsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the latest stored revision of each model",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		store, err := db.Open(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("open artifact store: %w", err)
		}
		defer store.Close()

		infos, err := store.List()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(infos) == 0 {
			fmt.Fprintln(out, "No artifacts stored.")
			return nil
		}
		fmt.Fprintf(out, "%-12s  %-8s  %-8s  %s\n", "Model", "Revision", "Bytes", "Imported")
		fmt.Fprintln(out, strings.Repeat("─", 60))
		for _, info := range infos {
			fmt.Fprintf(out, "%-12s  %-8d  %-8d  %s\n",
				info.ModelID, info.Version, info.Size, info.ImportedAt.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

func init() {
	artifactsCmd.AddCommand(artifactsImportCmd)
	artifactsCmd.AddCommand(artifactsListCmd)
}
