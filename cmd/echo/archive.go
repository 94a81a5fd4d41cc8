package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"echo-daily/internal/diary"
)

func importOptions(cmd *cobra.Command) diary.ImportOptions {
	overwrite, _ := cmd.Flags().GetBool("overwrite")
	skipAI, _ := cmd.Flags().GetBool("skip-ai")
	return diary.ImportOptions{Overwrite: overwrite, IncludeAIOperations: !skipAI}
}

func printImportResult(r *diary.ImportResult) {
	fmt.Printf("Entries imported:       %d\n", r.EntriesImported)
	fmt.Printf("Entries skipped:        %d\n", r.EntriesSkipped)
	fmt.Printf("AI operations imported: %d\n", r.AIOperationsImported)
	fmt.Printf("AI operations skipped:  %d\n", r.AIOperationsSkipped)
	if r.Failed > 0 {
		fmt.Printf("Failed records:         %d\n", r.Failed)
	}
}

// export command
var exportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Write every entry and AI operation as a JSON bundle (stdout by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if len(args) == 0 {
			return a.Service().Export(os.Stdout)
		}

		f, err := os.OpenFile(args[0], os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		if err := a.Service().Export(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing export file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Exported to %s\n", args[0])
		return nil
	},
}

// import command
var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Merge a JSON bundle into the journal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening bundle: %w", err)
		}
		defer f.Close()

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Service().ImportFrom(f, importOptions(cmd))
		if err != nil {
			return err
		}
		printImportResult(res)
		return nil
	},
}

// backup command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Store a bundle of the journal in the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, _ := cmd.Flags().GetBool("list")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if list {
			names, err := a.Service().ListBackups()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Println("No backups.")
			}
			for _, n := range names {
				fmt.Println(n)
			}
			return nil
		}

		name, err := a.Service().Backup()
		if err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}
		fmt.Printf("Stored %s\n", name)
		return nil
	},
}

// restore command
var restoreCmd = &cobra.Command{
	Use:   "restore BUNDLE",
	Short: "Merge a bundle from the vault into the journal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Restore(args[0], importOptions(cmd))
		if err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}
		printImportResult(res)
		return nil
	},
}

// snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Store a copy of the database file in the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		name, err := a.Service().Snapshot()
		if err != nil {
			return fmt.Errorf("snapshot failed: %w", err)
		}
		fmt.Printf("Stored %s\n", name)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{importCmd, restoreCmd} {
		c.Flags().Bool("overwrite", false, "Replace local entries that are older than the bundle's")
		c.Flags().Bool("skip-ai", false, "Do not import AI operations")
	}
	backupCmd.Flags().BoolP("list", "l", false, "List stored bundles instead of creating one")

	rootCmd.AddCommand(exportCmd, importCmd, backupCmd, restoreCmd, snapshotCmd)
}
