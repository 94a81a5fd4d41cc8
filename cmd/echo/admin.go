package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"echo-daily/internal/diary"
)

var knownSecrets = []string{diary.SecretAIAPIKey, diary.SecretTTSAPIKey, diary.SecretMurfAPIKey}

// setting command
var settingCmd = &cobra.Command{
	Use:   "setting",
	Short: "Read and write application settings",
}

var settingGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print a setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		v, ok, err := a.Service().GetSetting(args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("setting %q not set", args[0])
		}
		fmt.Println(v)
		return nil
	},
}

var settingSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Store a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return a.Service().SaveSetting(args[0], args[1])
	},
}

// secret command
var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage API credentials (" + strings.Join(knownSecrets, ", ") + ")",
}

var secretSetCmd = &cobra.Command{
	Use:   "set NAME",
	Short: "Store a credential (value is read without echo)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := readHidden("Value for " + args[0] + ": ")
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Service().SetSecret(args[0], value); err != nil {
			return err
		}
		fmt.Printf("Stored %s\n", args[0])
		return nil
	},
}

var secretGetCmd = &cobra.Command{
	Use:   "get NAME",
	Short: "Print a credential",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		v, ok, err := a.Service().GetSecret(args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("secret %q not set", args[0])
		}
		fmt.Println(v)
		return nil
	},
}

var secretDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Remove a credential",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return a.Service().DeleteSecret(args[0])
	},
}

// db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect and repair the database",
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the database file and applied schema versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Printf("Database: %s\n", a.DatabasePath())

		versions, err := a.Service().SchemaVersions()
		if err != nil {
			return err
		}
		for _, v := range versions {
			fmt.Printf("  v%d  applied %s\n", v.Version, v.AppliedAt.UTC().Format("2006-01-02 15:04:05"))
		}

		if err := a.MigrationStatus(); err != nil {
			fmt.Printf("Schema: %v\n", err)
			return nil
		}
		fmt.Println("Schema: up to date")
		return nil
	},
}

var dbCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the search index matches the entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		r, err := a.Service().CheckIndex()
		if err != nil {
			return err
		}
		fmt.Printf("Entries:     %d\n", r.Entries)
		fmt.Printf("Projections: %d\n", r.Projections)
		fmt.Printf("Missing:     %d\n", r.Missing)
		fmt.Printf("Orphaned:    %d\n", r.Orphaned)
		fmt.Printf("Stale:       %d\n", r.Stale)
		fmt.Printf("Duplicated:  %d\n", r.Duplicated)
		if !r.Consistent() {
			return fmt.Errorf("search index is inconsistent, run `echo db reindex`")
		}
		fmt.Println("Search index is consistent.")
		return nil
	},
}

var dbReindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the search index from the entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.Service().RebuildIndex()
		if err != nil {
			return err
		}
		fmt.Printf("Reindexed %d entries\n", n)
		return nil
	},
}

func init() {
	settingCmd.AddCommand(settingGetCmd, settingSetCmd)
	secretCmd.AddCommand(secretSetCmd, secretGetCmd, secretDeleteCmd)
	dbCmd.AddCommand(dbStatusCmd, dbCheckCmd, dbReindexCmd)

	rootCmd.AddCommand(settingCmd, secretCmd, dbCmd)
}
