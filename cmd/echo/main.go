package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"echo-daily/internal/app"
	"echo-daily/internal/config"
	"echo-daily/internal/database"
	"echo-daily/internal/encryption"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an EchoApp. The caller must defer a.Close().
func newApp() (*app.EchoApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewEchoApp(cfg, app.Options{Passphrase: promptPassphrase})
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// promptPassphrase reads the passphrase from ECHO_PASSPHRASE, or from the
// terminal without echo.
func promptPassphrase() (string, error) {
	if p := os.Getenv("ECHO_PASSPHRASE"); p != "" {
		return p, nil
	}
	return readHidden("Passphrase: ")
}

func readHidden(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("passphrase required: set ECHO_PASSPHRASE or run interactively")
	}

	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}

// newPassphrase asks twice and requires both answers to match.
func newPassphrase() (string, error) {
	if p := os.Getenv("ECHO_PASSPHRASE"); p != "" {
		return p, nil
	}
	first, err := readHidden("New passphrase: ")
	if err != nil {
		return "", err
	}
	if first == "" {
		return "", errors.New("passphrase must not be empty")
	}
	second, err := readHidden("Repeat passphrase: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errors.New("passphrases do not match")
	}
	return first, nil
}

var rootCmd = &cobra.Command{
	Use:          "echo",
	Short:        "Daily journal storage",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration and bundle encryption keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		noEncrypt, _ := cmd.Flags().GetBool("no-encryption")
		vaultRoot, _ := cmd.Flags().GetString("vault-dir")

		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if legacy, err := database.DefaultLegacyPath(); err == nil {
			cfg.Database.LegacyPath = legacy
		}
		if vaultRoot != "" {
			cfg.Vault = config.VaultConfig{Type: "filesystem", Name: "local", FSVaultRoot: vaultRoot}
		}
		if noEncrypt {
			cfg.Encryption = config.EncryptionConfig{Type: "none"}
		}

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", cfg.BaseDir)

		if noEncrypt {
			return nil
		}

		passphrase, err := newPassphrase()
		if err != nil {
			return err
		}
		enc := encryption.NewAgeEncryptor(cfg.Encryption)
		if err := enc.Setup(passphrase); err != nil {
			if errors.Is(err, encryption.ErrAlreadyConfigured) {
				fmt.Println("Encryption keys already present, keeping them")
				return nil
			}
			return fmt.Errorf("setting up encryption: %w", err)
		}
		fmt.Printf("Encryption keys written to %s\n", cfg.Encryption.PublicKeyPath)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		vaultType := cfg.Vault.Type
		if vaultType == "" {
			vaultType = "(backups disabled)"
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Database:   %s %s\n", cfg.Database.Type, cfg.Database.DataDir)
		fmt.Printf("Vault:      %s\n", vaultType)
		fmt.Printf("Encryption: %s\n", cfg.Encryption.Type)
		fmt.Printf("Secrets:    %s\n", cfg.Secrets.Type)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configInitCmd.Flags().Bool("no-encryption", false, "Store backup bundles unencrypted")
	configInitCmd.Flags().String("vault-dir", "", "Use a filesystem vault rooted at this directory")

	rootCmd.AddCommand(configCmd)
}
