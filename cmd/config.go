package cmd

import (
	"fmt"
	"text/tabwriter"

	"rag-corpus-dedup/infrastructure/config"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage run report recipients",
	Long: `Manage report recipients and CC recipients in the configuration file.

Examples:
  rag-corpus-dedup config list recipients
  rag-corpus-dedup config add recipient --key ops --name "Ops Team" --email "ops@example.com"
  rag-corpus-dedup config add cc --name "Mary Jones" --email "mary@example.com"
  rag-corpus-dedup config remove recipient ops`,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configAddCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configRemoveCmd)
}

// --- ADD command ---

var (
	addKey   string
	addName  string
	addEmail string
)

var configAddCmd = &cobra.Command{
	Use:   "add [recipient|cc]",
	Short: "Add a new config entry",
	Long: `Add a new report recipient or default CC to the configuration.

Examples:
  rag-corpus-dedup config add recipient --key ops --name "Ops Team" --email "ops@example.com"
  rag-corpus-dedup config add cc --name "Mary Jones" --email "mary@example.com"`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigAdd,
}

func init() {
	configAddCmd.Flags().StringVar(&addKey, "key", "", "Unique key for the entry (required for recipient)")
	configAddCmd.Flags().StringVar(&addName, "name", "", "Display name (required)")
	configAddCmd.Flags().StringVar(&addEmail, "email", "", "Email address (required)")
	configAddCmd.MarkFlagRequired("name")
	configAddCmd.MarkFlagRequired("email")
}

func runConfigAdd(cmd *cobra.Command, args []string) error {
	loaded, err := GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	return RunConfigAddWithDependencies(appFs, loaded, cfgFile, args[0], addKey, addName, addEmail, cmd.OutOrStdout())
}

// RunConfigAddWithDependencies runs the add command with injected dependencies
func RunConfigAddWithDependencies(fsys afero.Fs, cfg *config.Config, configPath, entityType, key, name, email string, out OutputWriter) error {
	mgr := config.NewConfigManagerFs(fsys, cfg, configPath)

	switch entityType {
	case "recipient":
		if key == "" {
			return fmt.Errorf("--key is required for recipients")
		}
		if err := mgr.AddRecipient(key, name, email); err != nil {
			return err
		}
		fmt.Fprintf(out, "Added recipient %q: %s <%s>\n", key, name, email)

	case "cc":
		if err := mgr.AddCC(name, email); err != nil {
			return err
		}
		fmt.Fprintf(out, "Added CC: %s <%s>\n", name, email)

	default:
		return fmt.Errorf("unknown entity type %q. Use recipient or cc", entityType)
	}

	return nil
}

// --- LIST command ---

var configListCmd = &cobra.Command{
	Use:   "list [recipients|ccs]",
	Short: "List config entries",
	Long: `List all report recipients or default CC recipients.

Examples:
  rag-corpus-dedup config list recipients
  rag-corpus-dedup config list ccs`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigList,
}

func runConfigList(cmd *cobra.Command, args []string) error {
	loaded, err := GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	return RunConfigListWithDependencies(appFs, loaded, cfgFile, args[0], cmd.OutOrStdout())
}

// RunConfigListWithDependencies runs the list command with injected dependencies
func RunConfigListWithDependencies(fsys afero.Fs, cfg *config.Config, configPath, entityType string, out OutputWriter) error {
	mgr := config.NewConfigManagerFs(fsys, cfg, configPath)

	var entries []config.Recipient
	switch entityType {
	case "recipients":
		entries = mgr.ListRecipients()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No recipients configured.")
			return nil
		}
	case "ccs":
		entries = mgr.ListCCs()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No CCs configured.")
			return nil
		}
	default:
		return fmt.Errorf("unknown entity type %q. Use recipients or ccs", entityType)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tNAME\tEMAIL")
	for _, r := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Key, r.Name, r.Address)
	}
	return w.Flush()
}

// --- REMOVE command ---

var configRemoveCmd = &cobra.Command{
	Use:   "remove [recipient|cc] <key>",
	Short: "Remove a config entry",
	Long: `Remove a report recipient or default CC from the configuration.
A CC can be named by first name, full name, or address.

Examples:
  rag-corpus-dedup config remove recipient ops
  rag-corpus-dedup config remove cc mary`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigRemove,
}

func runConfigRemove(cmd *cobra.Command, args []string) error {
	loaded, err := GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	return RunConfigRemoveWithDependencies(appFs, loaded, cfgFile, args[0], args[1], cmd.OutOrStdout())
}

// RunConfigRemoveWithDependencies runs the remove command with injected dependencies
func RunConfigRemoveWithDependencies(fsys afero.Fs, cfg *config.Config, configPath, entityType, key string, out OutputWriter) error {
	mgr := config.NewConfigManagerFs(fsys, cfg, configPath)

	switch entityType {
	case "recipient":
		if err := mgr.RemoveRecipient(key); err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed recipient %q\n", key)

	case "cc":
		if err := mgr.RemoveCC(key); err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed CC %q\n", key)

	default:
		return fmt.Errorf("unknown entity type %q. Use recipient or cc", entityType)
	}

	return nil
}
