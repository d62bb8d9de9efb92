package cmd

import (
	"errors"
	"fmt"

	"rag-corpus-dedup/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var errPromptCancelled = errors.New("prompt cancelled")

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command asks for the RAG corpus to deduplicate, the Google credential
files to use, and optionally who should receive run report emails.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, appFs, cfgFile, cmd.OutOrStdout())
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, fsys afero.Fs, configPath string, out OutputWriter) error {
	if exists, _ := afero.Exists(fsys, configPath); exists {
		overwrite, err := prompter.Confirm(fmt.Sprintf("%s already exists. Overwrite?", configPath), false)
		if err != nil {
			return errPromptCancelled
		}
		if !overwrite {
			fmt.Fprintln(out, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(out, "Welcome to rag-corpus-dedup setup!")
	fmt.Fprintln(out)

	cfg := &config.Config{}

	if err := promptCorpus(prompter, cfg); err != nil {
		return err
	}

	if err := promptGoogle(prompter, cfg); err != nil {
		return err
	}

	if err := promptEmail(prompter, cfg); err != nil {
		return err
	}

	if err := cfg.CorpusTarget().Validate(); err != nil {
		return err
	}

	if err := config.SaveFs(fsys, cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Configuration saved to %s\n", configPath)
	return nil
}

func promptCorpus(prompter Prompter, cfg *config.Config) error {
	project, err := prompter.Input("Google Cloud project ID?", "")
	if err != nil {
		return errPromptCancelled
	}
	if project == "" {
		return fmt.Errorf("project ID is required")
	}
	cfg.Corpus.ProjectID = project

	loc, err := prompter.Input("Vertex AI location?", "europe-west4")
	if err != nil {
		return errPromptCancelled
	}
	if loc == "" {
		loc = "europe-west4"
	}
	cfg.Corpus.Location = loc

	id, err := prompter.Input("RAG corpus ID?", "")
	if err != nil {
		return errPromptCancelled
	}
	if id == "" {
		return fmt.Errorf("corpus ID is required")
	}
	cfg.Corpus.CorpusID = id

	return nil
}

func promptGoogle(prompter Prompter, cfg *config.Config) error {
	credentials, err := prompter.Input("Path to service account file? (blank for default credentials)", "")
	if err != nil {
		return errPromptCancelled
	}
	cfg.Google.CredentialsFile = credentials
	return nil
}

func promptEmail(prompter Prompter, cfg *config.Config) error {
	enable, err := prompter.Confirm("Configure run report emails?", false)
	if err != nil {
		return errPromptCancelled
	}
	if !enable {
		return nil
	}

	oauthClient, err := prompter.Input("Path to OAuth client file for Gmail?", "oauth_client.json")
	if err != nil {
		return errPromptCancelled
	}
	if oauthClient == "" {
		oauthClient = "oauth_client.json"
	}
	cfg.Google.OAuthClientFile = oauthClient

	tokenFile, err := prompter.Input("Where should the Gmail token be stored?", "gmail_token.json")
	if err != nil {
		return errPromptCancelled
	}
	if tokenFile == "" {
		tokenFile = "gmail_token.json"
	}
	cfg.Google.TokenFile = tokenFile

	fromName, err := prompter.Input("Display name for outgoing emails?", "")
	if err != nil {
		return errPromptCancelled
	}
	if fromName == "" {
		return fmt.Errorf("from name is required")
	}
	cfg.Email.FromName = fromName

	fromAddress, err := prompter.Input("Gmail address to send from?", "")
	if err != nil {
		return errPromptCancelled
	}
	if fromAddress == "" {
		return fmt.Errorf("from address is required")
	}
	cfg.Email.FromAddress = fromAddress

	cfg.Email.DefaultCC = []config.RecipientConfig{}
	for {
		addCC, err := prompter.Confirm("Add a CC recipient?", false)
		if err != nil {
			return errPromptCancelled
		}
		if !addCC {
			break
		}

		recipient, err := promptRecipientWithPrompter(prompter)
		if err != nil {
			return err
		}
		cfg.Email.DefaultCC = append(cfg.Email.DefaultCC, recipient)
	}

	cfg.Email.Recipients = make(map[string]config.RecipientConfig)
	for {
		addRecipient, err := prompter.Confirm("Add a report recipient?", len(cfg.Email.Recipients) == 0)
		if err != nil {
			return errPromptCancelled
		}
		if !addRecipient {
			break
		}

		nickname, err := prompter.Input("  Nickname:", "")
		if err != nil {
			return errPromptCancelled
		}
		if nickname == "" {
			return fmt.Errorf("nickname is required")
		}

		recipient, err := promptRecipientWithPrompter(prompter)
		if err != nil {
			return err
		}
		cfg.Email.Recipients[nickname] = recipient
	}

	return nil
}

func promptRecipientWithPrompter(prompter Prompter) (config.RecipientConfig, error) {
	name, err := prompter.Input("  Full name:", "")
	if err != nil {
		return config.RecipientConfig{}, errPromptCancelled
	}
	if name == "" {
		return config.RecipientConfig{}, fmt.Errorf("name is required")
	}

	address, err := prompter.Input("  Email:", "")
	if err != nil {
		return config.RecipientConfig{}, errPromptCancelled
	}
	if address == "" {
		return config.RecipientConfig{}, fmt.Errorf("email is required")
	}

	return config.RecipientConfig{
		Name:    name,
		Address: address,
	}, nil
}
