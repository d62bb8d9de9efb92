package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"rag-corpus-dedup/application/dedup"
	"rag-corpus-dedup/domain/corpus"
	"rag-corpus-dedup/infrastructure/config"
	"rag-corpus-dedup/infrastructure/credentials"
	"rag-corpus-dedup/infrastructure/logging"
	"rag-corpus-dedup/infrastructure/vertexrag"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

var (
	cfgFile string
	cfg     *config.Config
	cfgErr  error
	appFs   = afero.NewOsFs()
)

var (
	credentialsPath  string
	listFiles        bool
	findDuplicates   bool
	removeDuplicates bool
	keepNewest       bool
	keepOldest       bool
	projectID        string
	location         string
	corpusID         string
	notify           bool
	notifyTo         []string
	confirmRemoval   bool
	verbose          bool
)

// RAGClient is the corpus client a run talks to
type RAGClient interface {
	corpus.CorpusClient
	Close() error
}

// newRAGClient builds the Vertex AI client for a run (replaced in tests)
var newRAGClient = func(ctx context.Context, location string, src credentials.Source, logger *slog.Logger) (RAGClient, error) {
	client, err := vertexrag.NewClient(ctx, location, src, vertexrag.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return client, nil
}

var rootCmd = &cobra.Command{
	Use:   "rag-corpus-dedup",
	Short: "Find and remove duplicate files in a Vertex AI RAG corpus",
	Long: `rag-corpus-dedup lists the files in a Vertex AI RAG corpus, groups them by
display name, and removes all but one copy of every duplicated name.

By default the newest copy of each file is kept. Use --keep-oldest to keep
the oldest copy instead.

Examples:
  rag-corpus-dedup --list
  rag-corpus-dedup --find-duplicates
  rag-corpus-dedup --remove-duplicates --keep-oldest --credentials sa.json`,
	SilenceUsage: true,
	RunE:         runRoot,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file (optional)")

	flags := rootCmd.Flags()
	flags.StringVar(&credentialsPath, "credentials", "", "Path to service account JSON file")
	flags.BoolVar(&listFiles, "list", false, "List all files in RAG corpus")
	flags.BoolVar(&findDuplicates, "find-duplicates", false, "Find duplicate files")
	flags.BoolVar(&removeDuplicates, "remove-duplicates", false, "Remove duplicate files")
	flags.BoolVar(&keepNewest, "keep-newest", true, "Keep the newest version when removing duplicates")
	flags.BoolVar(&keepOldest, "keep-oldest", false, "Keep the oldest version when removing duplicates")
	flags.StringVar(&projectID, "project", "", "Google Cloud project ID (overrides config and environment)")
	flags.StringVar(&location, "location", "", "Vertex AI region, e.g. europe-west4")
	flags.StringVar(&corpusID, "corpus", "", "RAG corpus ID or full resource name")
	flags.BoolVar(&notify, "notify", false, "Email a run report to the configured recipients")
	flags.StringArrayVar(&notifyTo, "notify-to", nil, "Report recipient(s) by name or config key (defaults to all)")
	flags.BoolVar(&confirmRemoval, "confirm", false, "Ask for confirmation before deleting")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func initConfig() {
	if err := config.LoadDotEnv(appFs, ".env"); err != nil {
		cfgErr = err
		return
	}

	cfg, cfgErr = config.LoadOptional(appFs, cfgFile)
	if cfgErr != nil {
		return
	}
	cfgErr = config.ApplyEnv(cfg)
}

// GetConfig returns the loaded configuration
func GetConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, cfgErr
	}
	if cfg == nil {
		return &config.Config{}, nil
	}
	return cfg, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	opts := RunOptions{
		List:             listFiles,
		FindDuplicates:   findDuplicates,
		RemoveDuplicates: removeDuplicates,
		Policy:           corpus.PolicyFromFlags(keepNewest, keepOldest),
	}
	if !opts.HasAction() {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Please specify an action: --list, --find-duplicates, or --remove-duplicates")
		return cmd.Help()
	}

	loaded, err := GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	target := ResolveTarget(loaded, projectID, location, corpusID)
	if err := target.Validate(); err != nil {
		return fmt.Errorf("%w (set it in %s, the RAGDEDUP_* environment, or with a flag)", err, cfgFile)
	}
	opts.CorpusName = target.ResourceName()

	runID := logging.NewRunID()
	logger := logging.New(os.Stderr, verbose, runID)
	ctx := logging.NewContext(cmd.Context(), logger)

	src := credentials.Resolve(credentialsPath, os.Getenv).OrConfig(loaded.Google.CredentialsFile)
	logger.DebugContext(ctx, "Resolved credentials", slog.String("source", src.String()))

	client, err := newRAGClient(ctx, target.RegionalLocation(), src, logger)
	if err != nil {
		return fmt.Errorf("failed to create RAG client: %w", err)
	}
	defer client.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized Vertex AI for project: %s, location: %s\n", target.Project(), target.RegionalLocation())

	if confirmRemoval {
		opts.Prompter = DefaultPrompter
	}

	result, err := RunWithDependencies(ctx, client, opts, out)
	if err != nil {
		return err
	}

	if notify {
		if err := sendRunReport(ctx, loaded, runID, opts, result, out); err != nil {
			logger.WarnContext(ctx, "Run report not sent", slog.String("error", err.Error()))
			fmt.Fprintf(out, "Warning: run report not sent: %v\n", err)
		}
	}
	return nil
}

// ResolveTarget applies flag overrides to the configured corpus target.
// Flags win over environment values, which were already applied over the file.
func ResolveTarget(loaded *config.Config, project, loc, corpusRef string) corpus.Config {
	target := loaded.CorpusTarget()
	if project != "" {
		target.ProjectID = project
	}
	if loc != "" {
		target.Location = loc
	}
	if corpusRef != "" {
		target.CorpusID = corpusRef
	}
	return target
}

// RunOptions selects the actions performed by one run
type RunOptions struct {
	CorpusName       string
	List             bool
	FindDuplicates   bool
	RemoveDuplicates bool
	Policy           corpus.RetentionPolicy
	Prompter         Prompter // Asks before deleting when set
}

// HasAction reports whether any action flag was given
func (o RunOptions) HasAction() bool {
	return o.List || o.FindDuplicates || o.RemoveDuplicates
}

// RunResult captures what a run observed and changed
type RunResult struct {
	Files     []corpus.FileRecord
	Summary   dedup.Summary
	Removal   *dedup.RemovalResult // nil unless a removal pass ran
	Cancelled bool                 // Operator declined the removal
}

// RunWithDependencies runs the selected actions against client (for testing)
func RunWithDependencies(ctx context.Context, client corpus.CorpusClient, opts RunOptions, output OutputWriter) (*RunResult, error) {
	svc := dedup.NewService(client, opts.CorpusName, output)
	result := &RunResult{}

	result.Files = svc.ListFiles(ctx)

	if opts.List {
		fmt.Fprintln(output, "\n=== All RAG Corpus Files ===")
		for _, f := range result.Files {
			fmt.Fprintf(output, "- %s (%s)\n", f.DisplayName, f.Identifier)
		}
	}

	if !opts.FindDuplicates && !opts.RemoveDuplicates {
		return result, nil
	}

	result.Summary = svc.FindDuplicates(result.Files)
	groups := result.Summary.Groups
	if len(groups) == 0 {
		fmt.Fprintln(output, "\nNo duplicates found in RAG corpus")
		return result, nil
	}

	fmt.Fprintf(output, "\n=== Found %d sets of duplicates ===\n", len(groups))
	fmt.Fprintf(output, "Total duplicate files: %d\n", result.Summary.DuplicateFiles)
	fmt.Fprintf(output, "Files that could be removed: %d\n", result.Summary.Removable)

	if !opts.RemoveDuplicates {
		fmt.Fprintln(output, "\nRun with --remove-duplicates to delete these duplicates")
		return result, nil
	}

	if opts.Prompter != nil {
		ok, err := opts.Prompter.Confirm(fmt.Sprintf("Delete %d files (%s)?", result.Summary.Removable, opts.Policy), false)
		if err != nil {
			return nil, errPromptCancelled
		}
		if !ok {
			fmt.Fprintln(output, "Removal cancelled.")
			result.Cancelled = true
			return result, nil
		}
	}

	fmt.Fprintln(output, "\n=== Removing Duplicates ===")
	result.Removal = svc.RemoveDuplicates(ctx, groups, opts.Policy)
	fmt.Fprintf(output, "\nTotal files deleted: %d\n", result.Removal.DeletedCount())

	return result, nil
}
