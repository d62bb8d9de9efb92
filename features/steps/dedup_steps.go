//go:build integration

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rag-corpus-dedup/cmd"
	"rag-corpus-dedup/domain/corpus"
	"rag-corpus-dedup/domain/corpus/corpustest"

	"github.com/cucumber/godog"
	"github.com/google/go-cmp/cmp"
)

const featureCorpus = "projects/russtest4/locations/europe-west4/ragCorpora/4611686018427387904"

type dedupContext struct {
	corpus *corpustest.Memory
	output *bytes.Buffer
	result *cmd.RunResult
	err    error
}

func InitializeDedupScenario(ctx *godog.ScenarioContext) {
	testCtx := &dedupContext{}

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		*testCtx = dedupContext{
			corpus: corpustest.NewMemory(),
			output: &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.Step(`^a RAG corpus with files:$`, testCtx.aRAGCorpusWithFiles)
	ctx.Step(`^deleting "([^"]*)" fails with "([^"]*)"$`, testCtx.deletingFailsWith)
	ctx.Step(`^listing the corpus fails with "([^"]*)"$`, testCtx.listingFailsWith)
	ctx.Step(`^I run the resolver with "([^"]*)"$`, testCtx.iRunTheResolverWith)
	ctx.Step(`^the output should contain "([^"]*)"$`, testCtx.theOutputShouldContain)
	ctx.Step(`^no delete should have been attempted$`, testCtx.noDeleteShouldHaveBeenAttempted)
	ctx.Step(`^delete should have been attempted for "([^"]*)"$`, testCtx.deleteShouldHaveBeenAttemptedFor)
	ctx.Step(`^the corpus should contain exactly "([^"]*)"$`, testCtx.theCorpusShouldContainExactly)
}

func (c *dedupContext) aRAGCorpusWithFiles(table *godog.Table) error {
	if len(table.Rows) < 2 {
		return fmt.Errorf("file table needs a header and at least one row")
	}

	var files []corpus.FileRecord
	for _, row := range table.Rows[1:] {
		if len(row.Cells) != 3 {
			return fmt.Errorf("expected 3 columns, got %d", len(row.Cells))
		}
		created, err := time.Parse(time.RFC3339, row.Cells[2].Value)
		if err != nil {
			return fmt.Errorf("invalid create_time %q: %w", row.Cells[2].Value, err)
		}
		files = append(files, corpus.FileRecord{
			Identifier:  row.Cells[0].Value,
			DisplayName: row.Cells[1].Value,
			CreateTime:  created,
		})
	}

	c.corpus = corpustest.NewMemory(files...)
	return nil
}

func (c *dedupContext) deletingFailsWith(id, message string) error {
	c.corpus.FailDelete(id, &corpus.NotFoundOrPermissionError{Identifier: id, Err: errors.New(message)})
	return nil
}

func (c *dedupContext) listingFailsWith(message string) error {
	c.corpus.ListErr = errors.New(message)
	return nil
}

func (c *dedupContext) iRunTheResolverWith(args string) error {
	opts := cmd.RunOptions{CorpusName: featureCorpus}
	keepOldest := false
	for _, arg := range strings.Fields(args) {
		switch arg {
		case "--list":
			opts.List = true
		case "--find-duplicates":
			opts.FindDuplicates = true
		case "--remove-duplicates":
			opts.RemoveDuplicates = true
		case "--keep-oldest":
			keepOldest = true
		case "--keep-newest":
		default:
			return fmt.Errorf("unsupported flag %q", arg)
		}
	}
	opts.Policy = corpus.PolicyFromFlags(true, keepOldest)

	c.output.Reset()
	c.result, c.err = cmd.RunWithDependencies(context.Background(), c.corpus, opts, c.output)
	return c.err
}

func (c *dedupContext) theOutputShouldContain(expected string) error {
	if !strings.Contains(c.output.String(), expected) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", expected, c.output.String())
	}
	return nil
}

func (c *dedupContext) noDeleteShouldHaveBeenAttempted() error {
	if attempts := c.corpus.Attempts(); len(attempts) != 0 {
		return fmt.Errorf("expected no delete attempts, got %v", attempts)
	}
	return nil
}

func (c *dedupContext) deleteShouldHaveBeenAttemptedFor(ids string) error {
	want := strings.Split(ids, ",")
	if diff := cmp.Diff(want, c.corpus.Attempts()); diff != "" {
		return fmt.Errorf("delete attempts mismatch (-want +got):\n%s", diff)
	}
	return nil
}

func (c *dedupContext) theCorpusShouldContainExactly(ids string) error {
	want := strings.Split(ids, ",")
	if diff := cmp.Diff(want, c.corpus.Remaining()); diff != "" {
		return fmt.Errorf("corpus contents mismatch (-want +got):\n%s", diff)
	}
	return nil
}
