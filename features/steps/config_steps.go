//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"rag-corpus-dedup/cmd"
	"rag-corpus-dedup/infrastructure/config"

	"github.com/cucumber/godog"
	"github.com/spf13/afero"
)

const featureConfigPath = "config/config.yaml"

type configContext struct {
	fs     afero.Fs
	config *config.Config
	output *bytes.Buffer
	err    error
}

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	testCtx := &configContext{}

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		*testCtx = configContext{
			fs:     afero.NewMemMapFs(),
			output: &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.Step(`^a config file exists for corpus "([^"]*)"$`, testCtx.aConfigFileExistsForCorpus)

	ctx.Step(`^I run config add recipient with key "([^"]*)" name "([^"]*)" and email "([^"]*)"$`, testCtx.iRunConfigAddRecipient)
	ctx.Step(`^recipient "([^"]*)" exists with name "([^"]*)" and email "([^"]*)"$`, testCtx.recipientExistsWithNameAndEmail)
	ctx.Step(`^I run config list recipients$`, testCtx.iRunConfigListRecipients)
	ctx.Step(`^I run config remove recipient "([^"]*)"$`, testCtx.iRunConfigRemoveRecipient)
	ctx.Step(`^the config should contain recipient "([^"]*)" with name "([^"]*)" and email "([^"]*)"$`, testCtx.theConfigShouldContainRecipient)
	ctx.Step(`^the config should not contain recipient "([^"]*)"$`, testCtx.theConfigShouldNotContainRecipient)

	ctx.Step(`^I run config add cc with name "([^"]*)" and email "([^"]*)"$`, testCtx.iRunConfigAddCC)
	ctx.Step(`^I run config remove cc "([^"]*)"$`, testCtx.iRunConfigRemoveCC)

	ctx.Step(`^the config should still target corpus "([^"]*)"$`, testCtx.theConfigShouldStillTargetCorpus)
	ctx.Step(`^the command should succeed$`, testCtx.theCommandShouldSucceed)
	ctx.Step(`^the command should fail with "([^"]*)"$`, testCtx.theCommandShouldFailWith)
	ctx.Step(`^the config output should contain "([^"]*)"$`, testCtx.theConfigOutputShouldContain)
}

func (c *configContext) loadConfig() error {
	cfg, err := config.LoadFs(c.fs, featureConfigPath)
	if err != nil {
		return err
	}
	c.config = cfg
	return nil
}

func (c *configContext) aConfigFileExistsForCorpus(corpusID string) error {
	c.config = &config.Config{
		Corpus: config.CorpusConfig{
			ProjectID: "russtest4",
			Location:  "europe-west4",
			CorpusID:  corpusID,
		},
		Email: config.EmailConfig{
			FromName:    "Corpus Bot",
			FromAddress: "bot@example.com",
			Recipients:  make(map[string]config.RecipientConfig),
		},
	}
	return config.SaveFs(c.fs, c.config, featureConfigPath)
}

func (c *configContext) iRunConfigAddRecipient(key, name, email string) error {
	if err := c.loadConfig(); err != nil {
		return err
	}
	c.output.Reset()
	c.err = cmd.RunConfigAddWithDependencies(c.fs, c.config, featureConfigPath, "recipient", key, name, email, c.output)
	return nil
}

func (c *configContext) recipientExistsWithNameAndEmail(key, name, email string) error {
	if err := c.loadConfig(); err != nil {
		return err
	}
	if c.config.Email.Recipients == nil {
		c.config.Email.Recipients = make(map[string]config.RecipientConfig)
	}
	c.config.Email.Recipients[strings.ToLower(key)] = config.RecipientConfig{Name: name, Address: email}
	return config.SaveFs(c.fs, c.config, featureConfigPath)
}

func (c *configContext) iRunConfigListRecipients() error {
	if err := c.loadConfig(); err != nil {
		return err
	}
	c.output.Reset()
	c.err = cmd.RunConfigListWithDependencies(c.fs, c.config, featureConfigPath, "recipients", c.output)
	return nil
}

func (c *configContext) iRunConfigRemoveRecipient(key string) error {
	if err := c.loadConfig(); err != nil {
		return err
	}
	c.output.Reset()
	c.err = cmd.RunConfigRemoveWithDependencies(c.fs, c.config, featureConfigPath, "recipient", key, c.output)
	return nil
}

func (c *configContext) theConfigShouldContainRecipient(key, name, email string) error {
	if err := c.loadConfig(); err != nil {
		return err
	}
	r, exists := c.config.Email.Recipients[strings.ToLower(key)]
	if !exists {
		return fmt.Errorf("recipient %q not found in config", key)
	}
	if r.Name != name || r.Address != email {
		return fmt.Errorf("expected recipient %q to be %s <%s>, got %s <%s>", key, name, email, r.Name, r.Address)
	}
	return nil
}

func (c *configContext) theConfigShouldNotContainRecipient(key string) error {
	if err := c.loadConfig(); err != nil {
		return err
	}
	if _, exists := c.config.Email.Recipients[strings.ToLower(key)]; exists {
		return fmt.Errorf("recipient %q should not exist in config", key)
	}
	return nil
}

func (c *configContext) iRunConfigAddCC(name, email string) error {
	if err := c.loadConfig(); err != nil {
		return err
	}
	c.output.Reset()
	c.err = cmd.RunConfigAddWithDependencies(c.fs, c.config, featureConfigPath, "cc", "", name, email, c.output)
	return nil
}

func (c *configContext) iRunConfigRemoveCC(key string) error {
	if err := c.loadConfig(); err != nil {
		return err
	}
	c.output.Reset()
	c.err = cmd.RunConfigRemoveWithDependencies(c.fs, c.config, featureConfigPath, "cc", key, c.output)
	return nil
}

func (c *configContext) theConfigShouldStillTargetCorpus(corpusID string) error {
	if err := c.loadConfig(); err != nil {
		return err
	}
	if c.config.Corpus.CorpusID != corpusID {
		return fmt.Errorf("expected corpus %q, got %q", corpusID, c.config.Corpus.CorpusID)
	}
	return nil
}

func (c *configContext) theCommandShouldSucceed() error {
	if c.err != nil {
		return fmt.Errorf("expected command to succeed, got error: %v", c.err)
	}
	return nil
}

func (c *configContext) theCommandShouldFailWith(expected string) error {
	if c.err == nil {
		return fmt.Errorf("expected command to fail with %q, but it succeeded", expected)
	}
	if !strings.Contains(c.err.Error(), expected) {
		return fmt.Errorf("expected error containing %q, got %q", expected, c.err.Error())
	}
	return nil
}

func (c *configContext) theConfigOutputShouldContain(expected string) error {
	if !strings.Contains(c.output.String(), expected) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", expected, c.output.String())
	}
	return nil
}
