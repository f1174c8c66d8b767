package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pario-ai/sgpt/pkg/cache"
	cachepkg "github.com/pario-ai/sgpt/pkg/cache/sqlite"
	"github.com/pario-ai/sgpt/pkg/completion"
	"github.com/pario-ai/sgpt/pkg/config"
	"github.com/pario-ai/sgpt/pkg/logging"
	"github.com/pario-ai/sgpt/pkg/metrics"
	"github.com/pario-ai/sgpt/pkg/models"
	"github.com/pario-ai/sgpt/pkg/transport"
)

type completeOptions struct {
	configPath     string
	model          string
	temperature    float64
	topProbability float64
	noCache        bool
	system         string
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sgptrc"
	}
	return filepath.Join(home, ".config", "shell_gpt", ".sgptrc")
}

// loadConfig reads the config file, falling back to defaults and the
// environment when it does not exist, then initializes logging.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logging.Init(cfg.Log)
	return cfg, nil
}

func runComplete(cmd *cobra.Command, args []string, opts completeOptions) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	defer flushMetrics(cfg)

	prompt, err := readPrompt(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	if prompt == "" {
		return errors.New("no prompt given")
	}

	model := opts.model
	if model == "" {
		model = cfg.DefaultModel
	}

	var messages []models.Message
	if opts.system != "" {
		messages = append(messages, models.Message{Role: models.RoleSystem, Content: opts.system})
	}
	messages = append(messages, models.Message{Role: models.RoleUser, Content: prompt})

	// An unusable cache degrades to uncached requests.
	var store cache.Store
	c, err := cachepkg.New(cfg.CachePath, cfg.CacheLength)
	if err != nil {
		logrus.WithError(err).Warn("cache unavailable, continuing without it")
	} else {
		defer func() { _ = c.Close() }()
		store = c
	}

	client := completion.New(cfg, transport.NewOpenAI(cfg), store)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return printCompletion(ctx, cmd.OutOrStdout(), client, models.CompletionRequest{
		Messages:       messages,
		Model:          model,
		Temperature:    opts.temperature,
		TopProbability: opts.topProbability,
	}, !opts.noCache)
}

func printCompletion(ctx context.Context, out io.Writer, client *completion.Client, req models.CompletionRequest, useCache bool) error {
	s, err := client.Complete(ctx, req, useCache)
	if err != nil {
		return err
	}
	defer s.Close()

	for {
		frag, err := s.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fmt.Fprintln(out)
			return err
		}
		fmt.Fprint(out, frag)
	}
	fmt.Fprintln(out)
	return nil
}

// readPrompt joins the arguments and appends piped stdin, if any.
func readPrompt(stdin io.Reader, args []string) (string, error) {
	prompt := strings.Join(args, " ")

	if f, ok := stdin.(*os.File); ok {
		info, err := f.Stat()
		if err != nil || info.Mode()&os.ModeCharDevice != 0 {
			return strings.TrimSpace(prompt), nil
		}
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if piped := strings.TrimSpace(string(data)); piped != "" {
		if prompt != "" {
			prompt += "\n\n"
		}
		prompt += piped
	}
	return strings.TrimSpace(prompt), nil
}

func flushMetrics(cfg *config.Config) {
	if cfg.MetricsTextfile == "" {
		return
	}
	if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
		logrus.WithError(err).Warn("failed to write metrics textfile")
	}
}
