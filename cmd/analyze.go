package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/fit-scorer/internal/ai"
	"github.com/spigell/fit-scorer/internal/ai/gemini"
	"github.com/spigell/fit-scorer/internal/filtering"
	"github.com/spigell/fit-scorer/internal/logger"
	"github.com/spigell/fit-scorer/internal/secrets"
	"github.com/spigell/fit-scorer/internal/suitability"
	"github.com/spigell/fit-scorer/internal/tracker"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var errSkipped = errors.New("skipped by user")

type analysis struct {
	Band             tracker.Band        `json:"band"`
	Result           *suitability.Result `json:"result"`
	JDKeywords       []string            `json:"jdKeywords"`
	CVKeywords       []string            `json:"cvKeywords"`
	MustHaveKeywords []string            `json:"mustHaveKeywords"`
	Signals          ai.Signals          `json:"signals"`
	Suggestions      []ai.Suggestion     `json:"suggestions"`
	Filters          []filtering.Status  `json:"filters"`
	RawResponse      string              `json:"rawResponse,omitempty"`
}

// newAnalysis assembles the analyze output. The raw AI response is only included in debug mode.
func newAnalysis(result *suitability.Result, extraction *ai.Extraction, steps []filtering.Filter, debug bool) analysis {
	out := analysis{
		Band:             tracker.ScoreBand(result.OverallScore),
		Result:           result,
		JDKeywords:       extraction.JDKeywords,
		CVKeywords:       extraction.CVKeywords,
		MustHaveKeywords: extraction.MustHaveKeywords,
		Signals:          extraction.Signals,
		Suggestions:      extraction.Suggestions,
		Filters:          filtering.Describe(steps),
	}
	if debug {
		out.RawResponse = extraction.Raw
	}
	return out
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Extract keywords from a job description and a resume with AI and score the fit",
	Run: func(cmd *cobra.Command, _ []string) {
		runAnalyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("job", "", "a plain text file with the job description")
	analyzeCmd.Flags().String("resume", "", "a plain text file with the resume")
	analyzeCmd.Flags().String("title", "", "job title")
	analyzeCmd.Flags().String("company", "", "company name")
	analyzeCmd.Flags().String("location", "", "job location")
	analyzeCmd.Flags().String("channel", "", "application channel: Email, Company Portal or LinkedIn")
	analyzeCmd.Flags().StringSlice("skip-filter", nil, "disable a keyword filter by name")
	analyzeCmd.Flags().Bool("save", false, "store the analysis in the application history")
	analyzeCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before saving")

	_ = analyzeCmd.MarkFlagRequired("job")
	_ = analyzeCmd.MarkFlagRequired("resume")
}

func runAnalyze(cmd *cobra.Command) {
	ctx := context.Background()
	log, config := setup()

	flags := cmd.Flags()
	jobFile, _ := flags.GetString("job")
	resumeFile, _ := flags.GetString("resume")
	title, _ := flags.GetString("title")

	docs, err := readDocuments(title, jobFile, resumeFile)
	if err != nil {
		log.Fatal("reading documents", zap.Error(err))
	}

	extractor, err := newExtractor(ctx, config.AI, log)
	if err != nil {
		log.Fatal("building ai extractor",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY_FILE, GEMINI_API_KEY or ai.gemini.api-key-file"),
		)
	}

	log.Info("extracting keywords", zap.String("job", jobFile), zap.String("resume", resumeFile))

	extraction, err := extractor.Extract(ctx, docs)
	if err != nil {
		log.Fatal("extracting keywords", zap.Error(err))
	}

	steps := filtering.Default()
	skipped, _ := flags.GetStringSlice("skip-filter")
	for _, name := range skipped {
		filtering.DisableByName(steps, name, "disabled with --skip-filter")
	}

	extraction, err = filtering.Run(ctx, &filtering.Config{
		JDKeywordsLimit: config.AI.Limits.JDKeywords,
		MustHaveLimit:   config.AI.Limits.MustHave,
	}, filtering.Deps{Logger: log, Documents: docs}, steps, extraction)
	if err != nil {
		log.Fatal("filtering keywords", zap.Error(err))
	}

	if extraction.Weights == nil {
		extraction.Weights = config.Weights.Partial()
	}

	result := extraction.Score(newCalculator(config, log))
	log.Info("analysis finished", logger.ResultFields(result)...)

	out := newAnalysis(result, extraction, steps, viper.GetBool("debug"))
	if err := printJSON(out); err != nil {
		log.Fatal("printing results", zap.Error(err))
	}

	if save, _ := flags.GetBool("save"); !save {
		return
	}

	company, _ := flags.GetString("company")
	location, _ := flags.GetString("location")
	channelName, _ := flags.GetString("channel")
	approved, _ := flags.GetBool("auto-approve")

	application := &tracker.Application{
		JobTitle:       title,
		Company:        company,
		Location:       location,
		ResumeName:     resumeFile,
		JobDescription: docs.JobDescription,
		JDKeywords:     extraction.JDKeywords,
		CVKeywords:     extraction.CVKeywords,
		Result:         result,
	}

	if channelName != "" {
		channel, err := tracker.ParseChannel(channelName)
		if err != nil {
			log.Fatal("parsing channel", zap.Error(err))
		}
		application.Channel = channel
	}

	if err := saveApplication(ctx, config, log, application, approved); err != nil {
		if errors.Is(err, errSkipped) {
			log.Info("application is not saved", zap.String("reason", "got no from prompt"))
			return
		}
		log.Fatal("saving application", zap.Error(err))
	}
}

func readDocuments(title, jobFile, resumeFile string) (ai.Documents, error) {
	job, err := os.ReadFile(jobFile)
	if err != nil {
		return ai.Documents{}, fmt.Errorf("read job description: %w", err)
	}

	resume, err := os.ReadFile(resumeFile)
	if err != nil {
		return ai.Documents{}, fmt.Errorf("read resume: %w", err)
	}

	return ai.Documents{
		JobTitle:       strings.TrimSpace(title),
		JobDescription: string(job),
		ResumeText:     string(resume),
	}, nil
}

func newExtractor(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Extractor, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != gemini.Provider {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, err
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries,
		log.With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries)))
	if err != nil {
		return nil, err
	}

	extractorLogger := logger.WithCommonFields(log, gemini.Provider, generator.Model())

	return gemini.NewExtractor(generator, extractorLogger, cfg.Limits.InputRunes, cfg.Gemini.MaxLogLength), nil
}

// saveApplication stores app after asking for confirmation unless approved is set.
func saveApplication(ctx context.Context, config *Config, log *zap.Logger, app *tracker.Application, approved bool) error {
	if !approved {
		prompt := promptui.Select{
			Label: fmt.Sprintf("Save %q at %q (score %.1f)?", app.JobTitle, app.Company, app.Score()),
			Items: []string{PromptYes, PromptNo},
		}

		_, answer, err := prompt.Run()
		if err != nil {
			return err
		}
		if answer != PromptYes {
			return errSkipped
		}
	}

	store := openStore(config, log)
	defer store.Close()

	if err := store.Save(ctx, app); err != nil {
		return err
	}

	log.Info("application saved",
		zap.String("id", app.ID),
		zap.String("status", string(app.Status)),
		zap.String("band", string(tracker.ScoreBand(app.Score()))),
	)
	return nil
}
