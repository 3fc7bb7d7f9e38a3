package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/fit-scorer/internal/logger"
	"github.com/spigell/fit-scorer/internal/suitability"
	"github.com/spigell/fit-scorer/internal/tracker"
)

const (
	app = "fit-scorer"
)

type Config struct {
	Weights    *WeightsConfig    `mapstructure:"weights" json:"weights,omitempty"`
	Matching   *MatchingConfig   `mapstructure:"matching" json:"matching,omitempty"`
	AI         *AIConfig         `mapstructure:"ai" json:"ai,omitempty" validate:"required"`
	Storage    *StorageConfig    `mapstructure:"storage" json:"storage,omitempty" validate:"required"`
	Headhunter *HeadhunterConfig `mapstructure:"headhunter" json:"headhunter,omitempty"`
}

// WeightsConfig overrides the default weight vector. Missing fields keep their defaults.
type WeightsConfig struct {
	Skills     *float64 `mapstructure:"skills" json:"skills,omitempty" validate:"omitempty,gte=0,lte=1"`
	Experience *float64 `mapstructure:"experience" json:"experience,omitempty" validate:"omitempty,gte=0,lte=1"`
	Education  *float64 `mapstructure:"education" json:"education,omitempty" validate:"omitempty,gte=0,lte=1"`
	Language   *float64 `mapstructure:"language" json:"language,omitempty" validate:"omitempty,gte=0,lte=1"`
}

type MatchingConfig struct {
	FoldDiacritics bool                `mapstructure:"fold-diacritics" json:"fold-diacritics"`
	Aliases        map[string][]string `mapstructure:"aliases" json:"aliases,omitempty"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider" json:"provider" validate:"omitempty,oneof=gemini"`
	Gemini   *GeminiConfig `mapstructure:"gemini" json:"gemini,omitempty"`
	Limits   *LimitsConfig `mapstructure:"limits" json:"limits,omitempty"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key" json:"-"`
	APIKeyFile   string `mapstructure:"api-key-file" json:"api-key-file,omitempty"`
	Model        string `mapstructure:"model" json:"model,omitempty"`
	MaxRetries   int    `mapstructure:"max-retries" json:"max-retries" validate:"gte=0,lte=10"`
	MaxLogLength int    `mapstructure:"max-log-length" json:"max-log-length" validate:"gte=0"`
}

type LimitsConfig struct {
	JDKeywords int `mapstructure:"jd-keywords" json:"jd-keywords" validate:"gte=0"`
	MustHave   int `mapstructure:"must-have" json:"must-have" validate:"gte=0"`
	InputRunes int `mapstructure:"input-runes" json:"input-runes" validate:"gte=0"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver" json:"driver" validate:"omitempty,oneof=file sqlite"`
	Path   string `mapstructure:"path" json:"path"`
}

type HeadhunterConfig struct {
	UserAgent string `mapstructure:"user-agent" json:"user-agent,omitempty"`
	APIURL    string `mapstructure:"api-url" json:"api-url,omitempty" validate:"omitempty,url"`
	TokenFile string `mapstructure:"token-file" json:"token-file,omitempty"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "fit-scorer scores how well a candidate fits a job and tracks the applications",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for key, env := range map[string]string{
		"storage.path":           "FIT_SCORER_STORAGE_PATH",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
		"headhunter.token-file":  "HH_TOKEN_FILE",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.limits.jd-keywords", 20)
	viper.SetDefault("ai.limits.must-have", 10)
	viper.SetDefault("ai.limits.input-runes", 3000)
	viper.SetDefault("storage.driver", tracker.DriverFile)
	viper.SetDefault("storage.path", defaultStoragePath())

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is fit-scorer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if versionCmd.CalledAs() != "" {
		return
	}

	// A missing .env is fine; variables may come from the real environment.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	err := viper.ReadInConfig()
	if err == nil {
		return
	}

	// Without an explicit --config every setting has a usable default.
	var notFound viper.ConfigFileNotFoundError
	if cfgFile == "" && errors.As(err, &notFound) {
		return
	}

	// We can't proceed if the config file parsed with error.
	log.Fatal(err)
}

func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "applications.json"
	}
	return filepath.Join(home, "."+app, "applications.json")
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.AI.Limits == nil {
		config.AI.Limits = &LimitsConfig{}
	}
	if config.Storage == nil {
		config.Storage = &StorageConfig{}
	}
	if config.Headhunter == nil {
		config.Headhunter = &HeadhunterConfig{}
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// setup builds the logger and loads the config, terminating the process on failure.
func setup() (*zap.Logger, *Config) {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating a logger: %s\n", err)
		os.Exit(1)
	}

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	log.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return log, config
}

// Partial converts the configured override into a partial weight vector.
func (w *WeightsConfig) Partial() *suitability.PartialWeights {
	if w == nil {
		return nil
	}
	if w.Skills == nil && w.Experience == nil && w.Education == nil && w.Language == nil {
		return nil
	}
	return &suitability.PartialWeights{
		Skills:     w.Skills,
		Experience: w.Experience,
		Education:  w.Education,
		Language:   w.Language,
	}
}

func newCalculator(config *Config, log *zap.Logger) *suitability.Calculator {
	aliases := suitability.DefaultAliases()
	fold := false

	if config.Matching != nil {
		fold = config.Matching.FoldDiacritics

		mains := make([]string, 0, len(config.Matching.Aliases))
		for main := range config.Matching.Aliases {
			if strings.TrimSpace(main) != "" {
				mains = append(mains, main)
			}
		}
		sort.Strings(mains)

		for _, main := range mains {
			aliases = aliases.With(main, config.Matching.Aliases[main]...)
		}
	}

	matcher := suitability.NewMatcher(aliases, suitability.WithDiacriticFolding(fold))
	log.Debug("prepared keyword matcher",
		zap.Int("alias_groups", aliases.Len()),
		zap.Bool("fold_diacritics", fold),
	)

	return suitability.New(
		suitability.WithMatcher(matcher),
		suitability.WithLogger(log),
	)
}

func openStore(config *Config, log *zap.Logger) tracker.Store {
	store, err := tracker.Open(config.Storage.Driver, config.Storage.Path)
	if err != nil {
		log.Fatal("opening application store",
			zap.Error(err),
			zap.String("driver", config.Storage.Driver),
			zap.String("path", config.Storage.Path),
			zap.String("hint", "set storage.path in the config or FIT_SCORER_STORAGE_PATH"),
		)
	}
	return store
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
