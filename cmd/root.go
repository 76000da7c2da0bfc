package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "skillgap"
)

type Config struct {
	Description     string           `mapstructure:"description"`
	DescriptionFile string           `mapstructure:"description-file"`
	Developer       *DeveloperConfig `mapstructure:"developer"`
	Pipeline        *PipelineConfig  `mapstructure:"pipeline"`
	AI              *AIConfig        `mapstructure:"ai"`
}

type DeveloperConfig struct {
	Skills     []string `mapstructure:"skills"`
	SkillsFile string   `mapstructure:"skills-file"`
}

type PipelineConfig struct {
	ComparisonMode string   `mapstructure:"comparison-mode" validate:"omitempty,oneof=two-bucket three-bucket"`
	ScoringPolicy  string   `mapstructure:"scoring-policy" validate:"omitempty,oneof=percentage points"`
	ScoreSource    string   `mapstructure:"score-source" validate:"omitempty,oneof=formula oracle"`
	FallbackSkills []string `mapstructure:"fallback-skills"`
	MaxRawLength   int      `mapstructure:"max-raw-length" validate:"gte=0"`
}

type AIConfig struct {
	Provider             string        `mapstructure:"provider" validate:"omitempty,oneof=gemini offline"`
	Timeout              time.Duration `mapstructure:"timeout" validate:"gte=0"`
	MaxInstructionLength int           `mapstructure:"max-instruction-length" validate:"gte=0"`
	MaxLogLength         int           `mapstructure:"max-log-length" validate:"gte=0"`
	Gemini               *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile  string  `mapstructure:"api-key-file"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature" validate:"gte=0,lte=2"`
}

// Validate checks enumerations and ranges. Nested sections are optional.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "skillgap estimates how well a developer's skills fit a client's project description",
	}
)

// Execute executes the root command.
func Execute() error {
	// .env is optional.
	_ = godotenv.Load()

	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is skillgap.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for the assess command.
	if assessCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	// An explicit config must parse; the default one may be absent.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, err
	}

	if config.Developer == nil {
		config.Developer = &DeveloperConfig{}
	}
	if config.Pipeline == nil {
		config.Pipeline = &PipelineConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}
