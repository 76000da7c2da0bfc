package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spigell/skillgap/internal/ai"
	"github.com/spigell/skillgap/internal/ai/gemini"
	"github.com/spigell/skillgap/internal/logger"
	"github.com/spigell/skillgap/internal/pipeline"
	"github.com/spigell/skillgap/internal/report"
	"github.com/spigell/skillgap/internal/secrets"
	"github.com/spigell/skillgap/internal/skills"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	PromptShowReport = "Show report"
	PromptShowJSON   = "Show JSON"
	PromptDumpToFile = "Dump assessment to file"
	PromptExit       = "Exit"

	outputText = "text"
	outputJSON = "json"

	providerGemini  = "gemini"
	providerOffline = "offline"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowReport, PromptShowJSON, PromptDumpToFile, PromptExit},
}

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Assess a project description against the developer's skills",
	Run: func(cmd *cobra.Command, _ []string) {
		assess(cmd)
	},
}

func init() {
	rootCmd.AddCommand(assessCmd)

	assessCmd.Flags().String("description", "", "project description in plain words")
	assessCmd.Flags().String("description-file", "", "file with the project description")
	assessCmd.Flags().StringSlice("skill", nil, "developer skill, may be repeated; replaces the configured roster")
	assessCmd.Flags().Bool("offline", false, "do not call the model; every stage uses its deterministic fallback")
	assessCmd.Flags().StringP("output", "o", outputText, "output format: text or json")
	assessCmd.Flags().BoolP("auto-approve", "y", false, "print the result and exit without asking")

	viper.BindPFlag("description", assessCmd.Flags().Lookup("description"))
	viper.BindPFlag("description-file", assessCmd.Flags().Lookup("description-file"))
}

// assess is the main command for the cli.
func assess(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the skillgap", zap.String("version", resolveVersion(version, debug.ReadBuildInfo)))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	output, _ := cmd.Flags().GetString("output")
	if output != outputText && output != outputJSON {
		logger.Fatal("unsupported output format", zap.String("output", output))
	}
	autoApprove, _ := cmd.Flags().GetBool("auto-approve")

	if skillFlags, _ := cmd.Flags().GetStringSlice("skill"); len(skillFlags) > 0 {
		config.Developer.Skills = skillFlags
		config.Developer.SkillsFile = ""
	}
	if offline, _ := cmd.Flags().GetBool("offline"); offline {
		config.AI.Provider = providerOffline
	}

	roster, err := resolveRoster(config.Developer)
	if err != nil {
		logger.Fatal("loading developer skills", zap.Error(err),
			zap.String("hint", "set developer.skills in the configuration file or pass --skill"),
		)
	}

	description, err := resolveDescription(config)
	if err != nil {
		logger.Fatal("loading project description", zap.Error(err))
	}
	if description == "" && !autoApprove {
		description, err = askDescription()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
	}

	pipelineCfg, err := newPipelineConfig(config.Pipeline)
	if err != nil {
		logger.Fatal("building pipeline config", zap.Error(err))
	}

	oracle, err := newOracle(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building the oracle", zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY, GEMINI_API_KEY_FILE or ai.gemini.api-key-file, or pass --offline"),
		)
	}

	assessment, err := pipeline.New(oracle, pipelineCfg, logger).Run(ctx, description, roster)
	if err != nil {
		var incomplete *pipeline.IncompleteError
		if errors.As(err, &incomplete) {
			logger.Fatal("assessment interrupted", zap.Stringer("state", incomplete.State), zap.Error(incomplete.Err))
		}
		logger.Fatal("assessment failed", zap.Error(err))
	}

	out := cmd.OutOrStdout()

	if autoApprove {
		action := PromptShowReport
		if output == outputJSON {
			action = PromptShowJSON
		}
		if err := handleAction(action, out, logger, assessment); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, out, logger, assessment); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, out io.Writer, logger *zap.Logger, assessment *pipeline.Assessment) error {
	switch action {
	case PromptShowReport:
		_, err := fmt.Fprint(out, report.Text(assessment))
		return err
	case PromptShowJSON:
		return report.JSON(out, assessment)
	case PromptDumpToFile:
		filename, err := report.DumpToTmpFile(assessment)
		if err != nil {
			return fmt.Errorf("dump assessment to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func askDescription() (string, error) {
	descriptionPrompt := promptui.Prompt{
		Label: "Describe the project in plain words",
	}
	description, err := descriptionPrompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(description), nil
}

// resolveRoster prefers the skills file over inline skills.
func resolveRoster(cfg *DeveloperConfig) (*skills.Set, error) {
	if cfg == nil {
		return nil, errors.New("developer section is required")
	}

	labels := cfg.Skills
	if file := strings.TrimSpace(cfg.SkillsFile); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read skills file: %w", err)
		}
		labels = nil
		if err := yaml.Unmarshal(data, &labels); err != nil {
			return nil, fmt.Errorf("parse skills file %s: %w", file, err)
		}
	}

	roster := skills.NewSet(labels...)
	if roster.Len() == 0 {
		return nil, errors.New("developer skills are empty")
	}
	return roster, nil
}

// resolveDescription prefers the inline description over the file.
func resolveDescription(cfg *Config) (string, error) {
	if description := strings.TrimSpace(cfg.Description); description != "" {
		return description, nil
	}

	file := strings.TrimSpace(cfg.DescriptionFile)
	if file == "" {
		return "", nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("read description file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func newPipelineConfig(cfg *PipelineConfig) (pipeline.Config, error) {
	if cfg == nil {
		cfg = &PipelineConfig{}
	}

	mode, err := pipeline.ParseComparisonMode(cfg.ComparisonMode)
	if err != nil {
		return pipeline.Config{}, err
	}
	policy, err := skills.ParseScoringPolicy(cfg.ScoringPolicy)
	if err != nil {
		return pipeline.Config{}, err
	}
	source, err := pipeline.ParseScoreSource(cfg.ScoreSource)
	if err != nil {
		return pipeline.Config{}, err
	}

	return pipeline.Config{
		ComparisonMode: mode,
		ScoringPolicy:  policy,
		ScoreSource:    source,
		FallbackSkills: cfg.FallbackSkills,
		MaxRawLength:   cfg.MaxRawLength,
	}, nil
}

func newOracle(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Oracle, error) {
	if cfg == nil {
		cfg = &AIConfig{}
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	switch provider {
	case providerOffline:
		log.Warn("running offline; every stage uses its deterministic fallback")
		return ai.Offline{}, nil
	case "", providerGemini:
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	gcfg := cfg.Gemini
	if gcfg == nil {
		gcfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:    "gemini api key",
		File:    gcfg.APIKeyFile,
		FileEnv: "GEMINI_API_KEY_FILE",
		Env:     "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, err
	}

	genLogger := logger.WithCommonFields(log, providerGemini, gcfg.Model)

	generator, err := gemini.NewGenerator(ctx, gemini.Config{
		APIKey:      apiKey,
		Model:       gcfg.Model,
		Temperature: gcfg.Temperature,
	}, genLogger)
	if err != nil {
		return nil, err
	}

	return ai.NewGateway(generator, ai.GatewayConfig{
		Timeout:             cfg.Timeout,
		MaxInstructionRunes: cfg.MaxInstructionLength,
		MaxLogLength:        cfg.MaxLogLength,
	}, logger.WithCommonFields(log, providerGemini, generator.Model())), nil
}
