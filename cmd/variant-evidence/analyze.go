// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/variant-evidence/internal/evidence"
	"github.com/pdiddy/variant-evidence/internal/pipeline"
	"github.com/pdiddy/variant-evidence/internal/report"
	"github.com/pdiddy/variant-evidence/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "variant-evidence/0.1"
	defaultModel     = "claude-sonnet-4-20250514"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Assess the functional evidence for one variant",
	Long: `Analyze runs the full pipeline for a single variant given by genomic
coordinate: identifier annotation, literature aggregation, relevance
filtering, experiment extraction, and PS3/BS3 consolidation. The result
is printed as a console report (or JSON/YAML) and saved to the evidence
store unless --no-store is given.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("chrom", "", "chromosome (e.g. 2, X)")
	analyzeCmd.Flags().Int("pos", 0, "1-based genomic position")
	analyzeCmd.Flags().String("ref", "", "reference allele")
	analyzeCmd.Flags().String("alt", "", "alternate allele")
	analyzeCmd.Flags().String("assembly", "GRCh38", "genome assembly: GRCh38 or GRCh37")
	analyzeCmd.Flags().String("gene", "", "gene symbol override (normally resolved by annotation)")
	analyzeCmd.Flags().String("provider", "", "AI provider: anthropic or openai")
	analyzeCmd.Flags().String("model", "", "AI model identifier")
	analyzeCmd.Flags().Int("workers", 0, "concurrent AI calls per stage (default 4)")
	analyzeCmd.Flags().Duration("timeout", 0, "overall run deadline (0 = none)")
	analyzeCmd.Flags().String("store", "", "evidence database path (default evidence/evidence.db)")
	analyzeCmd.Flags().Bool("no-store", false, "do not save this run to the evidence store")
	analyzeCmd.Flags().Bool("json", false, "output the full result as JSON")
	analyzeCmd.Flags().Bool("yaml", false, "output the full result as YAML")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	v, err := variantFromFlags(cmd)
	if err != nil {
		return err
	}

	cfg := pipelineConfig(cmd)
	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	yamlOutput, _ := cmd.Flags().GetBool("yaml")

	// Progress goes to stderr so machine-readable output stays clean.
	progress := os.Stderr

	result := p.Run(context.Background(), v, progress)

	noStore, _ := cmd.Flags().GetBool("no-store")
	if !noStore {
		store, err := evidence.NewStore(cfg.Store)
		if err != nil {
			return err
		}
		defer store.Close()

		runID, err := store.SaveRun(*result)
		if err != nil {
			return fmt.Errorf("saving run: %w", err)
		}
		fmt.Fprintf(progress, "saved as run %d\n", runID)
	}

	switch {
	case jsonOutput:
		return report.WriteJSON(result, os.Stdout)
	case yamlOutput:
		return report.WriteYAML(result, os.Stdout)
	default:
		report.WriteConsole(result, os.Stdout)
		return nil
	}
}

func variantFromFlags(cmd *cobra.Command) (types.Variant, error) {
	chrom, _ := cmd.Flags().GetString("chrom")
	pos, _ := cmd.Flags().GetInt("pos")
	ref, _ := cmd.Flags().GetString("ref")
	alt, _ := cmd.Flags().GetString("alt")
	assembly, _ := cmd.Flags().GetString("assembly")
	gene, _ := cmd.Flags().GetString("gene")

	if chrom == "" || pos <= 0 || ref == "" || alt == "" {
		return types.Variant{}, fmt.Errorf("required: --chrom, --pos, --ref, --alt")
	}
	if assembly != "GRCh38" && assembly != "GRCh37" {
		return types.Variant{}, fmt.Errorf("unsupported assembly %q: use GRCh38 or GRCh37", assembly)
	}

	return types.Variant{
		Chrom:      chrom,
		Pos:        pos,
		Ref:        ref,
		Alt:        alt,
		Assembly:   assembly,
		GeneSymbol: gene,
	}, nil
}

// pipelineConfig assembles the run configuration: flags override config
// file values, which override built-in defaults; API keys fall back to
// .secrets/ files.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	assembly, _ := cmd.Flags().GetString("assembly")
	provider, _ := cmd.Flags().GetString("provider")
	model, _ := cmd.Flags().GetString("model")
	workers, _ := cmd.Flags().GetInt("workers")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	storePath, _ := cmd.Flags().GetString("store")

	if provider == "" {
		provider = viper.GetString("ai.provider")
	}
	if provider == "" {
		provider = string(types.ProviderAnthropic)
	}
	if model == "" {
		model = viper.GetString("ai.model")
	}
	if model == "" {
		model = defaultModel
	}
	if workers == 0 {
		workers = viper.GetInt("ai.workers")
	}
	if timeout == 0 {
		timeout = viper.GetDuration("run_timeout")
	}
	if storePath == "" {
		storePath = viper.GetString("store.path")
	}

	httpCfg := types.HTTPConfig{
		Timeout:   defaultTimeout,
		UserAgent: defaultUserAgent,
	}
	if d := viper.GetDuration("http.timeout"); d > 0 {
		httpCfg.Timeout = d
	}

	apiKey := ""
	switch types.AIProvider(provider) {
	case types.ProviderOpenAI:
		apiKey = secretDefault("openai-api-key", viper.GetString("ai.api_key"))
	default:
		apiKey = secretDefault("anthropic-api-key", viper.GetString("ai.api_key"))
	}

	perKeyDelay := viper.GetDuration("literature.per_key_delay")
	if perKeyDelay == 0 {
		perKeyDelay = 500 * time.Millisecond
	}

	moderateForStrong := viper.GetInt("assessment.moderate_for_strong")

	return types.PipelineConfig{
		Annotation: types.AnnotationConfig{
			HTTPConfig: httpCfg,
			Assembly:   assembly,
		},
		Literature: types.LiteratureConfig{
			HTTPConfig:  httpCfg,
			NCBIAPIKey:  secretDefault("ncbi-api-key", viper.GetString("literature.ncbi_api_key")),
			NCBIEmail:   secretDefault("ncbi-email", viper.GetString("literature.ncbi_email")),
			PerKeyDelay: perKeyDelay,
			MaxRetries:  viper.GetInt("literature.max_retries"),
		},
		AI: types.AIConfig{
			Provider:    types.AIProvider(provider),
			Model:       model,
			APIKey:      apiKey,
			Temperature: viper.GetFloat64("ai.temperature"),
			MaxRetries:  viper.GetInt("ai.max_retries"),
			Workers:     workers,
		},
		Assessment: types.AssessmentConfig{
			ModerateForStrong: moderateForStrong,
		},
		Store: types.StoreConfig{
			Path:       storePath,
			MaxResults: viper.GetInt("store.max_results"),
		},
		RunTimeout: timeout,
	}
}
