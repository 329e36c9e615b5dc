package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/truthquest/truthquest/internal/model"
	"github.com/truthquest/truthquest/internal/pipeline"
)

var (
	outJSON    string
	timeout    time.Duration
	noCache    bool
	exhaustive bool
	oauthToken string
	sampleSize int
	workers    int
	llmModel   string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Analyze a YouTube video and grade its factual reliability",
	Long: `Analyze fact-checks a single YouTube video:
- Acquire the transcript (captions, yt-dlp, or Whisper fallback)
- Extract verifiable factual claims and the central thesis
- Check a sample of claims against web evidence
- Grade the video from A (High Truth) to D (Don't Believe)

Example:
  truthquest analyze https://www.youtube.com/watch?v=dQw4w9WgXcQ
  truthquest analyze https://youtu.be/dQw4w9WgXcQ --json result.json
  truthquest analyze https://youtu.be/dQw4w9WgXcQ --exhaustive --workers 8`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "write full result JSON to path")

	// Analysis flags
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable transcript cache")
	analyzeCmd.Flags().BoolVar(&exhaustive, "exhaustive", false, "verify every verifiable claim instead of sampling")
	analyzeCmd.Flags().StringVar(&oauthToken, "oauth-token", "", "YouTube OAuth access token for the caption fallback")
	analyzeCmd.Flags().IntVar(&sampleSize, "sample", 0, "claims to sample (0 uses the configured default)")
	analyzeCmd.Flags().IntVar(&workers, "workers", 0, "concurrent verification workers (0 uses the configured default)")

	// LLM flags
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "", "override the LLM model name")
}

// buildConfig assembles configuration from defaults, flags and environment
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Output.Verbose = verbose
	cfg.Cache.Enabled = !noCache

	cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	cfg.Search.APIKey = os.Getenv("BRAVE_SEARCH_API_KEY")
	cfg.YouTube.APIKey = os.Getenv("YOUTUBE_API_KEY")

	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if sampleSize > 0 {
		cfg.Verify.SampleSize = sampleSize
	}
	if workers > 0 {
		cfg.Verify.Workers = workers
	}

	return cfg, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	url := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", url)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	result, err := p.Analyze(ctx, url, pipeline.Options{
		OAuthToken: oauthToken,
		Exhaustive: exhaustive,
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if outJSON != "" {
		if err := writeResultJSON(result, outJSON); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}

	printResult(result)
	return nil
}

func writeResultJSON(result *model.AnalysisResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// printResult renders the human-readable summary to stdout
func printResult(result *model.AnalysisResult) {
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  Video %s: Grade %s (%s)\n", result.VideoID, result.Grade, result.GradeDescription)
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println()

	if result.Grade == model.GradeNA {
		fmt.Println("No verifiable factual claims were found in this video.")
		fmt.Println()
		return
	}

	fmt.Printf("  Truth score:     %.1f/100\n", result.Score)
	fmt.Printf("  Claims found:    %d\n", result.TotalClaims)
	fmt.Printf("  Claims checked:  %d\n", result.SampledClaims)
	fmt.Printf("  Supported:       %d\n", result.Summary.Supported)
	fmt.Printf("  Partially true:  %d\n", result.Summary.PartiallyTrue)
	fmt.Printf("  Refuted:         %d\n", result.Summary.Refuted)
	fmt.Printf("  Transcript via:  %s\n", result.Method)
	fmt.Println()

	if result.ThesisVerdict != nil {
		fmt.Printf("  Central thesis: %s (confidence %d%%)\n", result.ThesisVerdict.Label, result.ThesisVerdict.Confidence)
		if result.ThesisVerdict.Reasoning != "" {
			fmt.Printf("    %s\n", result.ThesisVerdict.Reasoning)
		}
		fmt.Println()
	}

	for i, vc := range result.VerifiedClaims {
		fmt.Printf("  %d. [%s] %s\n", i+1, vc.Verification.Label, vc.Text)
		if vc.Verification.Reasoning != "" {
			fmt.Printf("     %s\n", vc.Verification.Reasoning)
		}
		for _, src := range vc.Verification.Sources {
			fmt.Printf("     → %s\n", src.URL)
		}
	}
	if len(result.VerifiedClaims) > 0 {
		fmt.Println()
	}
}
