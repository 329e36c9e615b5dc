package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/truthquest/truthquest/internal/model"
	"github.com/truthquest/truthquest/internal/pipeline"
	"github.com/truthquest/truthquest/internal/video"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze multiple videos from a file in parallel",
	Long: `Batch fact-checks multiple YouTube videos concurrently:
- Read video URLs from an input file (one per line, # comments allowed)
- Analyze videos in parallel with a configurable worker count
- Write one JSON result per video into the output directory

Example:
  truthquest batch urls.txt
  truthquest batch urls.txt --concurrency 4 --output-dir ./results
  truthquest batch urls.txt --timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent analyses")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./truthquest-results", "output directory for results")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable transcript cache")
	batchCmd.Flags().BoolVar(&exhaustive, "exhaustive", false, "verify every verifiable claim instead of sampling")
}

type batchResult struct {
	url    string
	result *model.AnalysisResult
	err    error
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	urls, err := readURLFile(file)
	if err != nil {
		return fmt.Errorf("read URL file: %w", err)
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs found in %s", file)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Analyzing %d videos with %d workers...\n\n", len(urls), concurrency)

	results := make([]batchResult, len(urls))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)

	for i, url := range urls {
		wg.Add(1)
		go func(idx int, u string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = batchResult{url: u, err: ctx.Err()}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			res, err := p.Analyze(ctx, u, pipeline.Options{Exhaustive: exhaustive})
			results[idx] = batchResult{url: u, result: res, err: err}
		}(i, url)
	}
	wg.Wait()

	successCount := 0
	failureCount := 0
	for _, r := range results {
		if r.err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.url, r.err)
			continue
		}

		jsonPath := filepath.Join(outputDir, r.result.VideoID+".json")
		if err := writeResultJSON(r.result, jsonPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", r.url, err)
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s: grade %s (%.1f/100)\n", r.result.VideoID, r.result.Grade, r.result.Score)
	}

	fmt.Fprintf(os.Stderr, "\nTotal: %d  Success: %d  Failures: %d  Output: %s\n",
		len(results), successCount, failureCount, outputDir)

	if failureCount > 0 {
		return fmt.Errorf("%d of %d analyses failed", failureCount, len(results))
	}
	return nil
}

// readURLFile loads one URL per line, skipping blanks, comments and lines
// that are not recognizable video URLs
func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, ok := video.ExtractID(line); !ok {
			fmt.Fprintf(os.Stderr, "skipping unrecognized URL: %s\n", line)
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}
