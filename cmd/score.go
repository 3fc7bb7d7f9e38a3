package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/fit-scorer/internal/logger"
	"github.com/spigell/fit-scorer/internal/suitability"
)

type scoredFile struct {
	File   string              `json:"file"`
	Result *suitability.Result `json:"result"`
}

var scoreCmd = &cobra.Command{
	Use:   "score FILE...",
	Short: "Score candidate/job documents (full profile or flat keyword lists)",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runScore(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().IntP("concurrency", "c", runtime.NumCPU(), "how many files are scored at once")
}

func runScore(cmd *cobra.Command, files []string) {
	log, config := setup()
	calc := newCalculator(config, log)
	defaults := config.Weights.Partial()

	limit, _ := cmd.Flags().GetInt("concurrency")
	if limit <= 0 {
		limit = 1
	}

	scored, err := scoreFiles(context.Background(), calc, files, defaults, limit, log)
	if err != nil {
		log.Fatal("scoring failed", zap.Error(err))
	}

	var out any = scored
	if len(scored) == 1 {
		out = scored[0].Result
	}

	if err := printJSON(out); err != nil {
		log.Fatal("printing results", zap.Error(err))
	}
}

// scoreFiles scores every file with at most limit files in flight. Results keep the input order.
func scoreFiles(ctx context.Context, calc *suitability.Calculator, files []string, defaults *suitability.PartialWeights, limit int, log *zap.Logger) ([]scoredFile, error) {
	scored := make([]scoredFile, len(files))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, file := range files {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			doc, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}

			res, err := scoreDocument(calc, doc, defaults)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}

			scored[i] = scoredFile{File: file, Result: res}
			log.Info("scored", append([]zap.Field{zap.String("file", file)}, logger.ResultFields(res)...)...)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return scored, nil
}
