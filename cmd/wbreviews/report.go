package main

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/mrskbj/wildberries-reviews-analysis/application/service"
	"github.com/mrskbj/wildberries-reviews-analysis/domain/sentiment"
	"github.com/mrskbj/wildberries-reviews-analysis/infrastructure/persistence"
	"github.com/mrskbj/wildberries-reviews-analysis/internal/config"
	"github.com/mrskbj/wildberries-reviews-analysis/internal/log"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	var (
		envFile string
		dbURL   string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print rating and sentiment distributions plus anomalies",
		Long: `Print rating and sentiment distributions plus anomalies.

Anomalies are reviews whose star rating contradicts the sentiment of
their text: low-rated reviews with positive text, and five-star reviews
with negative text.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), envFile, dbURL)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&dbURL, "db-url", "", "Database URL (overrides DB_URL)")

	return cmd
}

func runReport(ctx context.Context, envFile, dbURL string) error {
	cfg, err := loadAppConfig(envFile)
	if err != nil {
		return err
	}
	if dbURL != "" {
		cfg = cfg.Apply(config.WithDBURL(dbURL))
	}

	logger := log.NewLogger(cfg)
	logger.SetDefault()
	slogger := logger.Slog()

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slogger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	reporter := service.NewReporter(persistence.NewSentimentStore(db), slogger)
	report, err := reporter.Build(ctx)
	if err != nil {
		return err
	}

	printReport(report)
	return nil
}

func printReport(report service.Report) {
	fmt.Println("Rating distribution:")
	ratings := make([]int, 0, len(report.RatingCounts()))
	for rating := range report.RatingCounts() {
		ratings = append(ratings, rating)
	}
	sort.Ints(ratings)
	for _, rating := range ratings {
		fmt.Printf("  %d stars: %d\n", rating, report.RatingCounts()[rating])
	}

	fmt.Println("Sentiment distribution:")
	for _, label := range []sentiment.Label{sentiment.LabelPositive, sentiment.LabelNeutral, sentiment.LabelNegative} {
		fmt.Printf("  %s: %d\n", label, report.LabelCounts()[label])
	}

	fmt.Printf("Low-rated reviews with positive text: %d\n", len(report.LowRatedPositive()))
	for _, m := range report.LowRatedPositive() {
		printMismatch(m)
	}

	fmt.Printf("Five-star reviews with negative text: %d\n", len(report.HighRatedNegative()))
	for _, m := range report.HighRatedNegative() {
		printMismatch(m)
	}
}

func printMismatch(m sentiment.Mismatch) {
	text := m.Text()
	if len(text) > 80 {
		text = text[:77] + "..."
	}
	fmt.Printf("  #%d %s (%d stars, %s): %s\n", m.ReviewID(), m.ProductName(), m.Rating(), m.Label(), text)
}
