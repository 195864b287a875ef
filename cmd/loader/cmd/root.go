// Package cmd provides the CLI commands for the offline dataset loader.
package cmd

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JiaXinLow/period-poverty-api/internal/config"
	"github.com/JiaXinLow/period-poverty-api/internal/loader"
	"github.com/JiaXinLow/period-poverty-api/internal/repository"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var dataDir string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "loader",
	Short: "Seed the period-poverty datasets from processed CSV files",
	Long: `loader populates the datastore from the processed CSV exports.

Loading is an upsert on each table's natural key, so re-running over
the same files is safe.

Examples:
  loader all
  loader price-index --data-dir data/processed
  loader welfare data/processed/pip_uk_percentiles.csv`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding the processed CSV files (default from DATA_DIR)")

	rootCmd.AddCommand(priceIndexCmd)
	rootCmd.AddCommand(welfareCmd)
	rootCmd.AddCommand(hygieneCmd)
	rootCmd.AddCommand(allCmd)
}

// setup connects to the database and builds a loader over it. The
// returned func closes the connection.
func setup() (*loader.Loader, *config.Config, func(), error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(level)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo := repository.NewRepository(db)
	if err := repo.EnsureSchema(); err != nil {
		db.Close()
		return nil, nil, nil, err
	}

	return loader.New(repo, logger), cfg, func() { db.Close() }, nil
}

// datasetPath resolves the CSV path for a dataset: an explicit arg
// wins, otherwise the conventional file under the data dir.
func datasetPath(args []string, cfg *config.Config, filename string) string {
	if len(args) > 0 {
		return args[0]
	}
	return filepath.Join(cfg.DataDir, filename)
}

var priceIndexCmd = &cobra.Command{
	Use:   "price-index [file]",
	Short: "Load the monthly personal care CPI series",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, cfg, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()
		_, err = l.LoadPriceIndex(datasetPath(args, cfg, "cpi_personal_care.csv"))
		return err
	},
}

var welfareCmd = &cobra.Command{
	Use:   "welfare [file]",
	Short: "Load the PIP welfare percentile table",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, cfg, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()
		_, err = l.LoadWelfare(datasetPath(args, cfg, "pip_uk_percentiles.csv"))
		return err
	},
}

var hygieneCmd = &cobra.Command{
	Use:   "hygiene [file]",
	Short: "Load the hygiene-access indicator table",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, cfg, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()
		_, err = l.LoadHygiene(datasetPath(args, cfg, "hygiene_uk.csv"))
		return err
	},
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Load every dataset from the data directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, cfg, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()
		if _, err := l.LoadPriceIndex(filepath.Join(cfg.DataDir, "cpi_personal_care.csv")); err != nil {
			return err
		}
		if _, err := l.LoadWelfare(filepath.Join(cfg.DataDir, "pip_uk_percentiles.csv")); err != nil {
			return err
		}
		_, err = l.LoadHygiene(filepath.Join(cfg.DataDir, "hygiene_uk.csv"))
		return err
	},
}
