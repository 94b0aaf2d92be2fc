package main

import (
	"fmt"
	"log"
	"os"

	"discharge-care-be/internal/pkg/logger"
	"discharge-care-be/internal/repository/unitofwork"
	"discharge-care-be/internal/service"
	"discharge-care-be/pkg/database"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var seedFile string

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load patient discharge reports into the database",
	Long: `seed reads a JSON array of patient discharge reports and creates one
patient record per entry. Invalid reports and names that are already
stored are skipped, so the command can be re-run safely.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runSeed,
}

func init() {
	rootCmd.Flags().StringVarP(&seedFile, "file", "f", "data/patients.json", "JSON array of patient discharge reports")
}

func runSeed(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		return fmt.Errorf("DB_CONNECTION_STRING is not set")
	}

	reports, err := loadReports(seedFile)
	if err != nil {
		return err
	}

	db, err := database.NewGormDBFromDSN(dsn, os.Getenv("DB_LOG_LEVEL"))
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	log.Printf("Seeding %d patient reports...", len(reports))

	patients := service.NewPatientService(unitofwork.NewRepositoryFactory(db), logger.NewNopLogger())
	created, skipped := seedReports(cmd.Context(), patients, reports)

	log.Printf("Success: %d patients created, %d skipped.", created, skipped)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
