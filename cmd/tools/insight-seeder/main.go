// cmd/tools/insight-seeder/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"demo-generator/internal/common/config"
	"demo-generator/internal/common/database"
	"demo-generator/internal/common/logger"
	demolog "demo-generator/internal/workers/data-access/demo-log"
	industryinsight "demo-generator/internal/workers/insight/industry-insight"
	"demo-generator/pkg/seed"
)

const dbTimeout = 30 * time.Second

func main() {
	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	statsCmd := flag.NewFlagSet("stats", flag.ExitOnError)

	seedPath := seedCmd.String("path", "configs/insights.json", "Path to seed file")
	dryRun := seedCmd.Bool("dry-run", false, "Validate only, do not write")

	exportPath := exportCmd.String("path", "configs/insights.json", "Destination file")
	builtin := exportCmd.Bool("builtin", false, "Export the built-in table instead of the database")

	validatePath := validateCmd.String("path", "configs/insights.json", "Path to seed file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	switch os.Args[1] {
	case "seed":
		seedCmd.Parse(os.Args[2:])
		n, err := runSeed(ctx, *seedPath, *dryRun)
		if err != nil {
			fmt.Printf("Seeding failed: %v\n", err)
			os.Exit(1)
		}
		if *dryRun {
			fmt.Printf("Dry run: %d insights would be written.\n", n)
		} else {
			fmt.Printf("Seeded %d insights.\n", n)
		}

	case "export":
		exportCmd.Parse(os.Args[2:])
		n, err := runExport(ctx, *exportPath, *builtin)
		if err != nil {
			fmt.Printf("Export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported %d insights to %s\n", n, *exportPath)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		if err := runValidate(*validatePath); err != nil {
			fmt.Printf("Seed file validation failed: %v\n", err)
			os.Exit(1)
		}

	case "stats":
		statsCmd.Parse(os.Args[2:])
		if err := runStats(ctx); err != nil {
			fmt.Printf("Stats failed: %v\n", err)
			os.Exit(1)
		}

	case "help":
		fallthrough
	default:
		help()
	}
}

func openDatabase(ctx context.Context) (*database.PostgresClient, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.Database.Postgres.Configured() {
		return nil, fmt.Errorf("database is not configured (set DATABASE_URL or DB_HOST)")
	}
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return nil, err
	}
	if err := pg.Ping(ctx); err != nil {
		pg.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		pg.Close()
		return nil, err
	}
	return pg, nil
}

func loadValid(path string) (*seed.File, error) {
	f, err := seed.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load seed file: %w", err)
	}
	if problems := seed.Validate(f); len(problems) > 0 {
		for _, p := range problems {
			fmt.Printf("  - %s\n", p)
		}
		return nil, fmt.Errorf("%d problems found", len(problems))
	}
	return f, nil
}

func runSeed(ctx context.Context, path string, dryRun bool) (int, error) {
	f, err := loadValid(path)
	if err != nil {
		return 0, err
	}
	if dryRun {
		return len(f.Insights), nil
	}

	pg, err := openDatabase(ctx)
	if err != nil {
		return 0, err
	}
	defer pg.Close()

	return seed.Apply(ctx, f, industryinsight.NewPostgresStore(pg.DB))
}

func runExport(ctx context.Context, path string, builtin bool) (int, error) {
	var store seed.Lister
	if !builtin {
		pg, err := openDatabase(ctx)
		if err != nil {
			return 0, err
		}
		defer pg.Close()
		store = industryinsight.NewPostgresStore(pg.DB)
	}

	f, err := seed.Export(ctx, store, time.Now())
	if err != nil {
		return 0, err
	}
	if err := seed.Save(f, path); err != nil {
		return 0, err
	}
	return len(f.Insights), nil
}

func runValidate(path string) error {
	f, err := loadValid(path)
	if err != nil {
		return err
	}
	fmt.Printf("Seed file validation passed. Found %d insights.\n", len(f.Insights))
	for industry, n := range f.Counts() {
		fmt.Printf("  %s: %d\n", industry, n)
	}
	return nil
}

func runStats(ctx context.Context) error {
	pg, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer pg.Close()

	repo := demolog.NewRepository(pg.DB, logger.NewNoOpLogger())
	stats, err := repo.IndustryStats(ctx)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No demos logged yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INDUSTRY\tDEMOS\tSUCCESSFUL\tEMAILS\tTOTAL COST\tAVG MS")
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.2f\t%.0f\n", s.Industry, s.Demos, s.Successful, s.EmailsSent, s.TotalCost, s.AvgProcessMs)
	}
	return w.Flush()
}

func help() {
	fmt.Print(`
Usage: insight-seeder <command> [flags]

Commands:
  seed      Upsert the insights of a seed file into the database
  export    Write database insights (or the built-in table) to a seed file
  validate  Validate a seed file
  stats     Show demo counts and cost per industry
  help      Show this help message

Examples:
  insight-seeder export -builtin -path configs/insights.json
  insight-seeder validate -path configs/insights.json
  insight-seeder seed -path configs/insights.json
  insight-seeder stats

Use 'insight-seeder <command> -h' for more information about a command.
` + "\n")
}
