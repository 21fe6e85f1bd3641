package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"xlcheck/internal/behavior"
	"xlcheck/internal/compare"
	"xlcheck/internal/config"
	"xlcheck/internal/extractor"
	"xlcheck/internal/finding"
	"xlcheck/internal/report"
	"xlcheck/internal/schema"
	"xlcheck/internal/storage"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "xlcheck",
		Short: "Cross-language geometry API and behavior consistency checker",
	}
	configPath   string
	settingsPath string
	dbPath       string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "validation_config.json", "Path to the validation config (file lists per language)")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "config.yaml", "Path to the tool settings file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "xlcheck.db", "Path to the local run history database (SQLite)")

	validateCmd.Flags().BoolVar(&runBehavioral, "behavioral", false, "Also run behavioral consistency cases")
	validateCmd.Flags().BoolVar(&saveRun, "save", false, "Record this run in the history database")
	validateCmd.Flags().StringVar(&jsonPath, "json", "", "Write a machine-readable report to this path")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of runs to show")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(historyCmd)
}

var (
	runBehavioral bool
	saveRun       bool
	jsonPath      string
	historyLimit  int
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run the full validation pipeline and exit non-zero on any finding",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		started := time.Now()

		settings, err := config.LoadSettings(settingsPath)
		if err != nil {
			log.Fatalf("Failed to load settings: %v", err)
		}

		files, err := config.LoadFileSet(configPath)
		if err != nil {
			log.Fatalf("Failed to load validation config: %v", err)
		}
		resolved := files.ResolveRelative(filepath.Dir(configPath))

		sch, err := schema.Load(resolved.SchemaFile)
		if err != nil {
			log.Fatalf("Failed to load schema: %v", err)
		}

		runID := uuid.NewString()
		artifact := report.NewArtifact(runID)

		fmt.Println("🔍 Starting cross-language validation...")

		// 1. Structural extraction
		fmt.Println("📋 API Consistency Check:")
		stage := artifact.BeginStage("extract")

		var findings []finding.Finding
		var extractions []compare.Extraction
		filesChecked := 0

		for _, lang := range config.Languages {
			ext, err := extractor.ForLanguage(lang)
			if err != nil {
				log.Fatalf("Failed to create %s extractor: %v", lang, err)
			}
			for _, path := range resolved.ForLanguage(lang) {
				fmt.Printf("  Checking %s: %s\n", lang, path)
				filesChecked++

				unit, err := extractor.ExtractFile(ext, path)
				if err != nil {
					// A single bad file never prevents checking the rest.
					findings = append(findings, finding.Finding{
						Language: lang,
						File:     path,
						Kind:     finding.KindExtractionFailure,
						Detail:   err.Error(),
					})
					extractions = append(extractions, compare.Extraction{Language: lang, File: path})
					continue
				}
				extractions = append(extractions, compare.Extraction{Language: lang, File: path, Unit: unit})
			}
		}
		artifact.EndStage(stage, nil)

		// 2. Structural comparison
		stage = artifact.BeginStage("compare")
		findings = append(findings, compare.Diff(sch, extractions)...)
		artifact.EndStage(stage, nil)

		// 3. Behavioral cases
		casesRun := 0
		if runBehavioral {
			fmt.Println("🧪 Behavioral Consistency Check:")
			stage = artifact.BeginStage("behavioral")

			cases := sch.Cases
			if len(cases) == 0 {
				cases = behavior.DefaultCases()
			}
			runner := behavior.NewRunner(settings, resolved, runID)
			for _, c := range cases {
				fmt.Printf("  Testing %s...\n", c.Name)
				findings = append(findings, runner.Run(ctx, []schema.Case{c})...)
				casesRun++
			}
			artifact.EndStage(stage, nil)
		}

		// 4. Report
		summary := report.Summarize(findings, report.Stats{FilesChecked: filesChecked, CasesRun: casesRun})
		fmt.Println()
		fmt.Print(report.Render(findings, summary))

		if jsonPath != "" {
			if err := artifact.Save(jsonPath, findings, summary); err != nil {
				log.Printf("Warning: failed to write report artifact: %v", err)
			}
		}

		if saveRun {
			store, err := storage.NewSQLiteStore(dbPath)
			if err != nil {
				log.Printf("Warning: failed to open history database: %v", err)
			} else {
				defer store.Close()
				run := storage.Run{
					ID:           runID,
					StartedAt:    started,
					FinishedAt:   time.Now(),
					FilesChecked: filesChecked,
					FindingCount: summary.TotalFinds,
					Pass:         summary.Pass,
				}
				if err := store.SaveRun(ctx, run, findings); err != nil {
					log.Printf("Warning: failed to record run: %v", err)
				}
			}
		}

		if !summary.Pass {
			os.Exit(1)
		}
	},
}

var addCmd = &cobra.Command{
	Use:   "add <language> <path>...",
	Short: "Add source files to the validation config",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		files, err := config.LoadOrInitFileSet(configPath)
		if err != nil {
			log.Fatalf("Failed to load validation config: %v", err)
		}

		lang := args[0]
		for _, path := range args[1:] {
			if err := files.Add(lang, path); err != nil {
				log.Fatalf("Failed to add file: %v", err)
			}
		}
		if err := files.Save(configPath); err != nil {
			log.Fatalf("Failed to save validation config: %v", err)
		}
		fmt.Printf("✅ Added %d %s file(s) to %s\n", len(args)-1, lang, configPath)
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <language> <path>...",
	Short: "Remove source files from the validation config",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		files, err := config.LoadFileSet(configPath)
		if err != nil {
			log.Fatalf("Failed to load validation config: %v", err)
		}

		lang := args[0]
		for _, path := range args[1:] {
			if err := files.Remove(lang, path); err != nil {
				log.Fatalf("Failed to remove file: %v", err)
			}
		}
		if err := files.Save(configPath); err != nil {
			log.Fatalf("Failed to save validation config: %v", err)
		}
		fmt.Printf("✅ Removed %d %s file(s) from %s\n", len(args)-1, lang, configPath)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent recorded validation runs",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		store, err := storage.NewSQLiteStore(dbPath)
		if err != nil {
			log.Fatalf("Failed to open history database: %v", err)
		}
		defer store.Close()

		runs, err := store.RecentRuns(ctx, historyLimit)
		if err != nil {
			log.Fatalf("Failed to load history: %v", err)
		}
		if len(runs) == 0 {
			fmt.Println("No recorded runs.")
			return
		}

		for _, r := range runs {
			status := "❌ fail"
			if r.Pass {
				status = "✅ pass"
			}
			fmt.Printf("%s  %s  files=%d findings=%d  %s\n",
				r.StartedAt.Local().Format("2006-01-02 15:04:05"), status,
				r.FilesChecked, r.FindingCount, r.ID)
		}
	},
}
