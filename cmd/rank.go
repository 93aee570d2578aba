package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spigell/resume-scorer/internal/applicants"
	"github.com/spigell/resume-scorer/internal/filtering"
	"github.com/spigell/resume-scorer/internal/ranking"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptShowRanking         = "Show ranking"
	PromptShowSummary         = "Show summary"
	PromptExport              = "Export to xlsx"
	PromptReportToFile        = "Dump report to file"
	PromptApplicationsToFile  = "Dump applications to file"
	PromptAppendToExcludeFile = "Append ranked applications to exclude file"
	PromptExit                = "Exit"

	defaultExportPath = "ranking.xlsx"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Next?",
	Items: []string{PromptShowRanking, PromptShowSummary, PromptExport, PromptReportToFile, PromptApplicationsToFile, PromptAppendToExcludeFile, PromptExit},
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank all applications of an input file against its job",
	Run: func(cmd *cobra.Command, _ []string) {
		rank(cmd)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringP("input", "i", "", "an input file with a job and its applications")
	rankCmd.Flags().StringP("export", "x", "", "write the ranking to this xlsx file")
	rankCmd.Flags().BoolP("yes", "y", false, "do not ask what to do with the ranking")
	rankCmd.Flags().Bool("keep-duplicates", false, "rank every application of an applicant, not only the first")
	rankCmd.Flags().StringP("exclude-file", "e", "", "special file with application ids to exclude. Default is unset.")
	rankCmd.Flags().IntP("workers", "w", 0, "how many applications are scored concurrently")
	rankCmd.Flags().IntP("top", "t", 0, "show only the first N ranked applications")

	rankCmd.MarkFlagRequired("input")

	viper.BindPFlag("exclude-file", rankCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("ranking.workers", rankCmd.Flags().Lookup("workers"))
}

func rank(cmd *cobra.Command) {
	ctx := context.Background()
	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume-scorer", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	path, _ := cmd.Flags().GetString("input")
	input, err := applicants.Load(path)
	if err != nil {
		logger.Fatal("loading applications", zap.String("input", path), zap.Error(err))
	}

	logger.Info("applications loaded", zap.String("job", input.Job.Title), zap.Int("count", input.Applications.Len()))

	filters := prepareFilters(cmd, config)
	for _, status := range filtering.Describe(filters) {
		logger.Debug("filter",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	apps, err := filtering.Run(ctx, filtering.Deps{Logger: logger}, filters, input.Applications)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if apps.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no applications left after filters"))
		return
	}

	m := newModelHandles(ctx, config.AI, logger)
	scorer, err := newScorer(config, m, logger)
	if err != nil {
		logger.Fatal("preparing scorer", zap.Error(err))
	}

	workers := ranking.DefaultWorkers
	if config.Ranking != nil && config.Ranking.Workers > 0 {
		workers = config.Ranking.Workers
	}

	ranker := ranking.New(scorer,
		ranking.WithExtractor(newExtractor(config, m, logger)),
		ranking.WithWorkers(workers),
		ranking.WithLogger(logger),
	)

	results, err := ranker.Rank(ctx, input.Job, apps.Items)
	if err != nil {
		logger.Fatal("ranking failed", zap.Error(err))
	}

	weights := scorer.Weights()
	report := ranking.NewReport(input.Job, &weights, results)

	logger.Info("applications ranked",
		zap.String("report_id", report.ID),
		zap.Int("count", len(results)),
		zap.Float64("top_score", report.Summary.TopScore),
	)
	logger.Debug("ranking order", zap.Strings("applications", report.ApplicationIDs()))

	top, _ := cmd.Flags().GetInt("top")

	if exportPath, _ := cmd.Flags().GetString("export"); exportPath != "" {
		if err := export(report, exportPath, logger); err != nil {
			logger.Fatal("exporting ranking", zap.Error(err))
		}
	}

	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		printRanking(report.Top(top))
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, config, report, apps, top); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, config *Config, report *ranking.Report, apps *applicants.Applications, top int) error {
	switch action {
	case PromptShowRanking:
		printRanking(report.Top(top))
	case PromptShowSummary:
		pretty, _ := json.MarshalIndent(report.Summary, "", "  ")
		fmt.Println(string(pretty))
	case PromptExport:
		path, err := (&promptui.Prompt{Label: "File", Default: defaultExportPath}).Run()
		if err != nil {
			return err
		}
		return export(report, path, logger)
	case PromptReportToFile:
		file, err := report.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dumping report to file: %w", err)
		}
		logger.Info("report dumped", zap.String("file", file))
	case PromptApplicationsToFile:
		file, err := apps.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dumping applications to file: %w", err)
		}
		logger.Info("applications dumped", zap.String("file", file), zap.Int("count", apps.Len()))
	case PromptAppendToExcludeFile:
		return appendToExcludeFile(config.ExcludeFile, apps, logger)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	}
	return nil
}

func export(report *ranking.Report, path string, logger *zap.Logger) error {
	written, err := report.ExportXLSX(path)
	if err != nil {
		return err
	}
	logger.Info("ranking exported", zap.String("file", written))
	return nil
}

func appendToExcludeFile(path string, apps *applicants.Applications, logger *zap.Logger) error {
	if path == "" {
		logger.Warn("exclude file is not set, skipping", zap.String("hint", "set exclude-file in the config or pass --exclude-file"))
		return nil
	}

	excluded, err := applicants.ReadExcluded(path)
	if err != nil {
		return fmt.Errorf("reading exclude file: %w", err)
	}

	excluded.Append(apps.ToExcluded("ranked"))
	if err := excluded.ToFile(path); err != nil {
		return fmt.Errorf("writing exclude file: %w", err)
	}

	logger.Info("applications appended to exclude file", zap.String("file", path), zap.Int("count", apps.Len()))
	return nil
}

func printRanking(results []ranking.Result) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tAPPLICATION\tAPPLICANT\tTOTAL\tRATING\tMISSING")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.1f\t%s\t%s\n",
			r.Position, r.ApplicationID, r.Applicant, r.Breakdown.TotalScore, r.Breakdown.Rating,
			strings.Join(r.Breakdown.MissingSkills, ", "))
	}
	w.Flush()
}

func prepareFilters(cmd *cobra.Command, config *Config) []filtering.Filter {
	var names []string
	if config.Filters != nil {
		names = config.Filters.Applicants
	}

	steps := filtering.Default(config.ExcludeFile, names)

	if keep, _ := cmd.Flags().GetBool("keep-duplicates"); keep {
		filtering.DisableByName(steps, filtering.NameDuplicates, "--keep-duplicates is set")
	}
	if config.ExcludeFile == "" {
		filtering.DisableByName(steps, filtering.NameExcludeFile, "exclude-file is not set")
	}

	return steps
}
