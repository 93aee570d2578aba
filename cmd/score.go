package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spigell/resume-scorer/internal/applicants"
	"github.com/spigell/resume-scorer/internal/models"
	"github.com/spigell/resume-scorer/internal/ranking"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one candidate against a job",
	Long: `Score one candidate against a job.

Either pass a job file and a candidate file (--job, --candidate) or an input
file with an application id (--input, --application). A candidate file ending
in .json is read as an application, anything else as raw resume text.`,
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().String("job", "", "a JSON file with the job requirement")
	scoreCmd.Flags().String("candidate", "", "a candidate file: application JSON or raw resume text")
	scoreCmd.Flags().StringP("input", "i", "", "an input file with a job and its applications")
	scoreCmd.Flags().StringP("application", "a", "", "an application id from the input file")

	scoreCmd.MarkFlagsRequiredTogether("job", "candidate")
	scoreCmd.MarkFlagsRequiredTogether("input", "application")
	scoreCmd.MarkFlagsOneRequired("job", "input")
	scoreCmd.MarkFlagsMutuallyExclusive("job", "input")
}

func score(cmd *cobra.Command) {
	ctx := context.Background()
	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	job, app, err := loadCandidate(cmd)
	if err != nil {
		if errors.Is(err, applicants.ErrNotFound) {
			logger.Fatal("application is not in the input file", zap.Error(err))
		}
		logger.Fatal("loading the candidate", zap.Error(err))
	}

	m := newModelHandles(ctx, config.AI, logger)
	scorer, err := newScorer(config, m, logger)
	if err != nil {
		logger.Fatal("preparing scorer", zap.Error(err))
	}

	ranker := ranking.New(scorer,
		ranking.WithExtractor(newExtractor(config, m, logger)),
		ranking.WithWorkers(1),
		ranking.WithLogger(logger),
	)

	results, err := ranker.Rank(ctx, job, []*applicants.Application{app})
	if err != nil {
		logger.Fatal("scoring", zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results[0]); err != nil {
		logger.Fatal("writing score", zap.Error(err))
	}
}

func loadCandidate(cmd *cobra.Command) (models.JobRequirement, *applicants.Application, error) {
	if input, _ := cmd.Flags().GetString("input"); input != "" {
		in, err := applicants.Load(input)
		if err != nil {
			return models.JobRequirement{}, nil, fmt.Errorf("loading input: %w", err)
		}
		id, _ := cmd.Flags().GetString("application")
		app, err := in.Applications.Get(id)
		return in.Job, app, err
	}

	jobFile, _ := cmd.Flags().GetString("job")
	var job models.JobRequirement
	if err := readJSON(jobFile, &job); err != nil {
		return job, nil, err
	}
	if err := applicants.ValidateJob(job); err != nil {
		return job, nil, err
	}

	candidateFile, _ := cmd.Flags().GetString("candidate")
	app, err := readApplication(candidateFile)
	return job, app, err
}

func readApplication(path string) (*applicants.Application, error) {
	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if !strings.EqualFold(filepath.Ext(path), ".json") {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return &applicants.Application{ID: id, RawText: string(raw)}, nil
	}

	var app applicants.Application
	if err := readJSON(path, &app); err != nil {
		return nil, err
	}
	if app.ID == "" {
		app.ID = id
	}

	secondary, err := models.DecodeSecondary(app.Secondary)
	if err != nil {
		return nil, fmt.Errorf("application %q: %w", app.ID, err)
	}
	app.SecondaryProfile = secondary

	return &app, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}
