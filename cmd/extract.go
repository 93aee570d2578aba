package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract skills, education, work experience, contact and projects from resume text",
	Run: func(cmd *cobra.Command, _ []string) {
		extract(cmd)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("file", "f", "", "a file with the OCR text of a resume")
	extractCmd.MarkFlagRequired("file")
}

func extract(cmd *cobra.Command) {
	ctx := context.Background()
	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	path, _ := cmd.Flags().GetString("file")
	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("reading resume text", zap.String("file", path), zap.Error(err))
	}

	extractor := newExtractor(config, newModelHandles(ctx, config.AI, logger), logger)
	insights := extractor.Extract(ctx, string(raw))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(insights); err != nil {
		logger.Fatal("writing insights", zap.Error(err))
	}
}
