package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"resume-engine/resume/ats"
	"resume-engine/resume/keywords"
	"resume-engine/resume/validate"
)

var (
	validateJob string
	scoreJob    string
	keywordsMax int
)

var validateCmd = &cobra.Command{
	Use:   "validate <resume-file>",
	Short: "Check a resume against the structural rules",
	Long: `Validate reads a txt, pdf or docx resume and reports every structural error and
warning. The command fails when any error is found.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

var scoreCmd = &cobra.Command{
	Use:   "score <resume-file>",
	Short: "Score a resume against a job description",
	Args:  cobra.ExactArgs(1),
	RunE:  runScore,
}

var keywordsCmd = &cobra.Command{
	Use:   "keywords <file>",
	Short: "List the keywords of a job description",
	Args:  cobra.ExactArgs(1),
	RunE:  runKeywords,
}

func init() {
	validateCmd.Flags().StringVar(&validateJob, "job", "", "Optional job description file for an ATS score")
	scoreCmd.Flags().StringVarP(&scoreJob, "job", "j", "", "Job description file (required)")
	_ = scoreCmd.MarkFlagRequired("job")
	keywordsCmd.Flags().IntVarP(&keywordsMax, "max", "n", 20, "Maximum keywords to list; 0 lists all")

	rootCmd.AddCommand(validateCmd, scoreCmd, keywordsCmd)
}

type validateOutput struct {
	validate.Report
	ATSScore *int `json:"atsScore,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	content, err := readText(ctx, args[0])
	if err != nil {
		return err
	}
	out := validateOutput{Report: validate.Validate(content)}
	if validateJob != "" {
		jobText, err := readText(ctx, validateJob)
		if err != nil {
			return err
		}
		score := ats.Score(cleanJobText(jobText), content)
		out.ATSScore = &score
	}
	if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
		return err
	}
	if !out.OK() {
		return fmt.Errorf("%d validation errors", len(out.Errors))
	}
	return nil
}

type scoreOutput struct {
	Score   int      `json:"score"`
	Missing []string `json:"missingKeywords"`
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	content, err := readText(ctx, args[0])
	if err != nil {
		return err
	}
	jobText, err := readText(ctx, scoreJob)
	if err != nil {
		return err
	}
	jobText = cleanJobText(jobText)
	missing := ats.Missing(jobText, content)
	if missing == nil {
		missing = []string{}
	}
	return writeJSON(cmd.OutOrStdout(), scoreOutput{Score: ats.Score(jobText, content), Missing: missing})
}

func runKeywords(cmd *cobra.Command, args []string) error {
	text, err := readText(commandContext(cmd), args[0])
	if err != nil {
		return err
	}
	for _, kw := range keywords.Extract(cleanJobText(text), keywordsMax) {
		fmt.Fprintln(cmd.OutOrStdout(), kw)
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
