package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"resume-engine/internal/bootstrap"
	"resume-engine/internal/drafts"
	"resume-engine/internal/generation"
	"resume-engine/internal/prompts"
	"resume-engine/internal/shared/config"
	"resume-engine/internal/usage"
	"resume-engine/resume/model"
	"resume-engine/resume/render"
)

var (
	generateProfile string
	generateJob     string
	generatePrompt  string
	generateOut     string
	generateDocx    string
	generateMock    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a tailored resume draft",
	Long: `Generate a resume for one consultant and job posting.

The model provider comes from LLM_PROVIDER and the matching API key. Without a key, or
with --mock, the resume is assembled from profile data alone.

Example:
  resumectl generate --profile consultant.json --job job.json --out resume.txt --docx resume.docx`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateProfile, "profile", "p", "", "Path to consultant profile JSON (required)")
	generateCmd.Flags().StringVarP(&generateJob, "job", "j", "", "Path to job posting JSON (required)")
	generateCmd.Flags().StringVar(&generatePrompt, "prompt", "", "Path to a prompt template JSON overriding the default")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "Write the resume text here instead of stdout")
	generateCmd.Flags().StringVar(&generateDocx, "docx", "", "Also render the resume as a Word document")
	generateCmd.Flags().BoolVar(&generateMock, "mock", false, "Skip the model call")
	_ = generateCmd.MarkFlagRequired("profile")
	_ = generateCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)

	var req generation.Request
	if err := readJSON(generateProfile, &req.Consultant); err != nil {
		return err
	}
	if err := readJSON(generateJob, &req.Job); err != nil {
		return err
	}
	req.Job.Description = cleanJobText(req.Job.Description)
	if req.Job.Status == "" {
		req.Job.Status = model.JobOpen
	}
	if generatePrompt != "" {
		var tpl prompts.Template
		if err := readJSON(generatePrompt, &tpl); err != nil {
			return err
		}
		req.Prompt = &tpl
	}

	cfg := config.Load()
	if generateMock {
		cfg.LLM.Provider = "mock"
		cfg.LLM.Model = generation.MockModel
	}
	client, closeClient, err := bootstrap.BuildLLM(ctx, cfg.LLM)
	if err != nil {
		return errors.Wrap(err, "failed to build model client")
	}
	if closeClient != nil {
		defer closeClient()
	}

	svc := generation.NewService(generation.ConfigFrom(cfg.LLM), drafts.NewMemoryRepo(), usage.NewService(), client)
	d, err := svc.Generate(ctx, req)
	if err != nil {
		var verr *generation.ValidationError
		if errors.As(err, &verr) {
			for _, fe := range verr.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", fe.Field, fe.Message)
			}
		}
		return errors.Wrap(err, "generation failed")
	}
	if d.Status == drafts.StatusError {
		return errors.Errorf("generation failed: %s", d.Error)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "status=%s ats=%d tokens=%d model=%s\n", d.Status, d.ATSScore, d.TokensUsed, d.Prompt.Model)
	for _, e := range d.ValidationErrors {
		fmt.Fprintf(cmd.ErrOrStderr(), "  error: %s\n", e)
	}
	for _, w := range d.ValidationWarnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "  warning: %s\n", w)
	}

	if generateOut != "" {
		if err := writeFile(generateOut, []byte(d.Content)); err != nil {
			return err
		}
	} else {
		fmt.Fprint(cmd.OutOrStdout(), d.Content)
	}

	if generateDocx != "" {
		data, err := render.DOCX(d.Content)
		if err != nil {
			return errors.Wrap(err, "failed to render docx")
		}
		if err := writeFile(generateDocx, data); err != nil {
			return err
		}
	}
	return nil
}
