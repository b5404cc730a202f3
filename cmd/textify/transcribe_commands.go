package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"textify/internal/acquire"
	"textify/internal/logging"
	"textify/internal/transcribe"
	"textify/internal/workflow"
)

type transcribeOptions struct {
	filename     string
	model        string
	outputDir    string
	keep         bool
	noTranscript bool
}

func (o *transcribeOptions) bind(cmd *cobra.Command, defaultName string) {
	cmd.Flags().StringVar(&o.filename, "filename", defaultName, "Base name for the exported transcripts")
	cmd.Flags().StringVarP(&o.model, "model", "m", "", "Whisper model (defaults to the configured model)")
	cmd.Flags().StringVarP(&o.outputDir, "output-dir", "o", ".", "Directory for the exported .srt, .txt, and .tsv files")
	cmd.Flags().BoolVar(&o.keep, "keep", false, "Keep the job directory with the audio input")
	cmd.Flags().BoolVar(&o.noTranscript, "no-transcript", false, "Do not print the transcript text")
}

func newURLCommand(ctx *commandContext) *cobra.Command {
	var opts transcribeOptions
	cmd := &cobra.Command{
		Use:   "url <URL>",
		Short: "Download a video's audio and transcribe it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscription(cmd, ctx, workflow.Request{URL: args[0]}, opts)
		},
	}
	opts.bind(cmd, acquire.DefaultAudioName)
	return cmd
}

func newFileCommand(ctx *commandContext) *cobra.Command {
	var opts transcribeOptions
	cmd := &cobra.Command{
		Use:   "file <PATH>",
		Short: "Transcribe a local audio or video file",
		Long: "Transcribe a local audio or video file.\n\nSupported formats: " +
			strings.Join(acquire.SupportedExtensions, ", ") + ".",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscription(cmd, ctx, workflow.Request{LocalPath: args[0]}, opts)
		},
	}
	opts.bind(cmd, acquire.DefaultTranscriptName)
	return cmd
}

func runTranscription(cmd *cobra.Command, ctx *commandContext, req workflow.Request, opts transcribeOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	runner, err := workflow.NewRunner(cfg, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	req.Filename = opts.filename
	req.Model = opts.model
	req.KeepAudio = opts.keep
	req.Wait = true
	req.OnProgress = newProgressRenderer(out).render

	job, err := runner.Run(cmd.Context(), req)
	if err != nil {
		if job.Retained() {
			fmt.Fprintln(out, renderStatusLine("Job directory", statusWarn, job.Dir, colorize))
		}
		return err
	}
	keep := opts.keep || cfg.Transcription.KeepAudio
	defer func() {
		if keep {
			fmt.Fprintln(out, renderStatusLine("Job directory", statusInfo, job.Dir, colorize))
			return
		}
		if err := job.Cleanup(); err != nil {
			logger.Warn("job cleanup failed", logging.String(logging.FieldJobID, job.ID), logging.Error(err))
			fmt.Fprintln(out, renderStatusLine("Cleanup", statusWarn, err.Error(), colorize))
		}
	}()

	written, err := job.Export(opts.outputDir)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(written))
	for i, path := range written {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		rows = append(rows, []string{strings.ToUpper(transcribe.Kinds[i]), abs})
	}
	fmt.Fprintln(out, renderTable([]string{"Format", "File"}, rows, nil))

	if !opts.noTranscript {
		fmt.Fprintln(out)
		fmt.Fprintln(out, strings.TrimRight(job.Transcript, "\n"))
	}
	return nil
}
