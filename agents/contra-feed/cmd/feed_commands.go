package main

import (
	"fmt"

	"contra-feed/agents/contra-feed/contra"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"
)

// feedFlags override the contra config section for a single command.
type feedFlags struct {
	numVideos  int
	sampleSize int
	noCache    bool
	method     string
}

func (f *feedFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.numVideos, "num-videos", "n", 0, "Number of contra videos to return (1-50, default from config)")
	cmd.Flags().IntVarP(&f.sampleSize, "sample-size", "s", 0, "Candidate pool size (100-10000, default from config)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "Regenerate the candidate pool instead of loading it")
	cmd.Flags().StringVarP(&f.method, "method", "m", "", "Scoring method: diametric or centroid (default from config)")
}

func (f *feedFlags) options(defaults contra.Options) (contra.Options, error) {
	opts := defaults
	if f.numVideos != 0 {
		opts.NumContraVideos = f.numVideos
	}
	if f.sampleSize != 0 {
		opts.SampleSize = f.sampleSize
	}
	if f.noCache {
		opts.UseCache = false
	}
	if f.method != "" {
		method, err := contra.ParseMethod(f.method)
		if err != nil {
			return contra.Options{}, err
		}
		opts.Method = method
	}
	return opts, opts.Validate()
}

func newFeedCommand(ctx *commandContext) *cobra.Command {
	var flags feedFlags

	cmd := &cobra.Command{
		Use:   "feed VIDEO_ID...",
		Short: "Generate a contra feed for a set of videos",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}
			defaults, err := app.DefaultOptions()
			if err != nil {
				return err
			}
			opts, err := flags.options(defaults)
			if err != nil {
				return err
			}

			feed, err := app.Generator.GenerateFeed(cmd.Context(), contra.Request{VideoIDs: args, Options: opts})
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, feed)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Contra feed for %d input videos (%s)\n", len(args), opts.Method)
			fmt.Fprintln(cmd.OutOrStdout(), renderContraVideos(feed))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var flags feedFlags

	cmd := &cobra.Command{
		Use:   "analyze VIDEO_ID",
		Short: "Find contra videos for a single video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}
			defaults, err := app.DefaultOptions()
			if err != nil {
				return err
			}
			opts, err := flags.options(defaults)
			if err != nil {
				return err
			}

			analysis, err := app.Generator.AnalyzeVideo(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, analysis)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Input: %s\n  %s\n  %s\n\n", analysis.Input.Title, analysis.Input.ChannelTitle, analysis.Input.URL())
			fmt.Fprintln(out, renderContraVideos(analysis.ContraVideos))
			fmt.Fprintf(out, "%d contra videos, average distance %.3f, average angle %.1f°\n",
				analysis.Summary.NumContraVideos, analysis.Summary.AvgDistance, analysis.Summary.AvgAngle)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newCompareCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "compare VIDEO_ID_1 VIDEO_ID_2",
		Short: "Measure how far apart two videos are",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}

			cmp, err := app.Generator.CompareVideos(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, cmp)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderComparison(cmp))
			return nil
		},
	}
}

func newSampleCommand(ctx *commandContext) *cobra.Command {
	var sampleSize int
	var noCache bool

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Build (or load) a candidate pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}
			size, err := poolSize(app.Config.Contra.SampleSize, sampleSize)
			if err != nil {
				return err
			}

			pool, err := app.Generator.SamplePool(cmd.Context(), size, !noCache)
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, pool)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pool of %d videos at %s\n", len(pool), app.Pools.Path(size))
			return nil
		},
	}
	cmd.Flags().IntVarP(&sampleSize, "sample-size", "s", 0, "Target pool size (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Regenerate even if a cached pool exists")
	return cmd
}

// poolSize picks the flag value over the configured size and checks its range.
func poolSize(configured, flag int) (int, error) {
	size := configured
	if flag != 0 {
		size = flag
	}
	if size < contra.MinSampleSize || size > contra.MaxSampleSize {
		return 0, goerr.Wrap(contra.ErrInvalidRequest, "sample size out of range",
			goerr.V("size", size), goerr.V("min", contra.MinSampleSize), goerr.V("max", contra.MaxSampleSize))
	}
	return size, nil
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache and threshold settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}
			stats, err := app.Generator.Statistics()
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, stats)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderStatistics(stats))
			return nil
		},
	}
}
