package main

import (
	"fmt"
	"strconv"

	"contra-feed/internal/models"

	"github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

const maxTitleWidth = 60

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	return tw
}

func renderContraVideos(videos []*models.ContraVideo) string {
	if len(videos) == 0 {
		return "No candidates cleared the thresholds."
	}

	tw := newTable()
	tw.AppendHeader(table.Row{"#", "Title", "Channel", "Angle", "Distance", "URL"})
	for i, v := range videos {
		tw.AppendRow(table.Row{
			i + 1,
			text.Trim(v.Title, maxTitleWidth),
			v.ChannelTitle,
			fmt.Sprintf("%.1f°", v.Score.Angle),
			fmt.Sprintf("%.3f", v.Score.Distance),
			v.URL(),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	return tw.Render()
}

func renderComparison(c *models.Comparison) string {
	tw := newTable()
	tw.SetTitle("%s  vs  %s", text.Trim(c.Video1.Title, maxTitleWidth), text.Trim(c.Video2.Title, maxTitleWidth))
	tw.AppendRows([]table.Row{
		{"Cosine similarity", fmt.Sprintf("%.4f", c.CosineSimilarity)},
		{"Cosine distance", fmt.Sprintf("%.4f", c.CosineDistance)},
		{"Angle", fmt.Sprintf("%.2f°", c.AngleDegrees)},
		{"Euclidean distance", fmt.Sprintf("%.4f", c.EuclideanDistance)},
		{"Relationship", string(c.Relationship)},
	})
	return tw.Render()
}

func renderStatistics(s *models.Statistics) string {
	tw := newTable()
	tw.AppendRows([]table.Row{
		{"Cache directory", s.CacheDir},
		{"Cached pools", strconv.Itoa(s.CachedPools)},
		{"Embedding cache entries", strconv.Itoa(s.EmbeddingCacheSize)},
		{"Min distance", fmt.Sprintf("%.2f", s.MinDistance)},
		{"Min angle", fmt.Sprintf("%.1f°", s.MinAngle)},
	})
	return tw.Render()
}
