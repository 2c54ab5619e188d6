package main

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/i474232898/insight-dashboards/internal/sentiment"
)

func newSentimentCmd() *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "sentiment [text...]",
		Short: "Score the polarity of text (reads stdin when no text is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				text = string(b)
			}

			res, err := sentiment.NewAnalyzer().Analyze(text)
			if err != nil {
				return err
			}
			if top > 0 && len(res.Words) > top {
				res.Words = res.Words[:top]
			}
			if top > 0 && len(res.Cloud) > top {
				res.Cloud = res.Cloud[:top]
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().IntVar(&top, "top", 20, "limit word lists to the most frequent N words (0 = all)")
	return cmd
}
