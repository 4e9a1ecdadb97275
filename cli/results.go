package cli

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"go.viam.com/ssd/vision/objectdetection"
)

// ResultsAction prints a results file with per label counts and score statistics.
func ResultsAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("expected exactly one results file")
	}
	path := c.Args().First()
	results, err := objectdetection.ReadResultsFile(path)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		printf(c.App.Writer, "%s: no detections", path)
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	t.AppendHeader(table.Row{"#", "Label", "Score", "XMin", "YMin", "XMax", "YMax"})
	t.AppendRows(lo.Map(results, func(r objectdetection.Result, i int) table.Row {
		return table.Row{
			i, r.Label, fmt.Sprintf("%.3f", r.Score),
			fmt.Sprintf("%.1f", r.Box.XMin), fmt.Sprintf("%.1f", r.Box.YMin),
			fmt.Sprintf("%.1f", r.Box.XMax), fmt.Sprintf("%.1f", r.Box.YMax),
		}
	}))
	t.Render()

	byLabel := lo.GroupBy(results, func(r objectdetection.Result) string { return r.Label })
	labels := lo.Keys(byLabel)
	sort.Strings(labels)
	summary := table.NewWriter()
	summary.SetOutputMirror(c.App.Writer)
	summary.AppendHeader(table.Row{"Label", "Count", "Mean score", "Max score"})
	for _, label := range labels {
		mean, maxScore, err := scoreStats(byLabel[label])
		if err != nil {
			return err
		}
		summary.AppendRow(table.Row{label, len(byLabel[label]), mean, maxScore})
	}
	mean, maxScore, err := scoreStats(results)
	if err != nil {
		return err
	}
	summary.AppendFooter(table.Row{"total", len(results), mean, maxScore})
	summary.Render()
	return nil
}

func scoreStats(results []objectdetection.Result) (string, string, error) {
	scores := stats.Float64Data(lo.Map(results, func(r objectdetection.Result, _ int) float64 { return r.Score }))
	mean, err := scores.Mean()
	if err != nil {
		return "", "", errors.Wrap(err, "cannot compute mean score")
	}
	maxScore, err := scores.Max()
	if err != nil {
		return "", "", errors.Wrap(err, "cannot compute max score")
	}
	return fmt.Sprintf("%.3f", mean), fmt.Sprintf("%.3f", maxScore), nil
}
