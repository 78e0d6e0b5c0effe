// Package report prints experiment results and draws them as a bar chart.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/go-pipebench/pkg/experiment"
)

const tableWidth = 65

// WriteSummary prints the statistics of one configuration.
func WriteSummary(wrt io.Writer, res experiment.Result) error {
	_, err := fmt.Fprintf(wrt, "\nCPU: %s\nMean Time: %.5fs\nVariance: %.8f\nStd Deviation: %.5f\n",
		res.Name, res.Summary.Mean, res.Summary.Variance, res.Summary.StdDev)

	return errors.Wrap(err, "unable to write summary")
}

// WriteTable prints one row per configuration.
func WriteTable(wrt io.Writer, results []experiment.Result) error {
	var sb strings.Builder

	sb.WriteString("\nPerformance Summary:\n")
	fmt.Fprintf(&sb, "%-20s%-15s%-15s%-15s\n", "CPU Type", "Mean (s)", "Variance", "Std Dev")
	sb.WriteString(strings.Repeat("-", tableWidth) + "\n")

	for _, res := range results {
		fmt.Fprintf(&sb, "%-20s%-15.5f%-15.8f%-15.5f\n",
			res.Name, res.Summary.Mean, res.Summary.Variance, res.Summary.StdDev)
	}

	_, err := io.WriteString(wrt, sb.String())

	return errors.Wrap(err, "unable to write table")
}
