package report

import (
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
)

// Preview prints the first rows of the loaded table.
func Preview(w io.Writer, header []string, rows [][]string) error {
	fmt.Fprintf(w, "Dataset loaded. First %d rows:\n", len(rows))
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return nil
	}

	records := make([][]string, 0, len(rows)+1)
	records = append(records, header)
	for _, row := range rows {
		padded := make([]string, len(header))
		copy(padded, row)
		records = append(records, padded)
	}

	df := dataframe.LoadRecords(records, dataframe.DetectTypes(false))
	if df.Err != nil {
		return fmt.Errorf("building preview: %w", df.Err)
	}
	fmt.Fprintln(w, df.String())
	return nil
}

// Summary prints the evaluation metrics.
func Summary(w io.Writer, m Metrics) {
	fmt.Fprintf(w, "Mean Absolute Error (MAE): %.4f\n", m.MAE)
	fmt.Fprintf(w, "Root Mean Squared Error (RMSE): %.4f\n", m.RMSE)
}

// Saved names a written artifact.
type Saved struct {
	Label string
	Path  string
}

// Confirm prints one line per saved artifact.
func Confirm(w io.Writer, saved ...Saved) {
	for _, s := range saved {
		fmt.Fprintf(w, "%s saved to %s\n", s.Label, s.Path)
	}
}
