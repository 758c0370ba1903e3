package sampleio

import (
	"encoding/csv"
	"io"
	"strconv"
)

// CSVDiagnosticWriter writes the ADVI diagnostic stream spec.md §6
// requires: a header of exactly "iter,time_in_seconds,ELBO" and one row
// per evaluation. Satisfies advi.DiagnosticWriter.
type CSVDiagnosticWriter struct {
	w *csv.Writer
}

func NewCSVDiagnosticWriter(w io.Writer) *CSVDiagnosticWriter {
	return &CSVDiagnosticWriter{w: csv.NewWriter(w)}
}

func (d *CSVDiagnosticWriter) WriteHeader() error {
	if err := d.w.Write([]string{"iter", "time_in_seconds", "ELBO"}); err != nil {
		return err
	}
	d.w.Flush()
	return d.w.Error()
}

func (d *CSVDiagnosticWriter) WriteRow(iter int, elapsedSeconds, elbo float64) error {
	row := []string{
		strconv.Itoa(iter),
		strconv.FormatFloat(elapsedSeconds, 'f', 6, 64),
		strconv.FormatFloat(elbo, 'f', 6, 64),
	}
	if err := d.w.Write(row); err != nil {
		return err
	}
	d.w.Flush()
	return d.w.Error()
}
