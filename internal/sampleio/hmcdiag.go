package sampleio

import (
	"encoding/csv"
	"io"
	"strconv"
)

// HMCDiagnosticWriter receives one row per transition of the sampler
// parameters spec.md §6 requires under their literal published names
// (stepsize__, int_time__ for static HMC; stepsize__, treedepth__,
// n_leapfrog__, divergent__, energy__ for NUTS). The header is supplied
// by the caller so it carries exactly those names, not a writer-chosen
// set.
type HMCDiagnosticWriter interface {
	WriteHeader(names []string) error
	WriteRow(iter int, values []float64) error
}

// CSVHMCDiagnosticWriter writes the per-transition diagnostic record as
// CSV: "iter,<names...>", mirroring CSVSampleWriter's column layout.
type CSVHMCDiagnosticWriter struct {
	w *csv.Writer
}

func NewCSVHMCDiagnosticWriter(w io.Writer) *CSVHMCDiagnosticWriter {
	return &CSVHMCDiagnosticWriter{w: csv.NewWriter(w)}
}

func (d *CSVHMCDiagnosticWriter) WriteHeader(names []string) error {
	header := append([]string{"iter"}, names...)
	if err := d.w.Write(header); err != nil {
		return err
	}
	d.w.Flush()
	return d.w.Error()
}

func (d *CSVHMCDiagnosticWriter) WriteRow(iter int, values []float64) error {
	row := make([]string, 0, len(values)+1)
	row = append(row, strconv.Itoa(iter))
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	if err := d.w.Write(row); err != nil {
		return err
	}
	d.w.Flush()
	return d.w.Error()
}

// BoolColumn converts a diagnostic boolean (e.g. divergent__) to the 0/1
// encoding Stan's own CSV sample files use for boolean columns.
func BoolColumn(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
