// Package sampleio writes sampler output: per-draw CSV sample records,
// the ADVI diagnostic stream, and a JSON+CSV run store, adapted from the
// teacher's internal/storage.Store and internal/store.ExportJSON.
package sampleio

import (
	"encoding/csv"
	"io"
	"strconv"
)

// SampleWriter is the sample-record output stream spec.md §6 describes:
// a header of parameter names, then one row per draw of (iteration,
// log-density, parameter vector).
type SampleWriter interface {
	WriteHeader(names []string) error
	WriteSample(iter int, logp float64, q []float64) error
}

// CSVSampleWriter writes sample records as CSV: "iter,lp__,<names...>",
// directly mirroring the column layout of the teacher's states.csv.
type CSVSampleWriter struct {
	w *csv.Writer
}

// NewCSVSampleWriter wraps w; every write is flushed immediately, and the
// caller is responsible for closing the underlying writer once done.
func NewCSVSampleWriter(w io.Writer) *CSVSampleWriter {
	return &CSVSampleWriter{w: csv.NewWriter(w)}
}

func (s *CSVSampleWriter) WriteHeader(names []string) error {
	header := append([]string{"iter", "lp__"}, names...)
	if err := s.w.Write(header); err != nil {
		return err
	}
	s.w.Flush()
	return s.w.Error()
}

func (s *CSVSampleWriter) WriteSample(iter int, logp float64, q []float64) error {
	row := make([]string, 0, len(q)+2)
	row = append(row, strconv.Itoa(iter), strconv.FormatFloat(logp, 'f', 6, 64))
	for _, v := range q {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	if err := s.w.Write(row); err != nil {
		return err
	}
	s.w.Flush()
	return s.w.Error()
}

