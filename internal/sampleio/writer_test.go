package sampleio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCSVSampleWriterHeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVSampleWriter(&buf)

	require.NoError(t, w.WriteHeader([]string{"x0", "x1"}))
	require.NoError(t, w.WriteSample(1, -2.5, []float64{0.1, 0.2}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Equal(t, "iter,lp__,x0,x1", lines[0])
	require.Equal(t, "1,-2.500000,0.100000,0.200000", lines[1])
}

func TestCSVDiagnosticWriterHeaderIsExact(t *testing.T) {
	var buf bytes.Buffer
	d := NewCSVDiagnosticWriter(&buf)
	require.NoError(t, d.WriteHeader())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Equal(t, "iter,time_in_seconds,ELBO", lines[0])
}
