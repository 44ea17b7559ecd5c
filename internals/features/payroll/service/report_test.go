package service

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPayoutPDF(t *testing.T) {
	img := pngBytes(t)

	pdf, err := BuildPayoutPDF("Sinta", decimal.NewFromInt(150), "01 Mar 2026 - 31 Mar 2026", img, img)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
	assert.Greater(t, len(pdf), 500)
}

func TestBuildPayoutPDFRejectsBrokenImage(t *testing.T) {
	img := pngBytes(t)

	_, err := BuildPayoutPDF("Sinta", decimal.NewFromInt(150), "", []byte("bukan png"), img)
	assert.Error(t, err)
}
