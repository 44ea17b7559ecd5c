package helper

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 10 {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestNormalizeToPNG(t *testing.T) {
	out, err := NormalizeToPNG(encodeJPEG(t, 64, 48), "bukti.jpg")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}

func TestNormalizeToPNGDownscales(t *testing.T) {
	out, err := NormalizeToPNG(encodeJPEG(t, 2048, 1024), "besar.jpg")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	// Keep aspect: 2048x1024 → 1024x512
	assert.Equal(t, 1024, img.Bounds().Dx())
	assert.Equal(t, 512, img.Bounds().Dy())
}

func TestNormalizeToPNGRejectsGarbage(t *testing.T) {
	_, err := NormalizeToPNG([]byte("bukan gambar sama sekali"), "file.txt")
	assert.Error(t, err)

	_, err = NormalizeToPNG(nil, "kosong.png")
	assert.Error(t, err)
}

func TestDecodeAnyImageFallbackExtension(t *testing.T) {
	// JPEG kecil banget kadang kedetect octet-stream — extension jadi penentu
	data := encodeJPEG(t, 4, 4)
	img, err := DecodeAnyImage(data, "kecil.jpg")
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
}
