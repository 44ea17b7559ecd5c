package helper

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// Batas dimensi gambar yang ditanam ke laporan payout.
const (
	reportImageMaxW = 1024
	reportImageMaxH = 1024
)

// DecodeAnyImage membaca jpeg/png/webp dari bytes (sniff MIME, fallback extension).
func DecodeAnyImage(all []byte, filename string) (image.Image, error) {
	if len(all) == 0 {
		return nil, fmt.Errorf("file kosong")
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	var (
		img image.Image
		err error
	)

	switch {
	case strings.Contains(ct, "jpeg"):
		img, err = jpeg.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "png"):
		img, err = png.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "webp"):
		img, err = webp.Decode(bytes.NewReader(all))
	default:
		// fallback by extension
		ext := strings.ToLower(filepath.Ext(filename))
		switch ext {
		case ".jpg", ".jpeg":
			img, err = jpeg.Decode(bytes.NewReader(all))
		case ".png":
			img, err = png.Decode(bytes.NewReader(all))
		case ".webp":
			img, err = webp.Decode(bytes.NewReader(all))
		default:
			return nil, fmt.Errorf("format tidak didukung: %s / %s", ct, ext)
		}
	}
	return img, err
}

// NormalizeToPNG menyeragamkan gambar (QR / bukti transfer) ke satu encoding
// raster sebelum ditanam ke PDF: decode apapun → downscale keep-aspect → PNG.
func NormalizeToPNG(all []byte, filename string) ([]byte, error) {
	img, err := DecodeAnyImage(all, filename)
	if err != nil {
		return nil, fmt.Errorf("gagal decode gambar: %w", err)
	}

	b := img.Bounds()
	if b.Dx() > reportImageMaxW || b.Dy() > reportImageMaxH {
		img = imaging.Fit(img, reportImageMaxW, reportImageMaxH, imaging.CatmullRom)
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return nil, fmt.Errorf("gagal encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
