package helper

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"image"
	"io"
	"math"
	"mime/multipart"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/chai2010/webp"
	"golang.org/x/image/draw"

	helper "tutorku_backend/internals/helpers"
)

func getEnv(k string) string { return strings.TrimSpace(os.Getenv(k)) }

func envInt(key string, def int) int {
	if v := getEnv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func envFloat(key string, def float32) float32 {
	if v := getEnv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil && f >= 0 {
			return float32(f)
		}
	}
	return def
}

// batas ukuran upload di controller (guard ringan)
const MaxUploadSize = int64(5 * 1024 * 1024)

/* =======================================================================
   Konfigurasi WebP (ENV-Driven)
======================================================================= */

type WebPOptions struct {
	MaxW    int     // batas lebar (resize keep-aspect)
	MaxH    int     // batas tinggi
	Quality float32 // lossy quality
}

func defaultWebPOptionsFromEnv() WebPOptions {
	return WebPOptions{
		MaxW:    envInt("IMAGE_WEBP_MAX_W", 1600),
		MaxH:    envInt("IMAGE_WEBP_MAX_H", 1600),
		Quality: envFloat("IMAGE_WEBP_QUALITY", 80),
	}
}

/* =======================================================================
   Resize helper (keep aspect). Pakai CatmullRom (kualitas bagus).
======================================================================= */

func downscaleIfNeeded(src image.Image, maxW, maxH int) image.Image {
	if maxW <= 0 && maxH <= 0 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if (maxW > 0 && w > maxW) || (maxH > 0 && h > maxH) {
		scale := 1.0
		if maxW > 0 {
			scale = math.Min(scale, float64(maxW)/float64(w))
		}
		if maxH > 0 {
			scale = math.Min(scale, float64(maxH)/float64(h))
		}
		nw := int(math.Round(float64(w) * scale))
		nh := int(math.Round(float64(h) * scale))
		if nw < 1 {
			nw = 1
		}
		if nh < 1 {
			nh = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
		return dst
	}
	return src
}

// ConvertToWebP: decode (jpeg/png/webp) → downscale → encode WebP lossy.
func ConvertToWebP(all []byte, filename string) ([]byte, error) {
	opt := defaultWebPOptionsFromEnv()

	img, err := helper.DecodeAnyImage(all, filename)
	if err != nil {
		return nil, err
	}
	img = downscaleIfNeeded(img, opt.MaxW, opt.MaxH)

	q := opt.Quality
	if q <= 0 {
		q = 80
	}
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: q}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

/* =======================================================================
   OSS Service
======================================================================= */

type OSSService struct {
	Client     *oss.Client
	Bucket     *oss.Bucket
	BucketName string
	Endpoint   string
	Prefix     string // contoh: "uploads/"
	PublicBase string // override base URL publik (CDN); kosong = endpoint bucket
}

func NewOSSServiceFromEnv(prefix string) (*OSSService, error) {
	endpoint := getEnv("OSS_ENDPOINT")
	keyID := getEnv("OSS_ACCESS_KEY_ID")
	keySecret := getEnv("OSS_ACCESS_KEY_SECRET")
	bucketName := getEnv("OSS_BUCKET")
	if endpoint == "" || keyID == "" || keySecret == "" || bucketName == "" {
		return nil, fmt.Errorf("konfigurasi OSS belum lengkap (OSS_ENDPOINT/OSS_ACCESS_KEY_ID/OSS_ACCESS_KEY_SECRET/OSS_BUCKET)")
	}

	client, err := oss.New(endpoint, keyID, keySecret)
	if err != nil {
		return nil, fmt.Errorf("oss client: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("oss bucket: %w", err)
	}

	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	return &OSSService{
		Client:     client,
		Bucket:     bucket,
		BucketName: bucketName,
		Endpoint:   endpoint,
		Prefix:     prefix,
		PublicBase: getEnv("OSS_PUBLIC_BASE_URL"),
	}, nil
}

/* =======================================================================
   Progress (0–100%) — diteruskan ke caller per event transfer
======================================================================= */

// ProgressFunc menerima persentase upload 0..100.
type ProgressFunc func(percent int)

type progressListener struct {
	fn ProgressFunc
}

func (l *progressListener) ProgressChanged(ev *oss.ProgressEvent) {
	if l.fn == nil || ev == nil || ev.TotalBytes <= 0 {
		return
	}
	switch ev.EventType {
	case oss.TransferDataEvent, oss.TransferCompletedEvent:
		pct := int(ev.ConsumedBytes * 100 / ev.TotalBytes)
		if pct > 100 {
			pct = 100
		}
		l.fn(pct)
	case oss.TransferFailedEvent:
		// biarkan caller tahu lewat error return, bukan lewat progress
	}
}

/* =======================================================================
   Upload primitives
======================================================================= */

func (s *OSSService) UploadStream(ctx context.Context, key string, r io.Reader, contentType string, onProgress ProgressFunc) error {
	opts := []oss.Option{
		oss.ContentType(contentType),
		oss.ObjectACL(oss.ACLPublicRead),
		oss.CacheControl("public, max-age=31536000, immutable"),
	}
	if onProgress != nil {
		opts = append(opts, oss.Progress(&progressListener{fn: onProgress}))
	}
	if err := s.Bucket.PutObject(key, r, opts...); err != nil {
		return fmt.Errorf("oss put %s: %w", key, err)
	}
	return nil
}

// UploadImageAsWebP: normalisasi ke WebP lalu upload ke <prefix><dir>/<key>.webp
func (s *OSSService) UploadImageAsWebP(ctx context.Context, dir string, fh *multipart.FileHeader, onProgress ProgressFunc) (publicURL, objectName string, err error) {
	src, err := fh.Open()
	if err != nil {
		return "", "", fmt.Errorf("gagal membuka file: %w", err)
	}
	defer src.Close()

	all, err := io.ReadAll(io.LimitReader(src, MaxUploadSize+1))
	if err != nil {
		return "", "", fmt.Errorf("gagal membaca file: %w", err)
	}
	if int64(len(all)) > MaxUploadSize {
		return "", "", fmt.Errorf("ukuran file melebihi %d bytes", MaxUploadSize)
	}

	data, err := ConvertToWebP(all, fh.Filename)
	if err != nil {
		return "", "", err
	}

	base := strings.TrimSuffix(filepath.Base(fh.Filename), filepath.Ext(fh.Filename))
	key := s.buildObjectKey(dir, slugify(base)+".webp")
	if err := s.UploadStream(ctx, key, bytes.NewReader(data), "image/webp", onProgress); err != nil {
		return "", "", err
	}
	return s.PublicURL(key), path.Base(key), nil
}

// UploadBytes: upload raw bytes (mis. PDF laporan) ke <prefix><dir>/<filename>
func (s *OSSService) UploadBytes(ctx context.Context, dir, filename, contentType string, data []byte, onProgress ProgressFunc) (string, error) {
	key := s.buildObjectKey(dir, slugify(strings.TrimSuffix(filename, filepath.Ext(filename)))+strings.ToLower(filepath.Ext(filename)))
	if err := s.UploadStream(ctx, key, bytes.NewReader(data), contentType, onProgress); err != nil {
		return "", err
	}
	return s.PublicURL(key), nil
}

/* =======================================================================
   Key & URL helpers
======================================================================= */

func (s *OSSService) buildObjectKey(dir, filename string) string {
	ts := time.Now().Format("20060102-150405")
	return joinParts(s.Prefix+dir, fmt.Sprintf("%s-%s-%s", ts, randHex(4), filename))
}

func (s *OSSService) PublicURL(key string) string {
	if s.PublicBase != "" {
		return strings.TrimSuffix(s.PublicBase, "/") + "/" + url.PathEscape(key)
	}
	host := strings.TrimPrefix(strings.TrimPrefix(s.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.BucketName, host, key)
}

// ExtractKeyFromPublicURL membalik PublicURL → object key.
func (s *OSSService) ExtractKeyFromPublicURL(publicURL string) (string, error) {
	u, err := url.Parse(publicURL)
	if err != nil {
		return "", fmt.Errorf("URL tidak valid: %w", err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", fmt.Errorf("object key kosong di URL: %s", publicURL)
	}
	unesc, err := url.PathUnescape(key)
	if err != nil {
		return "", err
	}
	return unesc, nil
}

func (s *OSSService) DeleteByPublicURL(ctx context.Context, publicURL string) error {
	key, err := s.ExtractKeyFromPublicURL(publicURL)
	if err != nil {
		return err
	}
	return s.Bucket.DeleteObject(key)
}

var slugRe = regexp.MustCompile(`[^a-z0-9._-]+`)

func slugify(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	v = slugRe.ReplaceAllString(v, "-")
	v = strings.Trim(v, "-")
	if v == "" {
		v = "file"
	}
	return v
}

func randHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 16)
	}
	return hex.EncodeToString(b)
}

func joinParts(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "/")
}
