// Package assets resolves image sources referenced by a document. Remote
// URLs are fetched, local paths read, and every source is decoded up front
// so the layout engine works with known pixel dimensions and an embeddable
// format. Resolution happens before layout begins; failures surface as
// errors that render as inline placeholders, never as aborted documents.
package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"strings"

	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Asset is a resolved, embeddable image. Format is the surface image type
// ("PNG", "JPG" or "GIF"); Width and Height are intrinsic pixel dimensions.
type Asset struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

// Resolver fetches and decodes image sources.
type Resolver struct {
	client *http.Client
}

// NewResolver builds a resolver. A nil client means http.DefaultClient.
func NewResolver(client *http.Client) *Resolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &Resolver{client: client}
}

// Resolve loads src (http(s) URL or local path) and returns a decoded asset.
// Formats the surface cannot embed directly (webp, bmp, tiff) are transcoded
// to PNG.
func (r *Resolver) Resolve(ctx context.Context, src string) (*Asset, error) {
	data, err := r.read(ctx, src)
	if err != nil {
		return nil, err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("assets: decoding %s: %w", src, err)
	}

	switch format {
	case "png":
		return &Asset{Data: data, Format: "PNG", Width: cfg.Width, Height: cfg.Height}, nil
	case "jpeg":
		return &Asset{Data: data, Format: "JPG", Width: cfg.Width, Height: cfg.Height}, nil
	case "gif":
		return &Asset{Data: data, Format: "GIF", Width: cfg.Width, Height: cfg.Height}, nil
	}

	// Transcode anything else to PNG.
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("assets: decoding %s (%s): %w", src, format, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("assets: transcoding %s: %w", src, err)
	}
	b := img.Bounds()
	return &Asset{Data: buf.Bytes(), Format: "PNG", Width: b.Dx(), Height: b.Dy()}, nil
}

func (r *Resolver) read(ctx context.Context, src string) ([]byte, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return nil, fmt.Errorf("assets: %w", err)
		}
		resp, err := r.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("assets: fetching %s: %w", src, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("assets: fetching %s: unexpected status %s", src, resp.Status)
		}
		return io.ReadAll(resp.Body)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}
	return data, nil
}

// CropCover recomputes the asset for a target aspect ratio in "cover" mode:
// the image is center-cropped to the target aspect and rescaled, so it fills
// the box without letterboxing. The result is always PNG.
func CropCover(a *Asset, targetW, targetH float64) (*Asset, error) {
	if targetW <= 0 || targetH <= 0 {
		return nil, fmt.Errorf("assets: cover crop needs positive target dimensions")
	}
	img, _, err := image.Decode(bytes.NewReader(a.Data))
	if err != nil {
		return nil, fmt.Errorf("assets: decoding for cover crop: %w", err)
	}

	b := img.Bounds()
	srcW, srcH := float64(b.Dx()), float64(b.Dy())
	targetAspect := targetW / targetH

	cropW, cropH := srcW, srcH
	if srcW/srcH > targetAspect {
		cropW = srcH * targetAspect
	} else {
		cropH = srcW / targetAspect
	}
	x0 := b.Min.X + int((srcW-cropW)/2)
	y0 := b.Min.Y + int((srcH-cropH)/2)
	crop := image.Rect(x0, y0, x0+int(cropW), y0+int(cropH))

	// 2px per point keeps print output crisp without ballooning the file.
	dstW, dstH := int(targetW*2), int(targetH*2)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, crop, xdraw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("assets: encoding cover crop: %w", err)
	}
	return &Asset{Data: buf.Bytes(), Format: "PNG", Width: dstW, Height: dstH}, nil
}
