package prism

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // decoder registration
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"
)

// maxTextureBytes caps how much of a remote response is read.
const maxTextureBytes = 64 << 20

// textureResult is one finished load waiting to be uploaded.
type textureResult struct {
	source   string
	material *Material
	img      image.Image
	err      error
}

// TextureLoader fetches and decodes images off the frame goroutine and
// uploads them into material textures when polled. Until a load completes,
// and forever if it fails, the material keeps its placeholder.
//
// Sources are file paths or http(s) URLs. PNG, JPEG, WebP and BMP are
// decoded. Concurrent loads of the same source share one fetch.
type TextureLoader struct {
	client  *http.Client
	group   singleflight.Group
	results chan textureResult
	done    chan struct{}
	once    sync.Once
	pending int
}

// NewTextureLoader creates a loader. A nil client uses http.DefaultClient.
func NewTextureLoader(client *http.Client) *TextureLoader {
	if client == nil {
		client = http.DefaultClient
	}
	return &TextureLoader{
		client:  client,
		results: make(chan textureResult, 16),
		done:    make(chan struct{}),
	}
}

// Load starts fetching source for mat. It returns immediately.
func (l *TextureLoader) Load(ctx context.Context, source string, mat *Material) {
	l.pending++
	go func() {
		v, err, _ := l.group.Do(source, func() (any, error) {
			return fetchImage(ctx, l.client, source)
		})
		res := textureResult{source: source, material: mat, err: err}
		if err == nil {
			res.img = v.(image.Image)
		}
		select {
		case l.results <- res:
		case <-l.done:
		}
	}()
}

// Pending returns the number of loads not yet delivered by Poll.
func (l *TextureLoader) Pending() int { return l.pending }

// Poll uploads every finished load without blocking and returns how many
// textures were replaced. Must be called on the frame goroutine.
func (l *TextureLoader) Poll(dev Device) int {
	uploaded := 0
	for {
		select {
		case res := <-l.results:
			if l.apply(dev, res) {
				uploaded++
			}
		default:
			return uploaded
		}
	}
}

// Wait blocks until every pending load has been applied or ctx ends.
func (l *TextureLoader) Wait(ctx context.Context, dev Device) error {
	for l.pending > 0 {
		select {
		case res := <-l.results:
			l.apply(dev, res)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Close abandons outstanding loads. Their goroutines exit without
// delivering.
func (l *TextureLoader) Close() {
	l.once.Do(func() { close(l.done) })
}

func (l *TextureLoader) apply(dev Device, res textureResult) bool {
	l.pending--
	log := Logger()
	if res.err != nil {
		log.Warn("texture load failed, keeping placeholder", "source", res.source, "err", res.err)
		return false
	}
	tex := res.material.Texture()
	if tex == 0 {
		// Material was released while the load was in flight.
		return false
	}
	if err := dev.UploadTexture(tex, res.img); err != nil {
		log.Warn("texture upload failed, keeping placeholder", "source", res.source, "err", err)
		return false
	}
	b := res.img.Bounds()
	log.Info("texture loaded", "source", res.source, "width", b.Dx(), "height", b.Dy())
	return true
}

// fetchImage reads and decodes source.
func fetchImage(ctx context.Context, client *http.Client, source string) (image.Image, error) {
	rc, err := openSource(ctx, client, source)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, _, err := image.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", source, err)
	}
	return img, nil
}

func openSource(ctx context.Context, client *http.Client, source string) (io.ReadCloser, error) {
	if source == "" {
		return nil, errors.New("empty texture source")
	}
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("request %s: %w", source, err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", source, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch %s: %s", source, resp.Status)
		}
		return struct {
			io.Reader
			io.Closer
		}{io.LimitReader(resp.Body, maxTextureBytes), resp.Body}, nil
	}

	f, err := os.Open(strings.TrimPrefix(source, "file://"))
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	return f, nil
}
