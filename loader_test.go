package prism

import (
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func writeTestPNG(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tex.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, solidImage(w, h)); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func waitLoads(t *testing.T, l *TextureLoader, dev Device) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.Wait(ctx, dev); err != nil {
		t.Fatal(err)
	}
}

func textureSize(dev *fakeDevice, tex TextureID) (int, int) {
	b := dev.textures[tex].Bounds()
	return b.Dx(), b.Dy()
}

func TestLoaderFile(t *testing.T) {
	path := writeTestPNG(t, 4, 2)
	for _, source := range []string{path, "file://" + path} {
		t.Run(source, func(t *testing.T) {
			dev := newFakeDevice()
			mat := testMaterial(t, dev)
			l := NewTextureLoader(nil)
			defer l.Close()

			l.Load(context.Background(), source, mat)
			if l.Pending() != 1 {
				t.Errorf("Pending = %d, want 1", l.Pending())
			}
			waitLoads(t, l, dev)

			if w, h := textureSize(dev, mat.Texture()); w != 4 || h != 2 {
				t.Errorf("texture = %dx%d, want 4x2", w, h)
			}
			if l.Pending() != 0 {
				t.Errorf("Pending = %d after Wait", l.Pending())
			}
		})
	}
}

func TestLoaderHTTP(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/tex.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		png.Encode(w, solidImage(3, 3))
	}))
	defer srv.Close()

	dev := newFakeDevice()
	a := testMaterial(t, dev)
	b := testMaterial(t, dev)
	l := NewTextureLoader(srv.Client())
	defer l.Close()

	l.Load(context.Background(), srv.URL+"/tex.png", a)
	l.Load(context.Background(), srv.URL+"/tex.png", b)
	waitLoads(t, l, dev)

	for _, mat := range []*Material{a, b} {
		if w, h := textureSize(dev, mat.Texture()); w != 3 || h != 3 {
			t.Errorf("texture %d = %dx%d, want 3x3", mat.Texture(), w, h)
		}
	}
	if n := hits.Load(); n < 1 || n > 2 {
		t.Errorf("server hit %d times", n)
	}
}

func TestLoaderFailureKeepsPlaceholder(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	garbage := filepath.Join(t.TempDir(), "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		source string
	}{
		{"404", srv.URL + "/missing.png"},
		{"missing file", filepath.Join(t.TempDir(), "nope.png")},
		{"undecodable", garbage},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLog(t)
			dev := newFakeDevice()
			mat := testMaterial(t, dev)
			l := NewTextureLoader(srv.Client())
			defer l.Close()

			l.Load(context.Background(), tt.source, mat)
			waitLoads(t, l, dev)

			img, ok := dev.textures[mat.Texture()].(*image.NRGBA)
			if !ok || img.NRGBAAt(0, 0) != placeholderColor {
				t.Error("placeholder replaced after a failed load")
			}
			if !strings.Contains(buf.String(), "texture load failed") {
				t.Errorf("no warning logged:\n%s", buf)
			}
		})
	}
}

func TestLoaderPollUploadsOnFrame(t *testing.T) {
	path := writeTestPNG(t, 2, 2)
	s, dev := newTestScene(t)
	mat := testMaterial(t, dev)
	s.LoadTexture(context.Background(), path, mat)

	deadline := time.Now().Add(5 * time.Second)
	uploaded := 0
	for i := 0; uploaded == 0 && time.Now().Before(deadline); i++ {
		uploaded += s.Frame(float64(i)*16, 1280, 720).TexturesUploaded
		time.Sleep(time.Millisecond)
	}
	if uploaded != 1 {
		t.Fatalf("uploaded = %d, want 1", uploaded)
	}
	if w, _ := textureSize(dev, mat.Texture()); w != 2 {
		t.Errorf("texture width = %d, want 2", w)
	}
	if s.Loader().Pending() != 0 {
		t.Errorf("Pending = %d", s.Loader().Pending())
	}
}

func TestLoaderSkipsReleasedMaterial(t *testing.T) {
	path := writeTestPNG(t, 2, 2)
	dev := newFakeDevice()
	mat := testMaterial(t, dev)
	mat.retain()
	mat.release(dev)

	l := NewTextureLoader(nil)
	defer l.Close()
	l.Load(context.Background(), path, mat)
	waitLoads(t, l, dev)
	if len(dev.textures) != 0 {
		t.Error("texture uploaded into a released material")
	}
}

func TestLoaderWaitHonoursContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	dev := newFakeDevice()
	mat := testMaterial(t, dev)
	l := NewTextureLoader(srv.Client())
	defer l.Close()
	l.Load(context.Background(), srv.URL, mat)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx, dev); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want DeadlineExceeded", err)
	}
}
