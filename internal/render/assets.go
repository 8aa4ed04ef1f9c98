package render

import (
	"image"
	_ "image/png"
	"log/slog"
	"os"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

type assetState uint8

const (
	assetPending assetState = iota
	assetReady
	assetFailed
)

type assetEntry struct {
	state assetState
	img   *ebiten.Image
}

// Registry is the renderer's explicit image cache. Loading is asynchronous,
// fire-and-forget, and deduplicated per path; a failed load resolves to a
// permanent "unavailable" result, logged once, so renderers treat a missing
// asset as "use the fallback color", never as fatal.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*assetEntry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*assetEntry)}
}

// Load starts loading the image at path unless a load was already
// requested.
func (r *Registry) Load(path string) {
	if path == "" {
		return
	}
	r.mu.Lock()
	if _, ok := r.entries[path]; ok {
		r.mu.Unlock()
		return
	}
	r.entries[path] = &assetEntry{state: assetPending}
	r.mu.Unlock()

	go func() {
		img, err := decodeImage(path)
		r.mu.Lock()
		defer r.mu.Unlock()
		e := r.entries[path]
		if e == nil {
			// Cleared while loading; the result is stale.
			return
		}
		if err != nil {
			e.state = assetFailed
			slog.Warn("image load failed", "path", path, "error", err)
			return
		}
		e.state = assetReady
		e.img = img
	}()
}

func decodeImage(path string) (*ebiten.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return ebiten.NewImageFromImage(src), nil
}

// Get returns the loaded image for a path. A path never seen before kicks
// off its load and reports not-ready; pending and failed paths report
// not-ready too.
func (r *Registry) Get(path string) (*ebiten.Image, bool) {
	if path == "" {
		return nil, false
	}
	r.mu.Lock()
	e, ok := r.entries[path]
	if ok {
		// Copy state and image out while still holding the lock; the
		// loader goroutine writes both fields under the same mutex.
		state, img := e.state, e.img
		r.mu.Unlock()
		if state != assetReady {
			return nil, false
		}
		return img, true
	}
	r.mu.Unlock()
	r.Load(path)
	return nil, false
}

// GetAny returns the first ready image among the candidate paths,
// triggering loads for those not yet requested.
func (r *Registry) GetAny(paths []string) (*ebiten.Image, bool) {
	for _, p := range paths {
		if img, ok := r.Get(p); ok {
			return img, true
		}
	}
	return nil, false
}

// Clear resets the registry, typically on configuration reload.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.entries = make(map[string]*assetEntry)
	r.mu.Unlock()
}

// SpriteCandidates returns the ordered hierarchical lookup keys for a
// cell's layer values, most specific first:
// veg+climate+height, veg+height, veg+climate, veg, height, climate.
// Both sprite and texture resolution consume this single list.
func SpriteCandidates(veg, climate, height string) []string {
	return []string{
		veg + "_" + climate + "_" + height,
		veg + "_" + height,
		veg + "_" + climate,
		veg,
		height,
		climate,
	}
}

// CandidatePaths expands hierarchical keys into file paths under a
// directory, with an optional explicit hint path taking precedence.
func CandidatePaths(dir, hint string, keys []string) []string {
	out := make([]string, 0, len(keys)+1)
	if hint != "" {
		out = append(out, hint)
	}
	if dir != "" {
		for _, k := range keys {
			out = append(out, dir+"/"+k+".png")
		}
	}
	return out
}
