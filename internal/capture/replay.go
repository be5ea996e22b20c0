package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
)

var replayExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
}

// ReplayCamera plays image files from a directory in name order, looping.
// Every image is resized to the configured frame size.
type ReplayCamera struct {
	dir    string
	width  int
	height int

	mu      sync.Mutex
	files   []string
	index   int
	running bool
}

// NewReplayCamera creates a ReplayCamera over dir. Frames are resized to
// width x height; zero keeps the source size.
func NewReplayCamera(dir string, width, height int) *ReplayCamera {
	return &ReplayCamera{dir: dir, width: width, height: height}
}

// ResetAndConfigure rescans the directory and rewinds playback.
func (r *ReplayCamera) ResetAndConfigure() error {
	files, err := listImages(r.dir)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = files
	r.index = 0
	r.running = true
	return nil
}

// NextFrame decodes the next image into a BGR Mat.
func (r *ReplayCamera) NextFrame() (*gocv.Mat, error) {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil, ErrCameraNotOpen
	}
	path := r.files[r.index]
	r.index = (r.index + 1) % len(r.files)
	r.mu.Unlock()

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAcquisition, err)
	}
	if r.width > 0 && r.height > 0 {
		b := img.Bounds()
		if b.Dx() != r.width || b.Dy() != r.height {
			img = imaging.Resize(img, r.width, r.height, imaging.Lanczos)
		}
	}

	nrgba := imaging.Clone(img)
	w, h := nrgba.Rect.Dx(), nrgba.Rect.Dy()
	bgr := make([]byte, 0, w*h*3)
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for x := 0; x < w*4; x += 4 {
			bgr = append(bgr, row[x+2], row[x+1], row[x])
		}
	}

	mat, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC3, bgr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAcquisition, err)
	}
	return &mat, nil
}

func (r *ReplayCamera) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
	return nil
}

func (r *ReplayCamera) IsOpen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read replay dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !replayExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no images in %s", ErrAcquisition, dir)
	}
	sort.Strings(files)
	return files, nil
}
