package classifier

import (
	"image"

	"github.com/ayusman/litmus/internal/colorclass"
)

// blob accumulates one connected group before it is turned into a Region.
type blob struct {
	rect   image.Rectangle
	pixels int
	sumX   int
	sumY   int
}

// add records the sample at (x, y). cell is the grid cell the sample stands
// for, so the bounding box covers the scanned span and not just the sample.
func (b *blob) add(x, y int, cell image.Rectangle) {
	if b.pixels == 0 {
		b.rect = cell
	} else {
		b.rect = b.rect.Union(cell)
	}
	b.pixels++
	b.sumX += x
	b.sumY += y
}

func (b blob) union(o blob) blob {
	return blob{
		rect:   b.rect.Union(o.rect),
		pixels: b.pixels + o.pixels,
		sumX:   b.sumX + o.sumX,
		sumY:   b.sumY + o.sumY,
	}
}

func (b blob) region(origin image.Point) Region {
	return Region{
		Rect:     b.rect.Add(origin),
		Centroid: image.Pt(divRound(b.sumX, b.pixels), divRound(b.sumY, b.pixels)).Add(origin),
		Pixels:   b.pixels,
	}
}

// FindBlobs returns the regions of img whose pixels fall inside rng.
//
// Only pixels on a step-sized grid are tested; grid neighbours (4-connected)
// that both match belong to the same group. Each matching sample covers its
// step x step cell, clipped to the image, in the region's bounding box.
// Pixels and the centroid count samples only. Groups whose bounding boxes,
// grown by margin on every side, overlap are then merged until stable.
// Thresholds are not applied here.
func FindBlobs(img *LabImage, rng colorclass.CVRange, step, margin int) []Region {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return nil
	}
	if step < 1 {
		step = 1
	}
	if margin < 0 {
		margin = 0
	}

	gw := (img.Width + step - 1) / step
	gh := (img.Height + step - 1) / step
	seen := make([]bool, gw*gh)

	match := func(cell int) bool {
		l, a, b := img.At((cell%gw)*step, (cell/gw)*step)
		return rng.Contains(l, a, b)
	}

	bounds := image.Rect(0, 0, img.Width, img.Height)
	var blobs []blob
	stack := make([]int, 0, 64)

	for start := range seen {
		if seen[start] {
			continue
		}
		seen[start] = true
		if !match(start) {
			continue
		}

		var acc blob
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			cell := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			gx, gy := cell%gw, cell/gw
			x, y := gx*step, gy*step
			acc.add(x, y, image.Rect(x, y, x+step, y+step).Intersect(bounds))

			for _, n := range [4][2]int{{gx - 1, gy}, {gx + 1, gy}, {gx, gy - 1}, {gx, gy + 1}} {
				if n[0] < 0 || n[0] >= gw || n[1] < 0 || n[1] >= gh {
					continue
				}
				next := n[1]*gw + n[0]
				if seen[next] {
					continue
				}
				seen[next] = true
				if match(next) {
					stack = append(stack, next)
				}
			}
		}
		blobs = append(blobs, acc)
	}

	blobs = mergeBlobs(blobs, margin)

	regions := make([]Region, len(blobs))
	for i, b := range blobs {
		regions[i] = b.region(img.Origin)
	}
	return regions
}

// mergeBlobs folds together blobs whose margin-grown boxes overlap.
func mergeBlobs(blobs []blob, margin int) []blob {
	for merged := true; merged; {
		merged = false
		for i := 0; i < len(blobs) && !merged; i++ {
			grown := blobs[i].rect.Inset(-margin)
			for j := i + 1; j < len(blobs); j++ {
				if grown.Overlaps(blobs[j].rect) {
					blobs[i] = blobs[i].union(blobs[j])
					blobs = append(blobs[:j], blobs[j+1:]...)
					merged = true
					break
				}
			}
		}
	}
	return blobs
}

func divRound(sum, n int) int {
	if n == 0 {
		return 0
	}
	return (sum + n/2) / n
}
