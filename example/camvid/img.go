package main

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/tiff"
	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	xdraw "golang.org/x/image/draw"
)

// decodeImage reads a png/jpeg/tiff image file.
func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Decode(f)
	case ".jpg", ".jpeg":
		return jpeg.Decode(f)
	case ".tiff", ".tif":
		return tiff.Decode(f)
	default:
		return nil, fmt.Errorf("Unsupported image file extension: %v\n", filepath.Ext(path))
	}
}

// resizeImage scales a photo with Lanczos resampling.
func resizeImage(img image.Image, w, h int) image.Image {
	return resize.Resize(uint(w), uint(h), img, resize.Lanczos3)
}

// resizeLabel scales an annotation with nearest-neighbor sampling. Labels
// hold discrete class indexes; any interpolating filter would blend them
// into indexes that exist in no class map.
func resizeLabel(img image.Image, w, h int) image.Image {
	dst := image.NewGray(image.Rect(0, 0, w, h))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	return dst
}

// processImages converts raw dataset files under <DataPath>/raw into
// training-ready PNG pairs at the configured resolution, plus a mirrored
// copy of each pair for augmentation.
func processImages() {
	rawImgPath := fmt.Sprintf("%v/raw/image", DataPath)
	rawLabelPath := fmt.Sprintf("%v/raw/label", DataPath)

	for _, dir := range []string{"image", "label"} {
		outPath := fmt.Sprintf("%v/%v", DataPath, dir)
		if _, err := os.Stat(outPath); os.IsNotExist(err) {
			if err := os.MkdirAll(outPath, 0755); err != nil {
				log.Fatal(err)
			}
		}
	}

	files, err := ioutil.ReadDir(rawImgPath)
	if err != nil {
		log.Fatal(err)
	}

	for _, f := range files {
		name := f.Name()
		base := strings.TrimSuffix(name, filepath.Ext(name))

		img, err := decodeImage(fmt.Sprintf("%v/%v", rawImgPath, name))
		if err != nil {
			log.Fatal(err)
		}
		label, err := decodeImage(fmt.Sprintf("%v/%v", rawLabelPath, name))
		if err != nil {
			log.Fatal(err)
		}

		img = resizeImage(img, ImageWidth, ImageHeight)
		label = resizeLabel(label, ImageWidth, ImageHeight)

		if err := imaging.Save(img, fmt.Sprintf("%v/image/%v.png", DataPath, base)); err != nil {
			log.Fatal(err)
		}
		if err := imaging.Save(label, fmt.Sprintf("%v/label/%v.png", DataPath, base)); err != nil {
			log.Fatal(err)
		}

		if err := imaging.Save(imaging.FlipH(img), fmt.Sprintf("%v/image/%v_flip.png", DataPath, base)); err != nil {
			log.Fatal(err)
		}
		if err := imaging.Save(imaging.FlipH(label), fmt.Sprintf("%v/label/%v_flip.png", DataPath, base)); err != nil {
			log.Fatal(err)
		}
	}

	fmt.Printf("Processed %v image/label pairs to %vx%v\n", len(files), ImageWidth, ImageHeight)
}
