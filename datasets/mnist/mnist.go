// Package mnist loads the MNIST handwritten digit dataset as labelled feature vectors.
// Every image becomes 28*28 pixel intensities, which fits an ensemble of 28 tables
// addressed by blocks of 28 features.
package mnist

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/gzip"

	"github.com/neurlang/wisard/datasets"
)

// ImgSize is the side of an MNIST image in pixels
const ImgSize = 28

const inferSetImg = "t10k-images-idx3-ubyte.gz"
const inferSetVal = "t10k-labels-idx1-ubyte.gz"
const trainSetImg = "train-images-idx3-ubyte.gz"
const trainSetVal = "train-labels-idx1-ubyte.gz"

var digests = map[string]string{
	inferSetImg: "8d422c7b0a1c1c79245a5bcf07fe86e33eeafee792b84584aec276f5a2dbc4e6",
	inferSetVal: "f7ae60f92e00ec6debd23a6088c31dbd2371eca3ffa0defaefb259924204aec6",
	trainSetImg: "440fcabf73cc546fa21475e81ea370265605f56be210a4024d2ca8f203523609",
	trainSetVal: "3552534a0a558bbed6aed32b30c495cca23d567ec52cac8be1a0730e8010255c",
}

const (
	imagesMagic = 0x00000803
	labelsMagic = 0x00000801
)

// ErrChecksum reports a dataset file whose sha256 does not match the published one
var ErrChecksum = errors.New("mnist checksum mismatch")

// ErrFormat reports a file which is not an idx file of the expected kind
var ErrFormat = errors.New("mnist format error")

// DefaultDirs are searched by Find
func DefaultDirs() []string {
	dirs := []string{"/tmp/mnist/"}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".cache", "mnist"))
	}
	return dirs
}

// Find returns the first directory that holds all four dataset files
func Find(dirs ...string) (string, error) {
	if len(dirs) == 0 {
		dirs = DefaultDirs()
	}
outer:
	for _, dir := range dirs {
		for name := range digests {
			if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
				continue outer
			}
		}
		return dir, nil
	}
	return "", errors.WithHint(errors.Newf("mnist dataset not found in %v", dirs),
		"download the four *-ubyte.gz files from the MNIST site into one of these directories")
}

// Load reads the train and test sets from dir
func Load(dir string) (train, test datasets.Dataset, err error) {
	train, err = loadSet(dir, trainSetImg, trainSetVal)
	if err != nil {
		return nil, nil, err
	}
	test, err = loadSet(dir, inferSetImg, inferSetVal)
	if err != nil {
		return nil, nil, err
	}
	return train, test, nil
}

func loadSet(dir, imgName, valName string) (datasets.Dataset, error) {
	images, err := readGzip(dir, imgName)
	if err != nil {
		return nil, err
	}
	labels, err := readGzip(dir, valName)
	if err != nil {
		return nil, err
	}
	return Decode(images, labels)
}

// Decode parses uncompressed idx3 images and idx1 labels
func Decode(images, labels []byte) (datasets.Dataset, error) {
	if len(images) < 16 || binary.BigEndian.Uint32(images) != imagesMagic {
		return nil, errors.Wrap(ErrFormat, "bad images header")
	}
	if len(labels) < 8 || binary.BigEndian.Uint32(labels) != labelsMagic {
		return nil, errors.Wrap(ErrFormat, "bad labels header")
	}
	count := int(binary.BigEndian.Uint32(images[4:]))
	rows := int(binary.BigEndian.Uint32(images[8:]))
	cols := int(binary.BigEndian.Uint32(images[12:]))
	if rows != ImgSize || cols != ImgSize {
		return nil, errors.Wrapf(ErrFormat, "images are %dx%d, want %dx%d", rows, cols, ImgSize, ImgSize)
	}
	if int(binary.BigEndian.Uint32(labels[4:])) != count {
		return nil, errors.Wrapf(ErrFormat, "%d images but %d labels", count, binary.BigEndian.Uint32(labels[4:]))
	}
	// skip headers
	images, labels = images[16:], labels[8:]
	if len(images) < count*ImgSize*ImgSize || len(labels) < count {
		return nil, errors.Wrap(ErrFormat, "truncated data")
	}

	set := make(datasets.Dataset, count)
	for i := range set {
		pixels := images[i*ImgSize*ImgSize : (i+1)*ImgSize*ImgSize]
		features := make([]float64, len(pixels))
		for j, p := range pixels {
			features[j] = float64(p)
		}
		set[i] = datasets.Sample{Features: features, Label: strconv.Itoa(int(labels[i]))}
	}
	return set, nil
}

func readGzip(dir, name string) ([]byte, error) {
	path := filepath.Join(dir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	if sum := fmt.Sprintf("%x", sha256.Sum256(raw)); sum != digests[name] {
		return nil, errors.Wrapf(ErrChecksum, "file %s has sha256 %s", path, sum)
	}
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrapf(err, "gzip file %s", path)
	}
	defer zr.Close()
	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.Wrapf(err, "ungzip file %s", path)
	}
	return data, nil
}
