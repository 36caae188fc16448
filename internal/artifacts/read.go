// Package artifacts loads the serialized label encoder and regression models
// the predictor runs on. Artifacts are JSON documents, optionally zstd
// compressed (".zst" suffix), in the layout scikit-learn estimators expose
// (coef_, tree_ arrays, support_vectors_, classes_).
package artifacts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"

	"spacetraffic/internal/types"
)

// maxArtifactSize bounds the decompressed size of a single artifact (64 MB).
const maxArtifactSize = 64 << 20

// compressedSuffix marks artifacts stored zstd-compressed.
const compressedSuffix = ".zst"

// decoderPool provides reusable zstd decoders to avoid repeated allocations.
var decoderPool = sync.Pool{
	New: func() any {
		d, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderMaxMemory(maxArtifactSize),
		)
		if err != nil {
			// This should never fail with nil input and static options.
			panic(fmt.Sprintf("failed to create zstd decoder: %v", err))
		}
		return d
	},
}

// ReadFile returns the decoded bytes of an artifact, decompressing it when the
// path ends in ".zst".
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, compressedSuffix) {
		return data, nil
	}
	return decompress(data)
}

func decompress(data []byte) ([]byte, error) {
	decoder := decoderPool.Get().(*zstd.Decoder)
	defer decoderPool.Put(decoder)

	out, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}
	return out, nil
}

// header holds the fields common to every artifact document.
type header struct {
	Kind           string      `json:"kind"`
	FeatureNamesIn []string    `json:"feature_names_in"`
	NFeaturesIn    int         `json:"n_features_in"`
	Scaler         *scalerSpec `json:"scaler"`
}

// decodeStrict unmarshals data into dst, rejecting unknown fields and any
// non-whitespace content after the document.
func decodeStrict(data []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("artifact must contain a single JSON document")
	}
	return nil
}

func loadError(path, kind string, err error) error {
	return &types.ArtifactLoadError{Path: path, Kind: kind, Err: err}
}
