package artifacts

import (
	"errors"
	"fmt"
	"slices"

	"spacetraffic/internal/types"
)

// KindLabelEncoder is the artifact kind of a fitted label encoder.
const KindLabelEncoder = "label_encoder"

// LabelEncoder maps each known class to its position in Classes. It is
// immutable once loaded and safe for concurrent use.
type LabelEncoder struct {
	field   string
	classes []string
	codes   map[string]int
}

type labelEncoderDoc struct {
	Kind    string   `json:"kind"`
	Classes []string `json:"classes"`
}

// NewLabelEncoder builds an encoder over classes. Duplicate or empty classes
// are rejected.
func NewLabelEncoder(field string, classes []string) (*LabelEncoder, error) {
	if len(classes) == 0 {
		return nil, errors.New("label encoder has no classes")
	}
	codes := make(map[string]int, len(classes))
	for i, c := range classes {
		if c == "" {
			return nil, fmt.Errorf("class %d is empty", i)
		}
		if _, dup := codes[c]; dup {
			return nil, fmt.Errorf("duplicate class %q", c)
		}
		codes[c] = i
	}
	return &LabelEncoder{
		field:   field,
		classes: slices.Clone(classes),
		codes:   codes,
	}, nil
}

// LoadLabelEncoder reads a label encoder artifact for the location field.
func LoadLabelEncoder(path string) (*LabelEncoder, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, loadError(path, "encoder", err)
	}

	var doc labelEncoderDoc
	if err := decodeStrict(data, &doc); err != nil {
		return nil, loadError(path, "encoder", fmt.Errorf("decoding: %w", err))
	}
	if doc.Kind != KindLabelEncoder {
		return nil, loadError(path, "encoder", fmt.Errorf("unexpected kind %q", doc.Kind))
	}

	enc, err := NewLabelEncoder("location", doc.Classes)
	if err != nil {
		return nil, loadError(path, "encoder", err)
	}
	return enc, nil
}

// Classes returns a copy of the known classes in code order.
func (e *LabelEncoder) Classes() []string {
	return slices.Clone(e.classes)
}

// Transform returns the code for label, or a *types.EncodingError.
func (e *LabelEncoder) Transform(label string) (int, error) {
	code, ok := e.codes[label]
	if !ok {
		return 0, &types.EncodingError{Field: e.field, Value: label}
	}
	return code, nil
}

// Contains reports whether label is in the vocabulary.
func (e *LabelEncoder) Contains(label string) bool {
	_, ok := e.codes[label]
	return ok
}
