package artifacts

import (
	"context"
	"errors"
	"fmt"

	"spacetraffic/internal/features"
)

// leafNode marks a missing child in the tree arrays.
const leafNode = -1

// ForestRegressor averages the predictions of its decision trees.
type ForestRegressor struct {
	input inputSpec
	trees []tree
}

// tree is one fitted regression tree in parallel-array form. Node 0 is the
// root; internal nodes send x[feature] <= threshold left, otherwise right.
type tree struct {
	ChildrenLeft  []int     `json:"children_left"`
	ChildrenRight []int     `json:"children_right"`
	Feature       []int     `json:"feature"`
	Threshold     []float64 `json:"threshold"`
	Value         []float64 `json:"value"`
}

type forestDoc struct {
	header
	Estimators []tree `json:"estimators"`
}

func decodeForest(name string, data []byte) (*ForestRegressor, error) {
	var doc forestDoc
	if err := decodeStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding random forest: %w", err)
	}
	input, err := newInputSpec(name, doc.header)
	if err != nil {
		return nil, err
	}
	if len(doc.Estimators) == 0 {
		return nil, errors.New("random forest has no estimators")
	}
	for i := range doc.Estimators {
		if err := doc.Estimators[i].validate(input.nFeatures); err != nil {
			return nil, fmt.Errorf("estimator %d: %w", i, err)
		}
	}
	return &ForestRegressor{input: input, trees: doc.Estimators}, nil
}

// validate checks array lengths and that every child index points forward,
// which rules out cycles during traversal.
func (t *tree) validate(nFeatures int) error {
	n := len(t.Value)
	if n == 0 {
		return errors.New("tree has no nodes")
	}
	if len(t.ChildrenLeft) != n || len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n {
		return errors.New("tree arrays have different lengths")
	}
	for i := 0; i < n; i++ {
		left, right := t.ChildrenLeft[i], t.ChildrenRight[i]
		if left == leafNode && right == leafNode {
			continue
		}
		if left <= i || left >= n || right <= i || right >= n {
			return fmt.Errorf("node %d has invalid children %d, %d", i, left, right)
		}
		if f := t.Feature[i]; f < 0 || f >= nFeatures {
			return fmt.Errorf("node %d splits on feature %d of %d", i, f, nFeatures)
		}
	}
	return nil
}

func (t *tree) predict(x []float64) float64 {
	node := 0
	for t.ChildrenLeft[node] != leafNode {
		if x[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node]
}

// Predict implements features.Model.
func (m *ForestRegressor) Predict(_ context.Context, row features.FeatureRow) (float64, error) {
	x, err := m.input.prepare(row)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := range m.trees {
		sum += m.trees[i].predict(x)
	}
	return sum / float64(len(m.trees)), nil
}
