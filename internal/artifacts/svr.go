package artifacts

import (
	"context"
	"errors"
	"fmt"
	"math"

	"spacetraffic/internal/features"
)

// Supported SVR kernels.
const (
	KernelLinear  = "linear"
	KernelRBF     = "rbf"
	KernelPoly    = "poly"
	KernelSigmoid = "sigmoid"
)

// SupportVectorRegressor predicts sum_i dual_coef[i] * K(sv_i, x) + intercept.
type SupportVectorRegressor struct {
	input          inputSpec
	kernel         string
	gamma          float64
	coef0          float64
	degree         int
	supportVectors [][]float64
	dualCoef       []float64
	intercept      float64
}

type svrDoc struct {
	header
	Kernel         string      `json:"kernel"`
	Gamma          float64     `json:"gamma"`
	Coef0          float64     `json:"coef0"`
	Degree         int         `json:"degree"`
	SupportVectors [][]float64 `json:"support_vectors"`
	DualCoef       []float64   `json:"dual_coef"`
	Intercept      float64     `json:"intercept"`
}

func decodeSVR(name string, data []byte) (*SupportVectorRegressor, error) {
	var doc svrDoc
	if err := decodeStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding svr: %w", err)
	}
	input, err := newInputSpec(name, doc.header)
	if err != nil {
		return nil, err
	}

	if doc.Kernel == "" {
		doc.Kernel = KernelRBF
	}
	switch doc.Kernel {
	case KernelLinear:
	case KernelRBF, KernelSigmoid:
		if doc.Gamma <= 0 {
			return nil, fmt.Errorf("%s kernel requires gamma > 0", doc.Kernel)
		}
	case KernelPoly:
		if doc.Gamma <= 0 {
			return nil, errors.New("poly kernel requires gamma > 0")
		}
		if doc.Degree == 0 {
			doc.Degree = 3
		}
		if doc.Degree < 0 {
			return nil, fmt.Errorf("poly kernel degree %d is negative", doc.Degree)
		}
	default:
		return nil, fmt.Errorf("unsupported kernel %q", doc.Kernel)
	}

	if len(doc.SupportVectors) == 0 {
		return nil, errors.New("svr has no support vectors")
	}
	if len(doc.DualCoef) != len(doc.SupportVectors) {
		return nil, fmt.Errorf("svr has %d dual coefficients for %d support vectors", len(doc.DualCoef), len(doc.SupportVectors))
	}
	for i, sv := range doc.SupportVectors {
		if len(sv) != input.nFeatures {
			return nil, fmt.Errorf("support vector %d has %d values for %d features", i, len(sv), input.nFeatures)
		}
	}

	return &SupportVectorRegressor{
		input:          input,
		kernel:         doc.Kernel,
		gamma:          doc.Gamma,
		coef0:          doc.Coef0,
		degree:         doc.Degree,
		supportVectors: doc.SupportVectors,
		dualCoef:       doc.DualCoef,
		intercept:      doc.Intercept,
	}, nil
}

func (m *SupportVectorRegressor) kernelValue(sv, x []float64) float64 {
	switch m.kernel {
	case KernelLinear:
		return dot(sv, x)
	case KernelPoly:
		return math.Pow(m.gamma*dot(sv, x)+m.coef0, float64(m.degree))
	case KernelSigmoid:
		return math.Tanh(m.gamma*dot(sv, x) + m.coef0)
	default:
		var d2 float64
		for i := range sv {
			d := sv[i] - x[i]
			d2 += d * d
		}
		return math.Exp(-m.gamma * d2)
	}
}

// Predict implements features.Model.
func (m *SupportVectorRegressor) Predict(_ context.Context, row features.FeatureRow) (float64, error) {
	x, err := m.input.prepare(row)
	if err != nil {
		return 0, err
	}
	y := m.intercept
	for i, sv := range m.supportVectors {
		y += m.dualCoef[i] * m.kernelValue(sv, x)
	}
	return y, nil
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
