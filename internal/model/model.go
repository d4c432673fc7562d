// Package model loads the exported churn pipeline and scores feature records with it.
//
// An Artifact is built once at process start and never modified afterwards, so a single
// instance is shared by all request goroutines without locking.
package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"churn-prediction/backend/internal/feature"
)

// Scorer returns the positive-class (churn) probability for each row, aligned by position.
type Scorer interface {
	PredictProba(rows []feature.Record) ([]float64, error)
}

// ErrUnsupportedFormat is returned when the artifact's format marker or file extension is not recognized.
var ErrUnsupportedFormat = errors.New("model: unsupported artifact format")

// Artifact is a loaded, validated pipeline. It implements Scorer.
type Artifact struct {
	kind string
	enc  *encoder
	est  estimator
}

// Load reads and validates the artifact at path. The file extension selects the decoder
// (.json, .yaml or .yml).
func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("model: read artifact: %w", err)
	}
	a, err := Parse(data, strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// Parse decodes an artifact document. format is "json", "yaml" or "yml".
// Unknown keys are rejected so that a typo cannot silently drop a coefficient block.
func Parse(data []byte, format string) (*Artifact, error) {
	var spec Spec
	switch format {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&spec); err != nil {
			return nil, fmt.Errorf("model: decode json: %w", err)
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&spec); err != nil {
			return nil, fmt.Errorf("model: decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, format)
	}
	return New(spec)
}

// New validates spec and builds an Artifact from it.
func New(spec Spec) (*Artifact, error) {
	if spec.Format != FormatV1 {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, spec.Format)
	}
	enc, err := newEncoder(spec)
	if err != nil {
		return nil, err
	}
	if enc.width == 0 {
		return nil, errors.New("model: artifact declares no input columns")
	}
	var est estimator
	switch spec.Estimator.Kind {
	case KindLogistic:
		est, err = newLogistic(spec.Estimator.Logistic, enc.width)
	case KindGBTree:
		est, err = newGBTree(spec.Estimator.GBTree, enc.width)
	default:
		err = fmt.Errorf("model: unknown estimator kind %q", spec.Estimator.Kind)
	}
	if err != nil {
		return nil, err
	}
	return &Artifact{kind: spec.Estimator.Kind, enc: enc, est: est}, nil
}

// PredictProba scores rows in one pass. It fails if any row yields a non-finite probability.
func (a *Artifact) PredictProba(rows []feature.Record) ([]float64, error) {
	out := make([]float64, len(rows))
	x := make([]float64, a.enc.width)
	for i := range rows {
		a.enc.encode(&rows[i], x)
		p := sigmoid(a.est.margin(x))
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("model: row %d produced non-finite probability", i)
		}
		out[i] = p
	}
	return out, nil
}

// Kind returns the estimator kind (KindLogistic or KindGBTree).
func (a *Artifact) Kind() string { return a.kind }

// Columns names each position of the encoded feature vector.
func (a *Artifact) Columns() []string { return a.enc.columns() }
