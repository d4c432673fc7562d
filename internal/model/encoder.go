package model

import (
	"fmt"
	"math"

	"churn-prediction/backend/internal/feature"
)

// encoder turns a Record into the dense vector the estimator was fitted on:
// numeric columns first, then one block of indicator columns per categorical column.
type encoder struct {
	numeric     []NumericColumn
	categorical []categoricalBlock
	width       int
}

type categoricalBlock struct {
	col    CategoricalColumn
	offset int
	index  map[string]int
}

func newEncoder(spec Spec) (*encoder, error) {
	seen := make(map[string]bool)
	check := func(name string) error {
		if _, ok := feature.Lookup(name); !ok {
			return fmt.Errorf("model: column %q is not an input field", name)
		}
		if seen[name] {
			return fmt.Errorf("model: column %q declared twice", name)
		}
		seen[name] = true
		return nil
	}

	e := &encoder{numeric: spec.Numeric}
	for _, c := range spec.Numeric {
		if err := check(c.Name); err != nil {
			return nil, err
		}
		if f, _ := feature.Lookup(c.Name); f.Kind == feature.Categorical {
			return nil, fmt.Errorf("model: column %q is categorical and cannot be numeric", c.Name)
		}
	}
	off := len(spec.Numeric)
	for _, c := range spec.Categorical {
		if err := check(c.Name); err != nil {
			return nil, err
		}
		if len(c.Categories) == 0 {
			return nil, fmt.Errorf("model: column %q has no categories", c.Name)
		}
		idx := make(map[string]int, len(c.Categories))
		for i, cat := range c.Categories {
			if _, dup := idx[cat]; dup {
				return nil, fmt.Errorf("model: column %q repeats category %q", c.Name, cat)
			}
			idx[cat] = i
		}
		e.categorical = append(e.categorical, categoricalBlock{col: c, offset: off, index: idx})
		off += len(c.Categories)
	}
	e.width = off
	return e, nil
}

// encode writes the vector for r into dst, which must have length e.width.
func (e *encoder) encode(r *feature.Record, dst []float64) {
	for i := range dst {
		dst[i] = 0
	}
	for i, c := range e.numeric {
		v, _ := r.Get(c.Name)
		x := v.Num
		if math.IsNaN(x) {
			x = c.Median
		}
		dst[i] = x
	}
	for _, b := range e.categorical {
		v, _ := r.Get(b.col.Name)
		s := v.Text()
		if s == "" {
			s = b.col.MostFrequent
		}
		if j, ok := b.index[s]; ok {
			dst[b.offset+j] = 1
		}
	}
}

// columns names each position of the encoded vector.
func (e *encoder) columns() []string {
	out := make([]string, 0, e.width)
	for _, c := range e.numeric {
		out = append(out, c.Name)
	}
	for _, b := range e.categorical {
		for _, cat := range b.col.Categories {
			out = append(out, b.col.Name+"="+cat)
		}
	}
	return out
}
