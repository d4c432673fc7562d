package model

import (
	"fmt"
	"math"
)

// estimator maps an encoded vector to a log-odds margin.
type estimator interface {
	margin(x []float64) float64
}

type logistic struct {
	intercept float64
	coef      []float64
}

func newLogistic(s *LogisticSpec, width int) (*logistic, error) {
	if s == nil {
		return nil, fmt.Errorf("model: estimator kind %q requires a logistic section", KindLogistic)
	}
	if len(s.Coefficients) != width {
		return nil, fmt.Errorf("model: logistic has %d coefficients for %d features", len(s.Coefficients), width)
	}
	return &logistic{intercept: s.Intercept, coef: s.Coefficients}, nil
}

func (l *logistic) margin(x []float64) float64 {
	m := l.intercept
	for i, w := range l.coef {
		m += w * x[i]
	}
	return m
}

type gbtree struct {
	base  float64
	trees [][]NodeSpec
}

func newGBTree(s *GBTreeSpec, width int) (*gbtree, error) {
	if s == nil {
		return nil, fmt.Errorf("model: estimator kind %q requires a gbtree section", KindGBTree)
	}
	base := s.BaseScore
	if base == 0 {
		base = 0.5
	}
	if base <= 0 || base >= 1 {
		return nil, fmt.Errorf("model: base_score %v outside (0, 1)", s.BaseScore)
	}
	if len(s.Trees) == 0 {
		return nil, fmt.Errorf("model: gbtree has no trees")
	}
	g := &gbtree{base: math.Log(base / (1 - base))}
	for t, tree := range s.Trees {
		if len(tree.Nodes) == 0 {
			return nil, fmt.Errorf("model: tree %d is empty", t)
		}
		for i, n := range tree.Nodes {
			if n.Leaf != nil {
				continue
			}
			if n.Feature < 0 || n.Feature >= width {
				return nil, fmt.Errorf("model: tree %d node %d splits on feature %d of %d", t, i, n.Feature, width)
			}
			// Children must come after their parent so evaluation always terminates.
			if n.Left <= i || n.Right <= i || n.Left >= len(tree.Nodes) || n.Right >= len(tree.Nodes) {
				return nil, fmt.Errorf("model: tree %d node %d has invalid children %d/%d", t, i, n.Left, n.Right)
			}
		}
		g.trees = append(g.trees, tree.Nodes)
	}
	return g, nil
}

func (g *gbtree) margin(x []float64) float64 {
	m := g.base
	for _, nodes := range g.trees {
		i := 0
		for nodes[i].Leaf == nil {
			n := nodes[i]
			v := x[n.Feature]
			switch {
			case math.IsNaN(v):
				if n.DefaultLeft {
					i = n.Left
				} else {
					i = n.Right
				}
			case v < n.Threshold:
				i = n.Left
			default:
				i = n.Right
			}
		}
		m += *nodes[i].Leaf
	}
	return m
}

func sigmoid(m float64) float64 {
	if m >= 0 {
		return 1 / (1 + math.Exp(-m))
	}
	e := math.Exp(m)
	return e / (1 + e)
}
