package model

// FormatV1 is the only artifact format this package reads.
const FormatV1 = "churn-pipeline/v1"

// Estimator kinds.
const (
	KindLogistic = "logistic"
	KindGBTree   = "gbtree"
)

// Spec is the serialized form of a fitted pipeline, exported by the training job as JSON or YAML.
type Spec struct {
	Format      string              `json:"format" yaml:"format"`
	Numeric     []NumericColumn     `json:"numeric" yaml:"numeric"`
	Categorical []CategoricalColumn `json:"categorical" yaml:"categorical"`
	Estimator   EstimatorSpec       `json:"estimator" yaml:"estimator"`
}

// NumericColumn is passed through after median imputation.
type NumericColumn struct {
	Name   string  `json:"name" yaml:"name"`
	Median float64 `json:"median" yaml:"median"`
}

// CategoricalColumn is imputed with its most frequent value and one-hot encoded over Categories.
// Values outside Categories encode as all zeros.
type CategoricalColumn struct {
	Name         string   `json:"name" yaml:"name"`
	MostFrequent string   `json:"most_frequent" yaml:"most_frequent"`
	Categories   []string `json:"categories" yaml:"categories"`
}

// EstimatorSpec selects and parameterizes the classifier. Exactly one of Logistic or GBTree
// must be set, matching Kind.
type EstimatorSpec struct {
	Kind     string        `json:"kind" yaml:"kind"`
	Logistic *LogisticSpec `json:"logistic,omitempty" yaml:"logistic,omitempty"`
	GBTree   *GBTreeSpec   `json:"gbtree,omitempty" yaml:"gbtree,omitempty"`
}

// LogisticSpec is a linear model over the encoded feature vector.
type LogisticSpec struct {
	Intercept    float64   `json:"intercept" yaml:"intercept"`
	Coefficients []float64 `json:"coefficients" yaml:"coefficients"`
}

// GBTreeSpec is a boosted tree ensemble with a logistic link.
// BaseScore is a probability; zero means the conventional 0.5.
type GBTreeSpec struct {
	BaseScore float64    `json:"base_score" yaml:"base_score"`
	Trees     []TreeSpec `json:"trees" yaml:"trees"`
}

// TreeSpec holds nodes in index order; node 0 is the root.
type TreeSpec struct {
	Nodes []NodeSpec `json:"nodes" yaml:"nodes"`
}

// NodeSpec is either a split (Leaf == nil) or a leaf.
// A split sends x[Feature] < Threshold left; missing values follow DefaultLeft.
type NodeSpec struct {
	Feature     int      `json:"feature" yaml:"feature"`
	Threshold   float64  `json:"threshold" yaml:"threshold"`
	Left        int      `json:"left" yaml:"left"`
	Right       int      `json:"right" yaml:"right"`
	DefaultLeft bool     `json:"default_left" yaml:"default_left"`
	Leaf        *float64 `json:"leaf,omitempty" yaml:"leaf,omitempty"`
}
