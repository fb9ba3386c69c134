package ml

import (
	"errors"
	"fmt"
)

// RegressionTree is a flattened tree; node 0 is the root.
type RegressionTree struct {
	nodes []TreeNode
}

type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	Value      float64 `json:"value"`
	IsLeaf     bool    `json:"is_leaf"`
}

func NewRegressionTree(nodes []TreeNode, featureCount int) (*RegressionTree, error) {
	if len(nodes) == 0 {
		return nil, errors.New("tree has no nodes")
	}
	for i, node := range nodes {
		if node.IsLeaf {
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= featureCount {
			return nil, fmt.Errorf("node %d: feature index %d out of range", i, node.FeatureIdx)
		}
		// children must point forward so evaluation always terminates
		if node.LeftChild <= i || node.LeftChild >= len(nodes) {
			return nil, fmt.Errorf("node %d: invalid left child %d", i, node.LeftChild)
		}
		if node.RightChild <= i || node.RightChild >= len(nodes) {
			return nil, fmt.Errorf("node %d: invalid right child %d", i, node.RightChild)
		}
	}
	return &RegressionTree{nodes: nodes}, nil
}

func (t *RegressionTree) Predict(features []float64) (float64, error) {
	if len(t.nodes) == 0 {
		return 0, errors.New("tree not loaded")
	}
	idx := 0
	for {
		node := t.nodes[idx]
		if node.IsLeaf {
			return node.Value, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(features) {
			return 0, errors.New("feature index out of range")
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(t.nodes) {
			return 0, errors.New("invalid tree state")
		}
	}
}

// GradientBoosting is a binary boosted ensemble scoring in log-odds space.
type GradientBoosting struct {
	InitScore    float64
	LearningRate float64
	Trees        []*RegressionTree
	FeatureCount int
}

func (gb *GradientBoosting) PredictProba(features []float64) (float64, error) {
	if len(gb.Trees) == 0 {
		return 0, errors.New("model has no trees")
	}
	if len(features) != gb.FeatureCount {
		return 0, fmt.Errorf("expected %d features, got %d", gb.FeatureCount, len(features))
	}
	raw := gb.InitScore
	for i, tree := range gb.Trees {
		value, err := tree.Predict(features)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		raw += gb.LearningRate * value
	}
	return sigmoid(raw), nil
}
