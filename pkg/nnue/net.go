// Package nnue contains the quantized neural-network evaluator and the board
// accumulators it consumes.
package nnue

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// HiddenSize is the width of the single hidden layer.
	HiddenSize = 256

	// NumInputs is the network input dimension: one plane per color of 49
	// piece squares, plus one shared 49-square blocker plane.
	NumInputs = 2*49 + 49

	blockerOffset = 2 * 49
)

// Net holds the quantized network weights. The layout matches the on-disk
// format: concatenated little-endian int16 arrays with no padding, in field
// order. Weights are read-only for the process lifetime.
type Net struct {
	// FeatureWeights has one row of HiddenSize columns per input index.
	FeatureWeights [NumInputs * HiddenSize]int16
	// FeatureBiases is the initial accumulator contents.
	FeatureBiases [HiddenSize]int16
	// OutputWeights holds the side-to-move perspective vector followed by
	// the opponent perspective vector.
	OutputWeights [2][HiddenSize]int16
	OutputBias    int16
}

// Load reads a network from the binary wire format: feature weights
// (NumInputs x HiddenSize), feature biases (HiddenSize), output weights
// (2 x HiddenSize) and the output bias, all little-endian int16.
func Load(r io.Reader) (*Net, error) {
	n := &Net{}
	if err := binary.Read(r, binary.LittleEndian, n); err != nil {
		return nil, fmt.Errorf("invalid network data: %v", err)
	}
	return n, nil
}

// Write emits the network in the same wire format. Inverse of Load.
func (n *Net) Write(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, n)
}

// featureRow returns the weight column for the given input index.
func (n *Net) featureRow(idx int) []int16 {
	return n.FeatureWeights[idx*HiddenSize : (idx+1)*HiddenSize]
}

// NewDefaultNet returns the built-in network. The weights are generated from
// a fixed linear congruential sequence, so every build evaluates identically;
// a trained network loaded from a file replaces it for serious play.
func NewDefaultNet() *Net {
	n := &Net{}

	state := uint64(0x9e3779b97f4a7c15)
	next := func() uint64 {
		state = state*6364136223846793005 + 1442695040888963407
		return state >> 33
	}

	for i := range n.FeatureWeights {
		n.FeatureWeights[i] = int16(next()%63) - 31
	}
	for i := range n.FeatureBiases {
		n.FeatureBiases[i] = int16(next()%33) - 16
	}
	for p := 0; p < 2; p++ {
		for i := range n.OutputWeights[p] {
			n.OutputWeights[p][i] = int16(next()%127) - 63
		}
	}
	n.OutputBias = int16(next()%65) - 32

	return n
}
