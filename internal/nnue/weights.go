package nnue

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Weight file format, kept in the teacher's shape (sfnnue/network.go's
// magic-plus-dimensions header, internal/nnue/weights.go's encoding/binary
// read/write loop) but resized to this package's 768-feature,
// B-output-bucket architecture.
const (
	MagicNumber = 0x46524B53 // "FRKS"
	Version     = 2
)

// FileHeader is the header of the weight file.
type FileHeader struct {
	Magic       uint32
	Version     uint32
	L1          uint32
	NumBuckets  uint32
	NumFeatures uint32
}

// LoadWeights loads network weights from a binary file.
func (n *Network) LoadWeights(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("nnue: open weights file: %w", err)
	}
	defer f.Close()
	return n.LoadWeightsFromReader(f)
}

// SaveWeights saves network weights to a binary file.
func (n *Network) SaveWeights(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("nnue: create weights file: %w", err)
	}
	defer f.Close()

	header := FileHeader{
		Magic:       MagicNumber,
		Version:     Version,
		L1:          L1,
		NumBuckets:  NumBuckets,
		NumFeatures: NumFeatures,
	}
	if err := binary.Write(f, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("nnue: write header: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, &n.FeatureBias); err != nil {
		return fmt.Errorf("nnue: write feature bias: %w", err)
	}
	for i := range n.FeatureWeights {
		if err := binary.Write(f, binary.LittleEndian, &n.FeatureWeights[i]); err != nil {
			return fmt.Errorf("nnue: write feature weights at %d: %w", i, err)
		}
	}
	if err := binary.Write(f, binary.LittleEndian, &n.OutputWeights); err != nil {
		return fmt.Errorf("nnue: write output weights: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, &n.OutputBias); err != nil {
		return fmt.Errorf("nnue: write output bias: %w", err)
	}
	return nil
}

// LoadWeightsFromReader loads network weights from an io.Reader.
func (n *Network) LoadWeightsFromReader(r io.Reader) error {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("nnue: read header: %w", err)
	}
	if header.Magic != MagicNumber {
		return fmt.Errorf("nnue: invalid magic number: expected %x, got %x", MagicNumber, header.Magic)
	}
	if header.Version != Version {
		return fmt.Errorf("nnue: unsupported version: expected %d, got %d", Version, header.Version)
	}
	if header.L1 != L1 {
		return fmt.Errorf("nnue: L1 size mismatch: expected %d, got %d", L1, header.L1)
	}
	if header.NumBuckets != NumBuckets {
		return fmt.Errorf("nnue: bucket count mismatch: expected %d, got %d", NumBuckets, header.NumBuckets)
	}
	if header.NumFeatures != NumFeatures {
		return fmt.Errorf("nnue: feature count mismatch: expected %d, got %d", NumFeatures, header.NumFeatures)
	}

	if err := binary.Read(r, binary.LittleEndian, &n.FeatureBias); err != nil {
		return fmt.Errorf("nnue: read feature bias: %w", err)
	}
	for i := range n.FeatureWeights {
		if err := binary.Read(r, binary.LittleEndian, &n.FeatureWeights[i]); err != nil {
			return fmt.Errorf("nnue: read feature weights at %d: %w", i, err)
		}
	}
	if err := binary.Read(r, binary.LittleEndian, &n.OutputWeights); err != nil {
		return fmt.Errorf("nnue: read output weights: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &n.OutputBias); err != nil {
		return fmt.Errorf("nnue: read output bias: %w", err)
	}
	return nil
}
