package diskstore

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

const maxActions = 1 << 20

// encodeVectors writes i32 num_actions followed by both f64 vectors,
// little-endian, matching the flat checkpoint's per-node layout.
func encodeVectors(w io.Writer, regretSum, strategySum []float64) error {
	if len(regretSum) != len(strategySum) {
		return errors.Errorf("mismatched vector lengths %d != %d", len(regretSum), len(strategySum))
	}
	if err := binary.Write(w, binary.LittleEndian, int32(len(regretSum))); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, regretSum); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, strategySum)
}

func decodeVectors(r io.Reader) (regretSum, strategySum []float64, err error) {
	var nActions int32
	if err = binary.Read(r, binary.LittleEndian, &nActions); err != nil {
		return
	}
	if nActions < 0 || nActions > maxActions {
		err = errors.Errorf("implausible action count %d", nActions)
		return
	}
	regretSum = make([]float64, nActions)
	if err = binary.Read(r, binary.LittleEndian, regretSum); err != nil {
		return
	}
	strategySum = make([]float64, nActions)
	err = binary.Read(r, binary.LittleEndian, strategySum)
	return
}
