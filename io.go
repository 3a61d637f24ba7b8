package ofc

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// maxKeyLen bounds infoset keys when decoding, so a corrupt length field
// fails fast instead of attempting a huge allocation.
const maxKeyLen = 1 << 16

// maxActions bounds per-node action counts when decoding.
const maxActions = 1 << 20

// SaveStrategy writes the strategy table to path:
//
//	u64  node_count
//	repeat node_count times:
//	    u64  key_length
//	    u8   key[key_length]
//	    i32  num_actions
//	    f64  regret_sum[num_actions]
//	    f64  strategy_sum[num_actions]
//
// All integers and floats are little-endian. The file is a trainer
// checkpoint, not an interchange format.
func (s *Solver) SaveStrategy(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating strategy file %v", path)
	}

	w := bufio.NewWriter(f)
	if err := s.marshalTable(w); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing strategy file %v", path)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return errors.Wrapf(err, "flushing strategy file %v", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "closing strategy file %v", path)
	}
	glog.V(1).Infof("saved %d infosets to %v", s.table.len(), path)
	return nil
}

func (s *Solver) marshalTable(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, uint64(s.table.len())); err != nil {
		return err
	}
	var err error
	s.table.each(func(key string, regretSum, strategySum []float64) bool {
		err = marshalNode(w, key, regretSum, strategySum)
		return err == nil
	})
	return err
}

func marshalNode(w io.Writer, key string, regretSum, strategySum []float64) error {
	if err := binary.Write(w, binary.LittleEndian, uint64(len(key))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, key); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(len(regretSum))); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, regretSum); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, strategySum)
}

// LoadStrategy replaces the in-memory table with the contents of path. A
// missing file is not an error: training starts with an empty table. A
// malformed file is an error and leaves the current table untouched.
// LoadStrategy must not be called concurrently with Train.
func (s *Solver) LoadStrategy(path string) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		glog.Warningf("strategy file %v does not exist, starting with an empty table", path)
		s.table = newStrategyTable()
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "opening strategy file %v", path)
	}
	defer f.Close()

	table, err := unmarshalTable(bufio.NewReader(f))
	if err != nil {
		return errors.Wrapf(err, "reading strategy file %v", path)
	}
	s.table = table
	glog.V(1).Infof("loaded %d infosets from %v", table.len(), path)
	return nil
}

func unmarshalTable(r io.Reader) (*strategyTable, error) {
	var count uint64
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, errors.Wrap(err, "reading node count")
	}

	table := newStrategyTable()
	keyBuf := make([]byte, 0, 128)
	for i := uint64(0); i < count; i++ {
		key, regretSum, strategySum, err := unmarshalNode(r, &keyBuf)
		if err != nil {
			return nil, errors.Wrapf(err, "reading node %d of %d", i, count)
		}
		n := newNode(len(regretSum))
		copy(n.regretSum, regretSum)
		copy(n.strategySum, strategySum)
		table.nodes[key] = n
	}
	return table, nil
}

func unmarshalNode(r io.Reader, keyBuf *[]byte) (key string, regretSum, strategySum []float64, err error) {
	var keyLen uint64
	if err = binary.Read(r, binary.LittleEndian, &keyLen); err != nil {
		return
	}
	if keyLen > maxKeyLen {
		err = errors.Errorf("implausible key length %d", keyLen)
		return
	}
	if uint64(cap(*keyBuf)) < keyLen {
		*keyBuf = make([]byte, keyLen)
	}
	buf := (*keyBuf)[:keyLen]
	if _, err = io.ReadFull(r, buf); err != nil {
		return
	}
	key = string(buf)

	var nActions int32
	if err = binary.Read(r, binary.LittleEndian, &nActions); err != nil {
		return
	}
	if nActions < 0 || nActions > maxActions {
		err = errors.Errorf("implausible action count %d for key %q", nActions, key)
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
