// Package compact shrinks a DFA's dense state x alphabet-class
// transition matrix, built by dfa.DenseMatrix, into a table a fraction of
// its original size. Real alphabets produce a matrix with enormous
// row duplication (most states share most of their transitions) and
// enormous sparsity (most of a row is the dead state), so the two
// strategies here exploit exactly that.
package compact

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// Matrix is a row-major dense table: Rows*Cols entries, one per
// (state, alphabet class) pair, holding a target state id.
type Matrix struct {
	Entries  []int32
	RowCount int
	ColCount int
}

// NewMatrix validates and wraps a flat entries slice.
func NewMatrix(entries []int32, colCount int) (*Matrix, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("compact: entries is empty")
	}
	if colCount <= 0 {
		return nil, fmt.Errorf("compact: colCount must be >= 1")
	}
	if len(entries)%colCount != 0 {
		return nil, fmt.Errorf("compact: entries length %v is not a multiple of colCount %v", len(entries), colCount)
	}
	return &Matrix{Entries: entries, RowCount: len(entries) / colCount, ColCount: colCount}, nil
}

// Table compacts a Matrix into some smaller representation and
// answers the same (row, col) lookups against it.
type Table interface {
	Compact(m *Matrix) error
	Lookup(row, col int) (int32, error)
	Size() (rows, cols int)
}

var (
	_ Table = (*UniqueRowTable)(nil)
	_ Table = (*DisplacementTable)(nil)
)

// UniqueRowTable deduplicates identical rows: many DFA states share
// the exact same transition row (e.g. every state that has never seen
// a digit transitions identically on the next digit), so storing each
// distinct row once and mapping row index -> unique row number already
// buys most of the compaction a hand-rolled scheme would.
type UniqueRowTable struct {
	UniqueRows []int32
	RowNumbers []int
	Rows, Cols int
}

// NewUniqueRowTable returns an empty table ready for Compact.
func NewUniqueRowTable() *UniqueRowTable {
	return &UniqueRowTable{}
}

func (tab *UniqueRowTable) Size() (int, int) {
	return tab.Rows, tab.Cols
}

func (tab *UniqueRowTable) Lookup(row, col int) (int32, error) {
	if row < 0 || row >= tab.Rows || col < 0 || col >= tab.Cols {
		return 0, fmt.Errorf("compact: index out of range: [%v, %v]", row, col)
	}
	return tab.UniqueRows[tab.RowNumbers[row]*tab.Cols+col], nil
}

func (tab *UniqueRowTable) Compact(m *Matrix) error {
	var unique []int32
	rowNumbers := make([]int, m.RowCount)
	seen := map[string]int{}
	next := 0
	for row := 0; row < m.RowCount; row++ {
		key := rowKey(m.Entries[row*m.ColCount : (row+1)*m.ColCount])
		n, ok := seen[key]
		if !ok {
			n = next
			next++
			seen[key] = n
			unique = append(unique, m.Entries[row*m.ColCount:(row+1)*m.ColCount]...)
		}
		rowNumbers[row] = n
	}

	tab.UniqueRows = unique
	tab.RowNumbers = rowNumbers
	tab.Rows = m.RowCount
	tab.Cols = m.ColCount
	return nil
}

func rowKey(row []int32) string {
	buf := make([]byte, 0, len(row)*binary.MaxVarintLen32)
	var b [binary.MaxVarintLen32]byte
	for _, v := range row {
		n := binary.PutVarint(b[:], int64(v))
		buf = append(buf, b[:n]...)
	}
	return string(buf)
}

// NoEntry marks a (displaced-row, column) slot that Lookup must treat
// as absent rather than as a valid zero state id.
const NoEntry = -1

// DisplacementTable overlays every row at its own offset into one
// shared array, choosing each offset so that a row's non-empty cells
// never collide with a row already placed; a Bounds array records
// which row actually owns each cell, since overlapping rows share
// storage for the cells neither of them uses. This is the classic
// row-displacement scheme for sparse automaton transition tables,
// effective here because most states reject most of the alphabet by
// falling through to the dead state.
type DisplacementTable struct {
	Rows, Cols      int
	DeadState       int32
	Entries         []int32
	Bounds          []int
	RowDisplacement []int
}

// NewDisplacementTable returns an empty table; deadState is the target
// id treated as "empty" for sparsity purposes (only non-dead cells are
// packed).
func NewDisplacementTable(deadState int32) *DisplacementTable {
	return &DisplacementTable{DeadState: deadState}
}

func (tab *DisplacementTable) Size() (int, int) {
	return tab.Rows, tab.Cols
}

func (tab *DisplacementTable) Lookup(row, col int) (int32, error) {
	if row < 0 || row >= tab.Rows || col < 0 || col >= tab.Cols {
		return tab.DeadState, fmt.Errorf("compact: index out of range: [%v, %v]", row, col)
	}
	d := tab.RowDisplacement[row]
	if tab.Bounds[d+col] != row {
		return tab.DeadState, nil
	}
	return tab.Entries[d+col], nil
}

type rowInfo struct {
	rowNum      int
	nonEmpty    []int
	occupiedLen int
}

func (tab *DisplacementTable) Compact(m *Matrix) error {
	infos := make([]rowInfo, m.RowCount)
	for row := 0; row < m.RowCount; row++ {
		infos[row].rowNum = row
		for col := 0; col < m.ColCount; col++ {
			if v := m.Entries[row*m.ColCount+col]; v != tab.DeadState {
				infos[row].nonEmpty = append(infos[row].nonEmpty, col)
			}
		}
		infos[row].occupiedLen = len(infos[row].nonEmpty)
	}
	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].occupiedLen > infos[j].occupiedLen
	})

	total := len(m.Entries)
	entries := make([]int32, total)
	bounds := make([]int, total)
	for i := range entries {
		entries[i] = tab.DeadState
		bounds[i] = NoEntry
	}

	displacement := make([]int, m.RowCount)
	bottom := m.ColCount
	for _, info := range infos {
		if info.occupiedLen == 0 {
			continue
		}
		offset := 0
		for {
			overlap := false
			for _, col := range info.nonEmpty {
				if entries[offset+col] != tab.DeadState {
					offset++
					overlap = true
					break
				}
			}
			if overlap {
				continue
			}
			displacement[info.rowNum] = offset
			for _, col := range info.nonEmpty {
				entries[offset+col] = m.Entries[info.rowNum*m.ColCount+col]
				bounds[offset+col] = info.rowNum
			}
			if offset+m.ColCount > bottom {
				bottom = offset + m.ColCount
			}
			break
		}
	}

	tab.Rows = m.RowCount
	tab.Cols = m.ColCount
	tab.Entries = entries[:bottom]
	tab.Bounds = bounds[:bottom]
	tab.RowDisplacement = displacement
	return nil
}
