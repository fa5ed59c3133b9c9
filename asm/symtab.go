package asm

import (
	"iter"
	"maps"
)

// SymbolTable maps label names to the byte address they denote.
type SymbolTable struct {
	symbols map[string]uint32
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]uint32, 16)}
}

// Define records label at addr. A label may only be defined once.
func (st *SymbolTable) Define(label string, addr uint32) (err error) {
	if st.symbols == nil {
		st.symbols = make(map[string]uint32, 16)
	}
	if _, ok := st.symbols[label]; ok {
		err = ErrLabelDuplicate
		return
	}
	st.symbols[label] = addr
	return
}

// Resolve returns the address of label.
func (st *SymbolTable) Resolve(label string) (addr uint32, err error) {
	addr, ok := st.symbols[label]
	if !ok {
		err = ErrLabelMissing(label)
	}
	return
}

// Len returns the number of defined labels.
func (st *SymbolTable) Len() int {
	return len(st.symbols)
}

// All iterates over every label and its address.
func (st *SymbolTable) All() iter.Seq2[string, uint32] {
	return maps.All(st.symbols)
}

// Reset removes all labels.
func (st *SymbolTable) Reset() {
	clear(st.symbols)
}
