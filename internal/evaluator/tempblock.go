package evaluator

// TempBlock is one scoped acquisition of owning values (spec.md §5): a
// strictly nested LIFO of owning Values, destroyed when the block pops
// unless a value has already been captured (installed as a binding's
// storage, or returned).
type TempBlock struct {
	owned []*Value
}

// Install records v as owned by this block; it will be destroyed on Pop
// unless later removed by Release.
func (tb *TempBlock) Install(v *Value) {
	if v.Owned {
		tb.owned = append(tb.owned, v)
	}
}

// Release removes v from this block's destroy list, used when v is about
// to become a binding's storage or the function's return value and so
// outlives the block.
func (tb *TempBlock) Release(v *Value) {
	for i, o := range tb.owned {
		if o == v {
			tb.owned = append(tb.owned[:i], tb.owned[i+1:]...)
			return
		}
	}
}

// Stack is a thread-local (here: per-Evaluator) LIFO of TempBlocks.
// Push/Pop must be strictly nested (spec.md §5).
type Stack struct {
	blocks []*TempBlock
}

// Push opens a new temp block.
func (s *Stack) Push() *TempBlock {
	tb := &TempBlock{}
	s.blocks = append(s.blocks, tb)
	return tb
}

// Pop closes the top temp block, destroying every owning value still
// installed in it, in reverse declaration order (spec.md §5, "their temps
// are destroyed in reverse declaration order").
func (s *Stack) Pop() {
	n := len(s.blocks)
	tb := s.blocks[n-1]
	s.blocks = s.blocks[:n-1]
	for i := len(tb.owned) - 1; i >= 0; i-- {
		tb.owned[i].Destroy()
	}
}

// Top returns the currently open temp block.
func (s *Stack) Top() *TempBlock {
	return s.blocks[len(s.blocks)-1]
}
