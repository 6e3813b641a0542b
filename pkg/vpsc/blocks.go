package vpsc

// Blocks is the partition of all variables into blocks.
type Blocks struct {
	list []*Block
}

func newBlocks(vs []*Variable) *Blocks {
	bs := &Blocks{list: make([]*Block, len(vs))}
	for i, v := range vs {
		b := newBlock(v)
		b.index = i
		bs.list[i] = b
	}
	return bs
}

// Len returns the number of blocks.
func (bs *Blocks) Len() int { return len(bs.list) }

// Each calls fn for every block.
func (bs *Blocks) Each(fn func(b *Block)) {
	for _, b := range bs.list {
		fn(b)
	}
}

// Cost returns the total cost of all blocks.
func (bs *Blocks) Cost() float64 {
	sum := 0.0
	for _, b := range bs.list {
		sum += b.Cost()
	}
	return sum
}

func (bs *Blocks) insert(b *Block) {
	b.index = len(bs.list)
	bs.list = append(bs.list, b)
}

func (bs *Blocks) remove(b *Block) {
	last := len(bs.list) - 1
	swap := bs.list[last]
	bs.list[last] = nil
	bs.list = bs.list[:last]
	if b != swap {
		bs.list[b.index] = swap
		swap.index = b.index
	}
	b.index = -1
}

// merge joins the blocks on either side of c, copying the smaller into the
// larger.
func (bs *Blocks) merge(c *Constraint) {
	l, r := c.Left.block, c.Right.block
	dist := c.Right.offset - c.Left.offset - c.Gap
	if len(l.vars) < len(r.vars) {
		r.mergeAcross(l, c, dist)
		bs.remove(l)
	} else {
		l.mergeAcross(r, c, -dist)
		bs.remove(r)
	}
}

func (bs *Blocks) updateBlockPositions() {
	for _, b := range bs.list {
		b.updateWeightedPosition()
	}
}

// split breaks each block across its minimum-multiplier constraint when the
// multiplier is below LagrangianTolerance; split constraints join inactive.
func (bs *Blocks) split(inactive []*Constraint) []*Constraint {
	bs.updateBlockPositions()
	snapshot := append([]*Block(nil), bs.list...)
	for _, b := range snapshot {
		c := b.findMinLM()
		if c == nil || c.lm >= LagrangianTolerance {
			continue
		}
		owner := c.Left.block
		lb, rb := split(c)
		bs.insert(lb)
		bs.insert(rb)
		bs.remove(owner)
		inactive = append(inactive, c)
	}
	return inactive
}
