package testutil

import (
	"fmt"
	"sync/atomic"
)

// SeqIDs hands out predictable ids: prefix-1, prefix-2, ...
type SeqIDs struct {
	Prefix string
	n      atomic.Int64
}

func (g *SeqIDs) NewID() (string, error) {
	return fmt.Sprintf("%s-%d", g.Prefix, g.n.Add(1)), nil
}
