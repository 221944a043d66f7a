package store

import (
	"fmt"
	"sync/atomic"

	"github.com/bwmarrin/snowflake"
)

// IDGenerator hands out ids for every entity kind from one space, so a
// chat id alone says whether it is a channel or a DM.
type IDGenerator interface {
	NextID() int64
}

// Snowflake layout. The stock layout (time since 2010, 10 node bits, 12
// step bits) yields ids near 2^60, which clients holding JSON numbers as
// float64 cannot represent. Counting from 2024 with 3 node bits and 6 step
// bits keeps ids below 2^53 for about 550 years. That leaves 8 nodes and
// 64 ids per millisecond per node.
const (
	idEpoch    = 1704067200000 // 2024-01-01T00:00:00Z in ms
	idNodeBits = 3
	idStepBits = 6

	// MaxNodeID is the largest node id NewSnowflakeIDs accepts.
	MaxNodeID = 1<<idNodeBits - 1

	// MaxSafeID is the largest integer a float64 holds exactly.
	MaxSafeID = 1<<53 - 1
)

func init() {
	// NewNode reads these package settings when it builds a node.
	snowflake.Epoch = idEpoch
	snowflake.NodeBits = idNodeBits
	snowflake.StepBits = idStepBits
}

// SnowflakeIDs generates time-ordered ids that stay unique across
// restarts without persisting a counter.
type SnowflakeIDs struct {
	node *snowflake.Node
}

func NewSnowflakeIDs(nodeID int64) (*SnowflakeIDs, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("create snowflake node: %w", err)
	}
	return &SnowflakeIDs{node: node}, nil
}

func (g *SnowflakeIDs) NextID() int64 {
	return g.node.Generate().Int64()
}

// Sequence is a deterministic generator, mostly for tests.
type Sequence struct {
	next atomic.Int64
}

// NewSequence returns a generator whose first id is start.
func NewSequence(start int64) *Sequence {
	s := &Sequence{}
	s.next.Store(start - 1)
	return s
}

func (s *Sequence) NextID() int64 {
	return s.next.Add(1)
}
