package uid

import (
	"crypto/sha256"
	"os"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates time-ordered int64 IDs suitable for primary keys.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake creates a Snowflake generator.
//
// The node number is derived from /etc/machine-id or the hostname so that
// replicas on different machines do not collide.
func NewSnowflake() (*Snowflake, error) {
	node, err := snowflake.NewNode(nodeNumber())
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new unique int64 ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}

func nodeNumber() int64 {
	src := ""
	if b, err := os.ReadFile("/etc/machine-id"); err == nil {
		src = strings.TrimSpace(string(b))
	}
	if src == "" {
		if h, err := os.Hostname(); err == nil {
			src = strings.TrimSpace(h)
		}
	}

	sum := sha256.Sum256([]byte(src))
	// snowflake node numbers are 10 bits.
	return int64(sum[0])<<2 | int64(sum[1])>>6
}
