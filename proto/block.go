package proto

import (
	"fmt"
	"strconv"
	"strings"
)

// Block is a block type (air, stone, wool...) plus its data value, whose
// meaning depends on the type (the colour of wool, for one).
type Block struct {
	ID   int
	Data int
}

func (b Block) String() string {
	return strconv.Itoa(b.ID) + "," + strconv.Itoa(b.Data)
}

// ParseBlock reads "id,data" or a bare "id".
func ParseBlock(s string) (Block, error) {
	idStr, dataStr := s, "0"
	if i := strings.IndexByte(s, ','); i >= 0 {
		idStr, dataStr = s[:i], s[i+1:]
	}
	id, err := strconv.Atoi(strings.TrimSpace(idStr))
	if err != nil {
		return Block{}, fmt.Errorf("bad block %q: %w", s, err)
	}
	data, err := strconv.Atoi(strings.TrimSpace(dataStr))
	if err != nil {
		return Block{}, fmt.Errorf("bad block %q: %w", s, err)
	}
	return Block{id, data}, nil
}

// ParseBlockIDs reads the comma separated id list of a getBlocks reply.
func ParseBlockIDs(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int, len(parts))
	for i, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("bad block id %q: %w", p, err)
		}
		ids[i] = id
	}
	return ids, nil
}

func FormatBlockIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
