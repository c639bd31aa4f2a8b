package proto

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/icexin/gocraft-pi/vector"
)

// Face is the side of a block that was hit.
type Face int

const (
	FaceBottom Face = iota // y-
	FaceTop                // y+
	FaceNorth              // z-
	FaceSouth              // z+
	FaceWest               // x-
	FaceEast               // x+
)

var faceNames = [...]string{"y-", "y+", "z-", "z+", "x-", "x+"}

func (f Face) String() string {
	if f >= 0 && int(f) < len(faceNames) {
		return faceNames[f]
	}
	return "Face(" + strconv.Itoa(int(f)) + ")"
}

func ParseFace(s string) (Face, error) {
	for i, n := range faceNames {
		if n == s {
			return Face(i), nil
		}
	}
	return 0, fmt.Errorf("unknown face %q", s)
}

// BlockHit is one entry of an events.block.hits reply.
type BlockHit struct {
	Pos    vector.Vector
	Face   Face
	Player int
}

func (h BlockHit) String() string {
	return fmt.Sprintf("%v,%d,%d", h.Pos, int(h.Face), h.Player)
}

// ParseBlockHits reads "x,y,z,face,player|..." and returns nil for an empty
// reply.
func ParseBlockHits(s string) ([]BlockHit, error) {
	if s == "" {
		return nil, nil
	}
	var hits []BlockHit
	for _, e := range strings.Split(s, "|") {
		i := strings.LastIndexByte(e, ',')
		j := -1
		if i > 0 {
			j = strings.LastIndexByte(e[:i], ',')
		}
		if j < 0 {
			return nil, fmt.Errorf("bad block hit %q", e)
		}
		pos, err := vector.Parse(e[:j])
		if err != nil {
			return nil, fmt.Errorf("bad block hit %q: %w", e, err)
		}
		face, err := strconv.Atoi(e[j+1 : i])
		if err != nil || face < 0 || face >= len(faceNames) {
			return nil, fmt.Errorf("bad block hit face in %q", e)
		}
		player, err := strconv.Atoi(e[i+1:])
		if err != nil {
			return nil, fmt.Errorf("bad block hit player in %q", e)
		}
		hits = append(hits, BlockHit{pos, Face(face), player})
	}
	return hits, nil
}

func FormatBlockHits(hits []BlockHit) string {
	parts := make([]string, len(hits))
	for i, h := range hits {
		parts[i] = h.String()
	}
	return strings.Join(parts, "|")
}

func ParsePlayerIDs(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, "|")
	ids := make([]int, len(parts))
	for i, p := range parts {
		id, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("bad player id %q: %w", p, err)
		}
		ids[i] = id
	}
	return ids, nil
}

func FormatPlayerIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, "|")
}
