package gocraft

import "github.com/icexin/gocraft-pi/proto"

// Block types understood by every server flavour.
var (
	Air              = proto.Block{ID: 0}
	Stone            = proto.Block{ID: 1}
	Grass            = proto.Block{ID: 2}
	Dirt             = proto.Block{ID: 3}
	Cobblestone      = proto.Block{ID: 4}
	WoodPlanks       = proto.Block{ID: 5}
	Sapling          = proto.Block{ID: 6}
	Bedrock          = proto.Block{ID: 7}
	WaterFlowing     = proto.Block{ID: 8}
	WaterStationary  = proto.Block{ID: 9}
	LavaFlowing      = proto.Block{ID: 10}
	LavaStationary   = proto.Block{ID: 11}
	Sand             = proto.Block{ID: 12}
	Gravel           = proto.Block{ID: 13}
	GoldOre          = proto.Block{ID: 14}
	IronOre          = proto.Block{ID: 15}
	CoalOre          = proto.Block{ID: 16}
	Wood             = proto.Block{ID: 17}
	Leaves           = proto.Block{ID: 18}
	Glass            = proto.Block{ID: 20}
	LapisLazuliOre   = proto.Block{ID: 21}
	LapisLazuliBlock = proto.Block{ID: 22}
	Sandstone        = proto.Block{ID: 24}
	Bed              = proto.Block{ID: 26}
	Cobweb           = proto.Block{ID: 30}
	GrassTall        = proto.Block{ID: 31}
	Wool             = proto.Block{ID: 35}
	FlowerYellow     = proto.Block{ID: 37}
	FlowerCyan       = proto.Block{ID: 38}
	GoldBlock        = proto.Block{ID: 41}
	IronBlock        = proto.Block{ID: 42}
	StoneSlab        = proto.Block{ID: 44}
	BrickBlock       = proto.Block{ID: 45}
	TNT              = proto.Block{ID: 46}
	Bookshelf        = proto.Block{ID: 47}
	MossStone        = proto.Block{ID: 48}
	Obsidian         = proto.Block{ID: 49}
	Torch            = proto.Block{ID: 50}
	Fire             = proto.Block{ID: 51}
	DiamondOre       = proto.Block{ID: 56}
	DiamondBlock     = proto.Block{ID: 57}
	Snow             = proto.Block{ID: 78}
	Ice              = proto.Block{ID: 79}
	SnowBlock        = proto.Block{ID: 80}
	Cactus           = proto.Block{ID: 81}
	Clay             = proto.Block{ID: 82}
	Glowstone        = proto.Block{ID: 89}
	Melon            = proto.Block{ID: 103}
	NetherReactor    = proto.Block{ID: 247}
)

// WoolColor returns wool with data value c, 0 (white) through 15 (black).
func WoolColor(c int) proto.Block {
	return proto.Block{ID: Wool.ID, Data: c}
}
