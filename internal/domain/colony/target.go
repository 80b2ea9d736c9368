package colony

import "github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"

// TargetClass tells apart store-bearing structures from things lying on the ground
type TargetClass string

const (
	ClassStructure TargetClass = "structure"
	ClassPile      TargetClass = "pile"
	ClassTombstone TargetClass = "tombstone"
	ClassRuin      TargetClass = "ruin"
)

// Target is anything a request can point at
type Target interface {
	ID() string
	Pos() shared.Position
	Class() TargetClass
	Alive() bool
}

// IsGround reports whether the target is a pile, tombstone or ruin. Ground
// targets can only ever be emptied, never filled.
func IsGround(t Target) bool {
	return t.Class() != ClassStructure
}
