package fleet

import "fmt"

// Body parts and their spawn cost
const (
	PartCarry = "carry"
	PartMove  = "move"
	PartWork  = "work"

	// MaxBodyParts is the largest body an agent can have
	MaxBodyParts = 50
)

var partCost = map[string]int{
	PartCarry: 50,
	PartMove:  50,
	PartWork:  100,
}

// BodySetup is a repeating body pattern scaled to the colony's spawn energy
type BodySetup struct {
	Name      string
	Pattern   []string
	SizeLimit int // max pattern repetitions, 0 = as many as fit
}

// Transporter body setups: one move per carry before roads, two carries per
// move once roads cover the colony.
var (
	SetupTransporterEarly = BodySetup{
		Name:    "transporter.early",
		Pattern: []string{PartCarry, PartMove},
	}
	SetupTransporterDefault = BodySetup{
		Name:    "transporter.default",
		Pattern: []string{PartCarry, PartCarry, PartMove},
	}
)

// PatternCost returns the spawn cost of one repetition
func (b BodySetup) PatternCost() int {
	cost := 0
	for _, part := range b.Pattern {
		cost += partCost[part]
	}
	return cost
}

// Repetitions returns how many times the pattern fits the energy budget
func (b BodySetup) Repetitions(energyCapacity int) int {
	cost := b.PatternCost()
	if cost == 0 || len(b.Pattern) == 0 {
		return 0
	}
	reps := energyCapacity / cost
	if byParts := MaxBodyParts / len(b.Pattern); reps > byParts {
		reps = byParts
	}
	if b.SizeLimit > 0 && reps > b.SizeLimit {
		reps = b.SizeLimit
	}
	return reps
}

// Body returns the generated part list for an energy budget
func (b BodySetup) Body(energyCapacity int) []string {
	reps := b.Repetitions(energyCapacity)
	body := make([]string, 0, reps*len(b.Pattern))
	for i := 0; i < reps; i++ {
		body = append(body, b.Pattern...)
	}
	return body
}

// BodyPotential counts parts of one kind in the generated body
func (b BodySetup) BodyPotential(part string, energyCapacity int) int {
	count := 0
	for _, p := range b.Body(energyCapacity) {
		if p == part {
			count++
		}
	}
	return count
}

func (b BodySetup) String() string {
	return fmt.Sprintf("%s%v", b.Name, b.Pattern)
}
