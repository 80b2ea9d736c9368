package colony

import "github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"

// MiningSite is a harvested source whose output haulers carry home
type MiningSite struct {
	Name          string
	Pos           shared.Position
	EnergyPerTick float64
	// Distance is the path length from the site to the colony's dropoff
	Distance     float64
	Suspended    bool
	Miners       int
	HasContainer bool
	HasLink      bool
	DropMining   bool
}

// NeedsHauling reports whether transporters must carry this site's output.
// Sites without miners are ignored so a rebooting colony does not over-spawn.
func (m MiningSite) NeedsHauling() bool {
	if m.Suspended || m.Miners == 0 {
		return false
	}
	return (m.HasContainer && !m.HasLink) || m.DropMining
}

// UpgradeSite is the long-term consumer fed through a battery
type UpgradeSite struct {
	BatteryID   string
	BatteryPos  *shared.Position
	PowerNeeded float64
}

// HasBattery reports whether a battery structure is placed
func (u *UpgradeSite) HasBattery() bool {
	return u != nil && u.BatteryPos != nil
}
