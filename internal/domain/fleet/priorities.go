package fleet

// Spawn priorities for the colony's managers. Lower values spawn first.
const (
	PriorityBootstrap = 0

	PriorityQueen   = 100
	PriorityManager = 101

	PriorityManualSpawn   = 102
	PriorityManualUpgrade = 103

	PriorityMeleeDefense  = 200
	PriorityRangedDefense = 201

	PriorityOutpostDefense = 250
	PriorityOutpostGuard   = 251
	PriorityOutpostReserve = 252

	// WarSpawnCutoff: nothing past this spawns during an emergency
	WarSpawnCutoff = 299

	PriorityUpgradeUrgent   = 450
	PriorityTransportUrgent = 451

	// PriorityFirstTransport gets the first transporter out before the miners
	PriorityFirstTransport = 500
	PriorityMine           = 501
	PriorityWork           = 502
	PriorityTransport      = 504
	PriorityMineral        = 505
	PriorityUpgrade        = 506

	PriorityRemoteMine      = 510
	PriorityRemoteReserve   = 511
	PriorityRemoteTransport = 513
	// RemoteRoomIncrement is added per remote room so colonies restart one room at a time
	RemoteRoomIncrement = 2

	IncubationThreshold = 550
	ThrottleThreshold   = 599

	// PriorityUrgentHaul collects resources that decay on the ground
	PriorityUrgentHaul = 700

	PriorityClaim   = 850
	PriorityPioneer = 851

	PriorityHaul = 1100

	PriorityDefault = 99999
)

// RemoteTransportPriority returns the transport priority for the nth remote room
func RemoteTransportPriority(roomIndex int) int {
	if roomIndex < 0 {
		roomIndex = 0
	}
	return PriorityRemoteTransport + RemoteRoomIncrement*roomIndex
}
