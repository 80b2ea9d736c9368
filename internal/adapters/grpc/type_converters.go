package grpc

import (
	"time"

	"github.com/SupernovaXTS/overmind-logistics/internal/application/common"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/transport"
	transportCmd "github.com/SupernovaXTS/overmind-logistics/internal/application/transport/commands"
	transportQuery "github.com/SupernovaXTS/overmind-logistics/internal/application/transport/queries"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/fleet"
)

// ColonyRequest addresses one colony
type ColonyRequest struct {
	Colony string `json:"colony"`
	DryRun bool   `json:"dry_run,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// Empty is the request of methods without arguments
type Empty struct{}

// AgentInfo is one transporter as shown by status
type AgentInfo struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Carry    string `json:"carry"`
	Task     string `json:"task,omitempty"`
	Evading  bool   `json:"evading,omitempty"`
}

// RequestInfo is one open logistics request
type RequestInfo struct {
	ID        string `json:"id"`
	Amount    int    `json:"amount"`
	Committed int    `json:"committed"`
	Priority  int    `json:"priority"`
}

// SpawnInfo is a pending spawn request
type SpawnInfo struct {
	ID       string   `json:"id"`
	Role     string   `json:"role"`
	Setup    string   `json:"setup"`
	Body     []string `json:"body"`
	Priority int      `json:"priority"`
	Count    int      `json:"count"`
	Current  int      `json:"current"`
}

// FleetInfo counts transporters by state
type FleetInfo struct {
	Total    int `json:"total"`
	Busy     int `json:"busy"`
	Idle     int `json:"idle"`
	Spawning int `json:"spawning"`
	Evading  int `json:"evading"`
	Asleep   int `json:"asleep"`
}

// StatusReply is the fleet snapshot of a colony
type StatusReply struct {
	Colony   string        `json:"colony"`
	Tick     int           `json:"tick"`
	Downtime float64       `json:"downtime"`
	Fleet    FleetInfo     `json:"fleet"`
	Agents   []AgentInfo   `json:"agents"`
	Requests []RequestInfo `json:"requests"`
	Pending  []SpawnInfo   `json:"pending"`
}

// AssignmentInfo is the decision taken for one agent
type AssignmentInfo struct {
	Agent    string `json:"agent"`
	Outcome  string `json:"outcome"`
	Request  string `json:"request,omitempty"`
	Via      string `json:"via,omitempty"`
	Quantity int    `json:"quantity,omitempty"`
	Task     string `json:"task,omitempty"`
	Error    string `json:"error,omitempty"`
}

// TickReply is the result of one coordinator pass
type TickReply struct {
	Colony      string           `json:"colony"`
	Tick        int              `json:"tick"`
	Requests    int              `json:"requests"`
	Downtime    float64          `json:"downtime"`
	DurationMS  float64          `json:"duration_ms"`
	Assignments []AssignmentInfo `json:"assignments"`
	Discarded   []string         `json:"discarded,omitempty"`
}

// StepReply is the result of one full tick across colonies
type StepReply struct {
	Ticks   int         `json:"ticks"`
	Results []TickReply `json:"results"`
}

// FleetReply is a fleet sizing decision
type FleetReply struct {
	Spawn       SpawnInfo `json:"spawn"`
	Colony      string    `json:"colony"`
	NeededPower float64   `json:"needed_power"`
	Submitted   bool      `json:"submitted"`
}

// ReportInfo is one persisted tick summary
type ReportInfo struct {
	Colony     string    `json:"colony"`
	Tick       int       `json:"tick"`
	Agents     int       `json:"agents"`
	Matched    int       `json:"matched"`
	Fallbacks  int       `json:"fallbacks"`
	Parked     int       `json:"parked"`
	Evading    int       `json:"evading"`
	Errors     int       `json:"errors"`
	Requests   int       `json:"requests"`
	Downtime   float64   `json:"downtime"`
	RecordedAt time.Time `json:"recorded_at"`
}

// HistoryReply lists recent tick summaries, newest first
type HistoryReply struct {
	Reports []ReportInfo `json:"reports"`
}

// RunnerReply describes the tick loop
type RunnerReply struct {
	Status    string   `json:"status"`
	Ticks     int      `json:"ticks"`
	Uptime    string   `json:"uptime"`
	LastError string   `json:"last_error,omitempty"`
	Colonies  []string `json:"colonies"`
}

func toSpawnInfo(r fleet.SpawnRequest) SpawnInfo {
	return SpawnInfo{
		ID:       r.ID,
		Role:     r.Role,
		Setup:    r.Setup,
		Body:     r.Body,
		Priority: r.Priority,
		Count:    r.Count,
		Current:  r.Current,
	}
}

func toStatusReply(resp *transportQuery.FleetStatusResponse) *StatusReply {
	reply := &StatusReply{
		Colony:   resp.Colony,
		Tick:     resp.Tick,
		Downtime: resp.Downtime,
		Fleet: FleetInfo{
			Total:    resp.Report.Total,
			Busy:     resp.Report.Busy,
			Idle:     resp.Report.Idle,
			Spawning: resp.Report.Spawning,
			Evading:  resp.Report.Evading,
			Asleep:   resp.Report.Asleep,
		},
	}
	for _, a := range resp.Agents {
		reply.Agents = append(reply.Agents, AgentInfo(a))
	}
	for _, r := range resp.Requests {
		reply.Requests = append(reply.Requests, RequestInfo(r))
	}
	for _, p := range resp.Pending {
		reply.Pending = append(reply.Pending, toSpawnInfo(p))
	}
	return reply
}

func toTickReply(r *transport.TickResult) TickReply {
	reply := TickReply{
		Colony:     r.Colony,
		Tick:       r.Tick,
		Requests:   r.Requests,
		Downtime:   r.Downtime,
		DurationMS: float64(r.Duration.Microseconds()) / 1000,
		Discarded:  r.Discarded,
	}
	for _, a := range r.Assignments {
		reply.Assignments = append(reply.Assignments, AssignmentInfo{
			Agent:    a.Agent,
			Outcome:  string(a.Outcome),
			Request:  a.Request,
			Via:      a.Via,
			Quantity: a.Quantity,
			Task:     a.Task,
			Error:    a.Error,
		})
	}
	return reply
}

func toFleetReply(resp *transportCmd.PlanFleetResponse) *FleetReply {
	return &FleetReply{
		Spawn:       toSpawnInfo(resp.Request),
		Colony:      resp.Request.Colony,
		NeededPower: resp.Request.NeededPower,
		Submitted:   resp.Submitted,
	}
}

func toReportInfo(r *common.TickReport) ReportInfo {
	return ReportInfo{
		Colony:     r.Colony,
		Tick:       r.Tick,
		Agents:     r.Agents,
		Matched:    r.Matched,
		Fallbacks:  r.Fallbacks,
		Parked:     r.Parked,
		Evading:    r.Evading,
		Errors:     r.Errors,
		Requests:   r.Requests,
		Downtime:   r.Downtime,
		RecordedAt: r.RecordedAt,
	}
}

func toRunnerReply(s RunnerStatus) *RunnerReply {
	reply := &RunnerReply{
		Status:   string(s.Status),
		Ticks:    s.Ticks,
		Uptime:   s.Uptime.Round(time.Second).String(),
		Colonies: s.Colonies,
	}
	if s.LastError != nil {
		reply.LastError = s.LastError.Error()
	}
	return reply
}
