package cli

import (
	"fmt"
	"strings"

	"github.com/SupernovaXTS/overmind-logistics/internal/adapters/grpc"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/transport"
)

// TreeFormatter renders colonies, agents and their task chains as trees
type TreeFormatter struct {
	useColors bool
	useEmojis bool
}

// NewTreeFormatter creates a new tree formatter
func NewTreeFormatter(useColors, useEmojis bool) *TreeFormatter {
	return &TreeFormatter{
		useColors: useColors,
		useEmojis: useEmojis,
	}
}

type treeNode struct {
	label    string
	children []*treeNode
}

// FormatStatus renders a colony with its agents and the step chain of each task
func (f *TreeFormatter) FormatStatus(status *grpc.StatusReply) string {
	if status == nil {
		return "(no colony)"
	}

	root := &treeNode{label: fmt.Sprintf("%s  tick=%d  downtime=%.3f", status.Colony, status.Tick, status.Downtime)}
	for _, a := range status.Agents {
		node := &treeNode{label: fmt.Sprintf("%s %s @ %s [%s]", f.agentIcon(a), a.Name, a.Position, a.Carry)}
		for _, step := range splitTask(a.Task) {
			node.children = append(node.children, &treeNode{label: step})
		}
		root.children = append(root.children, node)
	}

	var builder strings.Builder
	f.formatNode(&builder, root, "", true, true)
	return builder.String()
}

// FormatTick renders the decision taken for every agent in one pass
func (f *TreeFormatter) FormatTick(reply grpc.TickReply) string {
	root := &treeNode{label: fmt.Sprintf("%s  tick=%d  requests=%d", reply.Colony, reply.Tick, reply.Requests)}
	for _, a := range reply.Assignments {
		label := fmt.Sprintf("%s [%s%s%s]", a.Agent, f.outcomeColor(a.Outcome), a.Outcome, f.colorReset())
		if a.Request != "" {
			label += fmt.Sprintf(" %s x%d", a.Request, a.Quantity)
		}
		if a.Via != "" {
			label += " via " + a.Via
		}
		if a.Error != "" {
			label += " error: " + a.Error
		}
		node := &treeNode{label: label}
		for _, step := range splitTask(a.Task) {
			node.children = append(node.children, &treeNode{label: step})
		}
		root.children = append(root.children, node)
	}

	var builder strings.Builder
	f.formatNode(&builder, root, "", true, true)
	return builder.String()
}

// FormatTickSummary creates a compact one-line summary of a pass
func (f *TreeFormatter) FormatTickSummary(reply grpc.TickReply) string {
	counts := make(map[string]int)
	for _, a := range reply.Assignments {
		counts[a.Outcome]++
	}
	return fmt.Sprintf(
		"%s tick=%d: %d agents (%d matched, %d fallback, %d parked, %d evading, %d errors), %d requests, downtime=%.3f",
		reply.Colony, reply.Tick, len(reply.Assignments),
		counts[string(transport.OutcomeMatched)],
		counts[string(transport.OutcomeFallback)],
		counts[string(transport.OutcomeParked)],
		counts[string(transport.OutcomeEvading)],
		counts[string(transport.OutcomeError)],
		reply.Requests, reply.Downtime,
	)
}

// formatNode recursively formats a node and its children
func (f *TreeFormatter) formatNode(builder *strings.Builder, node *treeNode, prefix string, isLast bool, isRoot bool) {
	var linePrefix string
	if isRoot {
		linePrefix = ""
	} else if isLast {
		linePrefix = prefix + "└── "
	} else {
		linePrefix = prefix + "├── "
	}
	builder.WriteString(linePrefix + node.label + "\n")

	var childPrefix string
	if isRoot {
		childPrefix = ""
	} else if isLast {
		childPrefix = prefix + "    "
	} else {
		childPrefix = prefix + "│   "
	}
	for i, child := range node.children {
		f.formatNode(builder, child, childPrefix, i == len(node.children)-1, false)
	}
}

func (f *TreeFormatter) agentIcon(a grpc.AgentInfo) string {
	switch {
	case a.Evading && f.useEmojis:
		return "🏃"
	case a.Evading:
		return "[!]"
	case a.Task == "" && f.useEmojis:
		return "💤"
	case a.Task == "":
		return "[ ]"
	case f.useEmojis:
		return "🚚"
	default:
		return "[>]"
	}
}

// outcomeColor returns ANSI color code for an outcome
func (f *TreeFormatter) outcomeColor(outcome string) string {
	if !f.useColors {
		return ""
	}

	switch transport.Outcome(outcome) {
	case transport.OutcomeMatched:
		return "\033[32m" // Green
	case transport.OutcomeFallback, transport.OutcomeParked:
		return "\033[33m" // Yellow
	case transport.OutcomeEvading, transport.OutcomeError:
		return "\033[31m" // Red
	default:
		return ""
	}
}

// colorReset returns ANSI reset code
func (f *TreeFormatter) colorReset() string {
	if !f.useColors {
		return ""
	}
	return "\033[0m"
}

func splitTask(task string) []string {
	if task == "" {
		return nil
	}
	return strings.Split(task, " -> ")
}
