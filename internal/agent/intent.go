// Package agent is the conversation engine: the intent-routing cascade, the
// scheduling state machine, per-conversation sessions and the worker that
// ties them to transports.
package agent

// Intent is the routing decision for one inbound message.
type Intent int

const (
	IntentFallback Intent = iota
	IntentExit
	IntentGreeting
	IntentScheduleStart
	IntentInfoQuery
	IntentModelEnd
)

var intentNames = map[Intent]string{
	IntentFallback:      "fallback",
	IntentExit:          "exit",
	IntentGreeting:      "greeting",
	IntentScheduleStart: "schedule_start",
	IntentInfoQuery:     "info_query",
	IntentModelEnd:      "model_end",
}

// String returns the stable label used in logs, metrics and the messages
// table.
func (i Intent) String() string {
	if n, ok := intentNames[i]; ok {
		return n
	}
	return "unknown"
}
