package vte

import "fmt"

// State is a node of the DEC/ANSI control-sequence parser, following
// Paul Williams' state diagram, extended per spec §4.7 with a global
// 0x9C (ST) edge out of nearly every state and ':' forcing csi_ignore
// instead of opening a subparameter group.
type State uint8

const (
	StateGround State = iota
	StateEscape
	StateEscapeIntermediate
	StateCSIEntry
	StateCSIParam
	StateCSIIntermediate
	StateCSIIgnore
	StateOSCString
	StateDCSEntry
	StateDCSParam
	StateDCSIntermediate
	StateDCSPassthrough
	StateDCSIgnore
	StateSOSPMApcString
)

func (s State) String() string {
	names := []string{
		"ground",
		"escape",
		"escape_intermediate",
		"csi_entry",
		"csi_param",
		"csi_intermediate",
		"csi_ignore",
		"osc_string",
		"dcs_entry",
		"dcs_param",
		"dcs_intermediate",
		"dcs_passthrough",
		"dcs_ignore",
		"st_ignore",
	}
	if int(s) < len(names) {
		return names[s]
	}
	return fmt.Sprintf("unknown(%d)", s)
}

// globalEdge reports the state a byte forces regardless of the
// parser's current state, independent of any state's own table. CAN
// and SUB abort whatever was being collected back to ground (the
// caller still executes the byte itself); ESC always restarts a new
// escape sequence; the C1 codes for CSI/DCS/OSC/SOS-PM-APC jump
// straight to their entry states; ST (0x9C) ends whatever escape, CSI
// or string sequence is open and returns to ground. Ground itself is
// excluded from the ST edge: there is nothing open to end, so ST falls
// through to ground's own handling and is executed as a C1 control.
func globalEdge(s State, b byte) (State, bool) {
	switch b {
	case 0x18, 0x1A: // CAN, SUB
		return StateGround, true
	case 0x1B: // ESC
		return StateEscape, true
	case 0x90: // DCS
		return StateDCSEntry, true
	case 0x9B: // CSI
		return StateCSIEntry, true
	case 0x9D: // OSC
		return StateOSCString, true
	case 0x98, 0x9E, 0x9F: // SOS, PM, APC
		return StateSOSPMApcString, true
	case 0x9C: // ST
		if s != StateGround {
			return StateGround, true
		}
		return StateGround, false
	default:
		return StateGround, false
	}
}

// stringCollecting reports whether s is a string-collecting state:
// anything downstream of a DCS/OSC/SOS-PM-APC introducer.
func stringCollecting(s State) bool {
	switch s {
	case StateOSCString, StateSOSPMApcString,
		StateDCSEntry, StateDCSParam, StateDCSIntermediate,
		StateDCSPassthrough, StateDCSIgnore:
		return true
	default:
		return false
	}
}
