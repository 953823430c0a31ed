package vte

// This file holds the parser's three pure command-resolution
// functions: no parser state, just (terminator, intermediates, args)
// in and a Command out. Keeping them pure (and separate from the
// state-machine bookkeeping in parser.go) is what makes the ambiguous
// cases — a single final byte meaning different things depending on
// intermediates or argument count — testable in isolation.

// Control function names. Only the ones spec §8's worked scenarios and
// common terminal operation need are enumerated; anything else
// resolves to CommandUnknown and the raw terminator is still on the
// Seq for a caller that wants to handle it anyway.
const (
	// C0/C1 controls
	CommandBEL  Command = "BEL"
	CommandBS   Command = "BS"
	CommandHT   Command = "HT"
	CommandLF   Command = "LF"
	CommandVT   Command = "VT"
	CommandFF   Command = "FF"
	CommandCR   Command = "CR"
	CommandSO   Command = "SO"
	CommandSI   Command = "SI"
	CommandCAN  Command = "CAN"
	CommandSUB  Command = "SUB"
	CommandENQ  Command = "ENQ"
	CommandIND  Command = "IND"
	CommandNEL  Command = "NEL"
	CommandHTS  Command = "HTS"
	CommandRI   Command = "RI"
	CommandSS2  Command = "SS2"
	CommandSS3  Command = "SS3"

	// Escape dispatches
	CommandRIS     Command = "RIS"
	CommandDECSC   Command = "DECSC"
	CommandDECRC   Command = "DECRC"
	CommandDECKPAM Command = "DECKPAM"
	CommandDECKPNM Command = "DECKPNM"
	CommandSCS     Command = "SCS"

	// CSI dispatches
	CommandCUU        Command = "CUU"
	CommandCUD        Command = "CUD"
	CommandCUF        Command = "CUF"
	CommandCUB        Command = "CUB"
	CommandCNL        Command = "CNL"
	CommandCPL        Command = "CPL"
	CommandCHA        Command = "CHA"
	CommandCUP        Command = "CUP"
	CommandED         Command = "ED"
	CommandEL         Command = "EL"
	CommandIL         Command = "IL"
	CommandDL         Command = "DL"
	CommandDCH        Command = "DCH"
	CommandECH        Command = "ECH"
	CommandICH        Command = "ICH"
	CommandSU         Command = "SU"
	CommandSD         Command = "SD"
	CommandXTERMIHMT  Command = "XTERM_IHMT"
	CommandHPA        Command = "HPA"
	CommandVPA        Command = "VPA"
	CommandSGR        Command = "SGR"
	CommandDECSTBM    Command = "DECSTBM"
	CommandDA         Command = "DA"
	CommandDSR        Command = "DSR"
	CommandDECSET     Command = "DECSET"
	CommandDECRST     Command = "DECRST"
	CommandSM         Command = "SM"
	CommandRM         Command = "RM"
	CommandDECSCUSR   Command = "DECSCUSR"
	CommandTBC        Command = "TBC"
	CommandDECSLRMorSC Command = "DECSLRM_OR_SC"
	CommandRCP        Command = "RCP"
	CommandREP        Command = "REP"
)

// resolveControl names a C0 or C1 control byte. b is either a C0 byte
// (< 0x20) or the 0x80-0x9F range's C1 equivalent; only the few this
// repo dispatches to Engine are named.
func resolveControl(b byte) Command {
	switch b {
	case 0x07:
		return CommandBEL
	case 0x08:
		return CommandBS
	case 0x09:
		return CommandHT
	case 0x0A, 0x0B, 0x0C:
		return CommandLF
	case 0x0D:
		return CommandCR
	case 0x0E:
		return CommandSO
	case 0x0F:
		return CommandSI
	case 0x18:
		return CommandCAN
	case 0x1A:
		return CommandSUB
	case 0x05:
		return CommandENQ
	case 0x84:
		return CommandIND
	case 0x85:
		return CommandNEL
	case 0x88:
		return CommandHTS
	case 0x8D:
		return CommandRI
	default:
		return CommandUnknown
	}
}

// resolveEscape names an ESC-dispatched sequence from its final byte
// and collected intermediates. Intermediates '(' ')' '*' '+' (94-sets)
// and '-' '.' '/' (96-sets) designate G0-G3 respectively and produce
// CommandSCS with Charset set to the rune of the final byte; any other
// final is a plain escape dispatch.
func resolveEscape(terminator byte, intermediates uint32) (Command, rune) {
	hasAny := func(bytes ...byte) bool {
		for _, b := range bytes {
			if intermediates&(1<<uint(b-0x20)) != 0 {
				return true
			}
		}
		return false
	}

	if hasAny('(', ')', '*', '+', '-', '.', '/') {
		return CommandSCS, rune(terminator)
	}

	switch terminator {
	case 'c':
		return CommandRIS, 0
	case '7':
		return CommandDECSC, 0
	case '8':
		return CommandDECRC, 0
	case '=':
		return CommandDECKPAM, 0
	case '>':
		return CommandDECKPNM, 0
	case 'D':
		return CommandIND, 0
	case 'E':
		return CommandNEL, 0
	case 'H':
		return CommandHTS, 0
	case 'M':
		return CommandRI, 0
	case 'N':
		return CommandSS2, 0
	case 'O':
		return CommandSS3, 0
	default:
		return CommandUnknown, 0
	}
}

// resolveCSI names a CSI-dispatched sequence from its final byte,
// collected intermediates, and argument count/first argument, per
// spec §4.7.1's documented ambiguous-final handling: 'T' with exactly
// 5 arguments is xterm's initiate-highlight-mouse-tracking rather than
// scroll-down, and 's' is the compound DECSLRM-or-save-cursor case the
// caller (screen's dispatcher) must disambiguate further.
func resolveCSI(terminator byte, intermediates uint32, nArgs int, arg0 int32) Command {
	private := intermediates&(1<<uint('?'-0x20)) != 0

	switch terminator {
	case 'A':
		return CommandCUU
	case 'B':
		return CommandCUD
	case 'C':
		return CommandCUF
	case 'D':
		return CommandCUB
	case 'E':
		return CommandCNL
	case 'F':
		return CommandCPL
	case 'G', '`':
		return CommandCHA
	case 'H', 'f':
		return CommandCUP
	case 'J':
		return CommandED
	case 'K':
		return CommandEL
	case 'L':
		return CommandIL
	case 'M':
		return CommandDL
	case 'P':
		return CommandDCH
	case 'X':
		return CommandECH
	case '@':
		return CommandICH
	case 'S':
		return CommandSU
	case 'T':
		if nArgs == 5 {
			return CommandXTERMIHMT
		}
		return CommandSD
	case 'd':
		return CommandVPA
	case 'm':
		return CommandSGR
	case 'r':
		return CommandDECSTBM
	case 'c':
		return CommandDA
	case 'n':
		return CommandDSR
	case 'h':
		if private {
			return CommandDECSET
		}
		return CommandSM
	case 'l':
		if private {
			return CommandDECRST
		}
		return CommandRM
	case 'q':
		if hasIntermediate(intermediates, ' ') {
			return CommandDECSCUSR
		}
		return CommandUnknown
	case 'g':
		return CommandTBC
	case 's':
		return CommandDECSLRMorSC
	case 'u':
		return CommandRCP
	case 'b':
		return CommandREP
	default:
		_ = arg0
		return CommandUnknown
	}
}

func hasIntermediate(bits uint32, b byte) bool {
	if b < 0x20 || b > 0x3F {
		return false
	}
	return bits&(1<<uint(b-0x20)) != 0
}
