package globals

// command mnemonics understood by the ISC board
const (
	CMD_IDENTITY     = "$IDN"
	CMD_VERSION      = "$VER"
	CMD_STATUS       = "$ST"
	CMD_CLEAR_ERRORS = "$ERRC"
	CMD_GET_FREQ     = "$FCG"
	CMD_SET_FREQ     = "$FCS"
	CMD_GET_PA_POWER = "$PPG"
	CMD_GET_POWER    = "$PWRG"
	CMD_SET_POWER    = "$PWRS"
	CMD_DLL          = "$DLES"
	CMD_RF_ENABLE    = "$ECS"
	CMD_SWEEP_DBM    = "$SWPD"
)

// every command addresses channel 0 on single channel boards
const CHANNEL = "0"

const FIELD_SEPARATOR = ","

// reply framing
const (
	LINE_TERMINATOR  = "\r\n"
	BLOCK_TERMINATOR = "OK\r\n"
	ERROR_MARKER     = "ERR"
)
