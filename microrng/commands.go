package microrng

// Single-byte opcodes understood by the device. Each transfer carries one
// opcode out while clocking in the response to the opcode sent on the
// previous transfer.
const (
	cmdTest          byte = 't' // incrementing transfer ID, link validation only
	cmdRandomByte    byte = 'l' // random byte processed by the embedded linear corrector
	cmdRawRandomByte byte = 'r' // random byte with no post-processing
	cmdStatusByte    byte = 's' // device health, 0 = healthy
	cmdSleep         byte = 'D' // stop both noise sources, responds with SleepAck
	cmdWake          byte = 'U' // start both noise sources, responds with 0
	cmdResetUART     byte = 'R' // restore factory UART baud rate after the next power cycle
)

// cmdNone marks a session that has not sent a command yet. No real opcode
// is zero.
const cmdNone byte = 0

// SPI bus parameters. The word width and mode are fixed by the device;
// only the clock rate is adjustable, in MinClockHz steps up to MaxClockHz.
const (
	MinClockHz uint32 = 250000
	MaxClockHz uint32 = 60000000
)

// SleepAck is the response byte a healthy device reports when entering
// sleep mode.
const SleepAck byte = 200
