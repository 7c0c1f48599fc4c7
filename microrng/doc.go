// Package microrng drives the TectroLabs MicroRNG hardware random number
// generator over a Linux spidev interface.
//
// The bus is byte-pumped: every full-duplex transfer carries one command
// byte out while clocking in the response to the command sent on the
// previous transfer. Session tracks the last-sent command and transparently
// issues the extra priming transfer whenever the command changes.
package microrng
