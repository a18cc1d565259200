// Package comm provides the servo bus protocol.
package comm

// The bus is a half-duplex serial line shared by servo actuators and a
// controller board. Every exchange is a framed instruction packet followed
// (unless addressed to the broadcast id) by a single status packet:
//
//   instruction: FF FF <id> <len> <instr> <param>* <checksum>
//   status:      FF FF <id> <len> <error> <param>* <checksum>
//
// where len = number of params + 2 and the checksum is the bitwise
// complement of the low byte of the sum of all bytes after the header.
//
// Producer: host (instructions), devices (status)
// Consumer: devices (instructions), host (status)
