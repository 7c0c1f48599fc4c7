//go:build linux

package microrng

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux spidev transport. The device speaks SPI mode 1 (CPHA set, CPOL
// clear) with 8-bit words. The clock rate travels with each message, so
// calibration can re-clock every probe without reconfiguring the device.

const (
	spiModeCPHA = 0x01
	spiIOCMagic = 0x6b
	wordBits    = 8
)

// Linux _IOC direction values.
const (
	iocWrite uintptr = 1
	iocRead  uintptr = 2
)

// spiIOC encodes a spidev ioctl request number, as _IOC() does in
// <linux/spi/spidev.h>.
func spiIOC(dir, nr, size uintptr) uintptr {
	return dir<<30 | size<<16 | spiIOCMagic<<8 | nr
}

var (
	spiIOCWrMode        = spiIOC(iocWrite, 1, 1)
	spiIOCRdMode        = spiIOC(iocRead, 1, 1)
	spiIOCWrBitsPerWord = spiIOC(iocWrite, 3, 1)
	spiIOCRdBitsPerWord = spiIOC(iocRead, 3, 1)
	spiIOCWrMaxSpeedHz  = spiIOC(iocWrite, 4, 4)
	spiIOCRdMaxSpeedHz  = spiIOC(iocRead, 4, 4)
)

// spiTransfer mirrors struct spi_ioc_transfer.
type spiTransfer struct {
	txBuf          uint64
	rxBuf          uint64
	length         uint32
	speedHz        uint32
	delayUsecs     uint16
	bitsPerWord    uint8
	csChange       uint8
	txNbits        uint8
	rxNbits        uint8
	wordDelayUsecs uint8
	pad            uint8
}

// spiIOCMessage encodes SPI_IOC_MESSAGE(n).
func spiIOCMessage(n uintptr) uintptr {
	return spiIOC(iocWrite, 0, n*unsafe.Sizeof(spiTransfer{}))
}

type spidev struct {
	fd   int
	open bool
	// Single-byte exchange buffers. Heap residency matters: their addresses
	// are handed to the kernel inside spiTransfer.
	tx [1]byte
	rx [1]byte
}

// openSpidev opens the spidev node and applies the fixed bus parameters:
// mode, word width and an initial clock of MinClockHz. The configuration
// sequence mirrors the read-back the kernel expects for each attribute.
func openSpidev(path string) (Transport, error) {
	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %v: %w", path, err, ErrDeviceUnavailable)
	}
	d := &spidev{fd: fd, open: true}

	mode := uint8(spiModeCPHA)
	bits := uint8(wordBits)
	speed := MinClockHz
	steps := []struct {
		req  uintptr
		arg  unsafe.Pointer
		what string
	}{
		{spiIOCWrMode, unsafe.Pointer(&mode), "set write mode"},
		{spiIOCRdMode, unsafe.Pointer(&mode), "set read mode"},
		{spiIOCWrBitsPerWord, unsafe.Pointer(&bits), "set transmission word bits"},
		{spiIOCRdBitsPerWord, unsafe.Pointer(&bits), "set word bits"},
		{spiIOCWrMaxSpeedHz, unsafe.Pointer(&speed), "set transmission clock frequency"},
		{spiIOCRdMaxSpeedHz, unsafe.Pointer(&speed), "set clock frequency"},
	}
	for _, st := range steps {
		if err := d.ioctl(st.req, st.arg); err != nil {
			_ = d.Close()
			return nil, fmt.Errorf("configure %s: could not %s: %v: %w", path, st.what, err, ErrConfigurationFailed)
		}
	}
	return d, nil
}

func (d *spidev) ioctl(req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// Transfer clocks out one byte and reads one byte back in the same
// full-duplex exchange at the given clock rate.
func (d *spidev) Transfer(out byte, clockHz uint32) (byte, error) {
	if !d.open {
		return 0, fmt.Errorf("transport closed: %w", ErrTransferFailed)
	}
	d.tx[0] = out
	d.rx[0] = 0
	tr := spiTransfer{
		txBuf:       uint64(uintptr(unsafe.Pointer(&d.tx[0]))),
		rxBuf:       uint64(uintptr(unsafe.Pointer(&d.rx[0]))),
		length:      1,
		speedHz:     clockHz,
		bitsPerWord: wordBits,
	}
	n, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), spiIOCMessage(1), uintptr(unsafe.Pointer(&tr)))
	if errno != 0 {
		return 0, fmt.Errorf("could not exchange spi bytes: %v: %w", errno, ErrTransferFailed)
	}
	if int(n) < 1 {
		return 0, fmt.Errorf("could not exchange spi bytes: %d transferred: %w", int(n), ErrTransferFailed)
	}
	return d.rx[0], nil
}

// Close releases the spidev file descriptor. Safe to call more than once.
func (d *spidev) Close() error {
	if !d.open {
		return nil
	}
	d.open = false
	return unix.Close(d.fd)
}
