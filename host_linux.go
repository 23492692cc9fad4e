//go:build linux

package ac97

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// Linux userspace backends for the driver's capabilities. They let the
// driver run against an emulated codec (QEMU's AC'97 function) from a
// privileged process, which is how this package is exercised outside a
// freestanding kernel.

// ac97ClassCode is the PCI class/subclass/prog-if for an AC'97-style
// multimedia audio function.
const ac97ClassCode = 0x040100

// FindDevices scans /sys/bus/pci/devices for multimedia audio functions
// and returns their PCI addresses (e.g. "0000:00:1f.5").
func FindDevices() ([]string, error) {
	entries, err := os.ReadDir("/sys/bus/pci/devices")
	if err != nil {
		return nil, fmt.Errorf("could not scan PCI devices: %w", err)
	}

	var found []string
	for _, e := range entries {
		classPath := filepath.Join("/sys/bus/pci/devices", e.Name(), "class")
		data, err := os.ReadFile(classPath)
		if err != nil {
			continue
		}

		var class uint32
		if _, err := fmt.Sscanf(strings.TrimSpace(string(data)), "0x%x", &class); err != nil {
			continue
		}

		if class == ac97ClassCode {
			found = append(found, e.Name())
		}
	}

	return found, nil
}

// SysfsConfigSpace implements ConfigSpace on top of the sysfs config file
// of one PCI function. Writes require root.
type SysfsConfigSpace struct {
	file *os.File
}

// OpenSysfsConfigSpace opens the configuration space of the PCI function
// at the given address (e.g. "0000:00:1f.5").
func OpenSysfsConfigSpace(addr string) (*SysfsConfigSpace, error) {
	path := filepath.Join("/sys/bus/pci/devices", addr, "config")

	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open PCI config space %s: %w", path, err)
	}

	return &SysfsConfigSpace{file: file}, nil
}

// Close releases the config space file.
func (c *SysfsConfigSpace) Close() error {
	if c == nil || c.file == nil {
		return nil
	}

	err := c.file.Close()
	c.file = nil

	return err
}

// Read reads a register of the given size from configuration space.
// Port-style semantics apply: a failed read returns all-ones, the value a
// vacant bus position produces.
func (c *SysfsConfigSpace) Read(offset uint16, size AccessSize) uint32 {
	var buf [4]byte

	n, err := unix.Pread(int(c.file.Fd()), buf[:size], int64(offset))
	if err != nil || n != int(size) {
		return 0xFFFFFFFF >> (32 - 8*uint(size))
	}

	switch size {
	case ACCESS_BYTE:
		return uint32(buf[0])
	case ACCESS_WORD:
		return uint32(binary.LittleEndian.Uint16(buf[:2]))
	default:
		return binary.LittleEndian.Uint32(buf[:4])
	}
}

// Write writes a register of the given size to configuration space.
func (c *SysfsConfigSpace) Write(offset uint16, value uint32, size AccessSize) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], value)

	_, _ = unix.Pwrite(int(c.file.Fd()), buf[:size], int64(offset))
}

// DevPort implements PortIO on top of /dev/port. The kernel performs
// byte-granular port access through this file, so a 16- or 32-bit register
// read is issued as consecutive byte reads at adjacent port addresses;
// QEMU's AC'97 model tolerates this, real chipsets may not.
type DevPort struct {
	file *os.File
}

// OpenDevPort opens /dev/port. Requires root (CAP_SYS_RAWIO).
func OpenDevPort() (*DevPort, error) {
	file, err := os.OpenFile("/dev/port", os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open /dev/port: %w", err)
	}

	return &DevPort{file: file}, nil
}

// Close releases the port file.
func (p *DevPort) Close() error {
	if p == nil || p.file == nil {
		return nil
	}

	err := p.file.Close()
	p.file = nil

	return err
}

func (p *DevPort) readN(port uint16, buf []byte) {
	n, err := unix.Pread(int(p.file.Fd()), buf, int64(port))
	if err != nil || n != len(buf) {
		for i := range buf {
			buf[i] = 0xFF
		}
	}
}

// Read8 reads one byte from the given port.
func (p *DevPort) Read8(port uint16) uint8 {
	var buf [1]byte
	p.readN(port, buf[:])

	return buf[0]
}

// Read16 reads a 16-bit value from the given port.
func (p *DevPort) Read16(port uint16) uint16 {
	var buf [2]byte
	p.readN(port, buf[:])

	return binary.LittleEndian.Uint16(buf[:])
}

// Read32 reads a 32-bit value from the given port.
func (p *DevPort) Read32(port uint16) uint32 {
	var buf [4]byte
	p.readN(port, buf[:])

	return binary.LittleEndian.Uint32(buf[:])
}

// Write8 writes one byte to the given port.
func (p *DevPort) Write8(port uint16, value uint8) {
	_, _ = unix.Pwrite(int(p.file.Fd()), []byte{value}, int64(port))
}

// Write16 writes a 16-bit value to the given port.
func (p *DevPort) Write16(port uint16, value uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], value)
	_, _ = unix.Pwrite(int(p.file.Fd()), buf[:], int64(port))
}

// Write32 writes a 32-bit value to the given port.
func (p *DevPort) Write32(port uint16, value uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], value)
	_, _ = unix.Pwrite(int(p.file.Fd()), buf[:], int64(port))
}

// PagemapTranslate returns a TranslateFunc backed by /proc/self/pagemap.
// The returned translator resolves the physical frame backing a virtual
// address of this process. Pages must be resident and locked (for example
// via unix.Mlockall) before translation, or the mapping may move under the
// device. Physical addresses above 4 GiB are rejected: the AC'97 bus
// master carries 32-bit descriptor addresses.
func PagemapTranslate() (TranslateFunc, error) {
	file, err := os.Open("/proc/self/pagemap")
	if err != nil {
		return nil, fmt.Errorf("failed to open pagemap: %w", err)
	}

	pageSize := uintptr(os.Getpagesize())

	return func(virt uintptr) (PhysAddr, error) {
		var entry [8]byte

		off := int64(virt / pageSize * 8)
		if _, err := unix.Pread(int(file.Fd()), entry[:], off); err != nil {
			return 0, fmt.Errorf("pagemap read for %#x: %w", virt, err)
		}

		raw := binary.LittleEndian.Uint64(entry[:])
		if raw&(1<<63) == 0 {
			return 0, fmt.Errorf("page at %#x not present", virt)
		}

		phys := (raw&(1<<55-1))*uint64(pageSize) + uint64(virt%pageSize)
		if phys > 0xFFFFFFFF {
			return 0, fmt.Errorf("physical address %#x exceeds the device's 32-bit reach", phys)
		}

		return PhysAddr(phys), nil
	}, nil
}
