package ac97

// AccessSize selects the width of a PCI configuration space access.
type AccessSize int

const (
	ACCESS_BYTE  AccessSize = 1
	ACCESS_WORD  AccessSize = 2
	ACCESS_DWORD AccessSize = 4
)

// ConfigSpace provides access to one PCI function's configuration space.
// Reads narrower than a dword return the value in the low bits.
type ConfigSpace interface {
	Read(offset uint16, size AccessSize) uint32
	Write(offset uint16, value uint32, size AccessSize)
}

// PortIO provides port-style register access at absolute I/O addresses.
// Port I/O has no error channel; a read from a non-responding device
// returns all-ones, as on a real bus.
type PortIO interface {
	Read8(port uint16) uint8
	Read16(port uint16) uint16
	Read32(port uint16) uint32
	Write8(port uint16, value uint8)
	Write16(port uint16, value uint16)
	Write32(port uint16, value uint32)
}

// PhysAddr is an address as seen by the bus master engine. It is distinct
// from a Go virtual address: descriptors and the BDL base register take
// PhysAddr values only, and the sole way to produce one is the device's
// TranslateFunc.
type PhysAddr uint32

// TranslateFunc converts a virtual address into the physical address the
// device must use to reach the same memory. The translation is resolved
// once per buffer at bring-up; it must stay valid for the device lifetime.
// A nil TranslateFunc in Config means identity mapping.
type TranslateFunc func(virt uintptr) (PhysAddr, error)

// port8, port16 and port32 bind a PortIO to one fixed register address,
// so device code reads and writes registers without repeating address math.

type port8 struct {
	io   PortIO
	addr uint16
}

func (p port8) read() uint8   { return p.io.Read8(p.addr) }
func (p port8) write(v uint8) { p.io.Write8(p.addr, v) }

type port16 struct {
	io   PortIO
	addr uint16
}

func (p port16) read() uint16   { return p.io.Read16(p.addr) }
func (p port16) write(v uint16) { p.io.Write16(p.addr, v) }

type port32 struct {
	io   PortIO
	addr uint16
}

func (p port32) read() uint32   { return p.io.Read32(p.addr) }
func (p port32) write(v uint32) { p.io.Write32(p.addr, v) }
