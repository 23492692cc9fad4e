package ac97_test

import (
	"encoding/binary"
	"unsafe"

	"github.com/gen2brain/ac97"
)

// The tests in this package run against a simulated codec; no hardware or
// kernel module is required. simCodec implements the ConfigSpace and PortIO
// capabilities and honors the AC'97 register protocol the driver depends
// on: the transfer reset bit self-clears after a few reads, starting a
// transfer DMA-reads the programmed descriptor list and latches end of
// transfer after a few status polls.

const (
	simNamBase  uint16 = 0x3000
	simNabmBase uint16 = 0x4000

	ctlTransferBit = 0x01
	ctlResetBit    = 0x02
	stsEndBit      = 0x02
)

// simRegion is one translated DMA window: the fake physical address handed
// to the driver and the virtual address it maps back to.
type simRegion struct {
	phys ac97.PhysAddr
	virt uintptr
}

type simCodec struct {
	command   uint16
	mixer     map[ac97.NamReg]uint16
	globalCtl uint32
	globalSts uint32

	transferCtl uint8
	transferSts uint16
	bdlAddr     uint32
	lastEnt     uint8

	// Reads of the control register remaining until a pending reset
	// self-clears, and status reads until end of transfer latches.
	resetReads int
	eotReads   int

	resetLatency int
	eotLatency   int
	stuckReset   bool
	transferring bool

	regions  []simRegion
	nextPhys ac97.PhysAddr

	mixerResets int
	resetPulses int
	starts      int
	played      [][]byte
	events      []string
}

func newSimCodec() *simCodec {
	return &simCodec{
		mixer:        make(map[ac97.NamReg]uint16),
		resetLatency: 2,
		eotLatency:   3,
		nextPhys:     0x100000,
	}
}

// translator returns the TranslateFunc handed to the driver. Each
// translated buffer gets its own fake physical window, far enough apart
// that a descriptor ring can never straddle two windows.
func (s *simCodec) translator() ac97.TranslateFunc {
	return func(virt uintptr) (ac97.PhysAddr, error) {
		phys := s.nextPhys
		s.nextPhys += 0x1000000
		s.regions = append(s.regions, simRegion{phys: phys, virt: virt})

		return phys, nil
	}
}

// virt maps a device-visible address back into this process.
func (s *simCodec) virt(phys uint32) uintptr {
	for i := len(s.regions) - 1; i >= 0; i-- {
		r := s.regions[i]
		if uint32(r.phys) <= phys {
			return r.virt + uintptr(phys-uint32(r.phys))
		}
	}

	panic("sim: DMA to untranslated address")
}

// dma copies n bytes of device-visible memory out of the host.
func (s *simCodec) dma(phys uint32, n int) []byte {
	out := make([]byte, n)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(s.virt(phys))), n))

	return out
}

// readDescriptors fetches the descriptor ring the driver programmed, the
// way the bus master engine would.
func (s *simCodec) readDescriptors() []ac97.BufferDescriptor {
	raw := s.dma(s.bdlAddr, (int(s.lastEnt)+1)*8)

	bdl := make([]ac97.BufferDescriptor, int(s.lastEnt)+1)
	for i := range bdl {
		ent := raw[i*8:]
		bdl[i] = ac97.BufferDescriptor{
			Addr:    binary.LittleEndian.Uint32(ent),
			Samples: binary.LittleEndian.Uint16(ent[4:]),
			Ctl:     ac97.BufferControl(binary.LittleEndian.Uint16(ent[6:])),
		}
	}

	return bdl
}

// capture performs the DMA pass of one transfer: walk the ring, copy out
// every descriptor's samples, stop at the last-flagged entry.
func (s *simCodec) capture() {
	var window []byte
	for _, desc := range s.readDescriptors() {
		window = append(window, s.dma(desc.Addr, int(desc.Samples)*2)...)
		if desc.Ctl.Last() {
			break
		}
	}

	s.played = append(s.played, window)
}

// ConfigSpace.

func (s *simCodec) Read(offset uint16, size ac97.AccessSize) uint32 {
	switch offset {
	case ac97.PCI_COMMAND:
		return uint32(s.command)
	case ac97.PCI_BAR0:
		return uint32(simNamBase) | 1 // I/O space BARs carry the low status bit.
	case ac97.PCI_BAR1:
		return uint32(simNabmBase) | 1
	default:
		return 0
	}
}

func (s *simCodec) Write(offset uint16, value uint32, size ac97.AccessSize) {
	if offset == ac97.PCI_COMMAND {
		s.command = uint16(value)
		s.events = append(s.events, "pci: command")
	}
}

// PortIO.

func (s *simCodec) Read8(port uint16) uint8 {
	switch port {
	case simNabmBase + uint16(ac97.NABM_PCM_OUT_TRANSFER_CTL):
		if s.transferCtl&ctlResetBit != 0 && !s.stuckReset {
			s.resetReads--
			if s.resetReads <= 0 {
				s.transferCtl &^= ctlResetBit
			}
		}

		return s.transferCtl
	case simNabmBase + uint16(ac97.NABM_PCM_OUT_LAST_ENT):
		return s.lastEnt
	case simNabmBase + uint16(ac97.NABM_PCM_OUT_CURRENT_ENT):
		return 0
	default:
		return 0xFF
	}
}

func (s *simCodec) Write8(port uint16, value uint8) {
	switch port {
	case simNabmBase + uint16(ac97.NABM_PCM_OUT_TRANSFER_CTL):
		if value&ctlResetBit != 0 {
			// A reset pulse clears the engine state wholesale; the bit
			// self-clears over the next few reads unless the device is
			// configured to play dead.
			s.resetPulses++
			s.transferSts = 0
			s.transferring = false
			s.transferCtl = ctlResetBit
			s.resetReads = s.resetLatency
			s.events = append(s.events, "engine: reset")

			return
		}

		if value&ctlTransferBit != 0 && s.transferCtl&ctlTransferBit == 0 {
			s.starts++
			s.capture()
			s.transferring = true
			s.eotReads = s.eotLatency
			s.events = append(s.events, "engine: start")
		}

		s.transferCtl = value
	case simNabmBase + uint16(ac97.NABM_PCM_OUT_LAST_ENT):
		s.lastEnt = value
		s.events = append(s.events, "bdl: last")
	}
}

func (s *simCodec) Read16(port uint16) uint16 {
	if port >= simNamBase && port < simNamBase+0x80 {
		return s.mixer[ac97.NamReg(port-simNamBase)]
	}

	switch port {
	case simNabmBase + uint16(ac97.NABM_PCM_OUT_STATUS):
		if s.transferring {
			s.eotReads--
			if s.eotReads <= 0 {
				s.transferSts |= stsEndBit
				s.transferring = false
			}
		}

		return s.transferSts
	case simNabmBase + uint16(ac97.NABM_PCM_OUT_TRANSFERRED):
		return 0
	default:
		return 0xFFFF
	}
}

func (s *simCodec) Write16(port uint16, value uint16) {
	if port < simNamBase || port >= simNamBase+0x80 {
		return
	}

	reg := ac97.NamReg(port - simNamBase)
	s.mixer[reg] = value

	switch reg {
	case ac97.NAM_RESET:
		s.mixerResets++
		s.events = append(s.events, "mixer: reset")
	case ac97.NAM_MASTER_VOLUME:
		s.events = append(s.events, "mixer: master")
	case ac97.NAM_PCM_OUT_VOLUME:
		s.events = append(s.events, "mixer: pcm")
	case ac97.NAM_SAMPLE_RATE:
		s.events = append(s.events, "mixer: rate")
	}
}

func (s *simCodec) Read32(port uint16) uint32 {
	switch port {
	case simNabmBase + uint16(ac97.NABM_GLOBAL_CTL):
		return s.globalCtl
	case simNabmBase + uint16(ac97.NABM_GLOBAL_STS):
		return s.globalSts
	case simNabmBase + uint16(ac97.NABM_PCM_OUT_BDL_ADDR):
		return s.bdlAddr
	default:
		return 0xFFFFFFFF
	}
}

func (s *simCodec) Write32(port uint16, value uint32) {
	switch port {
	case simNabmBase + uint16(ac97.NABM_GLOBAL_CTL):
		s.globalCtl = value
		s.events = append(s.events, "global: ctl")
	case simNabmBase + uint16(ac97.NABM_PCM_OUT_BDL_ADDR):
		s.bdlAddr = value
		s.events = append(s.events, "bdl: addr")
	}
}
