// Package ac97 is a polling-mode playback driver for AC'97 PCI audio codecs,
// written for freestanding environments where the driver owns the device
// end-to-end and no operating system audio stack exists.
//
// The package does not talk to hardware directly. PCI configuration space,
// port I/O and virtual-to-physical address translation are consumed as
// capabilities (see ConfigSpace, PortIO and TranslateFunc), so the same
// driver runs under a bare-metal kernel, a privileged Linux process (see
// the backends in host_linux.go) or a simulated codec in tests.
package ac97

// NamReg is a register offset within the native audio mixer (NAM) I/O
// range resolved from BAR0.
type NamReg uint16

const (
	NAM_RESET          NamReg = 0x00
	NAM_MASTER_VOLUME  NamReg = 0x02
	NAM_PCM_OUT_VOLUME NamReg = 0x18
	NAM_SAMPLE_RATE    NamReg = 0x2C
)

// NabmReg is a register offset within the native audio bus master (NABM)
// I/O range resolved from BAR1.
type NabmReg uint16

const (
	NABM_PCM_OUT_BDL_ADDR     NabmReg = 0x10
	NABM_PCM_OUT_CURRENT_ENT  NabmReg = 0x14
	NABM_PCM_OUT_LAST_ENT     NabmReg = 0x15
	NABM_PCM_OUT_STATUS       NabmReg = 0x16
	NABM_PCM_OUT_TRANSFERRED  NabmReg = 0x18
	NABM_PCM_OUT_NEXT_ENT     NabmReg = 0x1A
	NABM_PCM_OUT_TRANSFER_CTL NabmReg = 0x1B
	NABM_GLOBAL_CTL           NabmReg = 0x2C
	NABM_GLOBAL_STS           NabmReg = 0x30
)

// PCI configuration space offsets used by the driver.
const (
	PCI_COMMAND uint16 = 0x04
	PCI_BAR0    uint16 = 0x10 // NAM (mixer) I/O range
	PCI_BAR1    uint16 = 0x14 // NABM (bus master) I/O range
)

// Hardware geometry. These values are imposed by the AC'97 buffer
// descriptor list format and must not be tuned.
const (
	// BDL_ENTRIES is the number of descriptors in the ring.
	BDL_ENTRIES = 0x1F
	// BDL_ENTRY_SAMPLES is the sample count carried by one descriptor.
	BDL_ENTRY_SAMPLES = 0xFFFE
	// BYTES_PER_SAMPLE is fixed: the driver programs 16-bit PCM only.
	BYTES_PER_SAMPLE = 2
	// BUFFER_BYTES is the full ring capacity and the Play window size.
	BUFFER_BYTES = BDL_ENTRIES * BDL_ENTRY_SAMPLES * BYTES_PER_SAMPLE
)

// SAMPLE_RATE is programmed unconditionally at bring-up. Several
// virtualized codecs (QEMU among them) mishandle 48000 Hz, so 44100 Hz is
// the universal choice; do not change it without verifying the target.
const SAMPLE_RATE = 44100

// PcmChannels enumerates the codec's PCM channel configurations as encoded
// in the global control and status registers.
type PcmChannels uint32

const (
	PCM_CHANNELS_TWO  PcmChannels = 0 // Default.
	PCM_CHANNELS_FOUR PcmChannels = 1
	PCM_CHANNELS_SIX  PcmChannels = 2
)

// PcmOutMode enumerates the codec's output sample widths.
type PcmOutMode uint32

const (
	PCM_OUT_16_SAMPLES PcmOutMode = 0 // Default.
	PCM_OUT_20_SAMPLES PcmOutMode = 1
)

// PcmChannelsNames provides human-readable names for channel configurations.
var PcmChannelsNames = map[PcmChannels]string{
	PCM_CHANNELS_TWO:  "TWO",
	PCM_CHANNELS_FOUR: "FOUR",
	PCM_CHANNELS_SIX:  "SIX",
}

// PcmOutModeNames provides human-readable names for output sample widths.
var PcmOutModeNames = map[PcmOutMode]string{
	PCM_OUT_16_SAMPLES: "SIXTEEN",
	PCM_OUT_20_SAMPLES: "TWENTY",
}
