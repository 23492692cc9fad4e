package ac97

import (
	"errors"
	"fmt"
	"io"
	"unsafe"

	"github.com/sirupsen/logrus"
)

// ErrDeviceStalled is returned when a register poll exhausts the configured
// spin budget. With the default unbounded budget it is never produced; a
// non-responding device then hangs the calling context, which is the
// accepted bring-up behavior on real hardware.
var ErrDeviceStalled = errors.New("ac97: device did not respond within the spin budget")

// Config carries the optional parameters for Open.
type Config struct {
	// Translate converts driver buffer addresses to DMA-visible physical
	// addresses. Nil means identity mapping, which is correct only in
	// environments where the heap is identity mapped for the device.
	Translate TranslateFunc

	// SpinBudget bounds every busy-wait loop to at most this many register
	// reads. Zero means unbounded, matching real hardware bring-up where
	// no timeout infrastructure exists. Set it in tests or in supervised
	// environments that must not hang on a dead device.
	SpinBudget int

	// Logger receives bring-up diagnostics at debug level. Nil disables
	// logging. The playback path never logs.
	Logger logrus.FieldLogger
}

// Device is the handle to one AC'97 function. It exclusively owns the audio
// buffer, the descriptor ring and all register addresses; nothing else may
// touch the underlying ports while the handle lives. All fields are
// unexported and there is no copy or clone surface: callers must serialize
// use of a Device themselves, the hardware has no arbitration to model.
type Device struct {
	cfg ConfigSpace
	log logrus.FieldLogger

	spinBudget int

	mixerReset      port16
	mixerMasterVol  port16
	mixerPcmVol     port16
	mixerSampleRate port16

	globalCtl     port32
	globalSts     port32
	pcmOutBdlAddr port32
	pcmOutLastEnt port8
	pcmOutCurrent port8
	pcmOutXferred port16
	pcmOutCtl     port8
	pcmOutSts     port16

	buf     []byte
	bdl     []BufferDescriptor
	bufPhys PhysAddr
	bdlPhys PhysAddr
}

// Open brings up the codec behind the given configuration space and
// returns its device handle. The sequence is fixed and ordering-sensitive:
// command register bits, BAR resolution, cold reset, mixer reset, volume
// and sample rate programming, transfer engine reset, buffer and ring
// construction, BDL arming. Every step assumes the hardware responds; see
// Config.SpinBudget for the only escape hatch.
//
// config may be nil for defaults (identity translation, unbounded polls,
// no logging).
func Open(cfg ConfigSpace, ports PortIO, config *Config) (*Device, error) {
	if cfg == nil || ports == nil {
		return nil, fmt.Errorf("ac97: config space and port I/O capabilities are required")
	}

	if config == nil {
		config = &Config{}
	}

	d := &Device{
		cfg:        cfg,
		spinBudget: config.SpinBudget,
		log:        config.Logger,
	}
	if d.log == nil {
		silent := logrus.New()
		silent.SetOutput(io.Discard)
		d.log = silent
	}

	// Enable PIO and bus mastering, keep legacy interrupts off: this
	// driver polls.
	cmd := PCICommand(cfg.Read(PCI_COMMAND, ACCESS_WORD))
	cmd = cmd.WithPIO(true).WithBusMaster(true).WithIntrDisable(true)
	cfg.Write(PCI_COMMAND, uint32(cmd), ACCESS_WORD)

	// I/O space BARs carry a status bit in bit 0 that is not part of the
	// port address.
	nabmBase := uint16(cfg.Read(PCI_BAR1, ACCESS_DWORD)) &^ 1
	namBase := uint16(cfg.Read(PCI_BAR0, ACCESS_DWORD)) &^ 1

	d.log.WithFields(logrus.Fields{
		"nam":  fmt.Sprintf("%#x", namBase),
		"nabm": fmt.Sprintf("%#x", nabmBase),
	}).Debug("resolved AC'97 I/O ranges")

	d.globalCtl = port32{ports, nabmBase + uint16(NABM_GLOBAL_CTL)}
	d.globalSts = port32{ports, nabmBase + uint16(NABM_GLOBAL_STS)}
	d.pcmOutBdlAddr = port32{ports, nabmBase + uint16(NABM_PCM_OUT_BDL_ADDR)}
	d.pcmOutLastEnt = port8{ports, nabmBase + uint16(NABM_PCM_OUT_LAST_ENT)}
	d.pcmOutCurrent = port8{ports, nabmBase + uint16(NABM_PCM_OUT_CURRENT_ENT)}
	d.pcmOutXferred = port16{ports, nabmBase + uint16(NABM_PCM_OUT_TRANSFERRED)}
	d.pcmOutCtl = port8{ports, nabmBase + uint16(NABM_PCM_OUT_TRANSFER_CTL)}
	d.pcmOutSts = port16{ports, nabmBase + uint16(NABM_PCM_OUT_STATUS)}

	d.mixerReset = port16{ports, namBase + uint16(NAM_RESET)}
	d.mixerMasterVol = port16{ports, namBase + uint16(NAM_MASTER_VOLUME)}
	d.mixerPcmVol = port16{ports, namBase + uint16(NAM_PCM_OUT_VOLUME)}
	d.mixerSampleRate = port16{ports, namBase + uint16(NAM_SAMPLE_RATE)}

	// Resume from cold reset with device interrupts kept off.
	gc := GlobalControl(d.globalCtl.read()).WithColdReset(true).WithInterrupts(false)
	d.globalCtl.write(uint32(gc))

	// Any value written to the reset register resets the whole mixer.
	d.mixerReset.write(0xFFFF)

	d.mixerMasterVol.write(uint16(MasterVolume(0).WithRight(0x3F).WithLeft(0x3F).WithMute(false)))
	d.mixerPcmVol.write(uint16(PcmVolume(0).WithRight(0x1F).WithLeft(0x1F).WithMute(false)))

	d.log.WithField("rate", d.mixerSampleRate.read()).Debug("codec sample rate before programming")
	d.mixerSampleRate.write(SAMPLE_RATE)

	if err := d.resetEngine(); err != nil {
		return nil, fmt.Errorf("resetting PCM out engine: %w", err)
	}

	translate := config.Translate
	if translate == nil {
		translate = func(virt uintptr) (PhysAddr, error) { return PhysAddr(virt), nil }
	}

	d.buf = make([]byte, BUFFER_BYTES)

	var err error
	d.bufPhys, err = translate(uintptr(unsafe.Pointer(&d.buf[0])))
	if err != nil {
		return nil, fmt.Errorf("translating audio buffer address: %w", err)
	}

	d.bdl = NewBufferDescriptorList(d.bufPhys)

	d.bdlPhys, err = translate(uintptr(unsafe.Pointer(&d.bdl[0])))
	if err != nil {
		return nil, fmt.Errorf("translating descriptor list address: %w", err)
	}

	d.armBDL()

	return d, nil
}

// armBDL programs the BDL base address and last-valid-entry registers,
// resetting the hardware's read cursor to the ring start. The engine must
// be in a known-reset state when this is called.
func (d *Device) armBDL() {
	d.pcmOutBdlAddr.write(uint32(d.bdlPhys))
	d.pcmOutLastEnt.write(BDL_ENTRIES - 1)
}

// resetEngine pulses the transfer control reset bit and busy-waits for the
// hardware to clear it.
func (d *Device) resetEngine() error {
	ctl := TransferControl(d.pcmOutCtl.read()).WithReset(true)
	d.pcmOutCtl.write(uint8(ctl))

	return d.spin(func() bool {
		return !TransferControl(d.pcmOutCtl.read()).Reset()
	})
}

// spin busy-waits until done reports true. There is no sleep and no yield:
// the driver has no scheduler to defer to. With a zero spin budget the
// loop is unbounded.
func (d *Device) spin(done func() bool) error {
	for i := 0; ; i++ {
		if done() {
			return nil
		}

		if d.spinBudget > 0 && i+1 >= d.spinBudget {
			return ErrDeviceStalled
		}
	}
}

// Rate returns the sample rate the codec is programmed to, in Hz.
func (d *Device) Rate() uint32 {
	return uint32(d.mixerSampleRate.read())
}

// BufferBytes returns the playback window size in bytes: the amount of
// audio one descriptor ring pass can carry.
func (d *Device) BufferBytes() int {
	return BUFFER_BYTES
}

// Caps reports the channel configurations and sample widths the codec
// advertises in its global status register.
func (d *Device) Caps() (PcmChannels, PcmOutMode) {
	sts := GlobalStatus(d.globalSts.read())

	return sts.ChannelCaps(), sts.SampleCaps()
}

// Position reports the descriptor entry the engine is currently processing
// and how many samples of it have been transferred. It is a diagnostic
// snapshot; polling it during Play from another context is not allowed by
// the ownership model.
func (d *Device) Position() (entry uint8, samples uint16) {
	return d.pcmOutCurrent.read(), d.pcmOutXferred.read()
}
