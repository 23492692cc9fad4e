package ac97

// Typed views over the raw AC'97 registers. Every field is an explicit
// shift/mask accessor pair: the getter extracts the field, the WithX
// builder replaces it without touching any bit outside the declared range,
// so reserved bits survive read-modify-write cycles verbatim.

// MasterVolume is the NAM master output volume register.
// Layout: right B6 (0-5), left B6 (8-13), mute (15); bits 6-7 and 14 reserved.
type MasterVolume uint16

// Right returns the right channel attenuation (0x00 loudest is hardware
// convention inverted here: 0x3F is the value programmed for full volume).
func (v MasterVolume) Right() uint8 { return uint8(v & 0x3F) }

// WithRight replaces the right channel attenuation field.
func (v MasterVolume) WithRight(r uint8) MasterVolume {
	return v&^0x003F | MasterVolume(r&0x3F)
}

// Left returns the left channel attenuation.
func (v MasterVolume) Left() uint8 { return uint8(v >> 8 & 0x3F) }

// WithLeft replaces the left channel attenuation field.
func (v MasterVolume) WithLeft(l uint8) MasterVolume {
	return v&^0x3F00 | MasterVolume(l&0x3F)<<8
}

// Mute reports whether the master output is muted.
func (v MasterVolume) Mute() bool { return v&0x8000 != 0 }

// WithMute replaces the mute bit.
func (v MasterVolume) WithMute(m bool) MasterVolume {
	if m {
		return v | 0x8000
	}

	return v &^ 0x8000
}

// PcmVolume is the NAM PCM output volume register.
// Layout: right B5 (0-4), left B5 (8-12), mute (15); bits 5-7 and 13-14 reserved.
type PcmVolume uint16

// Right returns the right channel attenuation.
func (v PcmVolume) Right() uint8 { return uint8(v & 0x1F) }

// WithRight replaces the right channel attenuation field.
func (v PcmVolume) WithRight(r uint8) PcmVolume {
	return v&^0x001F | PcmVolume(r&0x1F)
}

// Left returns the left channel attenuation.
func (v PcmVolume) Left() uint8 { return uint8(v >> 8 & 0x1F) }

// WithLeft replaces the left channel attenuation field.
func (v PcmVolume) WithLeft(l uint8) PcmVolume {
	return v&^0x1F00 | PcmVolume(l&0x1F)<<8
}

// Mute reports whether the PCM output is muted.
func (v PcmVolume) Mute() bool { return v&0x8000 != 0 }

// WithMute replaces the mute bit.
func (v PcmVolume) WithMute(m bool) PcmVolume {
	if m {
		return v | 0x8000
	}

	return v &^ 0x8000
}

// TransferControl is the NABM PCM-out transfer control register.
// Layout: transfer (0), reset (1), last-entry interrupt (2), completion
// interrupt (3), FIFO-error interrupt (4); bits 5-7 reserved.
type TransferControl uint8

// Transfer reports whether the transfer engine is told to run.
func (c TransferControl) Transfer() bool { return c&0x01 != 0 }

// WithTransfer replaces the run/pause bit.
func (c TransferControl) WithTransfer(t bool) TransferControl {
	if t {
		return c | 0x01
	}

	return c &^ 0x01
}

// Reset reports whether an engine reset is in progress. The bit self-clears
// when the hardware finishes resetting.
func (c TransferControl) Reset() bool { return c&0x02 != 0 }

// WithReset replaces the reset bit.
func (c TransferControl) WithReset(r bool) TransferControl {
	if r {
		return c | 0x02
	}

	return c &^ 0x02
}

// LastEntryIntr reports whether the last-valid-entry interrupt is enabled.
func (c TransferControl) LastEntryIntr() bool { return c&0x04 != 0 }

// WithLastEntryIntr replaces the last-valid-entry interrupt enable bit.
func (c TransferControl) WithLastEntryIntr(e bool) TransferControl {
	if e {
		return c | 0x04
	}

	return c &^ 0x04
}

// CompletionIntr reports whether the interrupt-on-completion enable is set.
func (c TransferControl) CompletionIntr() bool { return c&0x08 != 0 }

// WithCompletionIntr replaces the interrupt-on-completion enable bit.
func (c TransferControl) WithCompletionIntr(e bool) TransferControl {
	if e {
		return c | 0x08
	}

	return c &^ 0x08
}

// FifoErrorIntr reports whether the FIFO-error interrupt is enabled.
func (c TransferControl) FifoErrorIntr() bool { return c&0x10 != 0 }

// WithFifoErrorIntr replaces the FIFO-error interrupt enable bit.
func (c TransferControl) WithFifoErrorIntr(e bool) TransferControl {
	if e {
		return c | 0x10
	}

	return c &^ 0x10
}

// TransferStatus is the NABM PCM-out transfer status register.
// Layout: halted (0), end of transfer (1), last-entry interrupt fired (2),
// completion interrupt fired (3), FIFO error (4); bits 5-15 reserved.
type TransferStatus uint16

// Halted reports whether the DMA engine is halted.
func (s TransferStatus) Halted() bool { return s&0x01 != 0 }

// WithHalted replaces the halted bit.
func (s TransferStatus) WithHalted(h bool) TransferStatus {
	if h {
		return s | 0x01
	}

	return s &^ 0x01
}

// EndOfTransfer reports whether the engine consumed the last descriptor.
// This is the bit the playback loop polls for.
func (s TransferStatus) EndOfTransfer() bool { return s&0x02 != 0 }

// WithEndOfTransfer replaces the end-of-transfer bit.
func (s TransferStatus) WithEndOfTransfer(e bool) TransferStatus {
	if e {
		return s | 0x02
	}

	return s &^ 0x02
}

// LastEntryIntr reports whether the last-valid-entry interrupt fired.
func (s TransferStatus) LastEntryIntr() bool { return s&0x04 != 0 }

// WithLastEntryIntr replaces the last-valid-entry interrupt flag.
func (s TransferStatus) WithLastEntryIntr(f bool) TransferStatus {
	if f {
		return s | 0x04
	}

	return s &^ 0x04
}

// CompletionIntr reports whether the interrupt-on-completion flag is set.
func (s TransferStatus) CompletionIntr() bool { return s&0x08 != 0 }

// WithCompletionIntr replaces the interrupt-on-completion flag.
func (s TransferStatus) WithCompletionIntr(f bool) TransferStatus {
	if f {
		return s | 0x08
	}

	return s &^ 0x08
}

// FifoError reports whether the engine signalled a FIFO error. The playback
// loop never inspects this; it is a latent diagnostic.
func (s TransferStatus) FifoError() bool { return s&0x10 != 0 }

// WithFifoError replaces the FIFO error flag.
func (s TransferStatus) WithFifoError(f bool) TransferStatus {
	if f {
		return s | 0x10
	}

	return s &^ 0x10
}

// GlobalControl is the NABM global control register.
// Layout: interrupts (0), cold reset (1), warm reset (2), shutdown (3),
// channels (20-21), PCM out mode (22-23); all other bits reserved.
type GlobalControl uint32

// Interrupts reports whether device interrupt generation is enabled.
// This driver keeps it off at all times.
func (g GlobalControl) Interrupts() bool { return g&0x1 != 0 }

// WithInterrupts replaces the interrupt enable bit.
func (g GlobalControl) WithInterrupts(e bool) GlobalControl {
	if e {
		return g | 0x1
	}

	return g &^ 0x1
}

// ColdReset reports the cold reset bit. Writing it high releases the codec
// from cold reset.
func (g GlobalControl) ColdReset() bool { return g&0x2 != 0 }

// WithColdReset replaces the cold reset bit.
func (g GlobalControl) WithColdReset(r bool) GlobalControl {
	if r {
		return g | 0x2
	}

	return g &^ 0x2
}

// WarmReset reports the warm reset bit.
func (g GlobalControl) WarmReset() bool { return g&0x4 != 0 }

// WithWarmReset replaces the warm reset bit.
func (g GlobalControl) WithWarmReset(r bool) GlobalControl {
	if r {
		return g | 0x4
	}

	return g &^ 0x4
}

// ShutDown reports the shutdown bit.
func (g GlobalControl) ShutDown() bool { return g&0x8 != 0 }

// WithShutDown replaces the shutdown bit.
func (g GlobalControl) WithShutDown(s bool) GlobalControl {
	if s {
		return g | 0x8
	}

	return g &^ 0x8
}

// Channels returns the programmed PCM channel configuration.
func (g GlobalControl) Channels() PcmChannels {
	return PcmChannels(g >> 20 & 0x3)
}

// WithChannels replaces the PCM channel configuration field.
func (g GlobalControl) WithChannels(c PcmChannels) GlobalControl {
	return g&^(0x3<<20) | GlobalControl(c&0x3)<<20
}

// PcmOutMode returns the programmed output sample width.
func (g GlobalControl) PcmOutMode() PcmOutMode {
	return PcmOutMode(g >> 22 & 0x3)
}

// WithPcmOutMode replaces the output sample width field.
func (g GlobalControl) WithPcmOutMode(m PcmOutMode) GlobalControl {
	return g&^(0x3<<22) | GlobalControl(m&0x3)<<22
}

// GlobalStatus is the NABM global status register.
// Layout: channel capabilities (20-21), sample capabilities (22-23).
type GlobalStatus uint32

// ChannelCaps returns the codec's supported channel configurations.
// The field is hardware-written; there is no setter.
func (g GlobalStatus) ChannelCaps() PcmChannels {
	return PcmChannels(g >> 20 & 0x3)
}

// SampleCaps returns the codec's supported output sample widths.
func (g GlobalStatus) SampleCaps() PcmOutMode {
	return PcmOutMode(g >> 22 & 0x3)
}

// WithSampleCaps replaces the sample capabilities field.
func (g GlobalStatus) WithSampleCaps(m PcmOutMode) GlobalStatus {
	return g&^(0x3<<22) | GlobalStatus(m&0x3)<<22
}

// BufferControl is the control word of a buffer descriptor.
// Layout: last (14), fire interrupt (15); bits 0-13 reserved.
type BufferControl uint16

// Last reports whether this descriptor terminates the ring.
func (b BufferControl) Last() bool { return b&0x4000 != 0 }

// WithLast replaces the last-descriptor bit.
func (b BufferControl) WithLast(l bool) BufferControl {
	if l {
		return b | 0x4000
	}

	return b &^ 0x4000
}

// FireInterrupt reports whether the engine raises an interrupt after
// consuming this descriptor. The driver never sets it; playback is polled.
func (b BufferControl) FireInterrupt() bool { return b&0x8000 != 0 }

// WithFireInterrupt replaces the fire-interrupt bit.
func (b BufferControl) WithFireInterrupt(f bool) BufferControl {
	if f {
		return b | 0x8000
	}

	return b &^ 0x8000
}

// PCICommand is the PCI configuration space command register.
// Layout: PIO enable (0), MMIO enable (1), bus master (2), interrupt
// disable (10).
type PCICommand uint16

// PIO reports whether I/O space access is enabled.
func (c PCICommand) PIO() bool { return c&0x0001 != 0 }

// WithPIO replaces the I/O space enable bit.
func (c PCICommand) WithPIO(e bool) PCICommand {
	if e {
		return c | 0x0001
	}

	return c &^ 0x0001
}

// MMIO reports whether memory space access is enabled.
func (c PCICommand) MMIO() bool { return c&0x0002 != 0 }

// WithMMIO replaces the memory space enable bit.
func (c PCICommand) WithMMIO(e bool) PCICommand {
	if e {
		return c | 0x0002
	}

	return c &^ 0x0002
}

// BusMaster reports whether the function may master the bus (required for
// BDL and sample DMA).
func (c PCICommand) BusMaster() bool { return c&0x0004 != 0 }

// WithBusMaster replaces the bus master enable bit.
func (c PCICommand) WithBusMaster(e bool) PCICommand {
	if e {
		return c | 0x0004
	}

	return c &^ 0x0004
}

// IntrDisable reports whether legacy interrupt generation is disabled.
func (c PCICommand) IntrDisable() bool { return c&0x0400 != 0 }

// WithIntrDisable replaces the interrupt disable bit.
func (c PCICommand) WithIntrDisable(d bool) PCICommand {
	if d {
		return c | 0x0400
	}

	return c &^ 0x0400
}
