package ac97

// Play blocks until every byte of audio has been handed to the hardware.
// The data must be interleaved stereo 16-bit little-endian PCM at the
// programmed sample rate; the driver performs no format conversion.
//
// The input is streamed in windows of BUFFER_BYTES. For each window the
// transfer engine is reset, the descriptor ring re-armed, the window copied
// into the DMA buffer (a short final window is zero-padded, the ring is
// always advertised at full capacity) and the transfer started; the loop
// then polls the status register until the engine reports end of transfer.
//
// Zero-length input returns immediately with no register traffic. The only
// possible error is ErrDeviceStalled, and only when a spin budget is
// configured; with the default unbounded polls Play cannot fail.
func (d *Device) Play(audio []byte) error {
	for off := 0; off < len(audio); off += BUFFER_BYTES {
		if err := d.resetEngine(); err != nil {
			return err
		}

		// The engine cursor is known-reset here; re-arming is idempotent.
		d.armBDL()

		n := copy(d.buf, audio[off:])
		clear(d.buf[n:])

		ctl := TransferControl(d.pcmOutCtl.read()).WithTransfer(true)
		d.pcmOutCtl.write(uint8(ctl))

		err := d.spin(func() bool {
			return TransferStatus(d.pcmOutSts.read()).EndOfTransfer()
		})
		if err != nil {
			return err
		}
	}

	return nil
}
