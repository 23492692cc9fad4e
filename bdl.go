package ac97

// BufferDescriptor is one entry of the hardware buffer descriptor list.
// The in-memory layout (4+2+2 bytes, no padding) is exactly what the bus
// master engine fetches over DMA, so a []BufferDescriptor can be handed to
// the hardware by physical address on little-endian targets.
type BufferDescriptor struct {
	Addr    uint32
	Samples uint16
	Ctl     BufferControl
}

// NewBufferDescriptorList builds the descriptor ring for an audio buffer
// whose DMA-visible base address is base. The ring always has BDL_ENTRIES
// descriptors covering sequential, non-overlapping windows of the buffer
// (entry i starts at base + i*BDL_ENTRY_SAMPLES*BYTES_PER_SAMPLE), each
// advertising BDL_ENTRY_SAMPLES samples. Only the final descriptor carries
// the last flag, which stops the engine at the ring end.
//
// The ring is built once per device; re-arming a transfer rewrites the BDL
// base address and last-entry registers, never the descriptors themselves.
func NewBufferDescriptorList(base PhysAddr) []BufferDescriptor {
	bdl := make([]BufferDescriptor, BDL_ENTRIES)

	for i := range bdl {
		bdl[i] = BufferDescriptor{
			Addr:    uint32(base) + uint32(i)*BDL_ENTRY_SAMPLES*BYTES_PER_SAMPLE,
			Samples: BDL_ENTRY_SAMPLES,
		}
	}

	bdl[len(bdl)-1].Ctl = bdl[len(bdl)-1].Ctl.WithLast(true)

	return bdl
}
