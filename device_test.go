package ac97_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gen2brain/ac97"
)

// openSim brings up a device against a fresh simulated codec.
func openSim(t *testing.T, config *ac97.Config) (*ac97.Device, *simCodec) {
	t.Helper()

	sim := newSimCodec()

	if config == nil {
		config = &ac97.Config{}
	}
	config.Translate = sim.translator()

	dev, err := ac97.Open(sim, sim, config)
	require.NoError(t, err, "bring-up against the simulated codec should succeed")

	return dev, sim
}

func TestOpenMissingCapabilities(t *testing.T) {
	_, err := ac97.Open(nil, nil, nil)
	assert.Error(t, err, "Open without capabilities should fail")
}

func TestOpenBringUp(t *testing.T) {
	_, sim := openSim(t, nil)

	// Command register: PIO and bus mastering on, legacy interrupts off.
	cmd := ac97.PCICommand(sim.command)
	assert.True(t, cmd.PIO(), "I/O space access should be enabled")
	assert.True(t, cmd.BusMaster(), "bus mastering should be enabled")
	assert.True(t, cmd.IntrDisable(), "legacy interrupts should be disabled")

	// Cold reset released with device interrupts kept off.
	gc := ac97.GlobalControl(sim.globalCtl)
	assert.True(t, gc.ColdReset(), "cold reset bit should be written high")
	assert.False(t, gc.Interrupts(), "device interrupts should stay off")

	assert.Equal(t, 1, sim.mixerResets, "exactly one mixer reset")

	// Maximum, unmuted volumes and the unconditional 44100 Hz rate.
	master := ac97.MasterVolume(sim.mixer[ac97.NAM_MASTER_VOLUME])
	assert.Equal(t, uint8(0x3F), master.Right())
	assert.Equal(t, uint8(0x3F), master.Left())
	assert.False(t, master.Mute())

	pcm := ac97.PcmVolume(sim.mixer[ac97.NAM_PCM_OUT_VOLUME])
	assert.Equal(t, uint8(0x1F), pcm.Right())
	assert.Equal(t, uint8(0x1F), pcm.Left())
	assert.False(t, pcm.Mute())

	assert.Equal(t, uint16(44100), sim.mixer[ac97.NAM_SAMPLE_RATE])

	// One engine reset, no transfer started, ring armed.
	assert.Equal(t, 1, sim.resetPulses)
	assert.Equal(t, 0, sim.starts)
	assert.Equal(t, uint8(ac97.BDL_ENTRIES-1), sim.lastEnt)
	assert.NotZero(t, sim.bdlAddr, "BDL base address should be programmed")
}

func TestOpenOrdering(t *testing.T) {
	_, sim := openSim(t, nil)

	// The bring-up sequence is ordering-sensitive on real hardware.
	expected := []string{
		"pci: command",
		"global: ctl",
		"mixer: reset",
		"mixer: master",
		"mixer: pcm",
		"mixer: rate",
		"engine: reset",
		"bdl: addr",
		"bdl: last",
	}
	assert.Equal(t, expected, sim.events)
}

func TestOpenProgramsDescriptorRing(t *testing.T) {
	_, sim := openSim(t, nil)

	bdl := sim.readDescriptors()
	require.Len(t, bdl, ac97.BDL_ENTRIES)

	base := bdl[0].Addr
	for i, desc := range bdl {
		assert.Equal(t, base+uint32(i)*ac97.BDL_ENTRY_SAMPLES*2, desc.Addr,
			"descriptor %d should cover a sequential window", i)
		assert.Equal(t, uint16(ac97.BDL_ENTRY_SAMPLES), desc.Samples)
		assert.Equal(t, i == ac97.BDL_ENTRIES-1, desc.Ctl.Last(),
			"only the final descriptor may carry the last flag")
		assert.False(t, desc.Ctl.FireInterrupt(), "playback is polled, no descriptor interrupts")
	}
}

func TestOpenStalledEngine(t *testing.T) {
	sim := newSimCodec()
	sim.stuckReset = true

	_, err := ac97.Open(sim, sim, &ac97.Config{
		Translate:  sim.translator(),
		SpinBudget: 64,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ac97.ErrDeviceStalled)
}

func TestDeviceGetters(t *testing.T) {
	dev, sim := openSim(t, nil)

	assert.Equal(t, uint32(44100), dev.Rate())
	assert.Equal(t, ac97.BUFFER_BYTES, dev.BufferBytes())

	sim.globalSts = uint32(ac97.PCM_CHANNELS_SIX)<<20 | uint32(ac97.PCM_OUT_20_SAMPLES)<<22
	channels, mode := dev.Caps()
	assert.Equal(t, ac97.PCM_CHANNELS_SIX, channels)
	assert.Equal(t, ac97.PCM_OUT_20_SAMPLES, mode)

	entry, samples := dev.Position()
	assert.Equal(t, uint8(0), entry)
	assert.Equal(t, uint16(0), samples)
}
