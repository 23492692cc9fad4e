// Command play streams a WAV file to an AC'97 codec through the Linux
// userspace backends (sysfs config space, /dev/port, pagemap translation).
// It exists to exercise the driver against QEMU's AC'97 device from a
// privileged process:
//
//	qemu-system-x86_64 -device AC97 ...
//	sudo ./play song.wav
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/gen2brain/ac97"
)

func main() {
	var (
		device  string
		spin    int
		verbose bool
	)

	flag.StringVar(&device, "device", "", "PCI address of the codec (default: first audio function found)")
	flag.IntVar(&spin, "spin", 0, "Spin budget for register polls (0 = unbounded)")
	flag.BoolVar(&verbose, "verbose", false, "Log bring-up diagnostics")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <wav-file>\n\nOptions:\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	data, rate, err := loadWav(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading WAV file: %v\n", err)
		os.Exit(1)
	}

	if rate != ac97.SAMPLE_RATE {
		fmt.Fprintf(os.Stderr, "Warning: file is %d Hz, codec plays %d Hz; no resampling is performed\n",
			rate, ac97.SAMPLE_RATE)
	}

	if device == "" {
		devices, err := ac97.FindDevices()
		if err != nil || len(devices) == 0 {
			fmt.Fprintln(os.Stderr, "No AC'97 audio function found on the PCI bus")
			os.Exit(1)
		}
		device = devices[0]
	}

	cfg, err := ac97.OpenSysfsConfigSpace(device)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening config space: %v\n", err)
		os.Exit(1)
	}
	defer cfg.Close()

	ports, err := ac97.OpenDevPort()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening port I/O: %v\n", err)
		os.Exit(1)
	}
	defer ports.Close()

	// DMA buffers must not move or page out under the device.
	if err := unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE); err != nil {
		fmt.Fprintf(os.Stderr, "Error locking memory: %v\n", err)
		os.Exit(1)
	}

	translate, err := ac97.PagemapTranslate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening pagemap: %v\n", err)
		os.Exit(1)
	}

	config := &ac97.Config{
		Translate:  translate,
		SpinBudget: spin,
	}
	if verbose {
		logger := logrus.New()
		logger.SetLevel(logrus.DebugLevel)
		config.Logger = logger
	}

	dev, err := ac97.Open(cfg, ports, config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error bringing up codec at %s: %v\n", device, err)
		os.Exit(1)
	}

	fmt.Printf("Playing %s (%d bytes) on %s\n", flag.Arg(0), len(data), device)

	if err := dev.Play(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error during playback: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Playback finished.")
}

// loadWav decodes a WAV file into interleaved stereo signed 16-bit
// little-endian PCM, the only format the codec is programmed for. Mono
// input is duplicated onto both channels; other bit depths are rescaled.
func loadWav(path string) (data []byte, rate uint32, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("not a valid WAV file")
	}

	decoder.ReadInfo()

	channels := int(decoder.NumChans)
	if channels != 1 && channels != 2 {
		return nil, 0, fmt.Errorf("unsupported channel count: %d", channels)
	}

	shift := int(decoder.BitDepth) - 16

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  int(decoder.SampleRate),
		},
		Data: make([]int, 8192*channels),
	}

	for {
		// n is the number of samples decoded into buf.Data.
		n, err := decoder.PCMBuffer(buf)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return nil, 0, fmt.Errorf("decoding PCM data: %w", err)
		}

		if n == 0 {
			break
		}

		samples := buf.Data[:n]
		for f := 0; f < n/channels; f++ {
			left := samples[f*channels]
			right := left
			if channels == 2 {
				right = samples[f*channels+1]
			}

			data = append(data, sample16(left, shift)...)
			data = append(data, sample16(right, shift)...)
		}
	}

	return data, decoder.SampleRate, nil
}

// sample16 rescales one decoded sample to signed 16-bit little endian.
func sample16(s, shift int) []byte {
	if shift > 0 {
		s >>= shift
	} else if shift < 0 {
		s <<= -shift
	}

	if s > 32767 {
		s = 32767
	} else if s < -32768 {
		s = -32768
	}

	return []byte{byte(uint16(int16(s))), byte(uint16(int16(s)) >> 8)}
}
