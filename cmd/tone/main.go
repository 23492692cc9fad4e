// Command tone plays a generated sine burst, the quickest way to verify a
// codec produces sound at all. Same backends and privileges as cmd/play.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"golang.org/x/sys/unix"

	"github.com/gen2brain/ac97"
)

func main() {
	var (
		device  string
		freq    float64
		seconds float64
		spin    int
	)

	flag.StringVar(&device, "device", "", "PCI address of the codec (default: first audio function found)")
	flag.Float64Var(&freq, "freq", 440, "Tone frequency in Hz")
	flag.Float64Var(&seconds, "seconds", 2, "Tone duration")
	flag.IntVar(&spin, "spin", 0, "Spin budget for register polls (0 = unbounded)")
	flag.Parse()

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

	if err := unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE); err != nil {
		fmt.Fprintf(os.Stderr, "Error locking memory: %v\n", err)
		os.Exit(1)
	}

	translate, err := ac97.PagemapTranslate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening pagemap: %v\n", err)
		os.Exit(1)
	}

	dev, err := ac97.Open(cfg, ports, &ac97.Config{Translate: translate, SpinBudget: spin})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error bringing up codec at %s: %v\n", device, err)
		os.Exit(1)
	}

	fmt.Printf("Playing %.0f Hz for %.1fs on %s\n", freq, seconds, device)

	if err := dev.Play(sine(freq, seconds)); err != nil {
		fmt.Fprintf(os.Stderr, "Error during playback: %v\n", err)
		os.Exit(1)
	}
}

// sine renders an interleaved stereo 16-bit sine wave at the codec rate.
func sine(freq, seconds float64) []byte {
	frames := int(seconds * ac97.SAMPLE_RATE)
	data := make([]byte, 0, frames*4)

	for f := 0; f < frames; f++ {
		s := int16(0.5 * math.MaxInt16 * math.Sin(2*math.Pi*freq*float64(f)/ac97.SAMPLE_RATE))
		lo, hi := byte(uint16(s)), byte(uint16(s)>>8)
		data = append(data, lo, hi, lo, hi)
	}

	return data
}
