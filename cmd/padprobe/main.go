// Command padprobe prints every key and button edge the tracker sees, plus
// stick and trigger changes, until interrupted. Useful for checking a
// controller's mapping and the deadzone.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"nakazima/padinput/internal/input"
	"nakazima/padinput/internal/logger"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	useGLFW := flag.Bool("glfw", runtime.GOOS != "windows", "Use the GLFW backend instead of XInput")
	slot := flag.Uint("slot", 0, "Controller slot")
	deadzone := flag.Int("deadzone", int(input.DefaultDeadzone), "Left stick deadzone")
	flag.Parse()

	log := logger.StdoutLogger{}

	keys, pad, closeFn, err := openSources(*useGLFW)
	if err != nil {
		fmt.Fprintf(os.Stderr, "padprobe: %v\n", err)
		os.Exit(1)
	}
	defer closeFn()

	tr := input.NewTracker(keys, pad,
		input.WithSlot(uint32(*slot)),
		input.WithDeadzone(int16(*deadzone)),
		input.WithLogger(log))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	var last input.PadState
	for {
		select {
		case <-ctx.Done():
			tr.SetVibration(0, 0)
			log.Info("padprobe: stopped")
			return
		case <-ticker.C:
			tr.Update()
			report(tr, &last, log)
			rumble(tr)
		}
	}
}

func openSources(useGLFW bool) (input.KeySource, input.PadSource, func(), error) {
	if useGLFW {
		src, err := input.NewGLFWSource("padprobe", 320, 240, true)
		if err != nil {
			return nil, nil, nil, err
		}
		return src, src, src.Close, nil
	}
	return openPlatformSources()
}

func report(tr *input.Tracker, last *input.PadState, log logger.LoggerInterface) {
	for k := input.Key(0); k < input.KeyCount; k++ {
		if tr.IsKeyTrigger(k) {
			log.Info(fmt.Sprintf("frame %d: key %s down", tr.Frame(), k))
		}
		if tr.IsKeyRelease(k) {
			log.Info(fmt.Sprintf("frame %d: key %s up", tr.Frame(), k))
		}
	}
	for bit := 0; bit < 16; bit++ {
		b := input.Button(1 << bit)
		if tr.IsPadTrigger(b) {
			log.Info(fmt.Sprintf("frame %d: button %s down", tr.Frame(), b))
		}
		if tr.IsPadRelease(b) {
			log.Info(fmt.Sprintf("frame %d: button %s up", tr.Frame(), b))
		}
	}

	now := tr.Snapshot().Pad
	if now.ThumbLX != last.ThumbLX || now.ThumbLY != last.ThumbLY ||
		now.LeftTrigger != last.LeftTrigger || now.RightTrigger != last.RightTrigger {
		log.Info(fmt.Sprintf("frame %d: stick=(%.3f,%.3f) lt=%d rt=%d",
			tr.Frame(), tr.ThumbLX(), tr.ThumbLY(), tr.LeftTrigger(), tr.RightTrigger()))
	}
	*last = now
}

// rumble drives the motors from the triggers while both are held past
// halfway. The command is sent every frame so releasing a trigger stops the
// motors.
func rumble(tr *input.Tracker) {
	if tr.LeftTrigger() > 128 && tr.RightTrigger() > 128 {
		tr.SetVibration(uint16(tr.LeftTrigger())<<8, uint16(tr.RightTrigger())<<8)
		return
	}
	tr.SetVibration(0, 0)
}
