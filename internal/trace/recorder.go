// Package trace records the tracker's per-frame samples to a Parquet file and
// plays them back as an input source.
//
// A trace has one row per frame (see models.FrameRecord). Replaying a trace
// through a fresh Tracker reproduces every press, trigger and release query
// of the recorded run, which makes input bugs reproducible without hardware.
package trace

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"nakazima/padinput/internal/input"
	"nakazima/padinput/pkg/models"
	"nakazima/padinput/utils"
)

const (
	bufferSize    = 4096
	flushInterval = time.Second
)

// Recorder writes frames on a background goroutine so that Record never
// blocks the frame loop.
type Recorder struct {
	writer *writer.ParquetWriter
	file   source.ParquetFile

	ch      chan models.FrameRecord
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once

	dropped atomic.Uint64
	written atomic.Uint64
	err     error
}

// NewRecorder creates (or truncates) the trace file at path.
func NewRecorder(path string) (*Recorder, error) {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return nil, fmt.Errorf("create trace file: %w", err)
	}

	pw, err := writer.NewParquetWriter(fw, new(models.FrameRecord), 1)
	if err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("create trace writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	pw.RowGroupSize = 8 * 1024 * 1024 // 8MB
	pw.PageSize = 8 * 1024            // 8KB

	r := &Recorder{
		writer:  pw,
		file:    fw,
		ch:      make(chan models.FrameRecord, bufferSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go r.loop()
	return r, nil
}

func (r *Recorder) loop() {
	defer close(r.stopped)

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	var errs []error
	write := func(rec models.FrameRecord) {
		if err := r.writer.Write(rec); err != nil {
			errs = append(errs, fmt.Errorf("write frame %d: %w", rec.Frame, err))
			return
		}
		r.written.Add(1)
	}

	for {
		select {
		case rec := <-r.ch:
			write(rec)

		case <-ticker.C:
			if err := r.writer.Flush(true); err != nil {
				errs = append(errs, fmt.Errorf("flush: %w", err))
			}

		case <-r.done:
			// drain remaining frames
			for {
				select {
				case rec := <-r.ch:
					write(rec)
				default:
					if err := r.writer.WriteStop(); err != nil {
						errs = append(errs, fmt.Errorf("write stop: %w", err))
					}
					if err := r.file.Close(); err != nil {
						errs = append(errs, fmt.Errorf("close: %w", err))
					}
					r.err = errors.Join(errs...)
					return
				}
			}
		}
	}
}

// Record enqueues the sample taken at frame. When the buffer is full the
// frame is dropped and counted.
func (r *Recorder) Record(frame uint64, s input.Snapshot) {
	select {
	case r.ch <- Row(frame, utils.NowEpochSeconds(), s):
	default:
		r.dropped.Add(1)
	}
}

// Dropped is the number of frames lost to a full buffer.
func (r *Recorder) Dropped() uint64 {
	return r.dropped.Load()
}

// Written is the number of frames handed to the Parquet writer.
func (r *Recorder) Written() uint64 {
	return r.written.Load()
}

// Close flushes every queued frame, finalises the file and reports any write
// errors. Record must not be called after Close.
func (r *Recorder) Close() error {
	r.once.Do(func() { close(r.done) })
	<-r.stopped
	if r.err != nil {
		return fmt.Errorf("trace: %w", r.err)
	}
	return nil
}

// Row converts a tracker sample into a trace row.
func Row(frame uint64, timestamp float64, s input.Snapshot) models.FrameRecord {
	var words [4]uint64
	for k, down := range s.Keys {
		if down {
			words[k/64] |= 1 << (uint(k) % 64)
		}
	}
	rec := models.FrameRecord{
		Frame:          int64(frame),
		Timestamp:      timestamp,
		Connected:      s.Connected,
		Buttons:        int32(s.Pad.Buttons),
		ThumbLX:        int32(s.Pad.ThumbLX),
		ThumbLY:        int32(s.Pad.ThumbLY),
		LeftTrigger:    int32(s.Pad.LeftTrigger),
		RightTrigger:   int32(s.Pad.RightTrigger),
		VibrationLeft:  int32(s.Vibration.Left),
		VibrationRight: int32(s.Vibration.Right),
	}
	rec.SetKeyWords(words)
	return rec
}

// Snapshot converts a trace row back into a tracker sample.
func Snapshot(rec models.FrameRecord) input.Snapshot {
	var s input.Snapshot
	words := rec.KeyWords()
	for k := range s.Keys {
		s.Keys[k] = words[k/64]&(1<<(uint(k)%64)) != 0
	}
	s.Connected = rec.Connected
	s.Pad = input.PadState{
		Buttons:      input.Button(rec.Buttons),
		ThumbLX:      int16(rec.ThumbLX),
		ThumbLY:      int16(rec.ThumbLY),
		LeftTrigger:  uint8(rec.LeftTrigger),
		RightTrigger: uint8(rec.RightTrigger),
	}
	s.Vibration = input.Vibration{
		Left:  uint16(rec.VibrationLeft),
		Right: uint16(rec.VibrationRight),
	}
	return s
}
