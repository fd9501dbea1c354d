package trace

import (
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	"nakazima/padinput/internal/input"
	"nakazima/padinput/pkg/models"
)

// Player replays a trace as both the key source and the pad source of a
// Tracker. Each Poll (called by Tracker.Update) moves to the next frame.
// Done turns true once the last frame has been polled; any Poll after that
// reports no keys and no controller.
type Player struct {
	frames []input.Snapshot
	pos    int

	lastVibration input.Vibration // most recent command sent by the tracker
}

// OpenPlayer loads every frame of the trace at path.
func OpenPlayer(path string) (*Player, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(models.FrameRecord), 1)
	if err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	defer pr.ReadStop()

	rows := make([]models.FrameRecord, int(pr.GetNumRows()))
	if err := pr.Read(&rows); err != nil {
		return nil, fmt.Errorf("read trace rows: %w", err)
	}
	return NewPlayer(rows), nil
}

// NewPlayer replays rows already in memory.
func NewPlayer(rows []models.FrameRecord) *Player {
	p := &Player{frames: make([]input.Snapshot, len(rows)), pos: -1}
	for i, rec := range rows {
		p.frames[i] = Snapshot(rec)
	}
	return p
}

// Len is the number of frames in the trace.
func (p *Player) Len() int {
	return len(p.frames)
}

// Poll advances to the next frame.
func (p *Player) Poll() {
	if p.pos < len(p.frames) {
		p.pos++
	}
}

// Done reports whether the last frame has been played.
func (p *Player) Done() bool {
	return p.pos >= len(p.frames)-1
}

// recorded returns the vibration command stored in the current frame.
func (p *Player) recorded() input.Vibration {
	if s, ok := p.current(); ok {
		return s.Vibration
	}
	return input.Vibration{}
}

func (p *Player) current() (input.Snapshot, bool) {
	if p.pos < 0 || p.pos >= len(p.frames) {
		return input.Snapshot{}, false
	}
	return p.frames[p.pos], true
}

func (p *Player) KeyDown(k input.Key) bool {
	s, ok := p.current()
	return ok && s.Keys.Down(k)
}

func (p *Player) PadState(uint32) (input.PadState, error) {
	s, ok := p.current()
	if !ok || !s.Connected {
		return input.PadState{}, input.ErrNotConnected
	}
	return s.Pad, nil
}

func (p *Player) SetVibration(_ uint32, v input.Vibration) error {
	p.lastVibration = v
	return nil
}
