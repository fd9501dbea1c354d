// Package info describes the demo session: who ran it, where, and on what
// hardware. The session id names the trace file so logs and traces of one run
// can be matched.
package info

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jaypipes/ghw"
	"github.com/jaypipes/ghw/pkg/gpu"

	"nakazima/padinput/internal/logger"
	"nakazima/padinput/pkg/models"
)

// SessionInfo holds metadata about one run.
type SessionInfo struct {
	SessionID string           `json:"session_id"`
	StartedAt models.EpochTime `json:"started_at"`
	Backend   string           `json:"backend"`
	OS        string           `json:"os"`
	GPUModel  *string          `json:"gpu_model"`
	GPUBrand  *string          `json:"gpu_brand"`

	Logger logger.LoggerInterface `json:"-"`
}

// NewSession starts a session with a fresh id. An empty id generates one.
func NewSession(id, backend string, log logger.LoggerInterface) *SessionInfo {
	if id == "" {
		id = uuid.NewString()
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &SessionInfo{
		SessionID: id,
		StartedAt: models.EpochTime(time.Now().UTC()),
		Backend:   backend,
		Logger:    log,
	}
}

// PopulateDeviceInfo fills in what can be detected locally. A missing GPU is
// logged and left empty.
func (s *SessionInfo) PopulateDeviceInfo() {
	s.OS = osInfo()

	card := s.primaryGPU()
	if card == nil || card.DeviceInfo == nil {
		return
	}
	dev := card.DeviceInfo
	if dev.Product != nil {
		model := fmt.Sprintf("%s %s", dev.Product.Name, dev.Driver)
		s.GPUModel = &model
	}
	if dev.Vendor != nil {
		brand := dev.Vendor.Name
		s.GPUBrand = &brand
	}
}

func (s *SessionInfo) primaryGPU() *gpu.GraphicsCard {
	info, err := ghw.GPU()
	if err != nil {
		s.Logger.Warn(fmt.Sprintf("info: gpu detection: %v", err))
		return nil
	}
	if len(info.GraphicsCards) == 0 {
		s.Logger.Warn("info: no graphics card found")
		return nil
	}
	return info.GraphicsCards[0]
}

// TraceFileName is the trace file name for this session.
func (s *SessionInfo) TraceFileName() string {
	return "trace-" + s.SessionID + ".parquet"
}

// String is a one-line summary for the log.
func (s *SessionInfo) String() string {
	card := "unknown gpu"
	if s.GPUModel != nil {
		card = *s.GPUModel
		if s.GPUBrand != nil {
			card = *s.GPUBrand + " " + card
		}
	}
	return fmt.Sprintf("session %s backend=%s os=%q gpu=%q", s.SessionID, s.Backend, s.OS, card)
}
