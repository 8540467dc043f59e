package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Seann-Moser/pwmhat/pkg/pca9685"
)

// Server exposes a Controller over HTTP. Requests are serialized: the
// controller itself must only see one caller at a time.
type Server struct {
	mu     sync.Mutex
	ctrl   *pca9685.Controller
	config Configuration
	log    *slog.Logger
}

type ChannelState struct {
	Index     int                  `json:"index"`
	Registers pca9685.RegisterQuad `json:"registers"`
	Bytes     [4]byte              `json:"bytes"`
	On        uint16               `json:"on"`
	Off       uint16               `json:"off"`
	// Angle is set for channels with a configured servo range when the
	// off tick falls inside it.
	Angle *float64 `json:"angle,omitempty"`
}

type ChannelRequest struct {
	Index int    `json:"index"`
	On    uint16 `json:"on"`
	Off   uint16 `json:"off"`
}

type ServoRequest struct {
	Index int     `json:"index"`
	Angle float64 `json:"angle"`
}

type RateRequest struct {
	Hz float64 `json:"hz"`
}

type Status struct {
	Mode1    uint8 `json:"mode1"`
	Mode2    uint8 `json:"mode2"`
	Prescale uint8 `json:"prescale"`
}

func NewServer(ctrl *pca9685.Controller, config Configuration, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{ctrl: ctrl, config: config, log: log}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/channel", s.handleGetChannel)
	mux.HandleFunc("POST /api/channel", s.handleSetChannel)
	mux.HandleFunc("POST /api/servo", s.handleSetServo)
	mux.HandleFunc("POST /api/all", s.handleSetAll)
	mux.HandleFunc("POST /api/rate", s.handleSetRate)
	return mux
}

// StartServer serves until ctx is done.
func (s *Server) StartServer(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("server running", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st Status
	var err error
	if st.Mode1, err = s.ctrl.Mode1(); err != nil {
		s.writeError(w, err)
		return
	}
	if st.Mode2, err = s.ctrl.Mode2(); err != nil {
		s.writeError(w, err)
		return
	}
	if st.Prescale, err = s.ctrl.Prescale(); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, st)
}

func (s *Server) handleGetChannel(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.URL.Query().Get("index"))
	if err != nil {
		http.Error(w, "index must be an integer", http.StatusBadRequest)
		return
	}
	ch, err := s.config.Servo(index)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	on, off, err := s.ctrl.ChannelTicks(ch)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}

	st := ChannelState{
		Index:     index,
		Registers: ch.Registers(),
		Bytes:     [4]byte{byte(on), byte(on >> 8), byte(off), byte(off >> 8)},
		On:        on,
		Off:       off,
	}
	if _, ok := s.config.Channels[index]; ok {
		if angle, err := ch.PulseTimeToDegrees(st.Off); err == nil {
			st.Angle = &angle
		}
	}
	writeJSON(w, st)
}

func (s *Server) handleSetChannel(w http.ResponseWriter, r *http.Request) {
	var req ChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ch, err := pca9685.NewLedChannel(req.Index)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	err = s.ctrl.SetChannel(ch, req.On, req.Off)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info("channel set", "channel", req.Index, "on", req.On, "off", req.Off)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetServo(w http.ResponseWriter, r *http.Request) {
	var req ServoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ch, err := s.config.Servo(req.Index)
	if err != nil {
		s.writeError(w, err)
		return
	}
	pulse, err := ch.DegreesToPulseTime(req.Angle)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	err = s.ctrl.SetChannel(ch, 0, pulse)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info("servo moved", "channel", req.Index, "angle", req.Angle, "pulse", pulse)
	writeJSON(w, map[string]uint16{"pulse": pulse})
}

func (s *Server) handleSetAll(w http.ResponseWriter, r *http.Request) {
	var req ChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	err := s.ctrl.SetAllChannels(req.On, req.Off)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetRate(w http.ResponseWriter, r *http.Request) {
	var req RateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	prescale, err := pca9685.CalculatePrescaleValue(req.Hz)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.mu.Lock()
	err = s.ctrl.SetPWMRate(prescale)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info("pwm rate set", "hz", req.Hz, "prescale", prescale)
	writeJSON(w, map[string]uint8{"prescale": prescale})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, pca9685.ErrOutOfRange) || errors.Is(err, pca9685.ErrInvalidUpdateRate) {
		status = http.StatusBadRequest
	} else {
		s.log.Error("bus error", "error", err)
	}
	http.Error(w, fmt.Sprintf("%v", err), status)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
