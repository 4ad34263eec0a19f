// Package server exposes preprocessing, multiplication and rendering over
// HTTP with JSON bodies.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/juruen/hwrt/config"
	"github.com/juruen/hwrt/handwriting"
	"github.com/juruen/hwrt/log"
	"github.com/juruen/hwrt/multiplication"
	"github.com/juruen/hwrt/preprocessing"
	"github.com/juruen/hwrt/render"
	"github.com/juruen/hwrt/version"
)

const maxBodySize = 16 << 20

type ApiServer struct {
	mux *http.ServeMux
	log *log.Logger
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Request is the body of every POST endpoint.
type Request struct {
	Handwriting    json.RawMessage `json:"handwriting"`
	Preprocessing  []config.Step   `json:"preprocessing,omitempty"`
	Multiplication []config.Step   `json:"multiplication,omitempty"`
}

// Sample is a recording in responses.
type Sample struct {
	RawDataID   string                       `json:"raw_data_id,omitempty"`
	Handwriting *handwriting.HandwrittenData `json:"handwriting"`
	BoundingBox handwriting.BoundingBox      `json:"bounding_box"`
}

func newSample(h *handwriting.HandwrittenData) Sample {
	return Sample{RawDataID: h.RawDataID(), Handwriting: h, BoundingBox: h.BoundingBox()}
}

func NewApiServer() *ApiServer {
	s := &ApiServer{mux: http.NewServeMux(), log: log.Named("server")}
	s.mux.HandleFunc("/api/version", s.handleVersion)
	s.mux.HandleFunc("/api/algorithms", s.handleAlgorithms)
	s.mux.HandleFunc("/api/preprocess", s.handlePreprocess)
	s.mux.HandleFunc("/api/multiply", s.handleMultiply)
	s.mux.HandleFunc("/api/render", s.handleRender)
	return s
}

func (s *ApiServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	s.mux.ServeHTTP(w, r)
	s.log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Dur("took", time.Since(start)).Msg("request")
}

func (s *ApiServer) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
}

func (s *ApiServer) writeSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SuccessResponse{Data: data})
}

// errorStatus maps configuration and input errors to 400.
func errorStatus(err error) int {
	if errors.Is(err, config.ErrConfiguration) || errors.Is(err, handwriting.ErrMalformedInput) {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}

// decode reads the request body and parses the recording it carries.
func (s *ApiServer) decode(w http.ResponseWriter, r *http.Request) (*Request, *handwriting.HandwrittenData, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return nil, nil, false
	}
	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return nil, nil, false
	}
	if len(req.Handwriting) == 0 {
		s.writeError(w, http.StatusBadRequest, errors.New("missing handwriting"))
		return nil, nil, false
	}
	h, err := handwriting.New(req.Handwriting, handwriting.WithRawDataID(r.URL.Query().Get("raw_data_id")))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return nil, nil, false
	}
	return &req, h, true
}

// GET /api/version
func (s *ApiServer) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeSuccess(w, map[string]string{"version": version.Version})
}

// GET /api/algorithms
func (s *ApiServer) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeSuccess(w, map[string][]string{
		"preprocessing":  preprocessing.Registry().Names(),
		"multiplication": multiplication.Registry().Names(),
	})
}

// POST /api/preprocess
func (s *ApiServer) handlePreprocess(w http.ResponseWriter, r *http.Request) {
	req, h, ok := s.decode(w, r)
	if !ok {
		return
	}
	pipeline, err := preprocessing.GetPreprocessingQueue(req.Preprocessing)
	if err != nil {
		s.writeError(w, errorStatus(err), err)
		return
	}
	if err := pipeline.Apply(h); err != nil {
		s.writeError(w, errorStatus(err), err)
		return
	}
	s.writeSuccess(w, newSample(h))
}

// POST /api/multiply
//
// The response holds the original followed by the synthetic recordings,
// all preprocessed when a pipeline is given.
func (s *ApiServer) handleMultiply(w http.ResponseWriter, r *http.Request) {
	req, h, ok := s.decode(w, r)
	if !ok {
		return
	}
	queue, err := multiplication.GetMultiplicationQueue(req.Multiplication)
	if err != nil {
		s.writeError(w, errorStatus(err), err)
		return
	}
	pipeline, err := preprocessing.GetPreprocessingQueue(req.Preprocessing)
	if err != nil {
		s.writeError(w, errorStatus(err), err)
		return
	}

	set := multiplication.TrainingSetMultiplication([]handwriting.Record{{Handwriting: h}}, queue)
	samples := make([]Sample, 0, len(set))
	for _, rec := range set {
		if err := pipeline.Apply(rec.Handwriting); err != nil {
			s.writeError(w, errorStatus(err), err)
			return
		}
		samples = append(samples, newSample(rec.Handwriting))
	}
	s.writeSuccess(w, samples)
}

// POST /api/render?size=<px>&stroke_width=<px>
func (s *ApiServer) handleRender(w http.ResponseWriter, r *http.Request) {
	req, h, ok := s.decode(w, r)
	if !ok {
		return
	}
	opt := render.DefaultOptions()
	query := r.URL.Query()
	if v := query.Get("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size <= 0 || size > 4096 {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid size %q", v))
			return
		}
		opt.Size = size
	}
	if v := query.Get("stroke_width"); v != "" {
		width, err := strconv.ParseFloat(v, 64)
		if err != nil || width <= 0 {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid stroke_width %q", v))
			return
		}
		opt.StrokeWidth = width
	}

	pipeline, err := preprocessing.GetPreprocessingQueue(req.Preprocessing)
	if err != nil {
		s.writeError(w, errorStatus(err), err)
		return
	}
	if err := pipeline.Apply(h); err != nil {
		s.writeError(w, errorStatus(err), err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := render.WritePNG(w, render.Render(h, opt)); err != nil {
		s.log.Error().Err(err).Msg("writing png")
	}
}

// Run serves on addr until ctx is done.
func Run(ctx context.Context, addr string) error {
	s := NewApiServer()
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
