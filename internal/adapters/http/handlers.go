package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"svw.info/griphus/internal/domain"
	"svw.info/griphus/internal/infrastructure/storage"
	"svw.info/griphus/internal/level"
	"svw.info/griphus/internal/solver"
	"svw.info/griphus/internal/usecase"
)

type Handler struct {
	UC *usecase.Service
}

func New(uc *usecase.Service) *Handler { return &Handler{UC: uc} }

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/generate", h.handleGenerate)
	mux.HandleFunc("/api/solve", h.handleSolve)
	mux.HandleFunc("/api/validate", h.handleValidate)
	mux.HandleFunc("/api/hint", h.handleHint)
	mux.HandleFunc("/api/save", h.handleSave)
	mux.HandleFunc("/api/load", h.handleLoad)
	mux.HandleFunc("/api/list", h.handleList)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads a JSON body; an empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method != method {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// levelReq carries a level in its text form.
type levelReq struct {
	Name  string `json:"name,omitempty"`
	Level string `json:"level"`
	Seed  int64  `json:"seed,omitempty"`
}

func (req levelReq) parse() (*domain.Level, error) {
	name := req.Name
	if name == "" {
		name = "unnamed"
	}
	return level.Parse(name, req.Level)
}

func seedOr(seed int64) int64 {
	if seed == 0 {
		return time.Now().UnixNano()
	}
	return seed
}

// ---- Generate ----

type generateReq struct {
	Seed   int64 `json:"seed,omitempty"`
	Width  int   `json:"width,omitempty"`
	Height int   `json:"height,omitempty"`
	Blocks int   `json:"blocks,omitempty"`
	Walls  int   `json:"walls,omitempty"`
}

type generateResp struct {
	Name  string `json:"name,omitempty"`
	Level string `json:"level,omitempty"`
	Seed  int64  `json:"seed,omitempty"`
	Error string `json:"error,omitempty"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req generateReq
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, generateResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	seed := seedOr(req.Seed)
	opts := domain.GenOptions{Width: req.Width, Height: req.Height, Blocks: req.Blocks, Walls: req.Walls}
	l, err := h.UC.Generate(r.Context(), seed, opts)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, generateResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, generateResp{Name: l.Name, Level: level.Format(l), Seed: seed})
}

// ---- Validate ----

type validateResp struct {
	OK     bool           `json:"ok"`
	Issues []domain.Issue `json:"issues,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req levelReq
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, validateResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	l, err := req.parse()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, validateResp{Error: err.Error()})
		return
	}
	ok, issues, err := h.UC.Validate(r.Context(), l)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, validateResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, validateResp{OK: ok, Issues: issues})
}

// ---- Solve ----

type solveResp struct {
	Solution   *domain.Solution `json:"solution,omitempty"`
	DurationMs int64            `json:"durationMs,omitempty"`
	Searches   uint64           `json:"searches,omitempty"`
	Ticks      int              `json:"ticks,omitempty"`
	Error      string           `json:"error,omitempty"`
}

func (h *Handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req levelReq
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, solveResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	l, err := req.parse()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, solveResp{Error: err.Error()})
		return
	}
	sol, st, err := h.UC.Solve(r.Context(), l, seedOr(req.Seed))
	resp := solveResp{Solution: sol, DurationMs: st.Duration.Milliseconds(), Searches: st.Searches, Ticks: st.Ticks}
	if err != nil {
		resp.Error = err.Error()
		writeJSON(w, solveStatus(err), resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func solveStatus(err error) int {
	var inv *usecase.InvalidLevelError
	switch {
	case errors.As(err, &inv):
		return http.StatusBadRequest
	case errors.Is(err, solver.ErrUnsolvable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, solver.ErrTickBudget):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// ---- Hint ----

type hintResp struct {
	Found bool        `json:"found"`
	Hint  domain.Hint `json:"hint,omitempty"`
	Error string      `json:"error,omitempty"`
}

func (h *Handler) handleHint(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req levelReq
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, hintResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	l, err := req.parse()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, hintResp{Error: err.Error()})
		return
	}
	hh, ok, err := h.UC.Hint(r.Context(), l, seedOr(req.Seed))
	if err != nil {
		writeJSON(w, solveStatus(err), hintResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, hintResp{Found: ok, Hint: hh})
}

// ---- Save / Load / List ----

type saveResp struct {
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var s domain.Solution
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		writeJSON(w, http.StatusBadRequest, saveResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	if err := h.UC.Save(r.Context(), &s); err != nil {
		writeJSON(w, http.StatusInternalServerError, saveResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, saveResp{ID: s.ID})
}

type loadResp struct {
	Solution *domain.Solution `json:"solution,omitempty"`
	Error    string           `json:"error,omitempty"`
}

func (h *Handler) handleLoad(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, loadResp{Error: "missing id"})
		return
	}
	s, err := h.UC.Load(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, storage.ErrNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, loadResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, loadResp{Solution: s})
}

type listResp struct {
	Solutions []domain.SolutionMeta `json:"solutions"`
	Error     string                `json:"error,omitempty"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	ss, err := h.UC.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, listResp{Error: err.Error()})
		return
	}
	if ss == nil {
		ss = []domain.SolutionMeta{}
	}
	writeJSON(w, http.StatusOK, listResp{Solutions: ss})
}
