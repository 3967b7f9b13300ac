package server

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/matzehuels/portraitgrid/pkg/config"
	"github.com/matzehuels/portraitgrid/pkg/errors"
	"github.com/matzehuels/portraitgrid/pkg/layout"
	"github.com/matzehuels/portraitgrid/pkg/textwrap"
)

// MaxTotal caps the photo count of a request.
const MaxTotal = 10000

// PlanRequest is the body of /v1/plan and /v1/placements. Settings use the
// sidecar format, including its legacy values; omitted fields take the
// defaults.
type PlanRequest struct {
	Total    int                    `json:"total"`
	Settings json.RawMessage        `json:"settings,omitempty"`
	Zones    []layout.AvoidanceZone `json:"zones,omitempty"`
}

// PlacementsResponse lists every slot of a plan in row-major order.
type PlacementsResponse struct {
	Plan      layout.Plan   `json:"plan"`
	Slots     []layout.Slot `json:"slots"`
	Placeable int           `json:"placeable"`
}

// WrapRequest is the body of /v1/wrap.
type WrapRequest struct {
	Text     string `json:"text"`
	Font     string `json:"font,omitempty"`
	Size     int    `json:"size"`
	MaxWidth int    `json:"max_width"`
}

// WrapResponse holds the wrapped lines and the face they were measured with.
type WrapResponse struct {
	Lines []string `json:"lines"`
	Font  string   `json:"font"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"version": s.Version,
		"pid":     os.Getpid(),
	})
}

func (s *Server) defaults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, config.Default())
}

func (s *Server) plan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	settings, _, err := req.resolve()
	if err != nil {
		writeError(w, err)
		return
	}
	p, err := layout.Build(settings.Constraints(req.Total))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) placements(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	settings, zones, err := req.resolve()
	if err != nil {
		writeError(w, err)
		return
	}
	p, err := layout.Build(settings.Constraints(req.Total))
	if err != nil {
		writeError(w, err)
		return
	}
	cv := settings.Canvas()
	writeJSON(w, http.StatusOK, PlacementsResponse{
		Plan:      p,
		Slots:     layout.Collect(p, cv.TopMargin, cv.SideMargin, zones...),
		Placeable: layout.CountPlaceable(p, zones...),
	})
}

// resolve returns the request settings and its zones. Explicit zones replace
// the ones derived from the settings.
func (req PlanRequest) resolve() (config.Settings, []layout.AvoidanceZone, error) {
	if req.Total < 0 || req.Total > MaxTotal {
		return config.Settings{}, nil, errors.New(errors.ErrCodeInvalidInput, "total must be 0..%d, got %d", MaxTotal, req.Total)
	}
	settings := config.Default()
	if len(req.Settings) > 0 {
		var err error
		settings, err = config.ParseSettings(req.Settings)
		if err != nil {
			if errors.GetCode(err) == "" {
				err = errors.Wrap(errors.ErrCodeInvalidInput, err, "settings")
			}
			return config.Settings{}, nil, err
		}
	}
	if req.Zones == nil {
		return settings, settings.Zones(), nil
	}
	for _, z := range req.Zones {
		if err := z.Validate(); err != nil {
			return config.Settings{}, nil, err
		}
	}
	return settings, req.Zones, nil
}

func (s *Server) wrap(w http.ResponseWriter, r *http.Request) {
	var req WrapRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Size <= 0 || req.MaxWidth <= 0 {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "size and max_width must be positive"))
		return
	}

	ref, err := s.Fonts.Resolve(r.Context(), req.Font)
	if err != nil && !errors.Is(err, errors.ErrCodeFontUnresolved) {
		writeError(w, err)
		return
	}
	face, err := s.loader.Face(ref, float64(req.Size))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "load font %s", ref))
		return
	}
	defer face.Close()

	lines := textwrap.Auto(req.Text, textwrap.FaceMeasurer(face), req.MaxWidth)
	if lines == nil {
		lines = []string{}
	}
	writeJSON(w, http.StatusOK, WrapResponse{Lines: lines, Font: ref.Name})
}
