package api

import (
	"net/http"

	"github.com/walkshed-data/netdiff/internal/db"
	"github.com/walkshed-data/netdiff/internal/diff"
	"github.com/walkshed-data/netdiff/internal/match"
	"github.com/walkshed-data/netdiff/internal/validate"
)

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.Manifest(r.Context())
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if m == nil {
		s.writeJSONError(w, http.StatusNotFound, "no manifest")
		return
	}
	s.writeJSON(w, m)
}

func (s *Server) handleReferenceManifest(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.ReferenceManifest(r.Context())
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if m == nil {
		s.writeJSONError(w, http.StatusNotFound, "no reference manifest")
		return
	}
	s.writeJSON(w, m)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	cmp, err := s.session.CompareYears(r.Context(), yearVar(r, "before"), yearVar(r, "after"))
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, cmp)
}

func (s *Server) handleYear(w http.ResponseWriter, r *http.Request) {
	var available []int
	if m, err := s.store.Manifest(r.Context()); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	} else if m != nil {
		available = m.Years
	}

	cmp, err := s.session.DataForYear(r.Context(), yearVar(r, "year"), available)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, cmp)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	cmp, err := s.session.CompareYears(r.Context(), yearVar(r, "before"), yearVar(r, "after"))
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := struct {
		diff.Summary
		Quality diff.Quality `json:"quality,omitempty"`
	}{Summary: diff.Summarize(cmp)}
	if cmp.Calibration != nil {
		resp.Quality = diff.AssessQuality(*cmp.Calibration,
			s.cfg.GetWarningRateMultiplier(), s.cfg.GetCriticalRateMultiplier())
	}
	s.writeJSON(w, resp)
}

type toleranceResponse struct {
	Tolerance match.Tolerance `json:"tolerance"`
	Default   match.Tolerance `json:"default"`
	Version   int64           `json:"version"`
}

func (s *Server) handleGetTolerance(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, toleranceResponse{
		Tolerance: s.session.Tolerance(),
		Default:   s.session.DefaultTolerance(),
		Version:   s.session.ToleranceVersion(),
	})
}

func (s *Server) handleSetTolerance(w http.ResponseWriter, r *http.Request) {
	var t match.Tolerance
	if err := decodeJSONBody(r, &t); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	version, err := s.session.SetTolerance(t)
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, toleranceResponse{
		Tolerance: t,
		Default:   s.session.DefaultTolerance(),
		Version:   version,
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	detected, err := s.store.CollectionForYear(ctx, yearVar(r, "detected"))
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	reference, err := s.store.ReferenceCollection(ctx, yearVar(r, "reference"))
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	res := validate.Validate(detected, reference, s.cfg.ValidationTolerance(), s.cfg.GetGridScale())
	s.writeJSON(w, res)
}

func (s *Server) handlePairings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var detectedYears, referenceYears []int
	if m, err := s.store.Manifest(ctx); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	} else if m != nil {
		detectedYears = m.Years
	}
	if m, err := s.store.ReferenceManifest(ctx); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	} else if m != nil {
		referenceYears = m.AvailableYears
	}
	s.writeJSON(w, validate.SuggestedPairings(detectedYears, referenceYears))
}

func (s *Server) handleGetViewState(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.writeJSONError(w, http.StatusServiceUnavailable, "no state database")
		return
	}
	vs, err := s.db.ViewState()
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if vs == nil {
		s.writeJSONError(w, http.StatusNotFound, "no saved view state")
		return
	}
	s.writeJSON(w, vs)
}

func (s *Server) handlePutViewState(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.writeJSONError(w, http.StatusServiceUnavailable, "no state database")
		return
	}
	var vs db.ViewState
	if err := decodeJSONBody(r, &vs); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.db.SaveViewState(&vs); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, &vs)
}
