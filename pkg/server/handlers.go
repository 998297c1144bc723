package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/deepgen/famtree/pkg/buildinfo"
	fterrors "github.com/deepgen/famtree/pkg/errors"
	"github.com/deepgen/famtree/pkg/person"
	"github.com/deepgen/famtree/pkg/render"
	"github.com/deepgen/famtree/pkg/resolve"
	"github.com/deepgen/famtree/pkg/source"
)

// =============================================================================
// Responses
// =============================================================================

type healthResponse struct {
	Status string         `json:"status"`
	People int            `json:"people"`
	Build  buildinfo.Info `json:"build"`
}

type peopleResponse struct {
	People []person.Record `json:"people"`
	Count  int             `json:"count"`
	Hash   string          `json:"hash,omitempty"`
}

type suggestion struct {
	resolve.Suggestion
	Label string `json:"label"`
}

type suggestResponse struct {
	Query       string       `json:"query"`
	Suggestions []suggestion `json:"suggestions"`
	Fuzzy       bool         `json:"fuzzy"`
}

type resolveResponse struct {
	Query string     `json:"query"`
	Root  suggestion `json:"root"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	// Status is set for the empty states and is meant to be shown as is.
	Status string `json:"status,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		People: s.Dataset().Len(),
		Build:  buildinfo.Get(),
	})
}

func (s *Server) handleGetPeople(w http.ResponseWriter, _ *http.Request) {
	ds := s.Dataset()
	persons := ds.Persons()
	if persons == nil {
		persons = []person.Record{}
	}
	writeJSON(w, http.StatusOK, peopleResponse{People: persons, Count: len(persons), Hash: ds.Hash()})
}

func (s *Server) handlePutPeople(w http.ResponseWriter, r *http.Request) {
	format := source.FormatJSON
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil {
		switch mt {
		case "application/yaml", "application/x-yaml", "text/yaml":
			format = source.FormatYAML
		}
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				Error:   string(fterrors.ErrCodeInvalidInput),
				Message: "person list too large",
			})
			return
		}
		s.writeError(w, fterrors.Wrap(fterrors.ErrCodeInvalidInput, err, "read body"))
		return
	}

	persons, err := source.Decode(body, format)
	if err != nil {
		s.writeError(w, err)
		return
	}
	ds, err := s.Replace(r.Context(), persons)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, peopleResponse{People: ds.Persons(), Count: ds.Len(), Hash: ds.Hash()})
}

// handleResolve maps free text to the root identifier a client should draw.
// The tree itself is built by the client's in-process engine.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	ds := s.Dataset()
	if ds.Empty() {
		s.writeError(w, fterrors.New(fterrors.ErrCodeNoData, "%s", render.StatusNoData))
		return
	}

	xref, ok := resolve.Root(query, ds.Persons())
	if !ok {
		s.writeError(w, fterrors.New(fterrors.ErrCodeRootNotFound, "%s", render.StatusRootNotFound(query)))
		return
	}
	p := person.NewLookup(ds.Persons()).Get(xref)
	sg := resolve.Suggestion{Xref: p.Xref, Name: p.DisplayName(), Lifespan: person.Lifespan(p)}
	writeJSON(w, http.StatusOK, resolveResponse{
		Query: query,
		Root:  suggestion{Suggestion: sg, Label: sg.Label()},
	})
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")
	limit := resolve.DefaultLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, fterrors.New(fterrors.ErrCodeInvalidInput, "limit must be a positive number, got %q", v))
			return
		}
		limit = n
	}

	found, fuzzy := resolve.SuggestOrFuzzy(query, s.Dataset().Persons(), limit)
	out := suggestResponse{Query: query, Suggestions: make([]suggestion, len(found)), Fuzzy: fuzzy}
	for i, sg := range found {
		out.Suggestions[i] = suggestion{Suggestion: sg, Label: sg.Label()}
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// Helpers
// =============================================================================

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch fterrors.GetCode(err) {
	case fterrors.ErrCodeNoData:
		return http.StatusConflict
	case fterrors.ErrCodeRootNotFound, fterrors.ErrCodeNotFound, fterrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case fterrors.ErrCodeInvalidInput, fterrors.ErrCodeInvalidMode, fterrors.ErrCodeInvalidGenerations,
		fterrors.ErrCodeInvalidFormat, fterrors.ErrCodeInvalidXref, fterrors.ErrCodeDuplicateXref,
		fterrors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case fterrors.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	case fterrors.ErrCodeNetwork, fterrors.ErrCodeTimeout:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	resp := errorResponse{
		Error:   string(fterrors.GetCode(err)),
		Message: fterrors.UserMessage(err),
	}
	if resp.Error == "" {
		resp.Error = string(fterrors.ErrCodeInternal)
	}
	if fterrors.IsEmptyState(err) {
		resp.Status = resp.Message
	} else if status < http.StatusInternalServerError && errors.Unwrap(err) != nil {
		resp.Detail = err.Error()
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
		if status == http.StatusInternalServerError {
			resp.Message = "internal error"
		}
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
