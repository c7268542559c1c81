package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/alexanderramin/glazingpm/internal/contract"
	"github.com/alexanderramin/glazingpm/internal/domain"
	"github.com/alexanderramin/glazingpm/internal/export"
	"github.com/alexanderramin/glazingpm/internal/service"
	"github.com/gorilla/mux"
)

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "endpoint_not_found", "The requested endpoint does not exist")
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", r.Method+" is not supported here")
}

func (s *Server) listVendors(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"vendors": s.deps.Catalog.Vendors()})
}

func (s *Server) listCostCodes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"cost_codes": s.deps.Catalog.CostCodes()})
}

func (s *Server) listScopes(w http.ResponseWriter, _ *http.Request) {
	type scopeView struct {
		domain.ScopeDefinition
		Label string `json:"label"`
	}
	defs := s.deps.Catalog.Scopes()
	out := make([]scopeView, len(defs))
	for i, d := range defs {
		out[i] = scopeView{ScopeDefinition: d, Label: d.Category.Label()}
	}
	writeJSON(w, http.StatusOK, map[string]any{"scopes": out})
}

type projectView struct {
	ID            string       `json:"id"`
	ShortID       string       `json:"short_id"`
	Name          string       `json:"name"`
	Client        string       `json:"client,omitempty"`
	Location      string       `json:"location,omitempty"`
	ContractValue domain.Cents `json:"contract_value"`
	StartDate     *domain.Date `json:"start_date"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func toProjectView(p *domain.Project) projectView {
	v := projectView{
		ID:            p.ID,
		ShortID:       p.ShortID,
		Name:          p.Name,
		Client:        p.Client,
		Location:      p.Location,
		ContractValue: p.ContractValue,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if !p.StartDate.IsZero() {
		d := domain.NewDate(p.StartDate)
		v.StartDate = &d
	}
	return v
}

type versionView struct {
	Version       int          `json:"version"`
	Source        string       `json:"source"`
	ContractValue domain.Cents `json:"contract_value"`
	CreatedAt     time.Time    `json:"created_at"`
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.deps.Projects.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]projectView, len(projects))
	for i, p := range projects {
		out[i] = toProjectView(p)
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": out})
}

type createProjectRequest struct {
	ShortID       string        `json:"short_id"`
	Name          string        `json:"name"`
	Client        string        `json:"client"`
	Location      string        `json:"location"`
	ContractValue *domain.Cents `json:"contract_value"`
	StartDate     *domain.Date  `json:"start_date"`
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	p := &domain.Project{
		ShortID:  req.ShortID,
		Name:     req.Name,
		Client:   req.Client,
		Location: req.Location,
	}
	if req.ContractValue != nil {
		p.ContractValue = *req.ContractValue
	}
	if req.StartDate != nil {
		p.StartDate = req.StartDate.Time
	}
	if err := s.deps.Projects.Create(r.Context(), p); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/projects/"+p.ShortID)
	writeJSON(w, http.StatusCreated, toProjectView(p))
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["id"]
	p, err := s.deps.Projects.Resolve(r.Context(), ref)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	history, err := s.deps.Generation.History(r.Context(), p.ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	versions := make([]versionView, len(history))
	for i, o := range history {
		versions[i] = versionView{Version: o.Version, Source: o.Source, ContractValue: o.ContractValue, CreatedAt: o.CreatedAt}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"project":  toProjectView(p),
		"versions": versions,
	})
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	var in contract.ProjectInput
	if err := decodeBody(r, &in); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	res, err := s.deps.Generation.Generate(r.Context(), mux.Vars(r)["id"], in, service.SourceAPI)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeBundle(w, r, http.StatusCreated, res.Bundle)
}

func (s *Server) latestOutputs(w http.ResponseWriter, r *http.Request) {
	res, err := s.outputsFor(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeBundle(w, r, http.StatusOK, res.Bundle)
}

func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	kind := export.Kind(mux.Vars(r)["kind"])
	res, err := s.outputsFor(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, kind, res.Bundle); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", kind.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", kind.FileName(res.Bundle)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// outputsFor loads the output set named by the optional ?version= query,
// defaulting to the latest.
func (s *Server) outputsFor(r *http.Request) (*service.GenerationResult, error) {
	ref := mux.Vars(r)["id"]
	v := r.URL.Query().Get("version")
	if v == "" {
		return s.deps.Generation.Latest(r.Context(), ref)
	}
	version, err := strconv.Atoi(v)
	if err != nil || version < 1 {
		return nil, fmt.Errorf("%w: version must be a positive integer", domain.ErrInvalidInput)
	}
	return s.deps.Generation.Version(r.Context(), ref, version)
}

func (s *Server) writeBundle(w http.ResponseWriter, r *http.Request, status int, b *export.Bundle) {
	var buf bytes.Buffer
	if err := export.WriteJSON(&buf, b); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
