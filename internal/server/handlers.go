package server

import (
	"bytes"
	"io"
	"net/http"

	"github.com/matzehuels/labforge/pkg/advisor"
	"github.com/matzehuels/labforge/pkg/assist"
	"github.com/matzehuels/labforge/pkg/buildinfo"
	lferrors "github.com/matzehuels/labforge/pkg/errors"
	lfio "github.com/matzehuels/labforge/pkg/io"
	"github.com/matzehuels/labforge/pkg/render/nodelink"
	"github.com/matzehuels/labforge/pkg/session"
	"github.com/matzehuels/labforge/pkg/topology"
)

type healthResponse struct {
	Status  string         `json:"status"`
	Session string         `json:"session"`
	Build   buildinfo.Info `json:"build"`
}

type topologyResponse struct {
	topology.Snapshot
	Stats session.Stats `json:"stats"`
}

type adviceResponse struct {
	Advice    []string          `json:"advice"`
	Findings  []advisor.Finding `json:"findings"`
	Assistant assist.Status     `json:"assistant"`
	Display   []assist.Line     `json:"display"`
}

type assistantRequest struct {
	Enabled *bool `json:"enabled"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Session: s.sess.ID(), Build: buildinfo.Get()})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sess.View())
}

func (s *Server) handleTopology(w http.ResponseWriter, r *http.Request) {
	v := s.sess.View()
	writeJSON(w, http.StatusOK, topologyResponse{Snapshot: v.Topology, Stats: v.Stats})
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var n topology.Node
	if err := decode(r, &n); err != nil {
		s.writeError(w, r, err)
		return
	}
	v, err := s.sess.AddNode(r.Context(), n)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleAddLink(w http.ResponseWriter, r *http.Request) {
	var l topology.Link
	if err := decode(r, &l); err != nil {
		s.writeError(w, r, err)
		return
	}
	v, err := s.sess.AddLink(r.Context(), l)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// handleSeed appends a topology document, or the demo lab when the body is
// empty.
func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	snap, empty, err := readDocument(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if empty {
		snap = topology.DefaultSeed()
	}
	v, err := s.sess.Seed(r.Context(), snap.Nodes, snap.Links)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	snap, empty, err := readDocument(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if empty {
		s.writeError(w, r, lferrors.New(lferrors.ErrCodeInvalidInput, "request body is empty"))
		return
	}
	v, err := s.sess.Replace(r.Context(), snap)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sess.Reset(r.Context()))
}

func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	v := s.sess.View()
	writeJSON(w, http.StatusOK, adviceResponse{
		Advice:    v.Advice,
		Findings:  v.Findings,
		Assistant: v.Assistant,
		Display:   v.Display,
	})
}

func (s *Server) handleAssistant(w http.ResponseWriter, r *http.Request) {
	var req assistantRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Enabled == nil {
		s.writeError(w, r, lferrors.New(lferrors.ErrCodeInvalidInput, `"enabled" is required`))
		return
	}
	writeJSON(w, http.StatusOK, s.sess.SetAssistant(r.Context(), *req.Enabled))
}

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.sess.ExportJSON(&buf); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="homelab_topology.json"`)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleExportPlan(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.sess.ExportPlan(&buf); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Content-Disposition", `attachment; filename="build_plan.yaml"`)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) dot(r *http.Request) string {
	return nodelink.ToDOT(s.sess.Snapshot(), nodelink.Options{
		Detailed: r.URL.Query().Get("detailed") == "true",
	})
}

func (s *Server) handleRenderDOT(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	_, _ = io.WriteString(w, s.dot(r))
}

func (s *Server) handleRenderSVG(w http.ResponseWriter, r *http.Request) {
	svg, err := nodelink.RenderSVG(r.Context(), s.dot(r))
	if err != nil {
		s.writeError(w, r, lferrors.Wrap(lferrors.ErrCodeInternal, err, "render SVG"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

// readDocument decodes a topology document body. The session validates it
// against the live topology. empty reports a body with nothing but
// whitespace.
func readDocument(r *http.Request) (snap topology.Snapshot, empty bool, err error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return snap, false, lferrors.Wrap(lferrors.ErrCodeInvalidInput, err, "read body: %v", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return snap, true, nil
	}
	snap, err = lfio.DecodeJSON(bytes.NewReader(data))
	return snap, false, err
}
