package restserver

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/chrissnell/functionalflows/internal/dataio"
	"github.com/chrissnell/functionalflows/internal/log"
	"github.com/chrissnell/functionalflows/internal/storage"
	"github.com/chrissnell/functionalflows/pkg/flows"
	"github.com/chrissnell/functionalflows/pkg/responseformat"
)

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

// GetHealth reports that the server is up and how many components it serves.
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	h.respond(w, req, http.StatusOK, HealthResponse{Status: "ok", Components: len(h.controller.Components)})
}

// GetComponents lists every configured component in configuration order.
func (h *Handlers) GetComponents(w http.ResponseWriter, req *http.Request) {
	resp := ComponentsResponse{
		StartOfWaterYear: h.controller.StartOfWaterYear,
		Components:       make([]ComponentResponse, 0, len(h.controller.Components)),
	}
	for i, c := range h.controller.Components {
		resp.Components = append(resp.Components, transformComponent(c, h.controller.ComponentData[i]))
	}
	h.respond(w, req, http.StatusOK, resp)
}

// GetComponent describes a single component.
func (h *Handlers) GetComponent(w http.ResponseWriter, req *http.Request) {
	name := mux.Vars(req)["name"]
	c, cd, ok := h.controller.component(name)
	if !ok {
		h.fail(w, req, http.StatusNotFound, "component not found: "+name)
		return
	}
	h.respond(w, req, http.StatusOK, transformComponent(c, cd))
}

// Evaluate reads a CSV series from the request body and evaluates it
// against the configured components. Query parameters:
//
//	component  restrict evaluation to the named components (repeatable)
//	units      flow units of the body, "cms" (default) or "lpd"
//	format     "json" (default) or "msgpack"
func (h *Handlers) Evaluate(w http.ResponseWriter, req *http.Request) {
	query := req.URL.Query()
	if _, err := responseformat.ParseFormat(query.Get("format")); err != nil {
		h.fail(w, req, http.StatusBadRequest, err.Error())
		return
	}

	components := h.controller.Components
	if names := query["component"]; len(names) > 0 {
		components = make([]*flows.Component, 0, len(names))
		for _, name := range names {
			c, _, ok := h.controller.component(name)
			if !ok {
				h.fail(w, req, http.StatusNotFound, "component not found: "+name)
				return
			}
			components = append(components, c)
		}
	}

	body := http.MaxBytesReader(w, req.Body, h.controller.serverConfig.MaxBodyBytes)
	in, err := dataio.ReadCSV(body, dataio.Options{
		StartOfWaterYear: h.controller.StartOfWaterYear,
		FlowUnits:        flows.FlowUnits(query.Get("units")),
	})
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			h.fail(w, req, http.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, flows.ErrData), errors.Is(err, flows.ErrConfig):
			h.fail(w, req, http.StatusBadRequest, err.Error())
		default:
			h.fail(w, req, http.StatusInternalServerError, err.Error())
		}
		return
	}

	analysis := &flows.Analysis{Input: in, Components: components, Concurrency: h.controller.serverConfig.Concurrency}
	outputs, err := analysis.Run(req.Context())
	if err != nil {
		h.fail(w, req, http.StatusServiceUnavailable, err.Error())
		return
	}

	table, err := storage.NewTable(in, outputs)
	if err != nil {
		h.fail(w, req, http.StatusInternalServerError, err.Error())
		return
	}
	doc, err := table.Document(true)
	if err != nil {
		h.fail(w, req, http.StatusInternalServerError, err.Error())
		return
	}

	h.controller.logger.Debugw("evaluated series", "rows", in.Len(), "components", len(outputs))
	h.respond(w, req, http.StatusOK, doc)
}

func (h *Handlers) respond(w http.ResponseWriter, req *http.Request, status int, data any) {
	if err := h.formatter.WriteResponse(w, req, status, data); err != nil {
		log.Errorw("error encoding response", "path", req.URL.Path, "error", err)
	}
}

func (h *Handlers) fail(w http.ResponseWriter, req *http.Request, status int, msg string) {
	if err := h.formatter.WriteError(w, req, status, msg); err != nil {
		log.Errorw("error encoding error response", "path", req.URL.Path, "error", err)
	}
}
