package handlers

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"pathfinder-backend/application/ports"
	"pathfinder-backend/application/store"
	"pathfinder-backend/pkg/api"
)

const maxDatasetUpload = 8 << 20 // 8MB

// DatasetHandler serves the dataset import/export endpoints
type DatasetHandler struct {
	store  *store.GraphStore
	logger *zap.Logger
}

// NewDatasetHandler creates a dataset handler
func NewDatasetHandler(st *store.GraphStore, logger *zap.Logger) *DatasetHandler {
	return &DatasetHandler{store: st, logger: logger}
}

// Export handles GET /dataset. The output round-trips: importing it
// reproduces an identical node and edge set.
func (h *DatasetHandler) Export(w http.ResponseWriter, r *http.Request) {
	ds, err := h.store.ExportDataset(r.Context())
	if err != nil {
		api.HandleServiceError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="graph.json"`)
	api.Success(w, http.StatusOK, ds)
}

// Import handles POST /dataset with a JSON dataset body
func (h *DatasetHandler) Import(w http.ResponseWriter, r *http.Request) {
	var ds ports.Dataset
	if err := json.NewDecoder(io.LimitReader(r.Body, maxDatasetUpload)).Decode(&ds); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid dataset: "+err.Error())
		return
	}

	if err := h.store.ImportDataset(r.Context(), ds); err != nil {
		api.HandleServiceError(w, err)
		return
	}

	h.logger.Info("Dataset imported",
		zap.Int("nodes", len(ds.Nodes)),
		zap.Int("edges", len(ds.Edges)),
	)
	api.Success(w, http.StatusNoContent, nil)
}

// ImportCSV handles POST /dataset/csv with multipart files "nodes"
// (city,latitude,longitude) and "edges" (source,target,distance). The edges
// file is optional.
func (h *DatasetHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxDatasetUpload); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	nodesFile, _, err := r.FormFile("nodes")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "missing nodes file")
		return
	}
	defer nodesFile.Close()

	ds := ports.Dataset{Nodes: make(map[string][2]float64)}
	if err := parseNodesCSV(nodesFile, &ds); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if edgesFile, _, err := r.FormFile("edges"); err == nil {
		defer edgesFile.Close()
		if err := parseEdgesCSV(edgesFile, &ds); err != nil {
			api.Error(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if err := h.store.ImportDataset(r.Context(), ds); err != nil {
		api.HandleServiceError(w, err)
		return
	}

	h.logger.Info("CSV dataset imported",
		zap.Int("nodes", len(ds.Nodes)),
		zap.Int("edges", len(ds.Edges)),
	)
	api.Success(w, http.StatusNoContent, nil)
}

// LoadSample handles POST /dataset/sample, loading the bundled Romania map
func (h *DatasetHandler) LoadSample(w http.ResponseWriter, r *http.Request) {
	ds := store.RomaniaDataset()
	if err := h.store.ImportDataset(r.Context(), ds); err != nil {
		api.HandleServiceError(w, err)
		return
	}

	h.logger.Info("Sample dataset loaded",
		zap.Int("nodes", len(ds.Nodes)),
		zap.Int("edges", len(ds.Edges)),
	)
	api.Success(w, http.StatusNoContent, nil)
}

type csvError string

func (e csvError) Error() string { return string(e) }

func parseNodesCSV(r io.Reader, ds *ports.Dataset) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return csvError("invalid nodes CSV: " + err.Error())
	}

	for i, row := range rows {
		if i == 0 && isNodeHeader(row) {
			continue
		}
		if len(row) < 3 {
			return csvError("nodes CSV rows need city, latitude and longitude columns")
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return csvError("invalid latitude for " + row[0])
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			return csvError("invalid longitude for " + row[0])
		}
		ds.Nodes[strings.TrimSpace(row[0])] = [2]float64{lat, lng}
	}
	return nil
}

func parseEdgesCSV(r io.Reader, ds *ports.Dataset) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return csvError("invalid edges CSV: " + err.Error())
	}

	for i, row := range rows {
		if i == 0 && isEdgeHeader(row) {
			continue
		}
		if len(row) < 3 {
			return csvError("edges CSV rows need source, target and distance columns")
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			return csvError("invalid distance for edge " + row[0] + " to " + row[1])
		}
		ds.Edges = append(ds.Edges, ports.DatasetEdge{
			Source: strings.TrimSpace(row[0]),
			Target: strings.TrimSpace(row[1]),
			Weight: weight,
		})
	}
	return nil
}

func isNodeHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "city")
}

func isEdgeHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "source")
}
