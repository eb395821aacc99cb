package handlers

import (
	"log"
	"net/http"
	"path/filepath"

	"market-sim/internal/api/models"
	"market-sim/internal/config"
	"market-sim/internal/data"
	"market-sim/internal/model"

	"github.com/gin-gonic/gin"
)

var builtinPresets = []string{"easy", "medium", "hard"}

// CatalogHandler serves the machine catalog and the parameter presets
type CatalogHandler struct {
	presetDir string
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(presetDir string) *CatalogHandler {
	if presetDir == "" {
		presetDir = data.GetDefaultPresetDir()
	}
	if abs, err := filepath.Abs(presetDir); err == nil {
		presetDir = abs
	}
	log.Printf("CatalogHandler: Using preset directory: %s", presetDir)
	return &CatalogHandler{presetDir: presetDir}
}

// PresetDir returns the directory preset files are read from
func (h *CatalogHandler) PresetDir() string {
	return h.presetDir
}

// ListMachines handles GET /api/v1/machines
func (h *CatalogHandler) ListMachines(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"machines": model.Catalog()})
}

// ListPresets handles GET /api/v1/presets
func (h *CatalogHandler) ListPresets(c *gin.Context) {
	presets := make([]models.PresetInfo, 0, len(builtinPresets))
	for _, name := range builtinPresets {
		p, err := model.Preset(name)
		if err != nil {
			continue
		}
		presets = append(presets, models.PresetInfo{Name: name, Source: "built-in", Parameters: p})
	}

	files, err := data.ListPresetFiles(h.presetDir)
	if err != nil {
		log.Printf("CatalogHandler: Failed to read preset directory %s: %v", h.presetDir, err)
	}
	for _, f := range files {
		loaded, err := config.LoadParametersFile(f.Path)
		if err != nil {
			log.Printf("CatalogHandler: Failed to load preset file %s: %v", f.Path, err)
			continue
		}
		params := loaded.ToModelParams()
		if err := params.Validate(); err != nil {
			log.Printf("CatalogHandler: Skipping invalid preset file %s: %v", f.Path, err)
			continue
		}
		presets = append(presets, models.PresetInfo{Name: f.Name, Source: f.Path, Parameters: params})
	}

	c.JSON(http.StatusOK, gin.H{"presets": presets})
}
