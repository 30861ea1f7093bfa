package controllers

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"

	"catalogd/internal/models"
	"catalogd/internal/providers"
	"catalogd/internal/services"
	"catalogd/internal/snapshot"
	"catalogd/internal/validator"
)

const maxRequestBodySize = 1 << 20 // 1 MB

// AdminController exposes the operator surface: the activity trail,
// configuration backups, site configuration edits and schema validation
// of incoming documents.
type AdminController struct {
	logger   providers.Logger
	activity *snapshot.ActivityLog
	backups  *snapshot.BackupStore
	catalog  services.CatalogServiceInterface
}

func NewAdminController(logger providers.Logger, activity *snapshot.ActivityLog, backups *snapshot.BackupStore, catalog services.CatalogServiceInterface) *AdminController {
	return &AdminController{
		logger:   logger,
		activity: activity,
		backups:  backups,
		catalog:  catalog,
	}
}

type activityRequest struct {
	Type        string `json:"type"`
	Target      string `json:"target"`
	Description string `json:"description"`
}

func (ac *AdminController) RecordActivity(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload activityRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	typ, ok := snapshot.ParseActivityType(payload.Type)
	if !ok {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	entry := ac.activity.Add(typ, payload.Target, payload.Description)
	respondJSON(w, http.StatusCreated, entry)
}

func (ac *AdminController) GetActivities(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, struct {
		Items []snapshot.Activity `json:"items"`
		Total int                 `json:"total"`
	}{Items: ac.activity.Activities(), Total: ac.activity.Len()})
}

func (ac *AdminController) ClearActivities(w http.ResponseWriter, r *http.Request) {
	if err := ac.activity.Clear(); err != nil {
		ac.logger.Errorf(providers.TypeAdmin, "clearing activity log: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type backupRequest struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (ac *AdminController) CreateBackup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload backupRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if payload.Type == "" || len(payload.Data) == 0 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	backup, err := ac.backups.Create(payload.Type, payload.Data)
	if err != nil {
		ac.logger.Errorf(providers.TypeAdmin, "creating backup: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.activity.Add(snapshot.ActivityConfig, backup.ID, "backup created")
	respondJSON(w, http.StatusCreated, backup)
}

func (ac *AdminController) GetBackups(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, struct {
		Items []snapshot.Backup `json:"items"`
		Total int               `json:"total"`
	}{Items: ac.backups.Backups(), Total: ac.backups.Count()})
}

type restoreRequest struct {
	ID string `json:"id"`
}

func (ac *AdminController) RestoreBackup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload restoreRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.ID == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	data, err := ac.backups.Restore(payload.ID)
	switch {
	case errors.Is(err, snapshot.ErrBackupNotFound):
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	case errors.Is(err, snapshot.ErrBackupCorrupted):
		http.Error(w, "Conflict", http.StatusConflict)
		return
	case err != nil:
		ac.logger.Errorf(providers.TypeAdmin, "restoring backup %s: %v", payload.ID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.activity.Add(snapshot.ActivityConfig, payload.ID, "backup restored")
	respondJSON(w, http.StatusOK, struct {
		ID   string          `json:"id"`
		Data json.RawMessage `json:"data"`
	}{ID: payload.ID, Data: data})
}

type deleteBackupRequest struct {
	ID string `json:"id"`
}

func (ac *AdminController) DeleteBackup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload deleteBackupRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.ID == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	ac.backups.Delete(payload.ID)
	w.WriteHeader(http.StatusNoContent)
}

type siteInfoUpdateRequest struct {
	Fields map[string]any `json:"fields"`
}

// UpdateSiteInfo merges incoming fields into the site configuration.
// The merged document is validated first; nothing is written when it
// fails the schema.
func (ac *AdminController) UpdateSiteInfo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload siteInfoUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || len(payload.Fields) == 0 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	store := ac.catalog.Config()
	if err := store.LoadSiteInfo(r.Context()); err != nil {
		http.Error(w, store.Err(), http.StatusServiceUnavailable)
		return
	}
	info, _ := store.SiteInfo()

	merged := make(map[string]any, len(info)+len(payload.Fields))
	for k, v := range info {
		merged[k] = v
	}
	for k, v := range payload.Fields {
		merged[k] = v
	}
	if result := validator.Validate(merged, validator.SiteInfoSchema); !result.IsValid {
		respondJSON(w, http.StatusBadRequest, result)
		return
	}

	store.UpdateSiteInfo(payload.Fields)
	ac.activity.Add(snapshot.ActivityConfig, "site-info", "site info updated")
	updated, _ := store.SiteInfo()
	respondJSON(w, http.StatusOK, struct {
		SiteInfo models.SiteInfo `json:"siteInfo"`
		Dirty    bool            `json:"dirty"`
	}{SiteInfo: updated, Dirty: store.Dirty()})
}

// ExportSiteInfo hands out the current site configuration for
// deployment and marks the pending edits as saved.
func (ac *AdminController) ExportSiteInfo(w http.ResponseWriter, r *http.Request) {
	store := ac.catalog.Config()
	if err := store.LoadSiteInfo(r.Context()); err != nil {
		http.Error(w, store.Err(), http.StatusServiceUnavailable)
		return
	}
	info, _ := store.SiteInfo()
	store.MarkSaved()
	ac.activity.Add(snapshot.ActivityDownload, "site-info", "site info exported")
	respondJSON(w, http.StatusOK, info)
}

type pageUpdateRequest struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

func (ac *AdminController) UpdatePage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload pageUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || len(payload.Fields) == 0 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if !pageIDPattern.MatchString(payload.ID) {
		http.Error(w, "invalid page id", http.StatusBadRequest)
		return
	}

	store := ac.catalog.Config()
	page, err := store.Page(r.Context(), payload.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	merged := make(map[string]any, len(page)+len(payload.Fields))
	for k, v := range page {
		merged[k] = v
	}
	for k, v := range payload.Fields {
		merged[k] = v
	}
	if result := validator.Validate(merged, validator.PageSchema); !result.IsValid {
		respondJSON(w, http.StatusBadRequest, result)
		return
	}

	store.UpdatePage(payload.ID, payload.Fields)
	ac.activity.Add(snapshot.ActivityModify, payload.ID, "page updated")
	updated, _ := store.Page(r.Context(), payload.ID)
	respondJSON(w, http.StatusOK, updated)
}

type validateRequest struct {
	Kind     string         `json:"kind"`
	Document map[string]any `json:"document"`
}

func (ac *AdminController) ValidateDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload validateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	schema, err := validator.SchemaFor(payload.Kind)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, validator.Validate(payload.Document, schema))
}
