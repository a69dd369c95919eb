package folders

import (
	"net/http"

	"omninews/internal/core"
	"omninews/internal/features/views"
	"omninews/internal/models"
)

// Feature serves the folder view
type Feature struct {
	*core.BaseFeature
	service *Service
	errs    views.ErrorWriter
}

// NewFeature creates the folder view
func NewFeature(logger *core.Logger, service *Service, errs views.ErrorWriter) *Feature {
	return &Feature{
		BaseFeature: core.NewBaseFeature("folders", "Organize channels into folders", true, logger),
		service:     service,
		errs:        errs,
	}
}

// Routes returns the HTTP routes for the folder view
func (f *Feature) Routes() []core.Route {
	return []core.Route{
		{Method: http.MethodGet, Path: "/folders", Handler: f.List},
		{Method: http.MethodPost, Path: "/folders", Handler: f.Create},
		{Method: http.MethodPut, Path: "/folders/{id}", Handler: f.Rename},
		{Method: http.MethodDelete, Path: "/folders/{id}", Handler: f.Delete},
		{Method: http.MethodPost, Path: "/folders/{id}/channels", Handler: f.AddChannel},
		{Method: http.MethodDelete, Path: "/folders/{id}/channels/{channelID}", Handler: f.RemoveChannel},
	}
}

func (f *Feature) List(w http.ResponseWriter, r *http.Request) {
	folders, err := f.service.List(r.Context())
	if err != nil {
		f.errs.HandleError(w, r, err)
		return
	}
	core.WriteJSON(w, http.StatusOK, views.NewList(folders))
}

func (f *Feature) Create(w http.ResponseWriter, r *http.Request) {
	var req models.FolderRequest
	if err := views.DecodeJSON(r, &req); err != nil {
		f.errs.HandleError(w, r, err)
		return
	}

	id, err := f.service.Create(r.Context(), req.FolderName)
	if err != nil {
		f.errs.HandleError(w, r, err)
		return
	}
	core.WriteJSON(w, http.StatusCreated, map[string]int64{"folder_id": id})
}

func (f *Feature) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := views.IDParam(r, "id")
	if err != nil {
		f.errs.HandleError(w, r, err)
		return
	}

	var req models.FolderRequest
	if err := views.DecodeJSON(r, &req); err != nil {
		f.errs.HandleError(w, r, err)
		return
	}

	if err := f.service.Rename(r.Context(), id, req.FolderName); err != nil {
		f.errs.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (f *Feature) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := views.IDParam(r, "id")
	if err != nil {
		f.errs.HandleError(w, r, err)
		return
	}

	if err := f.service.Delete(r.Context(), id); err != nil {
		f.errs.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (f *Feature) AddChannel(w http.ResponseWriter, r *http.Request) {
	id, err := views.IDParam(r, "id")
	if err != nil {
		f.errs.HandleError(w, r, err)
		return
	}

	var req models.FolderChannelRequest
	if err := views.DecodeJSON(r, &req); err != nil {
		f.errs.HandleError(w, r, err)
		return
	}
	if req.ChannelID <= 0 {
		f.errs.HandleError(w, r, core.NewValidationError("channel_id is required", nil))
		return
	}

	if err := f.service.AddChannel(r.Context(), id, req.ChannelID); err != nil {
		f.errs.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (f *Feature) RemoveChannel(w http.ResponseWriter, r *http.Request) {
	id, err := views.IDParam(r, "id")
	if err != nil {
		f.errs.HandleError(w, r, err)
		return
	}
	channelID, err := views.IDParam(r, "channelID")
	if err != nil {
		f.errs.HandleError(w, r, err)
		return
	}

	if err := f.service.RemoveChannel(r.Context(), id, channelID); err != nil {
		f.errs.HandleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
