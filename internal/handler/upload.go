package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"geocapture/internal/config"
	"geocapture/internal/dto"
	"geocapture/internal/logger"
	"geocapture/internal/metrics"
	"geocapture/internal/service/capture"
)

// Multipart field names accepted by UploadHandler.
const (
	FieldFile      = "file"
	FieldLatitude  = "latitude"
	FieldLongitude = "longitude"
)

// UploadHandler stores one image with its coordinates.
// All three fields must be present; their contents are not validated.
func UploadHandler(svc *capture.Service, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := r.ParseMultipartForm(cfg.MaxUploadMemory)
		if err != nil && !errors.Is(err, http.ErrNotMultipart) {
			logger.Warning("Error parsing upload body from %s: %v", r.RemoteAddr, err)
			metrics.RecordUploadFailure(metrics.StageRequest)
			http.Error(w, "There was an error parsing the body", http.StatusBadRequest)
			return
		}
		if r.MultipartForm != nil {
			defer r.MultipartForm.RemoveAll()
		}

		if missing := missingFields(r.MultipartForm); len(missing) > 0 {
			metrics.RecordUploadFailure(metrics.StageRequest)
			body := dto.ValidationError{}
			for _, field := range missing {
				body.Detail = append(body.Detail, dto.ValidationDetail{
					Loc:  []string{"body", field},
					Msg:  "field required",
					Type: "value_error.missing",
				})
			}
			writeJSON(w, http.StatusUnprocessableEntity, body)
			return
		}

		header := r.MultipartForm.File[FieldFile][0]
		file, err := header.Open()
		if err != nil {
			logger.Error("Error opening uploaded file %s: %v", header.Filename, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		defer file.Close()

		latitude := r.MultipartForm.Value[FieldLatitude][0]
		longitude := r.MultipartForm.Value[FieldLongitude][0]

		stored, err := svc.Record(r.Context(), header.Filename, file, latitude, longitude)
		if err != nil {
			logger.Error("Error storing capture from %s: %v", r.RemoteAddr, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		response := dto.UploadResponse{
			Status:   "success",
			Message:  "Data received",
			File:     stored.Filename,
			Location: dto.Location{Lat: latitude, Lon: longitude},
		}
		if err := writeJSON(w, http.StatusOK, response); err != nil {
			logger.Error("Error encoding JSON response: %v", err)
		}
	}
}

// missingFields lists required fields absent from form, in declaration order.
func missingFields(form *multipart.Form) []string {
	if form == nil {
		return []string{FieldFile, FieldLatitude, FieldLongitude}
	}

	var missing []string
	if len(form.File[FieldFile]) == 0 {
		missing = append(missing, FieldFile)
	}
	for _, field := range []string{FieldLatitude, FieldLongitude} {
		if len(form.Value[field]) == 0 {
			missing = append(missing, field)
		}
	}
	return missing
}
