package dto

// Location echoes the submitted coordinates exactly as they were received.
type Location struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// UploadResponse is returned by POST /api/upload on success.
type UploadResponse struct {
	Status   string   `json:"status"`
	Message  string   `json:"message"`
	File     string   `json:"file"`
	Location Location `json:"location"`
}

// ValidationDetail describes a single rejected request field.
type ValidationDetail struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationError is the 422 body for uploads with missing fields.
type ValidationError struct {
	Detail []ValidationDetail `json:"detail"`
}
