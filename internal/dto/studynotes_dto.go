package dto

type GenerateStudyNotesRequest struct {
	VideoUrl string `json:"video_url" validate:"required"`
}

type GenerateStudyNotesResponse struct {
	VideoId string `json:"video_id"`
	Notes   string `json:"notes"`
}
