package video

import "github.com/ahmetcoskunkizilkaya/videotube-backend/internal/models"

// --- DTOs ---

type PublishRequest struct {
	Title       string  `json:"title" form:"title"`
	Description string  `json:"description" form:"description"`
	Duration    float64 `json:"duration" form:"duration"`
}

type UpdateRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
}

type PublishStatusRequest struct {
	PublishStatus *bool `json:"publishStatus"`
}

type ListQuery struct {
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
	Query    string `query:"query"`
	SortBy   string `query:"sortBy"`
	SortType string `query:"sortType"`
	UserID   string `query:"userId"`
}

type ListResponse struct {
	Videos []models.Video `json:"videos"`
	Total  int64          `json:"total"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
}
