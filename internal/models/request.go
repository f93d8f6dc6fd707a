package models

type CreateServiceRequest struct {
	Title       string   `json:"title" binding:"required"`
	Price       float64  `json:"price" binding:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	CoverURL    string   `json:"cover_url"`
}

type CreateOrderRequest struct {
	ServiceID string `json:"service_id" binding:"required"`
	// PackageName selects which package of the service is being bought.
	// It is frozen into the order's service_snapshot.
	PackageName string `json:"package_name"`
}

type RevisionRequest struct {
	Feedback string `json:"feedback"`
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Bio         string `json:"bio"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
