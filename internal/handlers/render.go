package handlers

import (
	"encoding/json"

	"ai-hub-backend/internal/models"
	"ai-hub-backend/internal/services"
)

func toServiceResponse(svc *models.Service) models.ServiceResponse {
	return models.ServiceResponse{
		ID:          svc.ID.String(),
		CreatorID:   svc.CreatorID.String(),
		Title:       svc.Title,
		Price:       svc.Price,
		Description: svc.Description,
		Tags:        svc.Tags,
		CoverURL:    svc.CoverURL,
		CreatedAt:   svc.CreatedAt,
	}
}

func toVersionResponse(v *models.OrderVersion) models.VersionResponse {
	resp := models.VersionResponse{
		ID:            v.ID.String(),
		OrderID:       v.OrderID.String(),
		VersionNumber: v.VersionNumber,
		ContentURL:    v.ContentURL,
		CreatorNotes:  v.CreatorNotes,
		Status:        v.Status,
		CreatedAt:     v.CreatedAt,
	}
	if len(v.PromptData) > 0 {
		json.Unmarshal(v.PromptData, &resp.PromptData)
	}
	if v.BuyerFeedback.Valid {
		resp.BuyerFeedback = v.BuyerFeedback.String
	}
	return resp
}

func toOrderSummary(o *models.Order) models.OrderSummary {
	summary := models.OrderSummary{
		ID:        o.ID.String(),
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	if o.Amount.Valid {
		summary.Amount = o.Amount.Float64
	}
	if len(o.ServiceSnapshot) > 0 {
		json.Unmarshal(o.ServiceSnapshot, &summary.ServiceSnapshot)
	}
	return summary
}

func toOrderResponse(view *services.OrderView) models.OrderResponse {
	o := view.Order
	resp := models.OrderResponse{
		ID:                 o.ID.String(),
		BuyerID:            o.BuyerID.String(),
		ServiceOwnerID:     o.ServiceOwnerID.String(),
		Status:             o.Status,
		Role:               string(view.Role),
		RemainingRevisions: view.RemainingRevisions,
		MaxRevisions:       view.MaxRevisions,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
	if o.ServiceID.Valid {
		resp.ServiceID = o.ServiceID.UUID.String()
	}
	if o.Amount.Valid {
		resp.Amount = o.Amount.Float64
	}
	if len(o.ServiceSnapshot) > 0 {
		json.Unmarshal(o.ServiceSnapshot, &resp.ServiceSnapshot)
	}
	for i := range view.Versions {
		resp.Versions = append(resp.Versions, toVersionResponse(&view.Versions[i]))
	}
	return resp
}

func toMessageResponse(m *models.Message) models.MessageResponse {
	return models.MessageResponse{
		ID:        m.ID.String(),
		OrderID:   m.OrderID.String(),
		SenderID:  m.SenderID.String(),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func toProfileResponse(p *models.Profile) models.ProfileResponse {
	resp := models.ProfileResponse{
		ID:        p.ID.String(),
		CreatedAt: p.CreatedAt,
	}
	if p.DisplayName.Valid {
		resp.DisplayName = p.DisplayName.String
	}
	if p.AvatarURL.Valid {
		resp.AvatarURL = p.AvatarURL.String
	}
	if p.Bio.Valid {
		resp.Bio = p.Bio.String
	}
	return resp
}
