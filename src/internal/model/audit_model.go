package model

type ListAuditLogsRequest struct {
	ResourceType string `json:"resourceType" validate:"required,oneof=booking quotation payment wallet"`
	ResourceID   string `json:"resourceId" validate:"required,max=64"`
	Limit        int    `json:"limit" validate:"min=0,max=500"`
}
