package handler

import (
	"lexvault/internal/usecase"
)

var (
	documentHandler *DocumentHandler
	auditHandler    *AuditHandler
)

func Setup(documentUseCase *usecase.DocumentUseCase, auditUseCase *usecase.AuditUseCase) {
	documentHandler = NewDocumentHandler(documentUseCase)
	auditHandler = NewAuditHandler(auditUseCase)
}

func GetDocumentHandler() *DocumentHandler {
	return documentHandler
}

func GetAuditHandler() *AuditHandler {
	return auditHandler
}
