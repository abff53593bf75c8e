// Package crm describes the parts of the Bitrix24 REST contract the relay
// talks to: endpoint URLs and request bodies.
package crm

import (
	"errors"
	"strings"
)

const (
	// MethodStartWorkflow starts a business process template on a document.
	MethodStartWorkflow = "bizproc.workflow.start"
	// MethodUpdateDeal updates fields on a deal.
	MethodUpdateDeal = "crm.deal.update"
)

// Endpoints builds inbound-webhook URLs of the form
// {BaseURL}/{Profile}/{Token}/{method}.
type Endpoints struct {
	BaseURL string
	Profile string
	Token   string
}

// Validate reports missing URL segments.
func (e Endpoints) Validate() error {
	var errs []error
	if strings.TrimSpace(e.BaseURL) == "" {
		errs = append(errs, errors.New("crm: base url is required"))
	}
	if strings.TrimSpace(e.Profile) == "" {
		errs = append(errs, errors.New("crm: profile is required"))
	}
	if strings.TrimSpace(e.Token) == "" {
		errs = append(errs, errors.New("crm: webhook token is required"))
	}
	return errors.Join(errs...)
}

// URL returns the endpoint URL for a REST method.
func (e Endpoints) URL(method string) string {
	return strings.TrimSuffix(e.BaseURL, "/") + "/" + e.Profile + "/" + e.Token + "/" + method
}

// StartWorkflowURL returns the bizproc.workflow.start endpoint.
func (e Endpoints) StartWorkflowURL() string {
	return e.URL(MethodStartWorkflow)
}

// UpdateDealURL returns the crm.deal.update endpoint.
func (e Endpoints) UpdateDealURL() string {
	return e.URL(MethodUpdateDeal)
}

// StartWorkflowRequest is the body of bizproc.workflow.start.
type StartWorkflowRequest struct {
	TemplateID string    `json:"TEMPLATE_ID"`
	DocumentID [3]string `json:"DOCUMENT_ID"`
}

// DealDocumentID returns the document triplet identifying a deal.
func DealDocumentID(dealID string) [3]string {
	return [3]string{"crm", "CCrmDocumentDeal", "DEAL_" + dealID}
}

// NewStartWorkflowRequest builds the start payload for a deal.
func NewStartWorkflowRequest(templateID, dealID string) StartWorkflowRequest {
	return StartWorkflowRequest{
		TemplateID: templateID,
		DocumentID: DealDocumentID(dealID),
	}
}

// UpdateDealRequest is the body of crm.deal.update.
type UpdateDealRequest struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// NewUpdateDealRequest builds an update touching a single field.
func NewUpdateDealRequest(dealID, field string, value any) UpdateDealRequest {
	return UpdateDealRequest{
		ID:     dealID,
		Fields: map[string]any{field: value},
	}
}
