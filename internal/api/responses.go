package api

import (
	"time"

	"demo-generator/internal/models"
)

// ServiceStatus reports which dependencies have credentials.
type ServiceStatus struct {
	TextGen bool `json:"textGen"`
	Email   bool `json:"email"`
	Store   bool `json:"store"`
}

// Degraded is true when no dependency is available at all.
func (s ServiceStatus) Degraded() bool {
	return !s.TextGen && !s.Email && !s.Store
}

type HealthResponse struct {
	Status    string        `json:"status"`
	Services  ServiceStatus `json:"services"`
	Timestamp time.Time     `json:"timestamp"`
	Version   string        `json:"version,omitempty"`
}

type ContentSummary struct {
	PostsCount    int  `json:"postsCount"`
	GraphicsCount int  `json:"graphicsCount"`
	HasInsight    bool `json:"hasInsight"`
	HasPDF        bool `json:"hasPdf"`
}

// DemoResponse is the 200 body of the demo endpoints. ProcessingTime is in milliseconds.
type DemoResponse struct {
	Success        bool           `json:"success"`
	DemoID         string         `json:"demoId"`
	ProcessingTime int64          `json:"processingTime"`
	EmailSent      bool           `json:"emailSent"`
	Costs          models.Costs   `json:"costs"`
	Warnings       []string       `json:"warnings"`
	Errors         []string       `json:"errors"`
	Content        ContentSummary `json:"content"`
}

// FailureResponse is the 400 body when validation or content generation failed.
type FailureResponse struct {
	Success  bool         `json:"success"`
	Errors   []string     `json:"errors"`
	Warnings []string     `json:"warnings"`
	Costs    models.Costs `json:"costs"`
}

func newDemoResponse(r *models.DemoResult) DemoResponse {
	return DemoResponse{
		Success:        true,
		DemoID:         r.DemoID,
		ProcessingTime: r.ProcessingTime.Milliseconds(),
		EmailSent:      r.EmailSent,
		Costs:          r.Costs,
		Warnings:       nonNil(r.Warnings),
		Errors:         nonNil(r.Errors),
		Content: ContentSummary{
			PostsCount:    r.PostsCount(),
			GraphicsCount: r.GraphicsCount(),
			HasInsight:    r.HasInsight(),
			HasPDF:        r.HasPDF(),
		},
	}
}

func newFailureResponse(r *models.DemoResult) FailureResponse {
	return FailureResponse{
		Success:  false,
		Errors:   nonNil(r.Errors),
		Warnings: nonNil(r.Warnings),
		Costs:    r.Costs,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
