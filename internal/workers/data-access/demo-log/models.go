package demolog

import (
	"time"

	"demo-generator/internal/models"
)

// Entry is one row of demo_logs.
type Entry struct {
	DemoID         string
	BusinessName   string
	Industry       string
	RecipientEmail string
	Success        bool
	EmailSent      bool
	PostsCount     int
	GraphicsCount  int
	HasPDF         bool
	ProcessingTime time.Duration
	TokensUsed     int
	EstimatedCost  float64
	Errors         []string
	Warnings       []string
}

// EntryFrom summarizes a finished run. Generated content is not stored.
func EntryFrom(req models.DemoRequest, result *models.DemoResult) Entry {
	return Entry{
		DemoID:         result.DemoID,
		BusinessName:   req.BusinessName,
		Industry:       req.Industry,
		RecipientEmail: req.RecipientEmail,
		Success:        result.Success,
		EmailSent:      result.EmailSent,
		PostsCount:     result.PostsCount(),
		GraphicsCount:  result.GraphicsCount(),
		HasPDF:         result.HasPDF(),
		ProcessingTime: result.ProcessingTime,
		TokensUsed:     result.Costs.TokensUsed,
		EstimatedCost:  result.Costs.EstimatedCost,
		Errors:         result.Errors,
		Warnings:       result.Warnings,
	}
}

// IndustryStats aggregates logged demos for one industry.
type IndustryStats struct {
	Industry     string  `json:"industry"`
	Demos        int     `json:"demos"`
	Successful   int     `json:"successful"`
	EmailsSent   int     `json:"emailsSent"`
	TotalCost    float64 `json:"totalCost"`
	AvgProcessMs float64 `json:"avgProcessingMs"`
}
