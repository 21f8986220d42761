package service

import (
	"github.com/billforge/billforge/internal/cache"
	"github.com/billforge/billforge/internal/config"
	"github.com/billforge/billforge/internal/domain/invoice"
	"github.com/billforge/billforge/internal/domain/salesreturn"
	"github.com/billforge/billforge/internal/logger"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Cache  cache.Cache

	// Repositories
	InvoiceRepo     invoice.Repository
	SalesReturnRepo salesreturn.Repository
	SequenceRepo    invoice.SequenceRepository
}
