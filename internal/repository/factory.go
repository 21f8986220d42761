package repository

import (
	"github.com/billforge/billforge/internal/config"
	"github.com/billforge/billforge/internal/domain/invoice"
	"github.com/billforge/billforge/internal/domain/salesreturn"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/postgres"
	"github.com/billforge/billforge/internal/repository/memory"
	postgresRepo "github.com/billforge/billforge/internal/repository/postgres"
	"github.com/billforge/billforge/internal/types"
)

// Repositories bundles all storage backends of the application. Local
// mode runs on in process stores, api mode on postgres.
type Repositories struct {
	Invoice     invoice.Repository
	SalesReturn salesreturn.Repository
	Sequence    invoice.SequenceRepository
}

func NewRepositories(cfg *config.Configuration, log *logger.Logger) (*Repositories, error) {
	if cfg.Deployment.Mode == types.ModeLocal {
		log.Infow("using in-memory repositories", "mode", cfg.Deployment.Mode)
		return &Repositories{
			Invoice:     memory.NewInMemoryInvoiceStore(),
			SalesReturn: memory.NewInMemorySalesReturnStore(),
			Sequence:    memory.NewInMemorySequenceStore(),
		}, nil
	}

	db, err := postgres.NewDB(cfg, log)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Invoice:     postgresRepo.NewInvoiceRepository(db, log),
		SalesReturn: postgresRepo.NewSalesReturnRepository(db, log),
		Sequence:    postgresRepo.NewSequenceRepository(db, log),
	}, nil
}
