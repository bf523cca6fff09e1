package cmd

import (
	"database/sql"

	"fundtrack/internal/app"
	"fundtrack/internal/config"
	"fundtrack/internal/db"
	"fundtrack/internal/logger"
	"fundtrack/internal/repository"
	"fundtrack/internal/service"

	"go.uber.org/zap"
)

// handler is the arena of dependencies: everything is constructed here,
// once, and passed down explicitly.
type handler struct {
	Db     *sql.DB
	Logger *zap.SugaredLogger

	FundRepository repository.FundRepository
	TradingService service.TradingService
	Confirmation   app.ConfirmationHandler
	Rebalancer     app.RebalancerHandler
}

func initializeDependencies() (*handler, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	log := logger.New()

	calendarRepository := repository.NewCalendarRepository(dbConn)
	tradeRepository := repository.NewTradeRepository(dbConn)
	navRepository := repository.NewNavRepository(dbConn)
	fundRepository := repository.NewFundRepository(dbConn)
	allocConfigRepository := repository.NewAllocConfigRepository(dbConn)

	calendarService := service.NewCalendarService(calendarRepository)
	settlementService := service.NewSettlementService(calendarService)
	navQualityService := service.NewNavQualityService(navRepository, calendarService)

	return &handler{
		Db:             dbConn,
		Logger:         log,
		FundRepository: fundRepository,
		TradingService: service.NewTradingService(
			dbConn, tradeRepository, fundRepository, settlementService,
		),
		Confirmation: app.ConfirmationHandler{
			Db:              dbConn,
			TradeRepository: tradeRepository,
			NavRepository:   navRepository,
			Logger:          log,
		},
		Rebalancer: app.RebalancerHandler{
			AllocConfigRepository: allocConfigRepository,
			FundRepository:        fundRepository,
			Positions:             tradeRepository,
			NavQuality:            navQualityService,
			Calendar:              calendarService,
			Logger:                log,
		},
	}, nil
}

func (h *handler) close() {
	if err := h.Db.Close(); err != nil {
		h.Logger.Errorw("failed to close db", "error", err)
	}
}
