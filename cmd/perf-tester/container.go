package main

import (
	"perf-tester/internal/application/orchestrator"
	"perf-tester/internal/domain"
	"perf-tester/internal/infra"
)

type application struct {
	Config       infra.Config
	Logger       *infra.Logger
	Store        domain.RecordStore
	Service      domain.ReportService
	Orchestrator *orchestrator.Orchestrator
}

func newApplication(cfg infra.Config, logger *infra.Logger, store domain.RecordStore, service domain.ReportService, orch *orchestrator.Orchestrator) *application {
	return &application{
		Config:       cfg,
		Logger:       logger,
		Store:        store,
		Service:      service,
		Orchestrator: orch,
	}
}
