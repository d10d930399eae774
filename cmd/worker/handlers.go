package main

import (
	"github.com/hibiken/asynq"

	addressJob "storefront-backend/internal/domains/address/job"
	"storefront-backend/internal/shared"
	"storefront-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	repairDefault *addressJob.RepairDefaultHandler
	sweepDefaults *addressJob.SweepDefaultsHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		repairDefault: addressJob.NewRepairDefaultHandler(c.AddressGateway),
		sweepDefaults: addressJob.NewSweepDefaultsHandler(c.AddressRepo, c.AddressGateway),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Address maintenance
	mux.HandleFunc(shared.TypeRepairDefaultAddress, h.repairDefault.ProcessTask)
	mux.HandleFunc(shared.TypeSweepDefaultAddress, h.sweepDefaults.ProcessTask)
}
