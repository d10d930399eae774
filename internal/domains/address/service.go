package address

import (
	"context"

	"storefront-backend/internal/domains/address/model"
)

// GatewayInterface translates address operations into read -> transform -> write
// sequences against the Repository. Each mutation is one read and one conditional write.
type GatewayInterface interface {
	// FetchAll returns the user's addresses, never nil
	FetchAll(ctx context.Context, userID string) ([]model.Address, error)

	// Add appends a new address; the first address of a user always becomes default
	Add(ctx context.Context, userID string, in model.AddressInput) (*model.Address, error)

	// Update merges patch into the address with addressID
	Update(ctx context.Context, userID, addressID string, patch model.AddressPatch) error

	// Delete removes the address with addressID
	Delete(ctx context.Context, userID, addressID string) error

	// SetDefault flags exactly addressID as default and returns the written list
	SetDefault(ctx context.Context, userID, addressID string) ([]model.Address, error)

	// RepairDefault restores the single-default rule; reports whether it wrote
	RepairDefault(ctx context.Context, userID string) (bool, error)
}

// SaveRequest routes to update when ID is set, otherwise to add
type SaveRequest struct {
	ID    string
	Input model.AddressInput
	Patch model.AddressPatch
}

// StoreInterface is the per-user address cache consumed by HTTP handlers.
// Every mutation re-fetches the list before returning it.
type StoreInterface interface {
	FetchAddresses(ctx context.Context, userID string) ([]model.Address, error)
	AddAddress(ctx context.Context, userID string, in model.AddressInput) ([]model.Address, error)
	HandleSave(ctx context.Context, userID string, req SaveRequest) ([]model.Address, error)
	HandleDelete(ctx context.Context, userID, addressID string) ([]model.Address, error)
	HandleSetDefault(ctx context.Context, userID, addressID string) ([]model.Address, error)

	// Derived views over the cached list
	Addresses(ctx context.Context, userID string) []model.Address
	Loading(userID string) bool
	Default(ctx context.Context, userID string) (model.Address, bool)
	FormattedLines(ctx context.Context, userID string) map[string]string
}

// RepairScheduler enqueues a background default repair for one user
type RepairScheduler interface {
	ScheduleRepair(ctx context.Context, userID string) error
}

// Notifier surfaces a failed store operation to the user
type Notifier interface {
	Notify(ctx context.Context, userID, op string, err error)
}
