package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nurpe/amc-manager/internal/model"
	"github.com/nurpe/amc-manager/internal/store"
)

const (
	CustomerIDPrefix = "CUST"
	ContractIDPrefix = "C"
)

var ErrNotFound = errors.New("record not found")

// Defaults are the collections used when the store holds nothing valid.
type Defaults struct {
	Customers []model.Customer
	Contracts []model.Contract
}

// AMCRepository owns the customer and contract collections and writes the
// full collection back to the store after every mutation. Mutations are
// serialized so that no read-modify-write is based on a stale snapshot.
type AMCRepository struct {
	mu        sync.RWMutex
	store     store.BlobStore
	ids       IDGenerator
	log       zerolog.Logger
	customers []model.Customer
	contracts []model.Contract
}

func NewAMCRepository(ctx context.Context, s store.BlobStore, ids IDGenerator, defaults Defaults, log zerolog.Logger) *AMCRepository {
	log = log.With().Str("component", "amc_repository").Logger()
	r := &AMCRepository{
		store:     s,
		ids:       ids,
		log:       log,
		customers: store.Load(ctx, s, store.KeyCustomers, defaults.Customers, log),
		contracts: store.Load(ctx, s, store.KeyContracts, defaults.Contracts, log),
	}
	log.Info().
		Int("customers", len(r.customers)).
		Int("contracts", len(r.contracts)).
		Msg("collections loaded")
	return r
}

func (r *AMCRepository) Customers() []model.Customer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]model.Customer{}, r.customers...)
}

func (r *AMCRepository) Contracts() []model.Contract {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]model.Contract{}, r.contracts...)
}

// Snapshot returns both collections read under the same lock.
func (r *AMCRepository) Snapshot() ([]model.Contract, []model.Customer) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]model.Contract{}, r.contracts...), append([]model.Customer{}, r.customers...)
}

func (r *AMCRepository) CustomerByID(id string) (model.Customer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := indexCustomer(r.customers, id); i >= 0 {
		return r.customers[i], true
	}
	return model.Customer{}, false
}

func (r *AMCRepository) ContractByID(id string) (model.Contract, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := indexContract(r.contracts, id); i >= 0 {
		return r.contracts[i], true
	}
	return model.Contract{}, false
}

func (r *AMCRepository) AddCustomer(ctx context.Context, input model.NewCustomer) (model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	customer := model.Customer{
		ID:     r.mint(CustomerIDPrefix, func(id string) bool { return indexCustomer(r.customers, id) >= 0 }),
		Name:   input.Name,
		Email:  input.Email,
		Phone:  input.Phone,
		Status: model.CustomerStatusActive,
	}

	next := append(append(make([]model.Customer, 0, len(r.customers)+1), r.customers...), customer)
	if err := store.Save(ctx, r.store, store.KeyCustomers, next); err != nil {
		return model.Customer{}, fmt.Errorf("save customers: %w", err)
	}
	r.customers = next
	return customer, nil
}

// UpdateCustomer replaces the stored customer with the same identifier.
func (r *AMCRepository) UpdateCustomer(ctx context.Context, customer model.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := indexCustomer(r.customers, customer.ID)
	if i < 0 {
		return fmt.Errorf("customer %s: %w", customer.ID, ErrNotFound)
	}

	next := append([]model.Customer{}, r.customers...)
	next[i] = customer
	if err := store.Save(ctx, r.store, store.KeyCustomers, next); err != nil {
		return fmt.Errorf("save customers: %w", err)
	}
	r.customers = next
	return nil
}

// AddContract stores a new contract. New contracts are always recorded as
// Paid and their renewal date is fixed here from the deal date and term.
func (r *AMCRepository) AddContract(ctx context.Context, input model.NewContract) (model.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contract := model.Contract{
		ID:               r.mint(ContractIDPrefix, func(id string) bool { return indexContract(r.contracts, id) >= 0 }),
		CustomerID:       input.CustomerID,
		DealClosedDate:   input.DealClosedDate,
		DealAmount:       input.DealAmount,
		AMCAmount:        input.AMCAmount,
		DurationInMonths: input.DurationInMonths,
		PaymentStatus:    model.PaymentStatusPaid,
		RenewalDate:      model.RenewalDateFor(input.DealClosedDate, input.DurationInMonths),
	}

	next := append(append(make([]model.Contract, 0, len(r.contracts)+1), r.contracts...), contract)
	if err := store.Save(ctx, r.store, store.KeyContracts, next); err != nil {
		return model.Contract{}, fmt.Errorf("save contracts: %w", err)
	}
	r.contracts = next
	return contract, nil
}

// UpdateContract replaces the stored contract with the same identifier as
// given. The renewal date is taken as-is and not recomputed.
func (r *AMCRepository) UpdateContract(ctx context.Context, contract model.Contract) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := indexContract(r.contracts, contract.ID)
	if i < 0 {
		return fmt.Errorf("contract %s: %w", contract.ID, ErrNotFound)
	}

	next := append([]model.Contract{}, r.contracts...)
	next[i] = contract
	if err := store.Save(ctx, r.store, store.KeyContracts, next); err != nil {
		return fmt.Errorf("save contracts: %w", err)
	}
	r.contracts = next
	return nil
}

// mint asks the generator until it yields an identifier not already taken
// by a loaded record. Must be called with r.mu held.
func (r *AMCRepository) mint(prefix string, taken func(string) bool) string {
	for {
		id := r.ids.Next(prefix)
		if !taken(id) {
			return id
		}
		r.log.Debug().Str("id", id).Msg("identifier already in use, minting another")
	}
}

func indexCustomer(customers []model.Customer, id string) int {
	for i := range customers {
		if customers[i].ID == id {
			return i
		}
	}
	return -1
}

func indexContract(contracts []model.Contract, id string) int {
	for i := range contracts {
		if contracts[i].ID == id {
			return i
		}
	}
	return -1
}
