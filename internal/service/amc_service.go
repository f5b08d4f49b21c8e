package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nurpe/amc-manager/internal/config"
	"github.com/nurpe/amc-manager/internal/dashboard"
	"github.com/nurpe/amc-manager/internal/email"
	"github.com/nurpe/amc-manager/internal/model"
	"github.com/nurpe/amc-manager/internal/repository"
	"github.com/nurpe/amc-manager/internal/status"
)

type InvoiceGenerator interface {
	Generate(doc model.InvoiceDocument) ([]byte, error)
}

type ExcelGenerator interface {
	Generate(report model.DashboardReport) ([]byte, error)
}

type ReminderDrafter interface {
	Draft(ctx context.Context, contract model.Contract, customer model.Customer) email.Draft
}

type AMCService struct {
	repo    *repository.AMCRepository
	invoice InvoiceGenerator
	excel   ExcelGenerator
	drafter ReminderDrafter
	issuer  model.Issuer
	taxRate float64
}

type CreateCustomerInput struct {
	Name  string
	Email string
	Phone string
}

type CreateContractInput struct {
	CustomerID       string
	DealClosedDate   time.Time
	DealAmount       decimal.Decimal
	AMCAmount        decimal.Decimal
	DurationInMonths model.DurationMonths
}

type FileResult struct {
	FileName string
	Content  []byte
}

func NewAMCService(
	repo *repository.AMCRepository,
	invoice InvoiceGenerator,
	excel ExcelGenerator,
	drafter ReminderDrafter,
	cfg *config.Config,
) *AMCService {
	return &AMCService{
		repo:    repo,
		invoice: invoice,
		excel:   excel,
		drafter: drafter,
		issuer: model.Issuer{
			Name:         cfg.Invoice.CompanyName,
			AddressLine1: cfg.Invoice.AddressLine1,
			AddressLine2: cfg.Invoice.AddressLine2,
		},
		taxRate: cfg.Invoice.TaxRate,
	}
}

func (s *AMCService) Dashboard(now time.Time) model.DashboardReport {
	contracts, customers := s.repo.Snapshot()
	return dashboard.BuildReport(contracts, customers, now)
}

func (s *AMCService) ExportDashboard(now time.Time) (*FileResult, error) {
	content, err := s.excel.Generate(s.Dashboard(now))
	if err != nil {
		return nil, err
	}
	return &FileResult{
		FileName: fmt.Sprintf("amc-dashboard-%s.xlsx", now.Format("20060102")),
		Content:  content,
	}, nil
}

func (s *AMCService) ListCustomers() []model.Customer {
	return s.repo.Customers()
}

func (s *AMCService) GetCustomer(id string) (model.Customer, error) {
	customer, ok := s.repo.CustomerByID(id)
	if !ok {
		return model.Customer{}, fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	return customer, nil
}

func (s *AMCService) CreateCustomer(ctx context.Context, input CreateCustomerInput) (model.Customer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return model.Customer{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	return s.repo.AddCustomer(ctx, model.NewCustomer{
		Name:  name,
		Email: strings.TrimSpace(input.Email),
		Phone: strings.TrimSpace(input.Phone),
	})
}

func (s *AMCService) UpdateCustomer(ctx context.Context, customer model.Customer) (model.Customer, error) {
	customer.Name = strings.TrimSpace(customer.Name)
	if customer.Name == "" {
		return model.Customer{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !customer.Status.Valid() {
		return model.Customer{}, fmt.Errorf("%w: invalid customer status", ErrInvalidInput)
	}
	if err := s.repo.UpdateCustomer(ctx, customer); err != nil {
		return model.Customer{}, mapRepoError(err)
	}
	return customer, nil
}

func (s *AMCService) SetCustomerStatus(ctx context.Context, id string, st model.CustomerStatus) (model.Customer, error) {
	if !st.Valid() {
		return model.Customer{}, fmt.Errorf("%w: invalid customer status", ErrInvalidInput)
	}
	customer, err := s.GetCustomer(id)
	if err != nil {
		return model.Customer{}, err
	}
	customer.Status = st
	if err := s.repo.UpdateCustomer(ctx, customer); err != nil {
		return model.Customer{}, mapRepoError(err)
	}
	return customer, nil
}

// ListContracts returns every contract with the status to display at now.
func (s *AMCService) ListContracts(now time.Time) []model.ContractRow {
	contracts, customers := s.repo.Snapshot()
	return dashboard.BuildContractRows(contracts, dashboard.LookupFrom(customers), now)
}

func (s *AMCService) GetContract(id string, now time.Time) (model.ContractRow, error) {
	contract, ok := s.repo.ContractByID(id)
	if !ok {
		return model.ContractRow{}, fmt.Errorf("contract %s: %w", id, ErrNotFound)
	}
	return model.ContractRow{
		Contract:        contract,
		CustomerName:    dashboard.CustomerName(s.repo.CustomerByID, contract.CustomerID),
		EffectiveStatus: status.EffectiveStatus(contract, now),
	}, nil
}

func (s *AMCService) CreateContract(ctx context.Context, input CreateContractInput) (model.Contract, error) {
	if strings.TrimSpace(input.CustomerID) == "" {
		return model.Contract{}, fmt.Errorf("%w: customer_id is required", ErrInvalidInput)
	}
	if _, ok := s.repo.CustomerByID(input.CustomerID); !ok {
		return model.Contract{}, fmt.Errorf("%w: customer %s does not exist", ErrInvalidInput, input.CustomerID)
	}
	if err := validateContractFields(input.DealClosedDate, input.DealAmount, input.AMCAmount, input.DurationInMonths); err != nil {
		return model.Contract{}, err
	}
	return s.repo.AddContract(ctx, model.NewContract{
		CustomerID:       input.CustomerID,
		DealClosedDate:   input.DealClosedDate,
		DealAmount:       input.DealAmount,
		AMCAmount:        input.AMCAmount,
		DurationInMonths: input.DurationInMonths,
	})
}

// UpdateContract replaces a contract. The renewal date is stored as given;
// changing the deal date or term does not move it.
func (s *AMCService) UpdateContract(ctx context.Context, contract model.Contract) (model.Contract, error) {
	if err := validateContractFields(contract.DealClosedDate, contract.DealAmount, contract.AMCAmount, contract.DurationInMonths); err != nil {
		return model.Contract{}, err
	}
	if !contract.PaymentStatus.Valid() {
		return model.Contract{}, fmt.Errorf("%w: invalid payment status", ErrInvalidInput)
	}
	if contract.RenewalDate.IsZero() {
		return model.Contract{}, fmt.Errorf("%w: renewal_date is required", ErrInvalidInput)
	}
	if err := s.repo.UpdateContract(ctx, contract); err != nil {
		return model.Contract{}, mapRepoError(err)
	}
	return contract, nil
}

func (s *AMCService) MarkContractPaid(ctx context.Context, id string) (model.Contract, error) {
	contract, ok := s.repo.ContractByID(id)
	if !ok {
		return model.Contract{}, fmt.Errorf("contract %s: %w", id, ErrNotFound)
	}
	contract.PaymentStatus = model.PaymentStatusPaid
	if err := s.repo.UpdateContract(ctx, contract); err != nil {
		return model.Contract{}, mapRepoError(err)
	}
	return contract, nil
}

func (s *AMCService) Invoice(id string, now time.Time) (*FileResult, error) {
	contract, ok := s.repo.ContractByID(id)
	if !ok {
		return nil, fmt.Errorf("contract %s: %w", id, ErrNotFound)
	}
	doc := model.InvoiceDocument{
		Issuer:   s.issuer,
		Contract: contract,
		IssuedAt: now,
		TaxRate:  s.taxRate,
	}
	if customer, ok := s.repo.CustomerByID(contract.CustomerID); ok {
		doc.Customer = &customer
	}

	content, err := s.invoice.Generate(doc)
	if err != nil {
		return nil, err
	}
	return &FileResult{
		FileName: fmt.Sprintf("invoice-%s-%d.pdf", sanitizeFileName(contract.ID), contract.RenewalDate.Year()),
		Content:  content,
	}, nil
}

// DraftReminder drafts a renewal reminder. It only fails when the contract
// does not exist; provider problems are absorbed by the drafter.
func (s *AMCService) DraftReminder(ctx context.Context, id string) (email.Draft, error) {
	contract, ok := s.repo.ContractByID(id)
	if !ok {
		return email.Draft{}, fmt.Errorf("contract %s: %w", id, ErrNotFound)
	}
	customer, ok := s.repo.CustomerByID(contract.CustomerID)
	if !ok {
		customer = model.Customer{ID: contract.CustomerID, Name: model.UnknownCustomerName}
	}
	return s.drafter.Draft(ctx, contract, customer), nil
}

func validateContractFields(dealClosed time.Time, deal, amc decimal.Decimal, months model.DurationMonths) error {
	if dealClosed.IsZero() {
		return fmt.Errorf("%w: deal_closed_date is required", ErrInvalidInput)
	}
	if deal.IsNegative() {
		return fmt.Errorf("%w: deal_amount must not be negative", ErrInvalidInput)
	}
	if amc.IsNegative() {
		return fmt.Errorf("%w: amc_amount must not be negative", ErrInvalidInput)
	}
	if !months.Valid() {
		return fmt.Errorf("%w: duration_in_months must be one of %v", ErrInvalidInput, model.AllowedDurations)
	}
	return nil
}

func mapRepoError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
