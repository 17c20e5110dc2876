package services

import (
	portsrepo "github.com/SscSPs/society_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/society_ledger/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// The options (event publisher, metrics, clock) are shared by every service.
func NewServiceContainer(repos portsrepo.RepositoryProvider, options ...ServiceOption) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Ledger core first; billing, payments and reporting post or read through it.
	container.Ledger = NewLedgerService(repos.TxManager, repos.JournalRepo, repos.AccountRepo, options...)
	container.Account = NewAccountService(repos.TxManager, repos.AccountRepo, repos.JournalRepo, options...)
	container.Billing = NewBillingService(
		repos.TxManager,
		repos.BillingRepo,
		repos.InvoiceRepo,
		repos.AccountRepo,
		container.Ledger,
		options...,
	)
	container.Payment = NewPaymentService(
		repos.TxManager,
		repos.PaymentRepo,
		repos.InvoiceRepo,
		repos.AccountRepo,
		container.Ledger,
		options...,
	)
	container.Reporting = NewReportingService(repos.ReportingRepo, repos.InvoiceRepo, repos.BillingRepo, container.Ledger, options...)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade = (*accountService)(nil)
	_ portssvc.LedgerSvcFacade  = (*ledgerService)(nil)
	_ portssvc.BillingSvcFacade = (*billingService)(nil)
	_ portssvc.PaymentSvcFacade = (*paymentService)(nil)
	_ portssvc.ReportingService = (*reportingService)(nil)
)
