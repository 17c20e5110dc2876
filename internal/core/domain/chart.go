package domain

// ChartEntry is one row of a chart-of-accounts template.
type ChartEntry struct {
	Code       string
	Name       string
	Type       AccountType
	ParentCode string
}

// DefaultChart is the catalog seeded into every new tenant. Parents are listed
// before their children.
var DefaultChart = []ChartEntry{
	// 1xxx assets
	{Code: "1000", Name: "Assets", Type: Asset},
	{Code: CodeCashInHand, Name: "Cash in Hand", Type: Asset, ParentCode: "1000"},
	{Code: CodeBankOperating, Name: "Bank - Operating Account", Type: Asset, ParentCode: "1000"},
	{Code: "1120", Name: "Bank - Sinking Fund Account", Type: Asset, ParentCode: "1000"},
	{Code: "1130", Name: "Bank - Repair Fund Account", Type: Asset, ParentCode: "1000"},
	{Code: "1200", Name: "Receivables", Type: Asset, ParentCode: "1000"},
	{Code: CodeReceivableMaint, Name: "Accounts Receivable - Maintenance", Type: Asset, ParentCode: "1200"},
	{Code: "1220", Name: "Accounts Receivable - Other Charges", Type: Asset, ParentCode: "1200"},
	{Code: "1300", Name: "Fixed Deposits", Type: Asset, ParentCode: "1000"},
	{Code: "1400", Name: "Advances and Deposits", Type: Asset, ParentCode: "1000"},
	{Code: "1410", Name: "TDS Receivable", Type: Asset, ParentCode: "1400"},
	{Code: "1420", Name: "Prepaid Expenses", Type: Asset, ParentCode: "1400"},

	// 2xxx liabilities
	{Code: "2000", Name: "Liabilities", Type: Liability},
	{Code: "2100", Name: "Sinking Fund", Type: Liability, ParentCode: "2000"},
	{Code: "2110", Name: "Repair and Maintenance Fund", Type: Liability, ParentCode: "2000"},
	{Code: CodeGSTOutputPayable, Name: "GST Output Payable", Type: Liability, ParentCode: "2000"},
	{Code: "2210", Name: "TDS Payable", Type: Liability, ParentCode: "2000"},
	{Code: "2300", Name: "Advance Maintenance Received", Type: Liability, ParentCode: "2000"},
	{Code: "2400", Name: "Sundry Creditors", Type: Liability, ParentCode: "2000"},
	{Code: "2500", Name: "Security Deposits Received", Type: Liability, ParentCode: "2000"},

	// 3xxx income
	{Code: "3000", Name: "Income", Type: Income},
	{Code: CodeMaintenanceIncome, Name: "Maintenance Charges", Type: Income, ParentCode: "3000"},
	{Code: "3110", Name: "Water Charges", Type: Income, ParentCode: "3000"},
	{Code: "3120", Name: "Parking Charges", Type: Income, ParentCode: "3000"},
	{Code: "3130", Name: "Non-Occupancy Charges", Type: Income, ParentCode: "3000"},
	{Code: "3140", Name: "Transfer Fees", Type: Income, ParentCode: "3000"},
	{Code: CodeInterestIncome, Name: "Interest on Late Payment", Type: Income, ParentCode: "3000"},
	{Code: "3300", Name: "Interest on Fixed Deposits", Type: Income, ParentCode: "3000"},
	{Code: "3400", Name: "Miscellaneous Income", Type: Income, ParentCode: "3000"},

	// 4xxx expenses
	{Code: "4000", Name: "Expenses", Type: Expense},
	{Code: "4100", Name: "Electricity - Common Areas", Type: Expense, ParentCode: "4000"},
	{Code: "4110", Name: "Water Charges Paid", Type: Expense, ParentCode: "4000"},
	{Code: "4200", Name: "Security Services", Type: Expense, ParentCode: "4000"},
	{Code: "4210", Name: "Housekeeping", Type: Expense, ParentCode: "4000"},
	{Code: "4300", Name: "Repairs and Maintenance", Type: Expense, ParentCode: "4000"},
	{Code: "4310", Name: "Lift Maintenance", Type: Expense, ParentCode: "4300"},
	{Code: "4400", Name: "Salaries and Wages", Type: Expense, ParentCode: "4000"},
	{Code: "4500", Name: "Property Tax", Type: Expense, ParentCode: "4000"},
	{Code: "4600", Name: "Insurance", Type: Expense, ParentCode: "4000"},
	{Code: "4700", Name: "Bank Charges", Type: Expense, ParentCode: "4000"},
	{Code: "4800", Name: "Audit Fees", Type: Expense, ParentCode: "4000"},
	{Code: "4900", Name: "Office and Administrative Expenses", Type: Expense, ParentCode: "4000"},

	// 5xxx equity
	{Code: "5000", Name: "Equity", Type: Equity},
	{Code: "5100", Name: "Members' Contribution", Type: Equity, ParentCode: "5000"},
	{Code: "5200", Name: "General Fund", Type: Equity, ParentCode: "5000"},
	{Code: "5300", Name: "Retained Surplus", Type: Equity, ParentCode: "5000"},
}
