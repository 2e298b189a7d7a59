package order

// CustomerStatus is the customer-facing order status projection.
type CustomerStatus string

const (
	CustomerStatusPending         CustomerStatus = "pending"
	CustomerStatusPaymentUploaded CustomerStatus = "payment_uploaded"
	CustomerStatusConfirmed       CustomerStatus = "confirmed"
	CustomerStatusDispatched      CustomerStatus = "dispatched"
	CustomerStatusDelivered       CustomerStatus = "delivered"
	CustomerStatusCancelled       CustomerStatus = "cancelled"
)

// IsValid checks if the status is a valid CustomerStatus
func (s CustomerStatus) IsValid() bool {
	switch s {
	case CustomerStatusPending, CustomerStatusPaymentUploaded, CustomerStatusConfirmed,
		CustomerStatusDispatched, CustomerStatusDelivered, CustomerStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of CustomerStatus
func (s CustomerStatus) String() string {
	return string(s)
}

// ManagementStatus is the department-workflow status of an order.
type ManagementStatus string

const (
	ManagementStatusPending             ManagementStatus = "pending"
	ManagementStatusPendingPayment      ManagementStatus = "pending_payment"
	ManagementStatusFinancialReviewing  ManagementStatus = "financial_reviewing"
	ManagementStatusPaymentGracePeriod  ManagementStatus = "payment_grace_period"
	ManagementStatusWarehousePending    ManagementStatus = "warehouse_pending"
	ManagementStatusWarehouseProcessing ManagementStatus = "warehouse_processing"
	ManagementStatusWarehouseApproved   ManagementStatus = "warehouse_approved"
	ManagementStatusLogisticsDispatched ManagementStatus = "logistics_dispatched"
	ManagementStatusDelivered           ManagementStatus = "delivered"
	ManagementStatusFinancialRejected   ManagementStatus = "financial_rejected"
)

// IsValid checks if the status is a valid ManagementStatus
func (s ManagementStatus) IsValid() bool {
	switch s {
	case ManagementStatusPending, ManagementStatusPendingPayment, ManagementStatusFinancialReviewing,
		ManagementStatusPaymentGracePeriod, ManagementStatusWarehousePending, ManagementStatusWarehouseProcessing,
		ManagementStatusWarehouseApproved, ManagementStatusLogisticsDispatched, ManagementStatusDelivered,
		ManagementStatusFinancialRejected:
		return true
	}
	return false
}

// String returns the string representation of ManagementStatus
func (s ManagementStatus) String() string {
	return string(s)
}

// CustomerFacing returns the single customer status a management status maps
// to. The mapping is many-to-one; every management status has exactly one
// valid customer projection.
func (s ManagementStatus) CustomerFacing() (CustomerStatus, bool) {
	switch s {
	case ManagementStatusPending, ManagementStatusPendingPayment:
		return CustomerStatusPending, true
	case ManagementStatusFinancialReviewing, ManagementStatusPaymentGracePeriod:
		return CustomerStatusPaymentUploaded, true
	case ManagementStatusWarehousePending, ManagementStatusWarehouseProcessing, ManagementStatusWarehouseApproved:
		return CustomerStatusConfirmed, true
	case ManagementStatusLogisticsDispatched:
		return CustomerStatusDispatched, true
	case ManagementStatusDelivered:
		return CustomerStatusDelivered, true
	case ManagementStatusFinancialRejected:
		return CustomerStatusCancelled, true
	}
	return "", false
}

// IsSynced reports whether the (customer, management) status pair is a member
// of the canonical mapping. Any other pairing is drift, never a legitimate
// intermediate state.
func IsSynced(customer CustomerStatus, management ManagementStatus) bool {
	expected, ok := management.CustomerFacing()
	if !ok {
		return false
	}
	return customer == expected
}

// ResolveRepair returns the corrective customer status for a drifted pair.
// The management status is authoritative: it is written by authenticated
// department staff performing a deliberate action. The repair table is a
// closed set of known-safe corrections; ok=false means the pattern is
// unrecognized and must be logged as unresolved, never guessed.
func ResolveRepair(customer CustomerStatus, management ManagementStatus) (CustomerStatus, bool) {
	if IsSynced(customer, management) {
		return customer, false
	}
	switch management {
	case ManagementStatusWarehousePending:
		return CustomerStatusConfirmed, true
	case ManagementStatusLogisticsDispatched:
		return CustomerStatusDispatched, true
	case ManagementStatusDelivered:
		return CustomerStatusDelivered, true
	case ManagementStatusFinancialRejected:
		return CustomerStatusCancelled, true
	case ManagementStatusPending:
		// An over-advanced customer status is pulled back one visible step,
		// not reset to pending outright.
		if customer == CustomerStatusConfirmed {
			return CustomerStatusPaymentUploaded, true
		}
	}
	return "", false
}

// PaymentMethod identifies how an order is paid.
type PaymentMethod string

const (
	PaymentMethodBankGateway   PaymentMethod = "bank_gateway"
	PaymentMethodWallet        PaymentMethod = "wallet"
	PaymentMethodWalletPartial PaymentMethod = "wallet_partial"
	PaymentMethodGracePeriod   PaymentMethod = "grace_period"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodBankGateway, PaymentMethodWallet, PaymentMethodWalletPartial, PaymentMethodGracePeriod:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// UsesWallet reports whether the method debits the customer wallet.
func (m PaymentMethod) UsesWallet() bool {
	return m == PaymentMethodWallet || m == PaymentMethodWalletPartial
}

// PaymentStatus is the customer-facing payment progress indicator.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusPaid       PaymentStatus = "paid"
)

// IsValid checks if the payment status is valid
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusPaid:
		return true
	}
	return false
}
