package order

// DepartmentAction is a sanctioned status-changing operation. Each action
// writes a fixed (customer, management) target pair; there is no free-form
// status update path.
type DepartmentAction string

const (
	ActionFinancialApprove  DepartmentAction = "financial_approve"
	ActionFinancialReject   DepartmentAction = "financial_reject"
	ActionWarehouseProcess  DepartmentAction = "warehouse_process"
	ActionWarehouseApprove  DepartmentAction = "warehouse_approve"
	ActionLogisticsDispatch DepartmentAction = "logistics_dispatch"
	ActionLogisticsDeliver  DepartmentAction = "logistics_deliver"
)

// String returns the string representation of DepartmentAction
func (a DepartmentAction) String() string {
	return string(a)
}

// IsValid checks if the action is a known department action
func (a DepartmentAction) IsValid() bool {
	switch a {
	case ActionFinancialApprove, ActionFinancialReject, ActionWarehouseProcess,
		ActionWarehouseApprove, ActionLogisticsDispatch, ActionLogisticsDeliver:
		return true
	}
	return false
}

// Department returns the department that owns the action.
func (a DepartmentAction) Department() string {
	switch a {
	case ActionFinancialApprove, ActionFinancialReject:
		return "financial"
	case ActionWarehouseProcess, ActionWarehouseApprove:
		return "warehouse"
	case ActionLogisticsDispatch, ActionLogisticsDeliver:
		return "logistics"
	}
	return ""
}

// TargetPair returns the fixed status pair the action writes. Both sides are
// written together in one transaction; no code path updates only one.
func (a DepartmentAction) TargetPair() (CustomerStatus, ManagementStatus) {
	switch a {
	case ActionFinancialApprove:
		return CustomerStatusConfirmed, ManagementStatusWarehousePending
	case ActionFinancialReject:
		return CustomerStatusCancelled, ManagementStatusFinancialRejected
	case ActionWarehouseProcess:
		return CustomerStatusConfirmed, ManagementStatusWarehouseProcessing
	case ActionWarehouseApprove:
		return CustomerStatusConfirmed, ManagementStatusWarehouseApproved
	case ActionLogisticsDispatch:
		return CustomerStatusDispatched, ManagementStatusLogisticsDispatched
	case ActionLogisticsDeliver:
		return CustomerStatusDelivered, ManagementStatusDelivered
	}
	return "", ""
}

// CanApply reports whether the action is allowed from the given management
// status.
func (a DepartmentAction) CanApply(current ManagementStatus) bool {
	switch a {
	case ActionFinancialApprove, ActionFinancialReject:
		return current == ManagementStatusFinancialReviewing || current == ManagementStatusPaymentGracePeriod
	case ActionWarehouseProcess:
		return current == ManagementStatusWarehousePending
	case ActionWarehouseApprove:
		return current == ManagementStatusWarehouseProcessing || current == ManagementStatusWarehousePending
	case ActionLogisticsDispatch:
		return current == ManagementStatusWarehouseApproved || current == ManagementStatusWarehouseProcessing
	case ActionLogisticsDeliver:
		return current == ManagementStatusLogisticsDispatched
	}
	return false
}
