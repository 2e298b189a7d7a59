package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	crmapp "github.com/momtazchem/backend/internal/application/crm"
	"github.com/momtazchem/backend/internal/domain/crm"
	"github.com/momtazchem/backend/internal/domain/identity"
	"github.com/momtazchem/backend/internal/domain/shared"
)

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, c *crm.Contact) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockContactRepository) Save(ctx context.Context, c *crm.Contact) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockContactRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*crm.Contact, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Contact), args.Error(1)
}

func (m *MockContactRepository) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*crm.Contact, error) {
	args := m.Called(ctx, tenantID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Contact), args.Error(1)
}

func (m *MockContactRepository) FindByCustomerID(ctx context.Context, tenantID, customerID uuid.UUID) (*crm.Contact, error) {
	args := m.Called(ctx, tenantID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Contact), args.Error(1)
}

func (m *MockContactRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*crm.Contact, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*crm.Contact), args.Get(1).(int64), args.Error(2)
}

func newContactRouter(t *testing.T, role identity.Role) (*gin.Engine, *MockContactRepository, uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := new(MockContactRepository)
	tenantID := uuid.New()
	h := NewContactHandler(crmapp.NewContactService(repo, zap.NewNop()))

	r := gin.New()
	api := r.Group("/api/v1", authInjector(tenantID, uuid.New(), role))
	h.RegisterRoutes(api)
	return r, repo, tenantID
}

func TestContactHandler_Create(t *testing.T) {
	r, repo, tenantID := newContactRouter(t, identity.RoleFinancial)

	repo.On("FindByEmail", mock.Anything, tenantID, "buyer@kurdchem.iq").Return(nil, shared.ErrNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*crm.Contact")).Return(nil)

	body := bytes.NewBufferString(`{"company_name":"Kurd Chem","contact_name":"Aram","email":"buyer@kurdchem.iq","city":"Erbil"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/crm/contacts", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"stage":"lead"`)
	repo.AssertExpectations(t)
}

func TestContactHandler_CreateDuplicateEmail(t *testing.T) {
	r, repo, tenantID := newContactRouter(t, identity.RoleFinancial)

	existing, err := crm.NewContact(tenantID, "Kurd Chem", "Aram", "buyer@kurdchem.iq")
	require.NoError(t, err)
	repo.On("FindByEmail", mock.Anything, tenantID, "buyer@kurdchem.iq").Return(existing, nil)

	body := bytes.NewBufferString(`{"company_name":"Kurd Chem","email":"buyer@kurdchem.iq"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/crm/contacts", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "ALREADY_EXISTS")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestContactHandler_Qualify(t *testing.T) {
	r, repo, tenantID := newContactRouter(t, identity.RoleWarehouse)

	contact, err := crm.NewContact(tenantID, "Kurd Chem", "Aram", "buyer@kurdchem.iq")
	require.NoError(t, err)
	repo.On("FindByID", mock.Anything, tenantID, contact.ID).Return(contact, nil)
	repo.On("Save", mock.Anything, contact).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/crm/contacts/"+contact.ID.String()+"/qualify", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, crm.StageQualified, contact.Stage)
	repo.AssertExpectations(t)
}

func TestContactHandler_CustomerRoleRejected(t *testing.T) {
	r, _, _ := newContactRouter(t, identity.RoleCustomer)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/crm/contacts", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
