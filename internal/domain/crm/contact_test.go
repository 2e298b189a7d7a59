package crm

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContact(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		c, err := NewContact(uuid.New(), "Erbil Water Co", "Aram Saleh", "aram@erbilwater.example")
		require.NoError(t, err)
		assert.Equal(t, StageLead, c.Stage)
		assert.Zero(t, c.TotalOrders)
	})

	t.Run("missing names rejected", func(t *testing.T) {
		_, err := NewContact(uuid.New(), "", "", "x@example.com")
		assert.Error(t, err)
	})

	t.Run("missing email rejected", func(t *testing.T) {
		_, err := NewContact(uuid.New(), "Acme", "", "")
		assert.Error(t, err)
	})
}

func TestContact_RecordOrder(t *testing.T) {
	c, err := NewContact(uuid.New(), "Baghdad Textiles", "", "buy@bt.example")
	require.NoError(t, err)

	at := time.Now()
	c.RecordOrder(decimal.NewFromInt(250), at)
	assert.Equal(t, 1, c.TotalOrders)
	assert.True(t, c.TotalSpent.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, StageCustomer, c.Stage, "first purchase promotes a lead")
	require.NotNil(t, c.LastOrderAt)

	c.RecordOrder(decimal.NewFromInt(100), at.Add(time.Hour))
	assert.Equal(t, 2, c.TotalOrders)
	assert.True(t, c.TotalSpent.Equal(decimal.NewFromInt(350)))
}

func TestContact_Qualify(t *testing.T) {
	c, _ := NewContact(uuid.New(), "Basra Refining", "", "ops@br.example")
	require.NoError(t, c.Qualify())
	assert.Equal(t, StageQualified, c.Stage)
	assert.Error(t, c.Qualify(), "only leads qualify")
}
