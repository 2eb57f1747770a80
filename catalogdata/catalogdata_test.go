package catalogdata_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monada-ai/apidocs/catalogdata"
	"github.com/monada-ai/apidocs/domain/catalog"
)

func TestDefault_Validates(t *testing.T) {
	c, err := catalogdata.Default()
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	names := make([]string, 0, len(c.All()))
	for _, s := range c.All() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		"Account", "Headers", "Offer", "Opportunity", "Organization", "Port",
		"Product", "Rate", "RateRequest", "Supplier", "Terms",
	}, names)

	assert.Equal(t, []string{
		"Authentication", "Organizations", "Accounts", "Suppliers", "Opportunities",
	}, c.CategoryNames())
}

func TestDefault_Shared(t *testing.T) {
	a, err := catalogdata.Default()
	require.NoError(t, err)
	b, err := catalogdata.Default()
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestDefault_AccountAddressIsPort(t *testing.T) {
	c, err := catalogdata.Default()
	require.NoError(t, err)

	account, err := c.Lookup("Account")
	require.NoError(t, err)

	var address *catalog.Property
	for i := range account.Properties {
		if account.Properties[i].Name == "address" {
			address = &account.Properties[i]
		}
	}
	require.NotNil(t, address)
	assert.Equal(t, catalog.KindSchema, address.Kind)
	assert.Equal(t, "Port", address.Schema)

	port, err := c.Resolve(address.Schema)
	require.NoError(t, err)
	assert.Equal(t, "Port", port.Name)
}

func TestDefault_TermsIsOpaque(t *testing.T) {
	c, err := catalogdata.Default()
	require.NoError(t, err)

	terms, err := c.Lookup("Terms")
	require.NoError(t, err)
	assert.Equal(t, catalog.SchemaOpaque, terms.Kind())
}

func TestDefault_LoginDefaults(t *testing.T) {
	c, err := catalogdata.Default()
	require.NoError(t, err)

	login, err := c.Endpoint("Authentication", 0)
	require.NoError(t, err)
	assert.Equal(t, "GET", login.Method)
	assert.Equal(t, "/login", login.Path)
	require.Len(t, login.Query, 3)
	assert.Equal(t, "test@monada.ai", login.Query[0].DefaultValue())
	assert.Equal(t, "password", login.Query[1].DefaultValue())
	assert.NotEmpty(t, login.Note)
	require.NotNil(t, login.Response)
	assert.Equal(t, catalog.KindString, login.Response.Kind)
}

func TestLoad(t *testing.T) {
	t.Run("empty path uses embedded catalog", func(t *testing.T) {
		c, err := catalogdata.Load("")
		require.NoError(t, err)
		assert.Len(t, c.All(), 11)
	})

	t.Run("file on disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		doc := `
schemas:
  - name: Pet
    properties:
      - name: name
        type: string
        description: Pet name.
categories:
  - category: Pets
    endpoints:
      - method: GET
        path: /pets
        description: List pets.
        response:
          type: array
          items:
            type: schema
            schema: Pet
`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

		c, err := catalogdata.Load(path)
		require.NoError(t, err)
		assert.Len(t, c.All(), 1)
		assert.Equal(t, []string{"Pets"}, c.CategoryNames())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := catalogdata.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestRaw(t *testing.T) {
	assert.NotEmpty(t, catalogdata.Raw())
}
