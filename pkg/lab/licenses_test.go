package lab

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awillows/win365-lab-builder/models/azure"
)

func seedSku(fake *fakeGraphClient, partNumber string, enabled, warning, consumed int) azure.SubscribedSku {
	sku := azure.SubscribedSku{
		SkuID:         uuid.New(),
		SkuPartNumber: partNumber,
		ConsumedUnits: consumed,
		PrepaidUnits:  azure.LicenseUnitDetail{Enabled: enabled, Warning: warning},
	}
	fake.skus = append(fake.skus, sku)
	return sku
}

func TestAvailableLicensesExcludesExhaustedSkus(t *testing.T) {
	fake := newFakeGraphClient()
	seedSku(fake, "CPC_E_2C_8GB_128GB", 10, 0, 10)
	open := seedSku(fake, "SPE_E3", 5, 1, 2)

	infos, err := newTestOrchestrator(fake).AvailableLicenses(context.Background(), "", false)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, open.SkuID, infos[0].SkuID)
	assert.Equal(t, 4, infos[0].Available, "available is enabled + warning - consumed")
	assert.Equal(t, "Microsoft 365 E3", infos[0].ProductName)
}

func TestAvailableLicensesIncludeZero(t *testing.T) {
	fake := newFakeGraphClient()
	seedSku(fake, "CPC_E_2C_8GB_128GB", 10, 0, 10)

	infos, err := newTestOrchestrator(fake).AvailableLicenses(context.Background(), "", true)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, 0, infos[0].Available)
}

func TestAvailableLicensesFilter(t *testing.T) {
	fake := newFakeGraphClient()
	seedSku(fake, "CPC_E_2C_8GB_128GB", 10, 0, 1)
	seedSku(fake, "SPE_E3", 5, 0, 1)

	infos, err := newTestOrchestrator(fake).AvailableLicenses(context.Background(), "cpc_e", false)
	require.NoError(t, err)
	require.Len(t, infos, 1, "part number filter is case-insensitive")
	assert.Equal(t, "CPC_E_2C_8GB_128GB", infos[0].SkuPartNumber)
}

func TestResolveSkuIDsSkipsUnknownPartNumbers(t *testing.T) {
	fake := newFakeGraphClient()
	known := seedSku(fake, "SPE_E5", 5, 0, 0)

	ids, err := newTestOrchestrator(fake).ResolveSkuIDs(context.Background(), []string{"spe_e5", "NOT_A_SKU"})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{known.SkuID}, ids)
}

func TestResolveSkuIDsFailsWhenNoneResolve(t *testing.T) {
	fake := newFakeGraphClient()
	seedSku(fake, "SPE_E5", 5, 0, 0)

	_, err := newTestOrchestrator(fake).ResolveSkuIDs(context.Background(), []string{"NOT_A_SKU"})
	require.Error(t, err)
}

func TestSetGroupLicenseIsAdditive(t *testing.T) {
	fake := newFakeGraphClient()
	group := fake.seedGroup("Windows 365 Lab Users")
	existing := uuid.New()
	fake.licenses[group.ID] = []azure.AssignedLicense{{SkuID: existing}}
	sku := seedSku(fake, "CPC_E_2C_8GB_128GB", 10, 0, 0)

	err := newTestOrchestrator(fake).SetGroupLicense(context.Background(), GroupLicenseOptions{
		GroupIdOrName:  "Windows 365 Lab Users",
		SkuPartNumbers: []string{"CPC_E_2C_8GB_128GB"},
	})
	require.NoError(t, err)

	assigned := fake.licenses[group.ID]
	require.Len(t, assigned, 2, "prior licenses stay on the group")
	assert.Equal(t, existing, assigned[0].SkuID)
	assert.Equal(t, sku.SkuID, assigned[1].SkuID)
}

func TestRemoveGroupLicenseRemoveAll(t *testing.T) {
	fake := newFakeGraphClient()
	group := fake.seedGroup("Windows 365 Lab Users")
	fake.licenses[group.ID] = []azure.AssignedLicense{{SkuID: uuid.New()}, {SkuID: uuid.New()}}

	err := newTestOrchestrator(fake).RemoveGroupLicense(context.Background(), RemoveGroupLicenseOptions{
		GroupIdOrName: group.ID,
		RemoveAll:     true,
	})
	require.NoError(t, err)
	assert.Empty(t, fake.licenses[group.ID])
}

func TestListGroupLicensesJoinsCatalog(t *testing.T) {
	fake := newFakeGraphClient()
	group := fake.seedGroup("Windows 365 Lab Users")
	sku := seedSku(fake, "CPC_E_2C_8GB_128GB", 10, 0, 4)
	fake.licenses[group.ID] = []azure.AssignedLicense{{SkuID: sku.SkuID}}

	assignments, err := newTestOrchestrator(fake).ListGroupLicenses(context.Background(), "Windows 365 Lab Users")
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, "CPC_E_2C_8GB_128GB", assignments[0].SkuPartNumber)
	assert.Equal(t, "Windows 365 Enterprise 2 vCPU, 8 GB, 128 GB", assignments[0].ProductName)
	assert.Equal(t, 4, assignments[0].ConsumedUnits)
	assert.Equal(t, 10, assignments[0].PrepaidUnits)
}
