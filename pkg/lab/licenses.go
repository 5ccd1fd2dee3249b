package lab

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/awillows/win365-lab-builder/client/query"
	"github.com/awillows/win365-lab-builder/models/azure"
)

// productNames maps well-known SKU part numbers to readable product names.
// Unknown part numbers fall back to the part number itself.
var productNames = map[string]string{
	"CPC_E_2C_4GB_64GB":   "Windows 365 Enterprise 2 vCPU, 4 GB, 64 GB",
	"CPC_E_2C_8GB_128GB":  "Windows 365 Enterprise 2 vCPU, 8 GB, 128 GB",
	"CPC_E_4C_16GB_128GB": "Windows 365 Enterprise 4 vCPU, 16 GB, 128 GB",
	"CPC_E_8C_32GB_256GB": "Windows 365 Enterprise 8 vCPU, 32 GB, 256 GB",
	"CPC_B_2C_4GB_128GB":  "Windows 365 Business 2 vCPU, 4 GB, 128 GB",
	"SPE_E3":              "Microsoft 365 E3",
	"SPE_E5":              "Microsoft 365 E5",
	"ENTERPRISEPACK":      "Office 365 E3",
	"EMS":                 "Enterprise Mobility + Security E3",
	"AAD_PREMIUM":         "Microsoft Entra ID P1",
	"INTUNE_A":            "Microsoft Intune Plan 1",
}

func productName(skuPartNumber string) string {
	if name, ok := productNames[skuPartNumber]; ok {
		return name
	}
	return skuPartNumber
}

// LicenseAssignment is a license on a group, joined with catalog details.
type LicenseAssignment struct {
	SkuID         uuid.UUID
	SkuPartNumber string
	ProductName   string
	ConsumedUnits int
	PrepaidUnits  int
}

// LicenseInfo is one row of the availability report.
type LicenseInfo struct {
	SkuID         uuid.UUID
	SkuPartNumber string
	ProductName   string
	Enabled       int
	Warning       int
	Consumed      int
	Available     int
}

func (s *Orchestrator) subscribedSkus(ctx context.Context) ([]azure.SubscribedSku, error) {
	var skus []azure.SubscribedSku
	for result := range s.client.ListSubscribedSkus(ctx, query.GraphParams{}) {
		if result.Error != nil {
			return nil, fmt.Errorf("reading subscribed skus: %w", result.Error)
		}
		skus = append(skus, result.Ok)
	}
	return skus, nil
}

// ResolveSkuIDs maps part numbers to SKU ids via the tenant catalog.
// Unresolved part numbers are warned and skipped; resolving none of them is
// fatal.
func (s *Orchestrator) ResolveSkuIDs(ctx context.Context, skuPartNumbers []string) ([]uuid.UUID, error) {
	log := zerolog.Ctx(ctx)
	skus, err := s.subscribedSkus(ctx)
	if err != nil {
		return nil, err
	}

	byPartNumber := make(map[string]uuid.UUID, len(skus))
	for _, sku := range skus {
		byPartNumber[strings.ToUpper(sku.SkuPartNumber)] = sku.SkuID
	}

	var ids []uuid.UUID
	for _, part := range skuPartNumbers {
		id, ok := byPartNumber[strings.ToUpper(part)]
		if !ok {
			log.Warn().Str("skuPartNumber", part).Msg("sku part number not found in tenant, skipping")
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("none of the sku part numbers %v exist in this tenant", skuPartNumbers)
	}
	return ids, nil
}

type GroupLicenseOptions struct {
	GroupIdOrName string

	// SkuIDs and SkuPartNumbers may be combined; part numbers resolve
	// through the tenant catalog first.
	SkuIDs         []uuid.UUID
	SkuPartNumbers []string

	DisabledServicePlans []uuid.UUID
}

// SetGroupLicense adds licenses to a group. The operation is additive:
// licenses already on the group and not named here are untouched.
func (s *Orchestrator) SetGroupLicense(ctx context.Context, opts GroupLicenseOptions) error {
	group, err := s.resolveGroup(ctx, opts.GroupIdOrName)
	if err != nil {
		return err
	}

	ids := append([]uuid.UUID(nil), opts.SkuIDs...)
	if len(opts.SkuPartNumbers) > 0 {
		resolved, err := s.ResolveSkuIDs(ctx, opts.SkuPartNumbers)
		if err != nil {
			return err
		}
		ids = append(ids, resolved...)
	}
	if len(ids) == 0 {
		return fmt.Errorf("at least one sku id or part number is required")
	}

	if s.dryRun {
		zerolog.Ctx(ctx).Info().
			Str("group", group.DisplayName).
			Int("licenses", len(ids)).
			Msg("dry-run: would assign licenses")
		return nil
	}

	add := make([]azure.AssignedLicense, 0, len(ids))
	for _, id := range ids {
		disabled := opts.DisabledServicePlans
		if disabled == nil {
			disabled = []uuid.UUID{}
		}
		add = append(add, azure.AssignedLicense{SkuID: id, DisabledPlans: disabled})
	}
	return s.client.AssignGroupLicense(ctx, group.ID, add, nil)
}

type RemoveGroupLicenseOptions struct {
	GroupIdOrName  string
	SkuIDs         []uuid.UUID
	SkuPartNumbers []string

	// RemoveAll reads the current assignments and removes every one.
	RemoveAll bool

	Confirm ConfirmFunc
}

func (s *Orchestrator) RemoveGroupLicense(ctx context.Context, opts RemoveGroupLicenseOptions) error {
	log := zerolog.Ctx(ctx)
	group, err := s.resolveGroup(ctx, opts.GroupIdOrName)
	if err != nil {
		return err
	}

	var ids []uuid.UUID
	if opts.RemoveAll {
		assigned, err := s.client.GetGroupAssignedLicenses(ctx, group.ID)
		if err != nil {
			return err
		}
		for _, license := range assigned {
			ids = append(ids, license.SkuID)
		}
		if len(ids) == 0 {
			log.Info().Str("group", group.DisplayName).Msg("group has no licenses")
			return nil
		}
	} else {
		ids = append(ids, opts.SkuIDs...)
		if len(opts.SkuPartNumbers) > 0 {
			resolved, err := s.ResolveSkuIDs(ctx, opts.SkuPartNumbers)
			if err != nil {
				return err
			}
			ids = append(ids, resolved...)
		}
		if len(ids) == 0 {
			return fmt.Errorf("at least one sku id or part number is required, or use remove-all")
		}
	}

	if s.dryRun {
		log.Info().Str("group", group.DisplayName).Int("licenses", len(ids)).Msg("dry-run: would remove licenses")
		return nil
	}

	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.String()
	}
	if !s.confirmed(opts.Confirm, names) {
		log.Info().Msg("license removal cancelled")
		return nil
	}
	return s.client.AssignGroupLicense(ctx, group.ID, nil, ids)
}

// ListGroupLicenses reports the licenses on a group joined against the
// tenant SKU catalog for readable names and unit counts.
func (s *Orchestrator) ListGroupLicenses(ctx context.Context, groupIdOrName string) ([]LicenseAssignment, error) {
	group, err := s.resolveGroup(ctx, groupIdOrName)
	if err != nil {
		return nil, err
	}
	assigned, err := s.client.GetGroupAssignedLicenses(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	if len(assigned) == 0 {
		return nil, nil
	}

	skus, err := s.subscribedSkus(ctx)
	if err != nil {
		return nil, err
	}
	catalog := make(map[uuid.UUID]azure.SubscribedSku, len(skus))
	for _, sku := range skus {
		catalog[sku.SkuID] = sku
	}

	assignments := make([]LicenseAssignment, 0, len(assigned))
	for _, license := range assigned {
		entry := LicenseAssignment{SkuID: license.SkuID, SkuPartNumber: license.SkuID.String()}
		if sku, ok := catalog[license.SkuID]; ok {
			entry.SkuPartNumber = sku.SkuPartNumber
			entry.ProductName = productName(sku.SkuPartNumber)
			entry.ConsumedUnits = sku.ConsumedUnits
			entry.PrepaidUnits = sku.PrepaidUnits.Enabled
		}
		assignments = append(assignments, entry)
	}
	return assignments, nil
}

// AvailableLicenses computes per-SKU availability as enabled + warning -
// consumed. SKUs with nothing available are excluded unless includeZero.
func (s *Orchestrator) AvailableLicenses(ctx context.Context, partNumberFilter string, includeZero bool) ([]LicenseInfo, error) {
	skus, err := s.subscribedSkus(ctx)
	if err != nil {
		return nil, err
	}

	match := func(string) bool { return true }
	if partNumberFilter != "" {
		filter := strings.ToUpper(partNumberFilter)
		match = func(part string) bool {
			return strings.Contains(strings.ToUpper(part), filter)
		}
	}

	var infos []LicenseInfo
	for _, sku := range skus {
		if !match(sku.SkuPartNumber) {
			continue
		}
		available := sku.AvailableUnits()
		if available <= 0 && !includeZero {
			continue
		}
		infos = append(infos, LicenseInfo{
			SkuID:         sku.SkuID,
			SkuPartNumber: sku.SkuPartNumber,
			ProductName:   productName(sku.SkuPartNumber),
			Enabled:       sku.PrepaidUnits.Enabled,
			Warning:       sku.PrepaidUnits.Warning,
			Consumed:      sku.ConsumedUnits,
			Available:     available,
		})
	}
	return infos, nil
}
