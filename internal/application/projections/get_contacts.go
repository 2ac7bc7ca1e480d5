package projections

import (
	"context"

	domaincontact "emerald/internal/domain/contact"
)

// GetContactsResult carries the emergency directory split by category.
type GetContactsResult struct {
	Management []domaincontact.Contact
	Services   []domaincontact.Contact
}

// GetContactsDeps holds dependencies for GetContacts.
type GetContactsDeps struct {
	ContactStore ContactStore
}

// QueryGetContacts splits the directory into the society-management block
// and the public emergency services block, keeping store order.
func QueryGetContacts(ctx context.Context, deps GetContactsDeps) (GetContactsResult, error) {
	contacts, err := deps.ContactStore.List(ctx)
	if err != nil {
		return GetContactsResult{}, err
	}

	var result GetContactsResult
	for _, c := range contacts {
		switch c.Category {
		case domaincontact.CategoryManagement:
			result.Management = append(result.Management, c)
		default:
			result.Services = append(result.Services, c)
		}
	}
	return result, nil
}
