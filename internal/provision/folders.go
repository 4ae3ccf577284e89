package provision

import (
	"context"
	"fmt"

	"github.com/contentkit/contentkit/internal/host"
)

// GetOrCreateFolder returns the container with the given name directly
// under the parent, creating it when absent. Root is host.RootParentID.
// Calling it twice returns the same container and issues a single create.
func GetOrCreateFolder(ctx context.Context, svc host.ContentTypeService, name string, parentID int64) (*host.Container, error) {
	existing, err := svc.ListContainers(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing containers under %d: %w", parentID, err)
	}
	for _, c := range existing {
		if c.Name == name {
			return c, nil
		}
	}

	created, err := svc.CreateContainer(ctx, parentID, name)
	if err != nil {
		return nil, fmt.Errorf("creating container %q under %d: %w", name, parentID, err)
	}
	return created, nil
}
