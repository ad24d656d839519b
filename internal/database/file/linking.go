package file

import (
	"context"
	"path/filepath"
	"slices"

	"github.com/osse101/OsuLink_Go/internal/domain"
)

// linkTable is the on-disk layout of the link table.
type linkTable struct {
	Forward map[string]string   `json:"forward"`
	Reverse map[string][]string `json:"reverse"`
}

func emptyLinkTable() linkTable {
	return linkTable{
		Forward: make(map[string]string),
		Reverse: make(map[string][]string),
	}
}

// LinkingRepository implements repository.Linking on a JSON file
type LinkingRepository struct {
	table *jsonTable[linkTable]
}

// NewLinkingRepository stores the link table in dataDir
func NewLinkingRepository(dataDir string) *LinkingRepository {
	return &LinkingRepository{
		table: &jsonTable[linkTable]{
			path:  filepath.Join(dataDir, LinkTableFileName),
			empty: emptyLinkTable,
			normalize: func(t *linkTable) {
				if t.Forward == nil {
					t.Forward = make(map[string]string)
				}
				if t.Reverse == nil {
					t.Reverse = make(map[string][]string)
				}
			},
		},
	}
}

// GetLink returns the forward entry for a platform id
func (r *LinkingRepository) GetLink(ctx context.Context, platformID string) (*domain.LinkRecord, error) {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	t := r.table.load(ctx)
	accountID, ok := t.Forward[platformID]
	if !ok {
		return nil, nil
	}
	return &domain.LinkRecord{PlatformID: platformID, ExternalAccountID: accountID}, nil
}

// ListPlatformIDs returns the reverse list for an account
func (r *LinkingRepository) ListPlatformIDs(ctx context.Context, externalAccountID string) ([]string, error) {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	t := r.table.load(ctx)
	return slices.Clone(t.Reverse[externalAccountID]), nil
}

// SaveLink writes both indexes and persists the whole table
func (r *LinkingRepository) SaveLink(ctx context.Context, link domain.LinkRecord) error {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	t := r.table.load(ctx)
	if existing, ok := t.Forward[link.PlatformID]; ok && existing != link.ExternalAccountID {
		return &domain.LinkConflictError{
			PlatformID: link.PlatformID,
			Existing:   existing,
			Requested:  link.ExternalAccountID,
		}
	}

	t.Forward[link.PlatformID] = link.ExternalAccountID
	if !slices.Contains(t.Reverse[link.ExternalAccountID], link.PlatformID) {
		t.Reverse[link.ExternalAccountID] = append(t.Reverse[link.ExternalAccountID], link.PlatformID)
	}
	return r.table.save(t)
}

// DeleteLink removes the platform from both indexes
func (r *LinkingRepository) DeleteLink(ctx context.Context, platformID string) (*domain.LinkRecord, error) {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	t := r.table.load(ctx)
	accountID, ok := t.Forward[platformID]
	if !ok {
		return nil, domain.ErrNotLinked
	}

	remaining := slices.DeleteFunc(t.Reverse[accountID], func(id string) bool { return id == platformID })
	if len(remaining) == 0 {
		delete(t.Reverse, accountID)
	} else {
		t.Reverse[accountID] = remaining
	}
	delete(t.Forward, platformID)

	if err := r.table.save(t); err != nil {
		return nil, err
	}
	return &domain.LinkRecord{PlatformID: platformID, ExternalAccountID: accountID}, nil
}
