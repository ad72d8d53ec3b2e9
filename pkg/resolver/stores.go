package resolver

import (
	"context"

	"github.com/shishobooks/stashsync/pkg/gateway"
	"github.com/shishobooks/stashsync/pkg/groups"
	"github.com/shishobooks/stashsync/pkg/models"
	"github.com/shishobooks/stashsync/pkg/performers"
	"github.com/shishobooks/stashsync/pkg/studios"
	"github.com/shishobooks/stashsync/pkg/tags"
)

type studioStore struct{ svc *studios.Service }

// Studios resolves studio names through gw.
func Studios(gw *gateway.Gateway) NaturalKeyStore {
	return studioStore{gw.Studios}
}

func (s studioStore) FindIDByName(ctx context.Context, name string) (int, error) {
	studio, err := s.svc.RetrieveStudio(ctx, studios.RetrieveStudioOptions{Name: &name})
	if err != nil {
		return 0, err
	}
	return studio.ID, nil
}

func (s studioStore) CreateWithName(ctx context.Context, name string) (int, error) {
	studio := &models.Studio{Name: name}
	if err := s.svc.CreateStudio(ctx, studio); err != nil {
		return 0, err
	}
	return studio.ID, nil
}

type tagStore struct{ svc *tags.Service }

// Tags resolves tag names through gw.
func Tags(gw *gateway.Gateway) NaturalKeyStore {
	return tagStore{gw.Tags}
}

func (s tagStore) FindIDByName(ctx context.Context, name string) (int, error) {
	tag, err := s.svc.RetrieveTag(ctx, tags.RetrieveTagOptions{Name: &name})
	if err != nil {
		return 0, err
	}
	return tag.ID, nil
}

func (s tagStore) CreateWithName(ctx context.Context, name string) (int, error) {
	tag := &models.Tag{Name: name}
	if err := s.svc.CreateTag(ctx, tag); err != nil {
		return 0, err
	}
	return tag.ID, nil
}

type performerStore struct{ svc *performers.Service }

// Performers resolves performer names through gw.
func Performers(gw *gateway.Gateway) NaturalKeyStore {
	return performerStore{gw.Performers}
}

func (s performerStore) FindIDByName(ctx context.Context, name string) (int, error) {
	performer, err := s.svc.RetrievePerformer(ctx, performers.RetrievePerformerOptions{Name: &name})
	if err != nil {
		return 0, err
	}
	return performer.ID, nil
}

func (s performerStore) CreateWithName(ctx context.Context, name string) (int, error) {
	performer := &models.Performer{Name: name}
	if err := s.svc.CreatePerformer(ctx, performer); err != nil {
		return 0, err
	}
	return performer.ID, nil
}

type groupStore struct{ svc *groups.Service }

// Groups resolves group names through gw.
func Groups(gw *gateway.Gateway) NaturalKeyStore {
	return groupStore{gw.Groups}
}

func (s groupStore) FindIDByName(ctx context.Context, name string) (int, error) {
	group, err := s.svc.RetrieveGroup(ctx, groups.RetrieveGroupOptions{Name: &name})
	if err != nil {
		return 0, err
	}
	return group.ID, nil
}

func (s groupStore) CreateWithName(ctx context.Context, name string) (int, error) {
	group := &models.Group{Name: name}
	if err := s.svc.CreateGroup(ctx, group); err != nil {
		return 0, err
	}
	return group.ID, nil
}
