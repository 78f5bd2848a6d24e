package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/sangsom/minime/internal/model"
)

type StoreSuite struct {
	suite.Suite
	store *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.store = New(model.DefaultStatLimits())
}

func (s *StoreSuite) newProfile(id model.ProfileID) model.Profile {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return model.Profile{
		ID:           id,
		DisplayName:  string(id),
		CreatedAt:    now,
		LastActiveAt: now,
		Active:       true,
		Stats:        model.Stats{Coins: 100, Happiness: 75, Hunger: 100, Energy: 100, DaysActive: 1},
		Customization: model.Customization{EyeScale: 1.0, Outfit: "default", Accessory: "none"},
	}
}

func (s *StoreSuite) TestInsertAndFind() {
	err := s.store.Insert(s.newProfile("alice"))
	s.Require().NoError(err)

	got, ok := s.store.FindByID("alice")
	s.True(ok)
	s.Equal(model.ProfileID("alice"), got.ID)
	s.Equal(1, s.store.Len())
}

func (s *StoreSuite) TestFindIsCaseInsensitive() {
	s.Require().NoError(s.store.Insert(s.newProfile("Alice")))

	got, ok := s.store.FindByID("ALICE")
	s.True(ok)
	s.Equal(model.ProfileID("Alice"), got.ID)

	_, ok = s.store.FindByID("bob")
	s.False(ok)
}

func (s *StoreSuite) TestInsertDuplicateCaseInsensitive() {
	s.Require().NoError(s.store.Insert(s.newProfile("bob")))

	err := s.store.Insert(s.newProfile("BOB"))
	s.ErrorIs(err, model.ErrDuplicateID)
	s.Equal(1, s.store.Len())
}

func (s *StoreSuite) TestInsertEmptyID() {
	err := s.store.Insert(s.newProfile("   "))
	s.ErrorIs(err, model.ErrValidation)
}

func (s *StoreSuite) TestInsertClampsStats() {
	p := s.newProfile("alice")
	p.Stats.Happiness = 500
	p.Stats.Coins = -10
	s.Require().NoError(s.store.Insert(p))

	got, _ := s.store.FindByID("alice")
	s.Equal(model.MeterCeiling, got.Stats.Happiness)
	s.Equal(0, got.Stats.Coins)
}

func (s *StoreSuite) TestInsertRepairsLastActive() {
	p := s.newProfile("alice")
	p.LastActiveAt = p.CreatedAt.Add(-48 * time.Hour)
	s.Require().NoError(s.store.Insert(p))

	got, _ := s.store.FindByID("alice")
	s.Equal(got.CreatedAt, got.LastActiveAt)
}

func (s *StoreSuite) TestMutateNotFound() {
	_, err := s.store.Mutate("ghost", func(p *model.Profile) error { return nil })
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *StoreSuite) TestMutateClampsResult() {
	limits := model.DefaultStatLimits()
	limits.HappinessFloor = 20
	s.store = New(limits)
	s.Require().NoError(s.store.Insert(s.newProfile("alice")))

	got, err := s.store.Mutate("alice", func(p *model.Profile) error {
		p.Stats.Happiness -= 1000
		return nil
	})
	s.Require().NoError(err)
	s.Equal(20.0, got.Stats.Happiness)
}

func (s *StoreSuite) TestMutatePreservesImmutableFields() {
	s.Require().NoError(s.store.Insert(s.newProfile("alice")))
	original, _ := s.store.FindByID("alice")

	got, err := s.store.Mutate("alice", func(p *model.Profile) error {
		p.ID = "mallory"
		p.CreatedAt = p.CreatedAt.Add(-24 * time.Hour)
		p.LastActiveAt = p.CreatedAt.Add(-48 * time.Hour)
		return nil
	})
	s.Require().NoError(err)
	s.Equal(original.ID, got.ID)
	s.Equal(original.CreatedAt, got.CreatedAt)
	s.False(got.LastActiveAt.Before(got.CreatedAt))

	// The index still resolves the original id
	_, ok := s.store.FindByID("alice")
	s.True(ok)
	_, ok = s.store.FindByID("mallory")
	s.False(ok)
}

func (s *StoreSuite) TestMutateErrorAborts() {
	s.Require().NoError(s.store.Insert(s.newProfile("alice")))
	snap, gen := s.store.Snapshot()
	s.store.ClearDirty(gen)

	boom := errors.New("boom")
	_, err := s.store.Mutate("alice", func(p *model.Profile) error {
		p.Stats.Coins += 999
		return boom
	})
	s.ErrorIs(err, boom)

	got, _ := s.store.FindByID("alice")
	s.Equal(snap[0].Stats.Coins, got.Stats.Coins)
	s.False(s.store.IsDirty())
}

func (s *StoreSuite) TestSnapshotPreservesInsertionOrder() {
	for _, id := range []model.ProfileID{"charlie", "alice", "bob"} {
		s.Require().NoError(s.store.Insert(s.newProfile(id)))
	}

	snap, _ := s.store.Snapshot()
	s.Require().Len(snap, 3)
	s.Equal(model.ProfileID("charlie"), snap[0].ID)
	s.Equal(model.ProfileID("alice"), snap[1].ID)
	s.Equal(model.ProfileID("bob"), snap[2].ID)
}

func (s *StoreSuite) TestSnapshotIsIsolated() {
	s.Require().NoError(s.store.Insert(s.newProfile("alice")))

	snap, _ := s.store.Snapshot()
	snap[0].Stats.Coins = 999999

	got, _ := s.store.FindByID("alice")
	s.Equal(100, got.Stats.Coins)
}

func (s *StoreSuite) TestDirtyCycle() {
	s.False(s.store.IsDirty())

	s.Require().NoError(s.store.Insert(s.newProfile("alice")))
	s.True(s.store.IsDirty())

	_, gen := s.store.Snapshot()
	s.store.ClearDirty(gen)
	s.False(s.store.IsDirty())

	_, err := s.store.Mutate("alice", func(p *model.Profile) error {
		p.Stats.Coins += 1
		return nil
	})
	s.Require().NoError(err)
	s.True(s.store.IsDirty())
}

func (s *StoreSuite) TestClearDirtyIgnoresStaleGeneration() {
	s.Require().NoError(s.store.Insert(s.newProfile("alice")))
	_, gen := s.store.Snapshot()

	// A mutation after the snapshot must keep the store dirty even if
	// the older save completes afterwards.
	_, err := s.store.Mutate("alice", func(p *model.Profile) error {
		p.Stats.Coins += 1
		return nil
	})
	s.Require().NoError(err)

	s.store.ClearDirty(gen)
	s.True(s.store.IsDirty())
}

func (s *StoreSuite) TestReplace() {
	s.Require().NoError(s.store.Insert(s.newProfile("old")))

	loaded := []model.Profile{
		s.newProfile("alice"),
		s.newProfile("bob"),
		s.newProfile("ALICE"), // duplicate, dropped
		s.newProfile(" "),     // empty id, dropped
	}
	s.store.Replace(loaded)

	s.Equal(2, s.store.Len())
	_, ok := s.store.FindByID("old")
	s.False(ok)
	_, ok = s.store.FindByID("alice")
	s.True(ok)
	s.False(s.store.IsDirty())
}

func (s *StoreSuite) TestReplaceRepairsLoadedRecords() {
	// Externally edited save files can carry records that no mutation
	// path would produce; loading repairs them rather than rejecting.
	p := s.newProfile("alice")
	p.LastActiveAt = p.CreatedAt.Add(-48 * time.Hour)
	p.Stats.Happiness = 900

	s.store.Replace([]model.Profile{p})

	got, ok := s.store.FindByID("alice")
	s.Require().True(ok)
	s.Equal(got.CreatedAt, got.LastActiveAt)
	s.Equal(model.MeterCeiling, got.Stats.Happiness)
	s.False(s.store.IsDirty())
}
