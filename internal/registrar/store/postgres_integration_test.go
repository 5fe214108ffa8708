//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"leasehold/internal/registrar/models"
	"leasehold/pkg/domain"
	"leasehold/pkg/platform/sentinel"
	"leasehold/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	container *containers.PostgresContainer
	store     *Postgres
	ctx       context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.container = containers.NewPostgresContainer(s.T())
	s.store = NewPostgres(s.container.Pool)
	s.Require().NoError(s.store.EnsureSchema(s.ctx))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.container.TruncateAll(s.ctx))
}

func (s *PostgresStoreSuite) node(b byte) domain.NameID {
	var n domain.NameID
	n[0] = b
	return n
}

func (s *PostgresStoreSuite) TestLeases() {
	now := time.Now().UTC().Truncate(time.Microsecond)

	s.Run("stores and retrieves a lease", func() {
		lease := models.Lease{NameID: s.node(1), StartTime: now, EndTime: now.Add(time.Hour)}
		s.Require().NoError(s.store.PutLease(s.ctx, lease))

		found, err := s.store.GetLease(s.ctx, s.node(1))
		s.Require().NoError(err)
		s.Equal(lease.NameID, found.NameID)
		s.True(lease.StartTime.Equal(found.StartTime))
		s.True(lease.EndTime.Equal(found.EndTime))
	})

	s.Run("overwrites the previous lease for a node", func() {
		first := models.Lease{NameID: s.node(2), StartTime: now, EndTime: now.Add(time.Hour)}
		second := models.Lease{NameID: s.node(2), StartTime: now.Add(2 * time.Hour), EndTime: now.Add(3 * time.Hour)}
		s.Require().NoError(s.store.PutLease(s.ctx, first))
		s.Require().NoError(s.store.PutLease(s.ctx, second))

		found, err := s.store.GetLease(s.ctx, s.node(2))
		s.Require().NoError(err)
		s.True(second.EndTime.Equal(found.EndTime))
	})

	s.Run("returns ErrNotFound for an unknown node", func() {
		_, err := s.store.GetLease(s.ctx, s.node(9))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *PostgresStoreSuite) TestTokenBindings() {
	now := time.Now().UTC().Truncate(time.Microsecond)

	s.Run("binds and retrieves a token id", func() {
		s.Require().NoError(s.store.BindTokenID(s.ctx, s.node(1), 7))

		id, err := s.store.TokenID(s.ctx, s.node(1))
		s.Require().NoError(err)
		s.Equal(domain.TokenID(7), id)
	})

	s.Run("returns ErrNotFound for an unbound node", func() {
		_, err := s.store.TokenID(s.ctx, s.node(9))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("token-only row is not a lease", func() {
		s.Require().NoError(s.store.BindTokenID(s.ctx, s.node(2), 3))

		_, err := s.store.GetLease(s.ctx, s.node(2))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("binding survives lease overwrite", func() {
		s.Require().NoError(s.store.BindTokenID(s.ctx, s.node(3), 4))
		s.Require().NoError(s.store.PutLease(s.ctx, models.Lease{NameID: s.node(3), StartTime: now, EndTime: now.Add(time.Hour)}))
		s.Require().NoError(s.store.PutLease(s.ctx, models.Lease{NameID: s.node(3), StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour)}))

		id, err := s.store.TokenID(s.ctx, s.node(3))
		s.Require().NoError(err)
		s.Equal(domain.TokenID(4), id)
	})

	s.Run("lease then binding keeps both", func() {
		s.Require().NoError(s.store.PutLease(s.ctx, models.Lease{NameID: s.node(4), StartTime: now, EndTime: now.Add(time.Hour)}))
		s.Require().NoError(s.store.BindTokenID(s.ctx, s.node(4), 9))

		lease, err := s.store.GetLease(s.ctx, s.node(4))
		s.Require().NoError(err)
		s.True(now.Equal(lease.StartTime))

		id, err := s.store.TokenID(s.ctx, s.node(4))
		s.Require().NoError(err)
		s.Equal(domain.TokenID(9), id)
	})
}
