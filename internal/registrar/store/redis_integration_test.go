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

type RedisStoreSuite struct {
	suite.Suite
	container *containers.RedisContainer
	store     *Redis
	ctx       context.Context
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.container = containers.NewRedisContainer(s.T())
	s.store = NewRedis(s.container.Client)
	s.ctx = context.Background()
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.container.FlushAll(s.ctx))
}

func (s *RedisStoreSuite) node(b byte) domain.NameID {
	var n domain.NameID
	n[0] = b
	return n
}

func (s *RedisStoreSuite) TestLeases() {
	now := time.Now().UTC().Truncate(time.Second)

	s.Run("stores and retrieves a lease", func() {
		lease := models.Lease{NameID: s.node(1), StartTime: now, EndTime: now.Add(time.Hour)}
		s.Require().NoError(s.store.PutLease(s.ctx, lease))

		found, err := s.store.GetLease(s.ctx, s.node(1))
		s.Require().NoError(err)
		s.Equal(lease, found)
	})

	s.Run("overwrites the previous lease for a node", func() {
		first := models.Lease{NameID: s.node(2), StartTime: now, EndTime: now.Add(time.Hour)}
		second := models.Lease{NameID: s.node(2), StartTime: now.Add(2 * time.Hour), EndTime: now.Add(3 * time.Hour)}
		s.Require().NoError(s.store.PutLease(s.ctx, first))
		s.Require().NoError(s.store.PutLease(s.ctx, second))

		found, err := s.store.GetLease(s.ctx, s.node(2))
		s.Require().NoError(err)
		s.Equal(second, found)
	})

	s.Run("returns ErrNotFound for an unknown node", func() {
		_, err := s.store.GetLease(s.ctx, s.node(9))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *RedisStoreSuite) TestTokenBindings() {
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

	s.Run("binding survives lease overwrite", func() {
		now := time.Now().UTC().Truncate(time.Second)
		s.Require().NoError(s.store.BindTokenID(s.ctx, s.node(3), 4))
		s.Require().NoError(s.store.PutLease(s.ctx, models.Lease{NameID: s.node(3), StartTime: now, EndTime: now.Add(time.Hour)}))
		s.Require().NoError(s.store.PutLease(s.ctx, models.Lease{NameID: s.node(3), StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour)}))

		id, err := s.store.TokenID(s.ctx, s.node(3))
		s.Require().NoError(err)
		s.Equal(domain.TokenID(4), id)
	})
}
