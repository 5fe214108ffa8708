package token

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"leasehold/pkg/domain"
	dErrors "leasehold/pkg/domain-errors"
)

type IssuerSuite struct {
	suite.Suite
	issuer *Issuer
}

func (s *IssuerSuite) SetupTest() {
	s.issuer = NewIssuer()
}

func TestIssuerSuite(t *testing.T) {
	suite.Run(t, new(IssuerSuite))
}

func (s *IssuerSuite) TestMintIsMonotonic() {
	s.Run("ids start at one and strictly increase", func() {
		first := s.issuer.Mint("alice")
		second := s.issuer.Mint("bob")
		third := s.issuer.Mint("alice")

		s.Equal(domain.TokenID(1), first)
		s.Equal(domain.TokenID(2), second)
		s.Equal(domain.TokenID(3), third)
	})

	s.Run("rebind does not recycle ids", func() {
		id := s.issuer.Mint("carol")
		s.Require().NoError(s.issuer.Rebind(id, "dave"))

		next := s.issuer.Mint("erin")
		s.Greater(next, id)
	})
}

func (s *IssuerSuite) TestOwnership() {
	s.Run("tracks minted owner", func() {
		id := s.issuer.Mint("alice")

		owner, err := s.issuer.OwnerOf(id)
		s.Require().NoError(err)
		s.Equal(domain.Identity("alice"), owner)
	})

	s.Run("unknown token fails", func() {
		_, err := s.issuer.OwnerOf(99)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnknownToken))
	})

	s.Run("rebind replaces owner", func() {
		id := s.issuer.Mint("alice")
		s.Require().NoError(s.issuer.Rebind(id, "bob"))

		owner, err := s.issuer.OwnerOf(id)
		s.Require().NoError(err)
		s.Equal(domain.Identity("bob"), owner)
	})

	s.Run("rebind of unminted token fails", func() {
		err := s.issuer.Rebind(42, "bob")
		s.True(dErrors.HasCode(err, dErrors.CodeUnknownToken))
	})
}

func (s *IssuerSuite) TestTransfer() {
	s.Run("owner may transfer", func() {
		id := s.issuer.Mint("alice")
		s.Require().NoError(s.issuer.Transfer(id, "alice", "bob"))

		owner, err := s.issuer.OwnerOf(id)
		s.Require().NoError(err)
		s.Equal(domain.Identity("bob"), owner)
	})

	s.Run("non-owner may not transfer", func() {
		id := s.issuer.Mint("alice")

		err := s.issuer.Transfer(id, "mallory", "mallory")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

		owner, err := s.issuer.OwnerOf(id)
		s.Require().NoError(err)
		s.Equal(domain.Identity("alice"), owner)
	})
}
