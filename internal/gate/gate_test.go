package gate

import (
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "leasehold/pkg/domain-errors"
)

type GateSuite struct {
	suite.Suite
	gate *Gate
}

func (s *GateSuite) SetupTest() {
	s.gate = New("admin")
}

func TestGateSuite(t *testing.T) {
	suite.Run(t, new(GateSuite))
}

func (s *GateSuite) TestAdminCheck() {
	s.Run("accepts the administrator", func() {
		s.NoError(s.gate.RequireAdmin("admin"))
	})

	s.Run("rejects everyone else", func() {
		err := s.gate.RequireAdmin("mallory")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("rejects the no-owner sentinel", func() {
		err := s.gate.RequireAdmin("")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *GateSuite) TestTransferAdmin() {
	s.Run("hands the role to the successor", func() {
		s.Require().NoError(s.gate.TransferAdmin("admin", "successor"))
		s.NoError(s.gate.RequireAdmin("successor"))
		s.Error(s.gate.RequireAdmin("admin"))
	})

	s.Run("only the administrator may transfer", func() {
		err := s.gate.TransferAdmin("mallory", "mallory")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("rejects an empty successor", func() {
		err := s.gate.TransferAdmin("admin", "")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *GateSuite) TestPauseFlag() {
	s.Run("administrator toggles pause", func() {
		s.Require().NoError(s.gate.Pause("admin"))
		s.True(s.gate.Paused())
		s.True(dErrors.HasCode(s.gate.RequireRunning(), dErrors.CodePaused))

		s.Require().NoError(s.gate.Unpause("admin"))
		s.False(s.gate.Paused())
		s.NoError(s.gate.RequireRunning())
	})

	s.Run("non-administrator cannot pause", func() {
		err := s.gate.Pause("mallory")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
		s.False(s.gate.Paused())
	})
}

func (s *GateSuite) TestReentrancyGuard() {
	s.Run("nested acquisition fails immediately", func() {
		release, err := s.gate.Enter()
		s.Require().NoError(err)

		_, err = s.gate.Enter()
		s.True(dErrors.HasCode(err, dErrors.CodeReentrant))

		release()
	})

	s.Run("release frees the guard", func() {
		release, err := s.gate.Enter()
		s.Require().NoError(err)
		release()

		release, err = s.gate.Enter()
		s.Require().NoError(err)
		release()
	})
}
