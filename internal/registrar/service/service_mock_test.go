package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"leasehold/internal/gate"
	"leasehold/internal/namehash"
	"leasehold/internal/registrar/service"
	"leasehold/internal/registrar/service/mocks"
	"leasehold/internal/registrar/store"
	"leasehold/internal/token"
	"leasehold/internal/treasury"
	"leasehold/pkg/domain"
	dErrors "leasehold/pkg/domain-errors"
)

func newMockedService(reg service.RegistryClient) (*service.Service, *store.InMemory) {
	st := store.NewInMemory()
	parent := namehash.Derive(domain.NameID{}, "leasehold")
	svc := service.New(
		parent, self, leaseDuration,
		st, token.NewIssuer(), reg,
		gate.New(admin), treasury.New(fee),
		service.WithClock(func() time.Time {
			return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		}),
	)
	return svc, st
}

func TestRegisterWhenOwnerQueryFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := mocks.NewMockRegistryClient(ctrl)
	reg.EXPECT().
		OwnerOf(gomock.Any(), gomock.Any()).
		Return(domain.Nobody, errors.New("registry unreachable"))

	svc, st := newMockedService(reg)

	_, err := svc.Register(context.Background(), "alice", fee, alice)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeRegistryFailure))

	// No bind was attempted (no expectation set) and nothing was stored.
	_, err = st.GetLease(context.Background(), namehash.Derive(namehash.Derive(domain.NameID{}, "leasehold"), "alice"))
	assert.Error(t, err)
}

func TestRegisterBindsBeforeCommit(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := mocks.NewMockRegistryClient(ctrl)

	parent := namehash.Derive(domain.NameID{}, "leasehold")
	node := namehash.Derive(parent, "alice")

	gomock.InOrder(
		reg.EXPECT().OwnerOf(gomock.Any(), node).Return(domain.Nobody, nil),
		reg.EXPECT().BindLabel(gomock.Any(), parent, namehash.LabelHash("alice"), self).Return(nil),
	)

	svc, st := newMockedService(reg)

	regResult, err := svc.Register(context.Background(), "alice", fee, alice)
	require.NoError(t, err)
	assert.Equal(t, domain.TokenID(1), regResult.TokenID)

	lease, err := st.GetLease(context.Background(), node)
	require.NoError(t, err)
	assert.Equal(t, regResult.Lease, lease)
}

func TestRenewWhenOwnerQueryFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := mocks.NewMockRegistryClient(ctrl)
	reg.EXPECT().
		OwnerOf(gomock.Any(), gomock.Any()).
		Return(domain.Nobody, errors.New("registry unreachable"))

	svc, _ := newMockedService(reg)

	_, err := svc.Renew(context.Background(), "alice", fee, alice)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeRegistryFailure))
}

func TestTransferNamespaceDelegatesToRegistry(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := mocks.NewMockRegistryClient(ctrl)

	parent := namehash.Derive(domain.NameID{}, "leasehold")
	reg.EXPECT().SetNamespaceOwner(gomock.Any(), parent, domain.Identity("successor")).Return(nil)

	svc, _ := newMockedService(reg)
	require.NoError(t, svc.TransferNamespace(context.Background(), admin, "successor"))
}
