package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leasehold/internal/namehash"
	"leasehold/pkg/domain"
)

func TestHTTPClientOwnerOf(t *testing.T) {
	var node domain.NameID
	node[0] = 0xab

	t.Run("decodes recorded owner", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/nodes/"+node.Hex()+"/owner", r.URL.Path)
			_ = json.NewEncoder(w).Encode(map[string]string{"owner": "alice"})
		}))
		defer srv.Close()

		owner, err := NewHTTPClient(srv.URL).OwnerOf(context.Background(), node)
		require.NoError(t, err)
		assert.Equal(t, domain.Identity("alice"), owner)
	})

	t.Run("treats 404 as unclaimed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		owner, err := NewHTTPClient(srv.URL).OwnerOf(context.Background(), node)
		require.NoError(t, err)
		assert.True(t, owner.IsZero())
	})

	t.Run("surfaces server errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := NewHTTPClient(srv.URL).OwnerOf(context.Background(), node)
		require.Error(t, err)
	})
}

func TestHTTPClientBindLabel(t *testing.T) {
	var parent domain.NameID
	labelHash := namehash.LabelHash("alice")

	t.Run("posts label hash and owner", func(t *testing.T) {
		var got bindPayload
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/nodes/"+parent.Hex()+"/labels", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()

		err := NewHTTPClient(srv.URL).BindLabel(context.Background(), parent, labelHash, "registrar")
		require.NoError(t, err)
		assert.Equal(t, labelHash.Hex(), got.LabelHash)
		assert.Equal(t, "registrar", got.Owner)
	})

	t.Run("surfaces rejection", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		err := NewHTTPClient(srv.URL).BindLabel(context.Background(), parent, labelHash, "registrar")
		require.Error(t, err)
	})
}

func TestInMemoryAgreesWithNamehash(t *testing.T) {
	var parent domain.NameID
	reg := NewInMemory()

	err := reg.BindLabel(context.Background(), parent, namehash.LabelHash("alice"), "registrar")
	require.NoError(t, err)

	owner, err := reg.OwnerOf(context.Background(), namehash.Derive(parent, "alice"))
	require.NoError(t, err)
	assert.Equal(t, domain.Identity("registrar"), owner)
}
