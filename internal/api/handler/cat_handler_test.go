package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catregistry/cat-api/internal/core/domain"
	"github.com/catregistry/cat-api/internal/core/ports"
)

func sampleCat() *domain.Cat {
	return &domain.Cat{
		ID:        catID,
		Name:      "Tom",
		Weight:    4.2,
		Filename:  "tom.jpg",
		Birthdate: time.Date(2020, 5, 17, 0, 0, 0, 0, time.UTC),
		Location:  domain.Location{Lat: 60.2, Lon: 24.9},
		OwnerID:   ownerID,
	}
}

func TestCatHandler_Create_IgnoresClientOwner(t *testing.T) {
	var gotActor domain.Identity
	var gotInput ports.CreateCatInput
	stub := &stubCatService{
		createFn: func(ctx context.Context, actor domain.Identity, in ports.CreateCatInput) (*domain.Cat, error) {
			gotActor, gotInput = actor, in
			cat := sampleCat()
			cat.OwnerID = actor.UserID
			return cat, nil
		},
	}
	h := NewCatHandler(stub)

	c, rec := newContext(requestOpts{
		method:   http.MethodPost,
		target:   "/cats",
		body:     `{"cat_name":"Tom","weight":4.2,"birthdate":"2020-05-17","location":{"lat":60.2,"lon":24.9},"owner":"` + catID + `"}`,
		identity: &owner,
	})
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, ownerID, gotActor.UserID)
	assert.Equal(t, "Tom", gotInput.Name)
	assert.Equal(t, domain.Location{Lat: 60.2, Lon: 24.9}, gotInput.Location)
	assert.Equal(t, time.Date(2020, 5, 17, 0, 0, 0, 0, time.UTC), gotInput.Birthdate)

	var resp struct {
		Message string         `json:"message"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Cat created", resp.Message)
	assert.Equal(t, ownerID, resp.Data["owner"])
	assert.Equal(t, "2020-05-17", resp.Data["birthdate"])
}

func TestCatHandler_Create_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing name and location", `{"weight":1}`, "is required: cat_name, is required: location"},
		{"latitude out of range", `{"cat_name":"Tom","location":{"lat":91,"lon":0}}`, "must be at most 90: location.lat"},
		{"bad birthdate", `{"cat_name":"Tom","birthdate":"17.5.2020","location":{"lat":0,"lon":0}}`, "must be a date formatted 2006-01-02: birthdate"},
	}
	h := NewCatHandler(&stubCatService{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContext(requestOpts{method: http.MethodPost, target: "/cats", body: tt.body, identity: &owner})
			he := expectHTTPError(t, h.Create(c), http.StatusBadRequest)
			assert.Equal(t, tt.want, he.Message)
		})
	}
}

func TestCatHandler_List_ExpandsOwner(t *testing.T) {
	stub := &stubCatService{
		listFn: func(ctx context.Context) ([]*domain.Cat, error) {
			cat := sampleCat()
			cat.Owner = &domain.User{ID: ownerID, Name: "Ann Lee", Email: "ann@example.com", Role: domain.RoleAdmin, PasswordHash: "$2a$hash"}
			return []*domain.Cat{cat}, nil
		},
	}
	h := NewCatHandler(stub)

	c, rec := newContext(requestOpts{method: http.MethodGet, target: "/cats"})
	require.NoError(t, h.List(c))

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, map[string]any{"_id": ownerID, "user_name": "Ann Lee", "email": "ann@example.com"}, resp[0]["owner"])
}

func TestCatHandler_ListInArea(t *testing.T) {
	var gotBox domain.BoundingBox
	stub := &stubCatService{
		listInAreaFn: func(ctx context.Context, box domain.BoundingBox) ([]*domain.Cat, error) {
			gotBox = box
			return []*domain.Cat{sampleCat()}, nil
		},
	}
	h := NewCatHandler(stub)

	t.Run("valid box", func(t *testing.T) {
		c, rec := newContext(requestOpts{method: http.MethodGet, target: "/cats/area?topRight=61,25&bottomLeft=60,24"})
		require.NoError(t, h.ListInArea(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, domain.Location{Lat: 60, Lon: 24}, gotBox.BottomLeft)
		assert.Equal(t, domain.Location{Lat: 61, Lon: 25}, gotBox.TopRight)
	})

	t.Run("missing corner", func(t *testing.T) {
		c, _ := newContext(requestOpts{method: http.MethodGet, target: "/cats/area?topRight=61,25"})
		he := expectHTTPError(t, h.ListInArea(c), http.StatusBadRequest)
		assert.Equal(t, "is required: bottomLeft", he.Message)
	})

	t.Run("malformed corner", func(t *testing.T) {
		c, _ := newContext(requestOpts{method: http.MethodGet, target: "/cats/area?topRight=north&bottomLeft=60,24"})
		assert.ErrorIs(t, h.ListInArea(c), domain.ErrInvalidArea)
	})
}

func TestCatHandler_ListMine(t *testing.T) {
	stub := &stubCatService{
		listByOwnerFn: func(ctx context.Context, actor domain.Identity) ([]*domain.Cat, error) {
			assert.Equal(t, ownerID, actor.UserID)
			return []*domain.Cat{}, nil
		},
	}
	h := NewCatHandler(stub)

	c, rec := newContext(requestOpts{method: http.MethodGet, target: "/cats/mycats", identity: &owner})
	require.NoError(t, h.ListMine(c))
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCatHandler_Update(t *testing.T) {
	var gotPatch domain.CatPatch
	stub := &stubCatService{
		updateFn: func(ctx context.Context, actor domain.Identity, id string, patch domain.CatPatch) (*domain.Cat, error) {
			assert.Equal(t, catID, id)
			gotPatch = patch
			cat := sampleCat()
			cat.Weight = *patch.Weight
			return cat, nil
		},
	}
	h := NewCatHandler(stub)

	c, rec := newContext(requestOpts{
		method:   http.MethodPut,
		target:   "/cats/" + catID,
		body:     `{"weight":5.1}`,
		identity: &owner,
		params:   map[string]string{"id": catID},
	})
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, gotPatch.Name)
	assert.Nil(t, gotPatch.Location)
	assert.InDelta(t, 5.1, *gotPatch.Weight, 1e-9)
}

func TestCatHandler_Update_Forbidden(t *testing.T) {
	stub := &stubCatService{
		updateFn: func(ctx context.Context, actor domain.Identity, id string, patch domain.CatPatch) (*domain.Cat, error) {
			return nil, domain.ErrNotCatOwner
		},
	}
	h := NewCatHandler(stub)

	c, _ := newContext(requestOpts{
		method:   http.MethodPut,
		target:   "/cats/" + catID,
		body:     `{"cat_name":"Jerry"}`,
		identity: &owner,
		params:   map[string]string{"id": catID},
	})
	assert.ErrorIs(t, h.Update(c), domain.ErrForbidden)
}

func TestCatHandler_UpdateAsAdmin_PassesOwner(t *testing.T) {
	newOwner := "64b7f0a1c2d3e4f5a6b7c8ff"
	stub := &stubCatService{
		updateAsAdminFn: func(ctx context.Context, actor domain.Identity, id string, patch domain.CatPatch) (*domain.Cat, error) {
			require.NotNil(t, patch.OwnerID)
			cat := sampleCat()
			cat.OwnerID = *patch.OwnerID
			return cat, nil
		},
	}
	h := NewCatHandler(stub)

	admin := domain.Identity{UserID: catID, Role: domain.RoleAdmin}
	c, rec := newContext(requestOpts{
		method:   http.MethodPut,
		target:   "/cats/admin/" + catID,
		body:     `{"owner":"` + newOwner + `"}`,
		identity: &admin,
		params:   map[string]string{"id": catID},
	})
	require.NoError(t, h.UpdateAsAdmin(c))
	assert.Contains(t, rec.Body.String(), newOwner)
}

func TestCatHandler_Delete(t *testing.T) {
	stub := &stubCatService{
		deleteFn: func(ctx context.Context, actor domain.Identity, id string) (*domain.Cat, error) {
			if id != catID {
				return nil, domain.ErrCatNotFound
			}
			return sampleCat(), nil
		},
		deleteAsAdminFn: func(ctx context.Context, actor domain.Identity, id string) (*domain.Cat, error) {
			return nil, errors.New("server selection timeout")
		},
	}
	h := NewCatHandler(stub)

	t.Run("owner", func(t *testing.T) {
		c, rec := newContext(requestOpts{
			method:   http.MethodDelete,
			target:   "/cats/" + catID,
			identity: &owner,
			params:   map[string]string{"id": catID},
		})
		require.NoError(t, h.Delete(c))
		assert.Contains(t, rec.Body.String(), `"message":"Cat deleted"`)
	})

	t.Run("not found", func(t *testing.T) {
		other := "64b7f0a1c2d3e4f5a6b7c8aa"
		c, _ := newContext(requestOpts{
			method:   http.MethodDelete,
			target:   "/cats/" + other,
			identity: &owner,
			params:   map[string]string{"id": other},
		})
		assert.ErrorIs(t, h.Delete(c), domain.ErrCatNotFound)
	})

	t.Run("admin store failure", func(t *testing.T) {
		c, _ := newContext(requestOpts{
			method:   http.MethodDelete,
			target:   "/cats/admin/" + catID,
			identity: &owner,
			params:   map[string]string{"id": catID},
		})
		var opErr *OperationError
		require.ErrorAs(t, h.DeleteAsAdmin(c), &opErr)
		assert.Equal(t, "Error while deleting cat", opErr.Message)
	})
}
