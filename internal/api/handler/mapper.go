package handler

import (
	"time"

	"github.com/catregistry/cat-api/internal/core/domain"
	"github.com/catregistry/cat-api/internal/core/ports"
)

const dateLayout = "2006-01-02"

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, UserName: u.Name, Email: u.Email}
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

func toCatResponse(cat *domain.Cat) catResponse {
	resp := catResponse{
		ID:       cat.ID,
		Name:     cat.Name,
		Weight:   cat.Weight,
		Filename: cat.Filename,
		Location: locationResponse{Lat: cat.Location.Lat, Lon: cat.Location.Lon},
	}
	if !cat.Birthdate.IsZero() {
		resp.Birthdate = cat.Birthdate.Format(dateLayout)
	}
	switch {
	case cat.Owner != nil:
		resp.Owner = toUserResponse(cat.Owner)
	case cat.OwnerID != "":
		resp.Owner = cat.OwnerID
	}
	return resp
}

func toCatResponses(cats []*domain.Cat) []catResponse {
	out := make([]catResponse, 0, len(cats))
	for _, cat := range cats {
		out = append(out, toCatResponse(cat))
	}
	return out
}

// parseDate accepts the already validated YYYY-MM-DD form; empty means unset.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func toLocation(l *locationRequest) domain.Location {
	return domain.Location{Lat: *l.Lat, Lon: *l.Lon}
}

func toCreateCatInput(req createCatRequest) ports.CreateCatInput {
	return ports.CreateCatInput{
		Name:      req.Name,
		Weight:    req.Weight,
		Filename:  req.Filename,
		Birthdate: parseDate(req.Birthdate),
		Location:  toLocation(req.Location),
	}
}

func toCatPatch(req updateCatRequest) domain.CatPatch {
	patch := domain.CatPatch{
		Name:     req.Name,
		Weight:   req.Weight,
		Filename: req.Filename,
		OwnerID:  req.Owner,
	}
	if req.Birthdate != nil {
		t := parseDate(*req.Birthdate)
		patch.Birthdate = &t
	}
	if req.Location != nil {
		loc := toLocation(req.Location)
		patch.Location = &loc
	}
	return patch
}

func toUpdateUserInput(req updateUserRequest) ports.UpdateUserInput {
	return ports.UpdateUserInput{
		Name:     req.UserName,
		Email:    req.Email,
		Password: req.Password,
	}
}
