package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	ErrCatNotFound = errors.New("cat not found")
	ErrForbidden   = errors.New("access forbidden")
	ErrInvalidArea = errors.New("invalid bounding box")

	ErrNotCatOwner   = fmt.Errorf("%w: only the owner can modify this cat", ErrForbidden)
	ErrAdminRequired = fmt.Errorf("%w: admin role required", ErrForbidden)
)

// Location is a geographic point in decimal degrees.
type Location struct {
	Lat float64
	Lon float64
}

// Cat is a cat record. OwnerID is always the id of the user who created it
// (or whoever an admin reassigned it to). Owner is only set when the owner
// has been expanded by the persistence layer.
type Cat struct {
	ID        string
	Name      string
	Weight    float64
	Filename  string
	Birthdate time.Time
	Location  Location
	OwnerID   string
	Owner     *User
}

// CatPatch carries replacement values for a cat. Nil fields are left
// untouched. OwnerID is honoured only on the administrative path.
type CatPatch struct {
	Name      *string
	Weight    *float64
	Filename  *string
	Birthdate *time.Time
	Location  *Location
	OwnerID   *string
}

// IsEmpty reports whether the patch changes nothing.
func (p CatPatch) IsEmpty() bool {
	return p.Name == nil && p.Weight == nil && p.Filename == nil &&
		p.Birthdate == nil && p.Location == nil && p.OwnerID == nil
}

// BoundingBox is an axis-aligned lat/lon rectangle. Edges are inclusive.
type BoundingBox struct {
	BottomLeft Location
	TopRight   Location
}

// ParseBoundingBox builds a box from two "lat,lon" strings. Corners given in
// the wrong order are normalised so BottomLeft holds the minimums.
func ParseBoundingBox(bottomLeft, topRight string) (BoundingBox, error) {
	bl, err := ParseLocation(bottomLeft)
	if err != nil {
		return BoundingBox{}, fmt.Errorf("bottomLeft: %w", err)
	}
	tr, err := ParseLocation(topRight)
	if err != nil {
		return BoundingBox{}, fmt.Errorf("topRight: %w", err)
	}
	return BoundingBox{
		BottomLeft: Location{Lat: math.Min(bl.Lat, tr.Lat), Lon: math.Min(bl.Lon, tr.Lon)},
		TopRight:   Location{Lat: math.Max(bl.Lat, tr.Lat), Lon: math.Max(bl.Lon, tr.Lon)},
	}, nil
}

// ParseLocation parses a "lat,lon" pair.
func ParseLocation(s string) (Location, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Location{}, ErrInvalidArea
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || math.IsNaN(lat) || lat < -90 || lat > 90 {
		return Location{}, ErrInvalidArea
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || math.IsNaN(lon) || lon < -180 || lon > 180 {
		return Location{}, ErrInvalidArea
	}
	return Location{Lat: lat, Lon: lon}, nil
}
