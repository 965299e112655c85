package handler

// --- Request types ---

type locationRequest struct {
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lon *float64 `json:"lon" validate:"required,gte=-180,lte=180"`
}

// createCatRequest has no owner field; any owner sent by the client is dropped
// during binding.
type createCatRequest struct {
	Name      string           `json:"cat_name"  validate:"required,min=1,max=100"`
	Weight    float64          `json:"weight"    validate:"gte=0"`
	Filename  string           `json:"filename"`
	Birthdate string           `json:"birthdate" validate:"omitempty,datetime=2006-01-02"`
	Location  *locationRequest `json:"location"  validate:"required"`
}

// updateCatRequest serves both update paths. Owner is only honoured on the
// administrative one.
type updateCatRequest struct {
	ID        string           `param:"id"       json:"-"      validate:"required,mongodb"`
	Name      *string          `json:"cat_name"  validate:"omitempty,min=1,max=100"`
	Weight    *float64         `json:"weight"    validate:"omitempty,gte=0"`
	Filename  *string          `json:"filename"`
	Birthdate *string          `json:"birthdate" validate:"omitempty,datetime=2006-01-02"`
	Location  *locationRequest `json:"location"  validate:"omitempty"`
	Owner     *string          `json:"owner"     validate:"omitempty,mongodb"`
}

type areaQuery struct {
	TopRight   string `query:"topRight"   validate:"required"`
	BottomLeft string `query:"bottomLeft" validate:"required"`
}

// --- Response types ---

type locationResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// catResponse.Owner is the owner's id, or a userResponse when the owner was
// expanded.
type catResponse struct {
	ID        string           `json:"_id"`
	Name      string           `json:"cat_name"`
	Weight    float64          `json:"weight"`
	Filename  string           `json:"filename,omitempty"`
	Birthdate string           `json:"birthdate,omitempty"`
	Location  locationResponse `json:"location"`
	Owner     any              `json:"owner,omitempty" swaggertype:"object"`
}

type catMessageResponse struct {
	Message string      `json:"message"`
	Data    catResponse `json:"data"`
}
