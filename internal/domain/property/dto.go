package property

import (
	"encoding/json"
	"strings"
)

// StringList decodes either a JSON array of strings or a comma separated
// string ("wifi, parking").
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*l = cleanList(arr)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = cleanList(strings.Split(s, ","))
	return nil
}

func cleanList(in []string) StringList {
	out := make(StringList, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// CreateRequest describes a new listing. Name is accepted as an alias of Title.
type CreateRequest struct {
	Title        string     `json:"title" validate:"required,max=200"`
	Name         string     `json:"name"`
	Description  string     `json:"description" validate:"max=5000"`
	Address      string     `json:"address" validate:"required,max=255"`
	City         string     `json:"city" validate:"required,max=100"`
	State        string     `json:"state" validate:"max=100"`
	ZipCode      string     `json:"zip_code" validate:"max=20"`
	UnitNumber   string     `json:"unit_number" validate:"max=40"`
	Price        float64    `json:"price" validate:"gt=0"`
	Bedrooms     int        `json:"bedrooms" validate:"gte=0,lte=100"`
	Bathrooms    int        `json:"bathrooms" validate:"gte=0,lte=100"`
	SquareFeet   int        `json:"square_feet" validate:"gte=0"`
	PropertyType string     `json:"property_type" validate:"max=40"`
	Amenities    StringList `json:"amenities"`
	ImageURL     string     `json:"image_url" validate:"max=512"`
	Images       StringList `json:"images"`
}

func (r *CreateRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		r.Title = strings.TrimSpace(r.Name)
	}
	r.Address = strings.TrimSpace(r.Address)
	r.City = strings.TrimSpace(r.City)
	r.State = strings.TrimSpace(r.State)
	r.PropertyType = strings.ToLower(strings.TrimSpace(r.PropertyType))
	if r.ImageURL == "" && len(r.Images) > 0 {
		r.ImageURL = r.Images[0]
	}
}

// UpdateRequest edits descriptive fields. Status is never changed here.
type UpdateRequest struct {
	Title        *string     `json:"title" validate:"omitempty,min=1,max=200"`
	Name         *string     `json:"name"`
	Description  *string     `json:"description" validate:"omitempty,max=5000"`
	Address      *string     `json:"address" validate:"omitempty,min=1,max=255"`
	City         *string     `json:"city" validate:"omitempty,min=1,max=100"`
	State        *string     `json:"state" validate:"omitempty,max=100"`
	ZipCode      *string     `json:"zip_code" validate:"omitempty,max=20"`
	UnitNumber   *string     `json:"unit_number" validate:"omitempty,max=40"`
	Price        *float64    `json:"price" validate:"omitempty,gt=0"`
	Bedrooms     *int        `json:"bedrooms" validate:"omitempty,gte=0,lte=100"`
	Bathrooms    *int        `json:"bathrooms" validate:"omitempty,gte=0,lte=100"`
	SquareFeet   *int        `json:"square_feet" validate:"omitempty,gte=0"`
	PropertyType *string     `json:"property_type" validate:"omitempty,max=40"`
	Amenities    *StringList `json:"amenities"`
	ImageURL     *string     `json:"image_url" validate:"omitempty,max=512"`
	Images       *StringList `json:"images"`
}

func (r *UpdateRequest) normalize() {
	if r.Title == nil && r.Name != nil {
		r.Title = r.Name
	}
}

func (r *UpdateRequest) fields() map[string]any {
	fields := map[string]any{}
	setString := func(col string, v *string) {
		if v != nil {
			fields[col] = strings.TrimSpace(*v)
		}
	}
	setString("title", r.Title)
	setString("description", r.Description)
	setString("address", r.Address)
	setString("city", r.City)
	setString("state", r.State)
	setString("zip_code", r.ZipCode)
	setString("unit_number", r.UnitNumber)
	setString("image_url", r.ImageURL)
	if r.PropertyType != nil {
		fields["property_type"] = strings.ToLower(strings.TrimSpace(*r.PropertyType))
	}
	if r.Price != nil {
		fields["price"] = *r.Price
	}
	if r.Bedrooms != nil {
		fields["bedrooms"] = *r.Bedrooms
	}
	if r.Bathrooms != nil {
		fields["bathrooms"] = *r.Bathrooms
	}
	if r.SquareFeet != nil {
		fields["square_feet"] = *r.SquareFeet
	}
	if r.Amenities != nil {
		fields["amenities"] = toJSONSlice(*r.Amenities)
	}
	if r.Images != nil {
		fields["images"] = toJSONSlice(*r.Images)
	}
	return fields
}

// DecisionRequest is the admin approve/reject body.
type DecisionRequest struct {
	Action  string `json:"action"`
	Comment string `json:"comment" validate:"max=500"`
}

// Filters narrows listing queries. Zero values are ignored.
type Filters struct {
	City         string
	MinPrice     float64
	MaxPrice     float64
	PropertyType string
	Bedrooms     int
	Status       Status
	OwnerID      int64
	// PublicOnly restricts results to publicly listable properties.
	PublicOnly bool
	Limit      int
	Offset     int
}

type StatusCount struct {
	Status Status `json:"status"`
	Count  int64  `json:"count"`
}
