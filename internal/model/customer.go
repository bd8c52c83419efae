package model

// DefaultGender is assigned to a new customer when gender was not supplied
const DefaultGender = "Male"

// Customer is customer model entity
type Customer struct {
	ID        string  `json:"id" bson:"_id" msgpack:"id"`
	FirstName *string `json:"firstname" bson:"firstname" msgpack:"firstname"`
	LastName  *string `json:"lastname" bson:"lastname" msgpack:"lastname"`
	Gender    *string `json:"gender" bson:"gender" msgpack:"gender"`
	Email     *string `json:"email" bson:"email" msgpack:"email"`
	Phone     *string `json:"phone" bson:"phone" msgpack:"phone"`
	Address   *string `json:"address" bson:"address" msgpack:"address"`
	City      *string `json:"city" bson:"city" msgpack:"city"`
	State     *string `json:"state" bson:"state" msgpack:"state"`
	Country   *string `json:"country" bson:"country" msgpack:"country"`
	Avatar    *string `json:"avatar" bson:"avatar" msgpack:"avatar"`
}

// CustomerView is the public representation of a customer, gender is never exposed
type CustomerView struct {
	ID        string  `json:"id"`
	FirstName *string `json:"firstname"`
	LastName  *string `json:"lastname"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
	State     *string `json:"state"`
	Country   *string `json:"country"`
	Avatar    *string `json:"avatar"`
}

// View projects customer onto its public fields
func (c *Customer) View() *CustomerView {
	return &CustomerView{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		City:      c.City,
		State:     c.State,
		Country:   c.Country,
		Avatar:    c.Avatar,
	}
}

// Views projects every customer in the slice
func Views(customers []*Customer) []*CustomerView {
	views := make([]*CustomerView, 0, len(customers))
	for _, c := range customers {
		views = append(views, c.View())
	}
	return views
}

// CustomerFilter restricts customers returned from listing
type CustomerFilter struct {
	City *string
}

// CustomerPatch holds fields to be changed on existing customer, unset fields are left untouched
type CustomerPatch struct {
	FirstName OptionalString `json:"firstname"`
	LastName  OptionalString `json:"lastname"`
	Gender    OptionalString `json:"gender"`
	Email     OptionalString `json:"email"`
	Phone     OptionalString `json:"phone"`
	Address   OptionalString `json:"address"`
	City      OptionalString `json:"city"`
	State     OptionalString `json:"state"`
	Country   OptionalString `json:"country"`
	Avatar    OptionalString `json:"avatar"`
}

// PatchField is a single column affected by patch
type PatchField struct {
	Name  string
	Value *string
}

// Fields returns set fields keyed by their storage name in stable order
func (p CustomerPatch) Fields() []PatchField {
	all := []struct {
		name string
		opt  OptionalString
	}{
		{"firstname", p.FirstName},
		{"lastname", p.LastName},
		{"gender", p.Gender},
		{"email", p.Email},
		{"phone", p.Phone},
		{"address", p.Address},
		{"city", p.City},
		{"state", p.State},
		{"country", p.Country},
		{"avatar", p.Avatar},
	}

	fields := make([]PatchField, 0, len(all))
	for _, f := range all {
		if f.opt.Set {
			fields = append(fields, PatchField{Name: f.name, Value: f.opt.Value})
		}
	}
	return fields
}

// CustomerPage is a single page of customers along with total number of customers matching filter
type CustomerPage struct {
	Customers []*Customer
	Count     int
}
