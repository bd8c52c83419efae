// Package customerfakes provides customer fixtures shared by tests of several layers.
package customerfakes

import "github.com/umalmyha/customer-records/internal/model"

// Patched returns copy of customer with patch fields merged in
func Patched(c model.Customer, p model.CustomerPatch) model.Customer {
	for _, f := range p.Fields() {
		var v *string
		if f.Value != nil {
			s := *f.Value
			v = &s
		}

		switch f.Name {
		case "firstname":
			c.FirstName = v
		case "lastname":
			c.LastName = v
		case "gender":
			c.Gender = v
		case "email":
			c.Email = v
		case "phone":
			c.Phone = v
		case "address":
			c.Address = v
		case "city":
			c.City = v
		case "state":
			c.State = v
		case "country":
			c.Country = v
		case "avatar":
			c.Avatar = v
		}
	}
	return c
}
