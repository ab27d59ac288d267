// internal/model/customer.go
package model

import "fmt"

// Customer is a persisted customer row. ID zero means "not yet assigned".
type Customer struct {
	ID   int    `db:"id" json:"id" example:"1"`
	Name string `db:"name" json:"name" example:"Alice"`
}

func (c Customer) String() string {
	return fmt.Sprintf("Customer[id=%d, name=%s]", c.ID, c.Name)
}
