package middleware

import (
	"fmt"

	"github.com/Tiann-Paete/website-Nars-School-Supplies/internal/auth"
)

// Mid bundles the dependencies the route middleware needs.
type Mid struct {
	keys *auth.Keys
}

func NewMid(keys *auth.Keys) (*Mid, error) {
	if keys == nil {
		return nil, fmt.Errorf("auth keys are nil")
	}
	return &Mid{keys: keys}, nil
}
