package cargorequest

import "context"

type Repository interface {
	Create(ctx context.Context, req *CargoRequest) error
	GetByID(ctx context.Context, requestID uint) (*CargoRequest, error)
	ListByClient(ctx context.Context, clientID uint) ([]*CargoRequest, error)
	ListAll(ctx context.Context) ([]*CargoRequest, error)
	// Resolve updates the request, applies the follow-up to the cargo item and
	// stores the client notice atomically. It returns the request as resolved.
	Resolve(ctx context.Context, res *Resolution) (*CargoRequest, error)
}
