package service

import (
	"context"

	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/apierror"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/model"
	"github.com/PetFamily2/STAMPIX-APP-sub000/internal/repository"
)

// IdentityResolver maps the opaque auth subject carried in a verified token to
// the canonical User record. It is the first step of every operation — there
// is no caching, because a user can be deactivated between requests.
type IdentityResolver interface {
	Resolve(ctx context.Context, subject string) (*model.User, error)
}

type identityResolver struct {
	users repository.UserRepository
}

func NewIdentityResolver(users repository.UserRepository) IdentityResolver {
	return &identityResolver{users: users}
}

func (r *identityResolver) Resolve(ctx context.Context, subject string) (*model.User, error) {
	if subject == "" {
		return nil, apierror.E(apierror.CodeNotAuthenticated)
	}
	u, err := r.users.FindBySubject(ctx, subject)
	if err != nil || !u.Active {
		// Covers the mid-signup race: a valid credential whose profile row
		// does not exist yet.
		return nil, apierror.E(apierror.CodeUserNotFound)
	}
	return u, nil
}
