package bits

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/krazyTry/mellow-bits/bits/shared"
)

// Authorizer gates every administrative call.
type Authorizer interface {
	Authorize(ctx context.Context, caller common.Address, action shared.Action) error
}

type AuthorizerFunc func(ctx context.Context, caller common.Address, action shared.Action) error

func (f AuthorizerFunc) Authorize(ctx context.Context, caller common.Address, action shared.Action) error {
	return f(ctx, caller, action)
}

// OwnerOnly allows every action to owner and nothing to anyone else.
func OwnerOnly(owner common.Address) Authorizer {
	return AuthorizerFunc(func(_ context.Context, caller common.Address, action shared.Action) error {
		if caller != owner {
			return fmt.Errorf("%w: %s cannot %s", ErrUnauthorized, caller.Hex(), action)
		}
		return nil
	})
}
