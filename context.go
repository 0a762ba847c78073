package carbon

import "context"

type accountKey struct{}

// WithAccount returns a context carrying the authenticated caller identity.
// Authentication happens before this call; the ledger trusts the value.
func WithAccount(ctx context.Context, account string) context.Context {
	return context.WithValue(ctx, accountKey{}, account)
}

// AccountFrom returns the caller identity stored by WithAccount.
func AccountFrom(ctx context.Context) (string, error) {
	if v, ok := ctx.Value(accountKey{}).(string); ok && v != "" {
		return v, nil
	}
	return "", ErrNoAccount
}
